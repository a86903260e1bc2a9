package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

//go:generate moq -out mocks/completer.go -pkg mocks -skip-ensure -fmt goimports . Completer

// queue errors
var (
	ErrQueueCleared = errors.New("request dropped, queue cleared after failed call")
	ErrQueueClosed  = errors.New("request queue closed")
)

// Completer makes one completion call
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Prober tests api connection with the given settings, Gateway implements it
type Prober interface {
	Probe(ctx context.Context, s domain.Settings) error
}

// Queue serves requests one at a time in FIFO order. Before each call it waits until minInterval
// passed since the previous call completed. A failed call drops every pending request.
type Queue struct {
	gw          Completer
	minInterval time.Duration

	mu       sync.Mutex
	entries  []*queueEntry
	closed   bool
	wake     chan struct{}
	done     chan struct{}
	finished chan struct{}
	lastDone time.Time
}

type queueEntry struct {
	ctx   context.Context
	req   Request
	call  func(ctx context.Context) (string, error) // overrides completion of req if set
	probe bool                                      // failure doesn't drop pending requests
	res   chan queueResult
}

type queueResult struct {
	text string
	err  error
}

// NewQueue makes a queue and starts its worker
func NewQueue(gw Completer, minInterval time.Duration) *Queue {
	q := &Queue{
		gw:          gw,
		minInterval: minInterval,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		finished:    make(chan struct{}),
	}
	go q.worker()
	return q
}

// Do enqueues the request and blocks until it is served or ctx is done
func (q *Queue) Do(ctx context.Context, req Request) (string, error) {
	return q.enqueue(&queueEntry{ctx: ctx, req: req, res: make(chan queueResult, 1)})
}

// Probe runs the gateway connection test in turn with completions, so it keeps the request floor.
// A failed test doesn't drop pending requests.
func (q *Queue) Probe(ctx context.Context, s domain.Settings) error {
	p, ok := q.gw.(Prober)
	if !ok {
		return errors.New("connection test is not supported by gateway")
	}
	_, err := q.enqueue(&queueEntry{ctx: ctx, probe: true, res: make(chan queueResult, 1),
		call: func(ctx context.Context) (string, error) { return "", p.Probe(ctx, s) }})
	return err
}

func (q *Queue) enqueue(e *queueEntry) (string, error) {
	ctx := e.ctx
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return "", ErrQueueClosed
	}
	q.entries = append(q.entries, e)
	log.Printf("[DEBUG] llm request queued, pending %d", len(q.entries))
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	select {
	case r := <-e.res:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending returns number of requests waiting to be served
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close stops the worker, pending requests get ErrQueueClosed
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.done)
	<-q.finished
	q.drain(ErrQueueClosed)
}

func (q *Queue) worker() {
	defer close(q.finished)
	for {
		select {
		case <-q.done:
			return
		default:
		}

		e := q.pop()
		if e == nil {
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}

		if e.ctx.Err() != nil {
			e.res <- queueResult{err: e.ctx.Err()}
			continue
		}

		if !q.lastDone.IsZero() {
			if wait := q.minInterval - time.Since(q.lastDone); wait > 0 {
				log.Printf("[DEBUG] waiting %v before next llm request", wait)
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-q.done:
					timer.Stop()
					e.res <- queueResult{err: ErrQueueClosed}
					return
				case <-e.ctx.Done():
					timer.Stop()
					e.res <- queueResult{err: e.ctx.Err()}
					continue
				}
			}
		}

		text, err := q.serve(e)
		q.lastDone = time.Now()
		e.res <- queueResult{text: text, err: err}
		if err != nil && !e.probe {
			if n := q.drain(ErrQueueCleared); n > 0 {
				log.Printf("[WARN] llm request failed, dropped %d pending requests", n)
			}
		}
	}
}

func (q *Queue) serve(e *queueEntry) (string, error) {
	if e.call != nil {
		return e.call(e.ctx)
	}
	return q.gw.Complete(e.ctx, e.req)
}

// pop removes and returns the head entry, nil if empty
func (q *Queue) pop() *queueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return nil
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e
}

// drain resolves all pending entries with err and returns how many were dropped
func (q *Queue) drain(err error) int {
	q.mu.Lock()
	entries := q.entries
	q.entries = nil
	q.mu.Unlock()
	for _, e := range entries {
		e.res <- queueResult{err: err}
	}
	return len(entries)
}
