package automation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

// PassOutcome describes how a scan pass ended
type PassOutcome string

// pass outcomes
const (
	PassDisabled     PassOutcome = "disabled"
	PassBusy         PassOutcome = "busy"
	PassSkippedView  PassOutcome = "skipped_view"
	PassDialogOpen   PassOutcome = "dialog_open"
	PassNoCandidates PassOutcome = "no_candidates"
	PassProcessed    PassOutcome = "processed"
	PassFailed       PassOutcome = "failed"
)

// PassResult is the result of one scan pass
type PassResult struct {
	Outcome    PassOutcome `json:"outcome"`
	PostID     string      `json:"post_id,omitempty"`
	Candidates int         `json:"candidates"`
	Error      string      `json:"error,omitempty"`
	At         time.Time   `json:"at"`
}

// Status is a snapshot of the loop state
type Status struct {
	Enabled  bool            `json:"enabled"`
	Busy     bool            `json:"busy"`
	Passes   int64           `json:"passes"`
	LastPass *PassResult     `json:"last_pass,omitempty"`
	Session  SessionSnapshot `json:"session"`
}

// Loop drives scan passes over the page. It runs a pass on start, on an interval, after page
// mutations settle and when settings switch automation on. Passes never overlap.
type Loop struct {
	page          Page
	store         SettingsStore
	executor      *Executor
	session       *Session
	notifier      Notifier
	scanInterval  time.Duration
	mutationDelay time.Duration
	errorDelay    time.Duration

	mu       sync.RWMutex
	settings domain.Settings
	lastPass *PassResult

	busy   atomic.Bool
	passes atomic.Int64
	kick   chan struct{}
	wg     sync.WaitGroup
}

// LoopParams defines loop dependencies and triggers
type LoopParams struct {
	Page          Page
	Store         SettingsStore
	Executor      *Executor
	Session       *Session
	Notifier      Notifier
	ScanInterval  time.Duration
	MutationDelay time.Duration
	ErrorDelay    time.Duration
}

// NewLoop makes a loop and wires executor generation failures to Disable
func NewLoop(p LoopParams) *Loop {
	l := &Loop{
		page:          p.Page,
		store:         p.Store,
		executor:      p.Executor,
		session:       p.Session,
		notifier:      p.Notifier,
		scanInterval:  p.ScanInterval,
		mutationDelay: p.MutationDelay,
		errorDelay:    p.ErrorDelay,
		kick:          make(chan struct{}, 1),
	}
	if l.scanInterval <= 0 {
		l.scanInterval = 30 * time.Second
	}
	l.executor.OnGenerateFailure(func(ctx context.Context, err error) {
		l.Disable(ctx, fmt.Sprintf("Failed to connect to the API: %v. Automation has been disabled.", err))
	})
	return l
}

// Start loads settings and runs triggers until ctx is done, then waits for the running pass
func (l *Loop) Start(ctx context.Context) error {
	s, err := l.Init(ctx)
	if err != nil {
		return err
	}
	log.Printf("[INFO] automation loop started, enabled: %v, interval: %v", s.AutomationEnabled, l.scanInterval)

	unsubscribe := l.store.OnChange(l.onSettings)
	defer unsubscribe()

	mutations, err := l.page.Watch(ctx)
	if err != nil {
		log.Printf("[WARN] page mutations are not observed: %v", err)
	}

	ticker := time.NewTicker(l.scanInterval)
	defer ticker.Stop()

	if s.AutomationEnabled {
		l.spawn(ctx)
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			l.wg.Wait()
			log.Printf("[INFO] automation loop stopped")
			return nil
		case <-ticker.C:
			l.spawn(ctx)
		case <-l.kick:
			l.spawn(ctx)
		case _, ok := <-mutations:
			if !ok {
				mutations = nil
				continue
			}
			// first mutation arms the settle timer, the rest coalesce until it fires
			if settle == nil {
				settle = time.After(l.mutationDelay)
			}
		case <-settle:
			settle = nil
			l.spawn(ctx)
		}
	}
}

// Init loads and enforces settings, Start calls it. Pass can be used directly after Init.
func (l *Loop) Init(ctx context.Context) (domain.Settings, error) {
	s, err := l.store.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	s = l.enforce(ctx, s)
	l.setSettings(s)
	return s, nil
}

// spawn runs a pass in background, the pass itself rejects overlapping runs
func (l *Loop) spawn(ctx context.Context) {
	if !l.Settings().AutomationEnabled || l.busy.Load() {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Pass(ctx)
	}()
}

// Pass runs one scan pass and processes at most one post. Errors and panics are contained here,
// the compose dialog is closed if left open.
func (l *Loop) Pass(ctx context.Context) (res PassResult) {
	s := l.Settings()
	if !s.AutomationEnabled {
		l.trace(s, "automation disabled, skipping pass")
		return PassResult{Outcome: PassDisabled, At: time.Now()}
	}
	if !l.busy.CompareAndSwap(false, true) {
		l.trace(s, "pass in progress, skipping")
		return PassResult{Outcome: PassBusy, At: time.Now()}
	}
	defer l.busy.Store(false)
	l.passes.Add(1)

	var postID string // selected post, kept for panic results
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] pass panic: %v", r)
			l.executor.closeCompose(ctx, l.page)
			res = PassResult{Outcome: PassFailed, PostID: postID, Error: fmt.Sprintf("panic: %v", r), At: time.Now()}
		}
		l.mu.Lock()
		l.lastPass = &res
		l.mu.Unlock()
		l.trace(s, "pass finished: %s", res.Outcome)
	}()

	return l.pass(ctx, s, &postID)
}

func (l *Loop) pass(ctx context.Context, s domain.Settings, postID *string) PassResult {
	failed := func(postID string, err error) PassResult {
		log.Printf("[WARN] pass failed: %v", err)
		return PassResult{Outcome: PassFailed, PostID: postID, Error: err.Error(), At: time.Now()}
	}

	url, _, err := l.page.Location(ctx)
	if err != nil {
		return failed("", fmt.Errorf("get location: %w", err))
	}
	for _, v := range skippedViews {
		if strings.Contains(url, v) {
			l.trace(s, "in replies or conversation view %s, skipping", url)
			return PassResult{Outcome: PassSkippedView, At: time.Now()}
		}
	}

	dialogs, err := l.page.Query(ctx, "", modalSelector)
	if err != nil {
		return failed("", fmt.Errorf("check reply dialog: %w", err))
	}
	if len(dialogs) > 0 {
		l.trace(s, "reply dialog is open, skipping")
		return PassResult{Outcome: PassDialogOpen, At: time.Now()}
	}

	posts, err := Scan(ctx, l.page, l.session)
	if err != nil {
		return failed("", err)
	}
	l.trace(s, "found %d unprocessed posts", len(posts))
	if len(posts) == 0 {
		return PassResult{Outcome: PassNoCandidates, At: time.Now()}
	}

	post := posts[0]
	*postID = post.ID
	if err := l.executor.Process(ctx, l.page, post, s); err != nil {
		l.executor.closeCompose(ctx, l.page)
		_ = sleep(ctx, l.errorDelay)
		res := failed(post.ID, err)
		res.Candidates = len(posts)
		return res
	}
	return PassResult{Outcome: PassProcessed, PostID: post.ID, Candidates: len(posts), At: time.Now()}
}

// Disable switches automation off, persists it and notifies the user
func (l *Loop) Disable(ctx context.Context, reason string) {
	l.mu.Lock()
	s := l.settings
	wasEnabled := s.AutomationEnabled
	s.AutomationEnabled = false
	l.settings = s
	l.mu.Unlock()
	if !wasEnabled {
		return
	}

	log.Printf("[WARN] automation disabled: %s", reason)
	if err := l.store.Set(ctx, s); err != nil {
		log.Printf("[ERROR] can't save disabled settings: %v", err)
	}
	l.notify(ctx, "API Error", reason)
}

// Settings returns the cached settings
func (l *Loop) Settings() domain.Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

func (l *Loop) setSettings(s domain.Settings) {
	l.mu.Lock()
	l.settings = s
	l.mu.Unlock()
}

// Status returns loop state
func (l *Loop) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := Status{
		Enabled: l.settings.AutomationEnabled,
		Busy:    l.busy.Load(),
		Passes:  l.passes.Load(),
		Session: l.session.Snapshot(),
	}
	if l.lastPass != nil {
		last := *l.lastPass
		res.LastPass = &last
	}
	return res
}

// onSettings handles settings updates from the store
func (l *Loop) onSettings(s domain.Settings) {
	s = l.enforce(context.Background(), s)
	l.mu.Lock()
	prev := l.settings
	l.settings = s
	l.mu.Unlock()

	if !prev.AutomationEnabled && s.AutomationEnabled {
		log.Printf("[INFO] automation enabled")
		select {
		case l.kick <- struct{}{}:
		default:
		}
	}
	if prev.AutomationEnabled && !s.AutomationEnabled {
		log.Printf("[INFO] automation disabled")
	}
}

// enforce switches automation off if comments are enabled without api key, persists and notifies
func (l *Loop) enforce(ctx context.Context, s domain.Settings) domain.Settings {
	res, changed := s.Enforce()
	if !changed {
		return res
	}
	log.Printf("[WARN] api key is required for comments, disabling automation")
	l.notify(ctx, "API Key Required", "Please enter your API key in the settings to enable automation.")
	if err := l.store.Set(ctx, res); err != nil {
		log.Printf("[ERROR] can't save disabled settings: %v", err)
	}
	return res
}

func (l *Loop) notify(ctx context.Context, title, msg string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.Notify(ctx, title, msg); err != nil {
		log.Printf("[WARN] can't show notification %q: %v", title, err)
	}
}

// trace logs pass details, visible without debug logging when settings debug mode is on
func (l *Loop) trace(s domain.Settings, format string, args ...any) {
	if s.DebugMode {
		log.Printf("[INFO] "+format, args...)
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}
