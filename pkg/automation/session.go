package automation

import (
	"slices"
	"sort"
	"sync"
)

// Session keeps de-duplication state for one page session. Sets only grow.
type Session struct {
	mu        sync.RWMutex
	processed map[string]struct{}
	commented map[string]struct{}
	replied   map[string]struct{}
	followed  map[string]struct{}
	blocked   []string
}

// SessionSnapshot is a copy of session state for status reporting
type SessionSnapshot struct {
	Processed       int      `json:"processed"`
	Commented       int      `json:"commented"`
	RepliedAuthors  []string `json:"replied_authors"`
	FollowedAuthors []string `json:"followed_authors"`
	BlockedAuthors  []string `json:"blocked_authors"`
}

// NewSession makes an empty session with a static list of blocked authors
func NewSession(blocked []string) *Session {
	return &Session{
		processed: map[string]struct{}{},
		commented: map[string]struct{}{},
		replied:   map[string]struct{}{},
		followed:  map[string]struct{}{},
		blocked:   slices.Clone(blocked),
	}
}

// MarkProcessed adds post id to processed set
func (s *Session) MarkProcessed(id string) { s.add(s.processed, id) }

// IsProcessed checks if post id was processed
func (s *Session) IsProcessed(id string) bool { return s.has(s.processed, id) }

// MarkCommented adds post id to commented set
func (s *Session) MarkCommented(id string) { s.add(s.commented, id) }

// IsCommented checks if post was replied to
func (s *Session) IsCommented(id string) bool { return s.has(s.commented, id) }

// MarkReplied adds author to replied-author set
func (s *Session) MarkReplied(author string) { s.add(s.replied, author) }

// HasReplied checks if author was already replied to
func (s *Session) HasReplied(author string) bool { return s.has(s.replied, author) }

// MarkFollowed adds author to followed-author set
func (s *Session) MarkFollowed(author string) { s.add(s.followed, author) }

// HasFollowed checks if author was followed in this session
func (s *Session) HasFollowed(author string) bool { return s.has(s.followed, author) }

// IsBlocked checks if author is on the blocked list. Empty author is never blocked.
func (s *Session) IsBlocked(author string) bool {
	return author != "" && slices.Contains(s.blocked, author)
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		Processed:       len(s.processed),
		Commented:       len(s.commented),
		RepliedAuthors:  keys(s.replied),
		FollowedAuthors: keys(s.followed),
		BlockedAuthors:  slices.Clone(s.blocked),
	}
}

func (s *Session) add(set map[string]struct{}, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	set[key] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) has(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := set[key]
	return ok
}

func keys(set map[string]struct{}) []string {
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
