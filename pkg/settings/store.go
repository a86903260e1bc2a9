// Package settings keeps user-controlled automation settings and notifies subscribers on change.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

//go:generate moq -out mocks/repository.go -pkg mocks -skip-ensure -fmt goimports . Repository

// settingsKey is the key the whole settings document is stored under
const settingsKey = "settings"

// Repository is a persistent key/value storage for settings
type Repository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store reads and writes settings, stored values are merged over defaults
type Store struct {
	repo     Repository
	defaults domain.Settings

	mu     sync.Mutex
	subs   map[int]func(domain.Settings)
	nextID int
}

// NewStore makes a store with domain.DefaultSettings as defaults
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, defaults: domain.DefaultSettings(), subs: map[int]func(domain.Settings){}}
}

// Get returns stored settings merged over defaults
func (s *Store) Get(ctx context.Context) (domain.Settings, error) {
	res := s.defaults
	raw, err := s.repo.GetSetting(ctx, settingsKey)
	if err != nil {
		return res, fmt.Errorf("get settings: %w", err)
	}
	if raw == "" {
		return res, nil
	}
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return s.defaults, fmt.Errorf("unmarshal settings: %w", err)
	}
	return res, nil
}

// Set persists settings and notifies all subscribers with the new value
func (s *Store) Set(ctx context.Context, val domain.Settings) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.repo.SetSetting(ctx, settingsKey, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	subs := make([]func(domain.Settings), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(val)
	}
	return nil
}

// OnChange registers a subscriber called after every Set. Returns unsubscribe func.
func (s *Store) OnChange(fn func(domain.Settings)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Seed writes initial settings if nothing was stored before, reports whether it did
func (s *Store) Seed(ctx context.Context, val domain.Settings) (bool, error) {
	raw, err := s.repo.GetSetting(ctx, settingsKey)
	if err != nil {
		return false, fmt.Errorf("check settings: %w", err)
	}
	if raw != "" {
		return false, nil
	}
	data, err := json.Marshal(val)
	if err != nil {
		return false, fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.repo.SetSetting(ctx, settingsKey, string(data)); err != nil {
		return false, fmt.Errorf("seed settings: %w", err)
	}
	log.Printf("[INFO] settings seeded from config, automation enabled: %v", val.AutomationEnabled)
	return true, nil
}
