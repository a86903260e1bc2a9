package domain

import (
	"errors"
	"time"
)

// default endpoint and model used when nothing else is configured
const (
	DefaultAPIEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama-3.3-70b-versatile"
)

// ErrAPIKeyRequired is returned when comments are enabled without an API key
var ErrAPIKeyRequired = errors.New("api key is required when comments are enabled")

// Setting represents a key-value configuration setting
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Settings represents user-controlled automation settings
type Settings struct {
	AutomationEnabled bool   `json:"automationEnabled"`
	LikeEnabled       bool   `json:"likeEnabled"`
	CommentEnabled    bool   `json:"commentEnabled"`
	FollowEnabled     bool   `json:"followEnabled"`
	DebugMode         bool   `json:"debugMode"`
	APIKey            string `json:"apiKey"`
	APIEndpoint       string `json:"apiEndpoint"`
	Model             string `json:"model"`
}

// DefaultSettings returns settings used when the store has nothing saved
func DefaultSettings() Settings {
	return Settings{
		AutomationEnabled: false,
		LikeEnabled:       true,
		CommentEnabled:    true,
		FollowEnabled:     true,
		DebugMode:         false,
		APIKey:            "",
		APIEndpoint:       DefaultAPIEndpoint,
		Model:             DefaultModel,
	}
}

// Validate checks settings invariants
func (s Settings) Validate() error {
	if s.CommentEnabled && s.APIKey == "" {
		return ErrAPIKeyRequired
	}
	return nil
}

// Enforce returns a copy with automation disabled if settings are invalid.
// The second value reports whether automation was switched off.
func (s Settings) Enforce() (Settings, bool) {
	if s.AutomationEnabled && s.Validate() != nil {
		s.AutomationEnabled = false
		return s, true
	}
	return s, false
}

// Masked returns a copy safe to expose, with the API key hidden
func (s Settings) Masked() Settings {
	if len(s.APIKey) > 4 {
		s.APIKey = "****" + s.APIKey[len(s.APIKey)-4:]
		return s
	}
	if s.APIKey != "" {
		s.APIKey = "****"
	}
	return s
}
