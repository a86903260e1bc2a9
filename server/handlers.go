package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/automation"
	"github.com/umputun/engager/pkg/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	probeTimeout        = 20 * time.Second
	pingTimeout         = 5 * time.Second
)

// probe results reported by settings update
const (
	probeSkipped = "skipped"
	probeOK      = "ok"
	probeFailed  = "failed"
)

type statusResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Database   string            `json:"database,omitempty"`
	Time       time.Time         `json:"time"`
	Automation automation.Status `json:"automation"`
}

type settingsResponse struct {
	Settings domain.Settings `json:"settings"`
	Probe    string          `json:"probe,omitempty"`
	Message  string          `json:"message,omitempty"`
}

type actionResponse struct {
	ID        int64             `json:"id"`
	Kind      domain.ActionKind `json:"kind"`
	PostID    string            `json:"post_id"`
	Author    string            `json:"author,omitempty"`
	Text      string            `json:"text,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type historyResponse struct {
	Actions []actionResponse          `json:"actions"`
	Counts  map[domain.ActionKind]int `json:"counts"`
}

// statusHandler returns server, database and automation loop status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:     "ok",
		Version:    s.version,
		Time:       time.Now().UTC(),
		Automation: s.status.Status(),
	}
	if s.db != nil {
		resp.Database = "ok"
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			log.Printf("[WARN] database ping failed: %v", err)
			resp.Status, resp.Database = "degraded", err.Error()
		}
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// getSettingsHandler returns current settings with the api key masked
func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Get(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, settingsResponse{Settings: current.Masked()})
}

// putSettingsHandler validates and saves settings. With comments enabled the api connection is tested
// first, if the test fails settings are saved with automation switched off.
func (s *Server) putSettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := s.store.Get(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to get settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	var req domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid settings: %w", err), http.StatusBadRequest)
		return
	}

	// masked key returned by GET means "keep the stored one"
	if strings.HasPrefix(req.APIKey, "****") && req.APIKey == current.Masked().APIKey {
		req.APIKey = current.APIKey
	}
	req.APIKey = strings.TrimSpace(req.APIKey)
	if req.APIEndpoint = strings.TrimSpace(req.APIEndpoint); req.APIEndpoint == "" {
		req.APIEndpoint = domain.DefaultAPIEndpoint
	}
	if req.Model = strings.TrimSpace(req.Model); req.Model == "" {
		req.Model = domain.DefaultModel
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, domain.ErrAPIKeyRequired) {
			err = errors.New("comments enabled but no API key provided, enter an API key or disable comments")
		}
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	resp := settingsResponse{Probe: probeSkipped, Message: "settings saved"}
	if req.CommentEnabled && req.APIKey != "" {
		if err := s.probe(ctx, req); err != nil {
			log.Printf("[WARN] api connection test failed: %v", err)
			req.AutomationEnabled = false
			resp.Probe = probeFailed
			resp.Message = fmt.Sprintf("API connection failed, automation disabled: %v", err)
		} else {
			resp.Probe = probeOK
			resp.Message = "API connection successful, settings saved"
		}
	}

	if err := s.store.Set(ctx, req); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	log.Printf("[INFO] settings updated, automation %v, like %v, follow %v, comment %v, probe %s",
		req.AutomationEnabled, req.LikeEnabled, req.FollowEnabled, req.CommentEnabled, resp.Probe)

	resp.Settings = req.Masked()
	renderJSON(w, r, http.StatusOK, resp)
}

func (s *Server) probe(ctx context.Context, settings domain.Settings) error {
	if s.prober == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return s.prober.Probe(ctx, settings)
}

// historyHandler returns recent engagement actions, optionally filtered by kind
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind := domain.ActionKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", domain.ActionLike, domain.ActionFollow, domain.ActionReply, domain.ActionSkip, domain.ActionFail:
	default:
		renderError(w, r, fmt.Errorf("invalid kind %q", kind), http.StatusBadRequest)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	actions, err := s.journal.Recent(ctx, kind, limit)
	if err != nil {
		log.Printf("[ERROR] failed to get history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	counts, err := s.journal.CountByKind(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to count actions: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	resp := historyResponse{Actions: make([]actionResponse, 0, len(actions)), Counts: counts}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, actionResponse{ID: a.ID, Kind: a.Kind, PostID: a.PostID, Author: a.Author,
			Text: a.Text, Detail: a.Detail, CreatedAt: a.CreatedAt})
	}
	renderJSON(w, r, http.StatusOK, resp)
}

func parseLimit(val string) (int, error) {
	if val == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", val)
	}
	return min(limit, maxHistoryLimit), nil
}
