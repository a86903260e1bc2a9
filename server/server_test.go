package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/automation"
	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/server/mocks"
)

type testEnv struct {
	store   *mocks.SettingsStoreMock
	status  *mocks.StatusProviderMock
	journal *mocks.JournalMock
	prober  *mocks.ProberMock
	db      *mocks.PingerMock
	srv     *Server
	stored  domain.Settings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{stored: domain.DefaultSettings()}
	env.store = &mocks.SettingsStoreMock{
		GetFunc: func(ctx context.Context) (domain.Settings, error) { return env.stored, nil },
		SetFunc: func(ctx context.Context, s domain.Settings) error {
			env.stored = s
			return nil
		},
	}
	env.status = &mocks.StatusProviderMock{StatusFunc: func() automation.Status {
		return automation.Status{Enabled: true, Passes: 3,
			LastPass: &automation.PassResult{Outcome: automation.PassProcessed, PostID: "p1"},
			Session:  automation.SessionSnapshot{Processed: 3, RepliedAuthors: []string{"alice"}}}
	}}
	env.journal = &mocks.JournalMock{
		RecentFunc: func(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) { return nil, nil },
		CountByKindFunc: func(ctx context.Context) (map[domain.ActionKind]int, error) {
			return map[domain.ActionKind]int{}, nil
		},
	}
	env.prober = &mocks.ProberMock{ProbeFunc: func(ctx context.Context, s domain.Settings) error { return nil }}
	env.db = &mocks.PingerMock{PingFunc: func(ctx context.Context) error { return nil }}
	env.srv = New(Params{Store: env.store, Status: env.status, Journal: env.journal, Prober: env.prober, DB: env.db,
		Listen: "127.0.0.1:0", BaseURL: "http://localhost:8080/", Version: "1.2.3"})
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	w := httptest.NewRecorder()
	env.srv.ServeHTTP(w, req)
	return w
}

func TestServer_Status(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, "GET", "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "engager", w.Header().Get("App-Name"))

	var resp struct {
		Status     string `json:"status"`
		Version    string `json:"version"`
		Automation struct {
			Enabled  bool  `json:"enabled"`
			Passes   int64 `json:"passes"`
			LastPass struct {
				Outcome string `json:"outcome"`
				PostID  string `json:"post_id"`
			} `json:"last_pass"`
			Session struct {
				Processed      int      `json:"processed"`
				RepliedAuthors []string `json:"replied_authors"`
			} `json:"session"`
		} `json:"automation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.True(t, resp.Automation.Enabled)
	assert.Equal(t, int64(3), resp.Automation.Passes)
	assert.Equal(t, "processed", resp.Automation.LastPass.Outcome)
	assert.Equal(t, "p1", resp.Automation.LastPass.PostID)
	assert.Equal(t, []string{"alice"}, resp.Automation.Session.RepliedAuthors)
}

func TestServer_StatusDatabase(t *testing.T) {
	env := newTestEnv(t)
	var resp struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	w := env.do(t, "GET", "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)
	assert.Len(t, env.db.PingCalls(), 1)

	env.db.PingFunc = func(ctx context.Context) error { return errors.New("database is closed") }
	w = env.do(t, "GET", "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "database is closed", resp.Database)
}

func TestServer_Ping(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, "GET", "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestServer_GetSettings(t *testing.T) {
	env := newTestEnv(t)
	env.stored.APIKey = "gsk_secret_1234"

	w := env.do(t, "GET", "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "gsk_secret")

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "****1234", resp.Settings.APIKey)
	assert.Equal(t, domain.DefaultModel, resp.Settings.Model)
	assert.True(t, resp.Settings.CommentEnabled)
}

func TestServer_GetSettingsError(t *testing.T) {
	env := newTestEnv(t)
	env.store.GetFunc = func(ctx context.Context) (domain.Settings, error) { return domain.Settings{}, errors.New("db locked") }

	w := env.do(t, "GET", "/api/v1/settings", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "db locked")
}

func TestServer_PutSettings(t *testing.T) {
	tbl := []struct {
		name          string
		body          string
		probeErr      error
		wantCode      int
		wantProbe     string
		wantSaved     bool
		wantAutomatic bool
		wantProbeCall bool
	}{
		{name: "comments without key", body: `{"automationEnabled":true,"commentEnabled":true,"apiKey":""}`,
			wantCode: http.StatusBadRequest},
		{name: "no comments no key", body: `{"automationEnabled":true,"likeEnabled":true,"commentEnabled":false}`,
			wantCode: http.StatusOK, wantProbe: probeSkipped, wantSaved: true, wantAutomatic: true},
		{name: "probe ok", body: `{"automationEnabled":true,"commentEnabled":true,"apiKey":"key"}`,
			wantCode: http.StatusOK, wantProbe: probeOK, wantSaved: true, wantAutomatic: true, wantProbeCall: true},
		{name: "probe failed disables", body: `{"automationEnabled":true,"commentEnabled":true,"apiKey":"bad"}`,
			probeErr: errors.New("401"), wantCode: http.StatusOK, wantProbe: probeFailed, wantSaved: true, wantProbeCall: true},
		{name: "invalid json", body: `{"automationEnabled":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.prober.ProbeFunc = func(ctx context.Context, s domain.Settings) error { return tt.probeErr }

			w := env.do(t, "PUT", "/api/v1/settings", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantSaved, len(env.store.SetCalls()) == 1)
			assert.Equal(t, tt.wantProbeCall, len(env.prober.ProbeCalls()) == 1)
			if tt.wantCode != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}

			var resp settingsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantProbe, resp.Probe)
			assert.Equal(t, tt.wantAutomatic, env.stored.AutomationEnabled)
			assert.Equal(t, tt.wantAutomatic, resp.Settings.AutomationEnabled)
		})
	}
}

func TestServer_PutSettingsDefaultsAndMaskedKey(t *testing.T) {
	env := newTestEnv(t)
	env.stored.APIKey = "gsk_secret_1234"

	w := env.do(t, "PUT", "/api/v1/settings",
		`{"automationEnabled":true,"commentEnabled":true,"apiKey":"****1234","apiEndpoint":" ","model":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, env.prober.ProbeCalls(), 1)
	assert.Equal(t, "gsk_secret_1234", env.prober.ProbeCalls()[0].S.APIKey, "masked key keeps the stored one")
	assert.Equal(t, "gsk_secret_1234", env.stored.APIKey)
	assert.Equal(t, domain.DefaultAPIEndpoint, env.stored.APIEndpoint)
	assert.Equal(t, domain.DefaultModel, env.stored.Model)
	assert.NotContains(t, w.Body.String(), "gsk_secret")
}

func TestServer_PutSettingsSaveError(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetFunc = func(ctx context.Context, s domain.Settings) error { return errors.New("disk full") }

	w := env.do(t, "PUT", "/api/v1/settings", `{"commentEnabled":false}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk full")
}

func TestServer_History(t *testing.T) {
	env := newTestEnv(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env.journal.RecentFunc = func(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) {
		return []domain.Action{
			{ID: 2, Kind: domain.ActionReply, PostID: "p2", Author: "bob", Text: "Nice!", CreatedAt: ts},
			{ID: 1, Kind: domain.ActionLike, PostID: "p1", Author: "alice", CreatedAt: ts.Add(-time.Minute)},
		}, nil
	}
	env.journal.CountByKindFunc = func(ctx context.Context) (map[domain.ActionKind]int, error) {
		return map[domain.ActionKind]int{domain.ActionReply: 1, domain.ActionLike: 1}, nil
	}

	w := env.do(t, "GET", "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.journal.RecentCalls(), 1)
	assert.Equal(t, domain.ActionKind(""), env.journal.RecentCalls()[0].Kind)
	assert.Equal(t, defaultHistoryLimit, env.journal.RecentCalls()[0].Limit)

	var resp historyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, "bob", resp.Actions[0].Author)
	assert.Equal(t, "Nice!", resp.Actions[0].Text)
	assert.Equal(t, ts, resp.Actions[0].CreatedAt)
	assert.Equal(t, 1, resp.Counts[domain.ActionLike])
	assert.Contains(t, w.Body.String(), `"post_id":"p2"`)
}

func TestServer_HistoryParams(t *testing.T) {
	tbl := []struct {
		query     string
		wantCode  int
		wantKind  domain.ActionKind
		wantLimit int
	}{
		{query: "?kind=reply&limit=10", wantCode: http.StatusOK, wantKind: domain.ActionReply, wantLimit: 10},
		{query: "?limit=100000", wantCode: http.StatusOK, wantLimit: maxHistoryLimit},
		{query: "?kind=retweet", wantCode: http.StatusBadRequest},
		{query: "?limit=abc", wantCode: http.StatusBadRequest},
		{query: "?limit=-1", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tbl {
		t.Run(tt.query, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, "GET", "/api/v1/history"+tt.query, "")
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				assert.Empty(t, env.journal.RecentCalls())
				return
			}
			require.Len(t, env.journal.RecentCalls(), 1)
			assert.Equal(t, tt.wantKind, env.journal.RecentCalls()[0].Kind)
			assert.Equal(t, tt.wantLimit, env.journal.RecentCalls()[0].Limit)
		})
	}
}

func TestServer_HistoryError(t *testing.T) {
	env := newTestEnv(t)
	env.journal.RecentFunc = func(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) {
		return nil, errors.New("query failed")
	}
	w := env.do(t, "GET", "/api/v1/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_RSSHistory(t *testing.T) {
	env := newTestEnv(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env.journal.RecentFunc = func(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) {
		assert.Equal(t, domain.ActionReply, kind)
		assert.Equal(t, defaultRSSLimit, limit)
		return []domain.Action{
			{ID: 7, Kind: domain.ActionReply, PostID: "p7", Author: "alice", Text: "Great point & well said", CreatedAt: ts},
			{ID: 6, Kind: domain.ActionReply, PostID: "p6", Text: "Agreed", CreatedAt: ts.Add(-time.Hour)},
		}, nil
	}

	w := env.do(t, "GET", "/rss/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

	feed, err := gofeed.NewParser().ParseString(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, "rss", feed.FeedType)
	assert.Equal(t, "2.0", feed.FeedVersion)
	assert.Equal(t, "Engager - Replies", feed.Title)
	require.Len(t, feed.Items, 2)

	assert.Equal(t, "Reply to @alice", feed.Items[0].Title)
	assert.Equal(t, "Great point & well said", feed.Items[0].Description)
	assert.Equal(t, "https://x.com/alice", feed.Items[0].Link)
	assert.Equal(t, "http://localhost:8080/rss/history/7", feed.Items[0].GUID)
	require.NotNil(t, feed.Items[0].PublishedParsed)
	assert.True(t, ts.Equal(*feed.Items[0].PublishedParsed))
	assert.Equal(t, "Reply to @unknown", feed.Items[1].Title)
}

func TestServer_RSSHistoryError(t *testing.T) {
	env := newTestEnv(t)
	env.journal.RecentFunc = func(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) {
		return nil, errors.New("query failed")
	}
	w := env.do(t, "GET", "/rss/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
}

func TestServer_Run(t *testing.T) {
	env := newTestEnv(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	env.srv.listen = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}
