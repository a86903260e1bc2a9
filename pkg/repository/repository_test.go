package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/domain"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestRepositories_Integration(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Ping(ctx))

	t.Run("settings", func(t *testing.T) {
		val, err := repos.Setting.GetSetting(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, val)

		require.NoError(t, repos.Setting.SetSetting(ctx, "settings", `{"likeEnabled":true}`))
		val, err = repos.Setting.GetSetting(ctx, "settings")
		require.NoError(t, err)
		assert.JSONEq(t, `{"likeEnabled":true}`, val)

		// overwrite
		require.NoError(t, repos.Setting.SetSetting(ctx, "settings", `{"likeEnabled":false}`))
		val, err = repos.Setting.GetSetting(ctx, "settings")
		require.NoError(t, err)
		assert.JSONEq(t, `{"likeEnabled":false}`, val)
	})

	t.Run("actions", func(t *testing.T) {
		base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
		actions := []domain.Action{
			{Kind: domain.ActionLike, PostID: "p1", Author: "alice", CreatedAt: base},
			{Kind: domain.ActionFollow, PostID: "p1", Author: "alice", CreatedAt: base.Add(time.Second)},
			{Kind: domain.ActionReply, PostID: "p2", Author: "bob", Text: "nice one", CreatedAt: base.Add(2 * time.Second)},
			{Kind: domain.ActionLike, PostID: "p2", Author: "bob", CreatedAt: base.Add(3 * time.Second)},
		}
		for i := range actions {
			require.NoError(t, repos.Action.Record(ctx, &actions[i]))
			assert.NotZero(t, actions[i].ID)
		}

		recent, err := repos.Action.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, recent, 4)
		assert.Equal(t, "p2", recent[0].PostID)
		assert.Equal(t, domain.ActionLike, recent[0].Kind)
		assert.Equal(t, domain.ActionLike, recent[3].Kind)
		assert.Equal(t, "p1", recent[3].PostID)

		replies, err := repos.Action.Recent(ctx, domain.ActionReply, 10)
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, "nice one", replies[0].Text)
		assert.Equal(t, "bob", replies[0].Author)

		limited, err := repos.Action.Recent(ctx, "", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		counts, err := repos.Action.CountByKind(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[domain.ActionLike])
		assert.Equal(t, 1, counts[domain.ActionFollow])
		assert.Equal(t, 1, counts[domain.ActionReply])
		assert.Zero(t, counts[domain.ActionSkip])
	})

	t.Run("record sets created_at", func(t *testing.T) {
		a := domain.Action{Kind: domain.ActionSkip, PostID: "p3"}
		require.NoError(t, repos.Action.Record(ctx, &a))
		assert.False(t, a.CreatedAt.IsZero())
	})
}

func TestNewRepositories_InvalidDSN(t *testing.T) {
	_, err := NewRepositories(context.Background(), Config{DSN: "invalid://database/url"})
	assert.Error(t, err)
}

func TestRepositories_Close(t *testing.T) {
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)

	assert.NoError(t, repos.Close())
	// second close should not error
	assert.NoError(t, repos.Close())
}

func TestCriticalError(t *testing.T) {
	originalErr := fmt.Errorf("test error message")
	critErr := &criticalError{err: originalErr}

	assert.Equal(t, "test error message", critErr.Error())
	assert.ErrorIs(t, critErr, originalErr)
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", critErr), &criticalError{}))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	lockErr := fmt.Errorf("database is locked")
	assert.Equal(t, lockErr, classify(lockErr))

	other := fmt.Errorf("constraint failed")
	var ce *criticalError
	require.ErrorAs(t, classify(other), &ce)
	assert.Equal(t, other, ce.err)
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"sqlite busy error", fmt.Errorf("SQLITE_BUSY: database is busy"), true},
		{"database locked error", fmt.Errorf("database is locked"), true},
		{"table locked error", fmt.Errorf("database table is locked"), true},
		{"non-lock error", fmt.Errorf("syntax error"), false},
		{"empty error message", fmt.Errorf(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLockError(tt.err))
		})
	}
}
