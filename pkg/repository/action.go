package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/engager/pkg/domain"
)

// ActionRepository handles the engagement journal
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// actionRow is the db representation of an action
type actionRow struct {
	ID        int64     `db:"id"`
	Kind      string    `db:"kind"`
	PostID    string    `db:"post_id"`
	Author    string    `db:"author"`
	Text      string    `db:"text"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

// Record stores one action and sets its ID
func (r *ActionRepository) Record(ctx context.Context, action *domain.Action) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO actions (kind, post_id, author, text, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	err := newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, string(action.Kind), action.PostID, action.Author,
			action.Text, action.Detail, action.CreatedAt)
		if err != nil {
			return classify(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &criticalError{err: err}
		}
		action.ID = id
		return nil
	}, &criticalError{})
	if err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// Recent returns latest actions, newest first. Empty kind means all kinds.
func (r *ActionRepository) Recent(ctx context.Context, kind domain.ActionKind, limit int) ([]domain.Action, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []actionRow
	var err error
	if kind == "" {
		err = r.db.SelectContext(ctx, &rows,
			`SELECT id, kind, post_id, author, text, detail, created_at FROM actions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	} else {
		err = r.db.SelectContext(ctx, &rows,
			`SELECT id, kind, post_id, author, text, detail, created_at FROM actions WHERE kind = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
			string(kind), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("get recent actions: %w", err)
	}

	res := make([]domain.Action, len(rows))
	for i, row := range rows {
		res[i] = domain.Action{
			ID:        row.ID,
			Kind:      domain.ActionKind(row.Kind),
			PostID:    row.PostID,
			Author:    row.Author,
			Text:      row.Text,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		}
	}
	return res, nil
}

// CountByKind returns number of journaled actions per kind
func (r *ActionRepository) CountByKind(ctx context.Context) (map[domain.ActionKind]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"cnt"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT kind, COUNT(*) AS cnt FROM actions GROUP BY kind`); err != nil {
		return nil, fmt.Errorf("count actions: %w", err)
	}
	res := make(map[domain.ActionKind]int, len(rows))
	for _, row := range rows {
		res[domain.ActionKind(row.Kind)] = row.Count
	}
	return res, nil
}
