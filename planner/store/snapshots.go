package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hubastard/gymblocks/planner/model"
)

// LoadSnapshot returns the saved snapshot without repairing it. It fails with ErrNotFound
// when nothing was saved yet and with ErrMalformed when the body does not decode.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	snap, err := model.ParseSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return snap, nil
}

// SaveSnapshot replaces the saved snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	body, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.saveBody(ctx, s.db, body)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) saveBody(ctx context.Context, ex execer, body []byte) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO snapshots (id, body, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		body,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}
