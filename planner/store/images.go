package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ImagePrefix marks refs whose bytes live in the images table.
const ImagePrefix = "img:"

// PutImage stores data under a fresh ref of the form "img:<uuid>".
func (s *Store) PutImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image")
	}
	ref := ImagePrefix + uuid.NewString()
	if err := s.putImage(ctx, s.db, ref, data); err != nil {
		return "", err
	}
	s.logger.Debug("image stored", "ref", ref, "bytes", len(data))
	return ref, nil
}

func (s *Store) putImage(ctx context.Context, ex execer, ref string, data []byte) error {
	_, err := ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO images (ref, mime, data) VALUES (?, ?, ?)`,
		ref, http.DetectContentType(data), data,
	)
	if err != nil {
		return fmt.Errorf("storing image %s: %w", ref, err)
	}
	return nil
}

// GetImage returns the bytes stored under ref.
func (s *Store) GetImage(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, ImagePrefix) {
		return nil, fmt.Errorf("image %q: %w", ref, ErrNotFound)
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM images WHERE ref = ?`, ref).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("image %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", ref, err)
	}
	return data, nil
}

// ImageRefs lists every stored ref.
func (s *Store) ImageRefs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ref FROM images ORDER BY created_at, ref`)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning image ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
