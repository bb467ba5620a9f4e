package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hubastard/gymblocks/planner/model"
)

// Backup is the export format. Image bytes are base64 in JSON.
type Backup struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Snapshot   *model.Snapshot   `json:"snapshot"`
	Images     map[string][]byte `json:"images,omitempty"`
}

// Export writes the saved snapshot and the images its blocks reference.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	b := Backup{Version: model.SnapshotVersion, ExportedAt: time.Now().UTC(), Snapshot: snap, Images: map[string][]byte{}}
	for _, ref := range imageRefs(snap.Plan) {
		data, err := s.GetImage(ctx, ref)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("export: referenced image missing", "ref", ref)
			continue
		}
		if err != nil {
			return err
		}
		b.Images[ref] = data
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&b); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	s.logger.Info("exported", "blocks", countBlocks(snap.Plan), "images", len(b.Images))
	return nil
}

// Import reads a backup, repairs it and replaces the saved snapshot in one transaction.
// Blocks pointing at images that are neither in the backup nor in the store lose their image.
func (s *Store) Import(ctx context.Context, r io.Reader, opt model.RepairOptions) ([]string, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if b.Snapshot == nil {
		return nil, fmt.Errorf("%w: backup has no snapshot", ErrMalformed)
	}
	fixes := b.Snapshot.Repair(opt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for ref, data := range b.Images {
		if !strings.HasPrefix(ref, ImagePrefix) || len(data) == 0 {
			fixes = append(fixes, fmt.Sprintf("image %q skipped", ref))
			continue
		}
		if err := s.putImage(ctx, tx, ref, data); err != nil {
			return nil, err
		}
	}
	for w := range b.Snapshot.Plan.Weeks {
		for d := range b.Snapshot.Plan.Weeks[w].Days {
			blocks := b.Snapshot.Plan.Weeks[w].Days[d].Blocks
			for i := range blocks {
				ref := blocks[i].Image
				if !strings.HasPrefix(ref, ImagePrefix) {
					continue
				}
				if _, ok := b.Images[ref]; ok {
					continue
				}
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM images WHERE ref = ?`, ref).Scan(&n); err != nil {
					return nil, fmt.Errorf("checking image %s: %w", ref, err)
				}
				if n == 0 {
					fixes = append(fixes, fmt.Sprintf("block %s image %s missing; cleared", blocks[i].ID, ref))
					blocks[i].Image = ""
				}
			}
		}
	}

	body, err := b.Snapshot.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.saveBody(ctx, tx, body); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	for _, f := range fixes {
		s.logger.Warn("import repair", "fix", f)
	}
	s.logger.Info("imported", "blocks", countBlocks(b.Snapshot.Plan), "images", len(b.Images))
	return fixes, nil
}

// imageRefs lists the distinct stored-image refs in p, in plan order.
func imageRefs(p *model.Plan) []string {
	seen := map[string]bool{}
	var refs []string
	for w := range p.Weeks {
		for d := range p.Weeks[w].Days {
			for _, b := range p.Weeks[w].Days[d].Blocks {
				if strings.HasPrefix(b.Image, ImagePrefix) && !seen[b.Image] {
					seen[b.Image] = true
					refs = append(refs, b.Image)
				}
			}
		}
	}
	return refs
}

func countBlocks(p *model.Plan) int {
	n := 0
	for w := range p.Weeks {
		n += p.Weeks[w].BlockCount()
	}
	return n
}
