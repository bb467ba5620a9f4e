package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hubastard/gymblocks/engine/assets"
)

const maxImageBytes = 16 << 20

var (
	ErrCancelled = errors.New("image pick cancelled")
	ErrBusy      = errors.New("an image pick is already waiting")
	ErrTooLarge  = errors.New("image too large")
)

// Picker asks the user for one image and returns its bytes. It blocks, so call it off
// the loop thread. ErrCancelled means the user backed out.
type Picker interface {
	Pick(ctx context.Context) ([]byte, error)
}

type pickResult struct {
	data []byte
	err  error
}

// DropPicker satisfies Pick with the next file dropped onto the window.
type DropPicker struct {
	mu      sync.Mutex
	waiting chan pickResult
	read    func(string) ([]byte, error)
}

func NewDropPicker() *DropPicker {
	return &DropPicker{read: readImageFile}
}

func (p *DropPicker) Pick(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	if p.waiting != nil {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	ch := make(chan pickResult, 1)
	p.waiting = ch
	p.mu.Unlock()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		p.mu.Lock()
		if p.waiting == ch {
			p.waiting = nil
		}
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Waiting reports whether a Pick is blocked on a drop.
func (p *DropPicker) Waiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting != nil
}

// Deliver offers dropped paths to the waiting Pick. The first file that reads and looks
// like an image wins. It reports whether a Pick consumed the drop.
func (p *DropPicker) Deliver(paths []string) bool {
	p.mu.Lock()
	ch := p.waiting
	p.mu.Unlock()
	if ch == nil || len(paths) == 0 {
		return false
	}

	res := pickResult{err: fmt.Errorf("no image among %d dropped files", len(paths))}
	for _, path := range paths {
		data, err := p.read(path)
		if err != nil {
			res.err = fmt.Errorf("reading %s: %w", path, err)
			continue
		}
		if err := checkImage(data); err != nil {
			res.err = fmt.Errorf("%s: %w", path, err)
			continue
		}
		res = pickResult{data: data}
		break
	}
	p.resolve(ch, res)
	return true
}

// Cancel ends the waiting Pick with ErrCancelled.
func (p *DropPicker) Cancel() bool {
	p.mu.Lock()
	ch := p.waiting
	p.mu.Unlock()
	if ch == nil {
		return false
	}
	p.resolve(ch, pickResult{err: ErrCancelled})
	return true
}

func (p *DropPicker) resolve(ch chan pickResult, r pickResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiting != ch {
		return
	}
	p.waiting = nil
	ch <- r
}

// readImageFile reads a regular file of at most maxImageBytes. The size is checked
// before anything is read.
func readImageFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, errors.New("not a regular file")
	}
	if fi.Size() > maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, fi.Size(), maxImageBytes)
	}
	// the file may grow between Stat and ReadAll
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if err := checkSize(len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func checkSize(n int) error {
	if n > maxImageBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, n, maxImageBytes)
	}
	return nil
}

func checkImage(data []byte) error {
	if err := checkSize(len(data)); err != nil {
		return err
	}
	if _, _, err := assets.DecodeConfig(data); err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	return nil
}
