// Package images resolves image refs to thumbnails and acquires new images from the user.
package images

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/hubastard/gymblocks/engine/assets"
)

// Source returns the stored bytes for an image ref; *store.Store implements it.
type Source interface {
	GetImage(ctx context.Context, ref string) ([]byte, error)
}

const retryAfter = 3 * time.Second

type state int

const (
	loading state = iota
	ready
	failed
)

type entry struct {
	state    state
	img      image.Image
	failedAt time.Time
}

// Cache keeps decoded square thumbnails in memory. Resolve never blocks: a miss starts
// a background load and reports absent until it lands.
type Cache struct {
	ctx     context.Context
	src     Source
	size    int
	logger  *log.Logger
	onReady func()
	now     func() time.Time
	after   func(time.Duration, func())

	mu      sync.Mutex
	entries map[string]*entry
	slots   chan struct{}
}

// NewCache builds a cache of size x size thumbnails. Loads stop when ctx ends. onReady
// runs on the loading goroutine each time a thumbnail becomes available, and on a timer
// once a failed load may be retried.
func NewCache(ctx context.Context, src Source, size int, logger *log.Logger, onReady func()) *Cache {
	return &Cache{
		ctx: ctx, src: src, size: size, logger: logger, onReady: onReady,
		now:     time.Now,
		after:   func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		entries: make(map[string]*entry),
		slots:   make(chan struct{}, 4),
	}
}

func (c *Cache) Resolve(ref string) (image.Image, bool) {
	if ref == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ref]; ok {
		switch e.state {
		case ready:
			return e.img, true
		case loading:
			return nil, false
		case failed:
			if c.now().Sub(e.failedAt) < retryAfter {
				return nil, false
			}
		}
	}
	c.entries[ref] = &entry{state: loading}
	go c.load(ref)
	return nil, false
}

// Forget drops ref so the next Resolve loads it again.
func (c *Cache) Forget(ref string) {
	c.mu.Lock()
	delete(c.entries, ref)
	c.mu.Unlock()
}

// Len is the number of refs the cache tracks, loaded or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) load(ref string) {
	select {
	case c.slots <- struct{}{}:
		defer func() { <-c.slots }()
	case <-c.ctx.Done():
		c.finish(ref, nil, c.ctx.Err())
		return
	}
	img, err := c.thumbnail(ref)
	c.finish(ref, img, err)
}

func (c *Cache) thumbnail(ref string) (image.Image, error) {
	if strings.HasPrefix(ref, PresetPrefix) {
		img, ok := Preset(ref, c.size)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", ref)
		}
		return img, nil
	}
	data, err := c.src.GetImage(c.ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := assets.Decode(data)
	if err != nil {
		return nil, err
	}
	return Thumbnail(img, c.size), nil
}

func (c *Cache) finish(ref string, img image.Image, err error) {
	c.mu.Lock()
	e, tracked := c.entries[ref]
	if tracked {
		if err != nil {
			e.state, e.failedAt = failed, c.now()
		} else {
			e.state, e.img = ready, img
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("thumbnail load failed", "ref", ref, "err", err, "retry_in", retryAfter)
		// an idle board never repaints on its own, and Resolve only retries during a paint
		if tracked && c.onReady != nil && c.ctx.Err() == nil {
			c.after(retryAfter, c.onReady)
		}
		return
	}
	if tracked && c.onReady != nil {
		c.onReady()
	}
}

// Thumbnail center-crops img to a square and scales it to size x size.
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(b.Min).Add(image.Pt((b.Dx()-side)/2, (b.Dy()-side)/2))
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}
