package render

import (
	"errors"
	"fmt"
	"image"
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/sync/singleflight"
)

var ErrNoIcon = errors.New("icon not available")

// IconCache loads icon images from a directory once per name. Concurrent
// requests for an icon that is still loading share that load. Failed loads
// are not remembered, so a later request tries again.
type IconCache struct {
	dir   string
	load  func(path string) (image.Image, error)
	group singleflight.Group

	mu     sync.RWMutex
	images map[string]image.Image
}

// NewIconCache reads "<name>.png" files from dir. An empty dir disables
// icons and every backend falls back to vector shapes.
func NewIconCache(dir string) *IconCache {
	return &IconCache{
		dir:    dir,
		load:   gg.LoadImage,
		images: make(map[string]image.Image),
	}
}

// Get returns the icon called name, loading it on first use.
func (c *IconCache) Get(name string) (image.Image, error) {
	if c == nil || c.dir == "" || name == "" {
		return nil, ErrNoIcon
	}

	c.mu.RLock()
	img, ok := c.images[name]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		c.mu.RLock()
		img, ok := c.images[name]
		c.mu.RUnlock()
		if ok {
			return img, nil
		}

		img, err := c.load(c.Path(name))
		if err != nil {
			return nil, fmt.Errorf("load icon %s: %w", name, err)
		}
		c.mu.Lock()
		c.images[name] = img
		c.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Dir returns the directory icons are read from.
func (c *IconCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Path returns the file an icon is read from.
func (c *IconCache) Path(name string) string {
	return filepath.Join(c.Dir(), filepath.Base(name)+".png")
}

// Forget drops a cached icon so the next Get reads the file again.
func (c *IconCache) Forget(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.images, name)
	c.mu.Unlock()
}

// Preload loads every named icon, returning the first error. Icons that
// loaded stay cached either way.
func (c *IconCache) Preload(names ...string) error {
	var first error
	for _, name := range names {
		if _, err := c.Get(name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IconNames lists every icon the compiler can ask for.
func IconNames() []string {
	return append(slices.Sorted(maps.Values(tokenIcons)), IconGoal)
}
