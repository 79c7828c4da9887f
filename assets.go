package grove

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader produces the template node tree for a model.
type Loader interface {
	Load(ctx context.Context, spec ModelSpec) (*Node, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, spec ModelSpec) (*Node, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, spec ModelSpec) (*Node, error) {
	return f(ctx, spec)
}

// ModelAsset is a loaded model. The template tree is never attached to a
// scene; Instantiate returns independent copies.
type ModelAsset struct {
	Spec ModelSpec
	root *Node
}

// Instantiate deep-clones the template. Geometry is shared; materials and
// transforms belong to the copy.
func (a *ModelAsset) Instantiate() *Node {
	return a.root.Clone()
}

// AssetCache loads each catalog model at most once per session and shares
// the result with every generation. It is safe for concurrent use: loads
// run on their own goroutines while the host goroutine reads results.
type AssetCache struct {
	catalog *Catalog
	loader  Loader
	logger  *zap.Logger
	limit   int
	slots   chan struct{}

	// ctx bounds in-flight loads; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	flight singleflight.Group

	mu     sync.RWMutex
	loaded map[string]*ModelAsset
	failed map[string]error
}

// AssetCacheOption configures an AssetCache.
type AssetCacheOption func(*AssetCache)

// WithAssetLogger sets the logger used for load failures.
func WithAssetLogger(l *zap.Logger) AssetCacheOption {
	return func(c *AssetCache) { c.logger = l }
}

// WithMaxConcurrentLoads bounds parallel loads. n <= 0 means unbounded.
func WithMaxConcurrentLoads(n int) AssetCacheOption {
	return func(c *AssetCache) { c.limit = n }
}

// NewAssetCache creates an empty cache over catalog.
func NewAssetCache(catalog *Catalog, loader Loader, opts ...AssetCacheOption) *AssetCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &AssetCache{
		catalog: catalog,
		loader:  loader,
		logger:  zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
		loaded:  make(map[string]*ModelAsset),
		failed:  make(map[string]error),
	}
	for _, o := range opts {
		o(c)
	}
	if c.limit > 0 {
		c.slots = make(chan struct{}, c.limit)
	}
	c.logger = c.logger.Named("assets")
	return c
}

// Catalog returns the catalog the cache loads from.
func (c *AssetCache) Catalog() *Catalog {
	return c.catalog
}

// EnsureLoaded starts a load for every unresolved key and waits until all
// of them have resolved. Failed keys are logged and recorded; they never
// fail the call. If ctx ends first, EnsureLoaded returns ctx.Err() and the
// loads keep running so later callers can use their results.
func (c *AssetCache) EnsureLoaded(ctx context.Context, keys []string) error {
	var g errgroup.Group
	for _, key := range dedupe(keys) {
		if c.resolved(key) {
			continue
		}
		ch := c.flight.DoChan(key, func() (any, error) {
			c.load(key)
			return nil, nil
		})
		g.Go(func() error {
			select {
			case <-ch:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}

// load runs one load and records its outcome. A slot is held for the
// duration when a concurrency limit is set; a load still waiting for one
// when the cache closes fails with the close error.
func (c *AssetCache) load(key string) {
	if c.resolved(key) {
		return
	}
	if c.slots != nil {
		select {
		case c.slots <- struct{}{}:
			defer func() { <-c.slots }()
		case <-c.ctx.Done():
			c.fail(&AssetLoadError{Key: key, Err: c.ctx.Err()})
			return
		}
	}

	spec, ok := c.catalog.Model(key)
	if !ok {
		c.fail(&AssetLoadError{Key: key, Err: ErrUnknownModel})
		return
	}
	root, err := c.loader.Load(c.ctx, spec)
	if err == nil && root == nil {
		err = errors.New("loader returned no model")
	}
	if err != nil {
		c.fail(&AssetLoadError{Key: key, Err: err})
		return
	}

	c.mu.Lock()
	c.loaded[key] = &ModelAsset{Spec: spec, root: root}
	c.mu.Unlock()
	c.logger.Debug("model loaded", zap.String("key", key), zap.String("path", spec.Path))
}

func (c *AssetCache) fail(err *AssetLoadError) {
	c.mu.Lock()
	c.failed[err.Key] = err
	c.mu.Unlock()
	c.logger.Warn("model unavailable", zap.String("key", err.Key), zap.Error(err))
}

func (c *AssetCache) resolved(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.loaded[key]; ok {
		return true
	}
	_, ok := c.failed[key]
	return ok
}

// Ready reports whether every key has resolved, successfully or not.
// Once true for a key set it stays true.
func (c *AssetCache) Ready(keys []string) bool {
	for _, k := range keys {
		if !c.resolved(k) {
			return false
		}
	}
	return true
}

// Get returns the loaded asset for key, or nil if it failed, is unknown or
// has not resolved yet.
func (c *AssetCache) Get(key string) *ModelAsset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded[key]
}

// Err returns the recorded failure for key, or nil.
func (c *AssetCache) Err(key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failed[key]
}

// Failed returns the sorted keys that failed to load.
func (c *AssetCache) Failed() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.failed))
	for k := range c.failed {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Close cancels in-flight loads. Results already recorded stay readable.
func (c *AssetCache) Close() {
	c.cancel()
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
