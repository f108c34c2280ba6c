package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"mediatools/internal/artifact"
	"mediatools/internal/backend"
	"mediatools/internal/fingerprint"
	"mediatools/internal/logging"
)

// Key addresses one cached artifact. Fingerprint is the backend's cache
// key input for the file; Backend is the descriptor ID, which folds in
// name, version, and config digest so a config change is a new key.
type Key struct {
	Fingerprint fingerprint.Fingerprint
	Backend     string
}

// NewKey builds a key from a backend's fingerprint input and descriptor.
func NewKey(fp fingerprint.Fingerprint, desc backend.Descriptor) Key {
	return Key{Fingerprint: fp, Backend: desc.ID()}
}

func (k Key) String() string {
	return string(k.Fingerprint) + "|" + k.Backend
}

// ComputeFunc produces the artifact for a cache miss.
type ComputeFunc func(ctx context.Context) (artifact.Artifact, error)

// Options configures a ResultCache.
type Options struct {
	// MaxEntries bounds the in-memory tier; zero or negative disables the
	// entry bound.
	MaxEntries int
	// MaxBytes bounds the in-memory tier by encoded artifact size; zero
	// or negative disables the byte bound.
	MaxBytes int64
	// Store persists entries across runs; nil keeps the cache in-memory
	// only.
	Store  Store
	Logger *slog.Logger
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Entries   int
	Bytes     int64
	Hits      int64
	Misses    int64
	Computes  int64
	Evictions int64
}

type entry struct {
	key  string
	art  artifact.Artifact
	size int64
}

// ResultCache coordinates at-most-once artifact computation per key.
type ResultCache struct {
	maxEntries int
	maxBytes   int64
	store      Store
	logger     *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List // front is most recently used
	bytes   int64
	hits    int64
	misses  int64
	compute int64
	evicted int64
}

// New builds a cache from opts.
func New(opts Options) *ResultCache {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ResultCache{
		maxEntries: opts.MaxEntries,
		maxBytes:   opts.MaxBytes,
		store:      opts.Store,
		logger:     logging.NewComponentLogger(logger, "cache"),
		index:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

type flightResult struct {
	art       artifact.Artifact
	fromCache bool
}

// GetOrCompute returns the artifact for key, invoking compute at most once
// per key across concurrent callers. The bool reports whether the artifact
// came from the cache (memory or durable store) rather than a fresh
// computation this caller triggered; callers that joined another caller's
// in-flight computation also observe true. Compute failures propagate to
// every waiting caller and are not cached.
func (c *ResultCache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) (artifact.Artifact, bool, error) {
	ks := key.String()

	if art, ok := c.lookup(ks); ok {
		return art, true, nil
	}

	v, err, shared := c.group.Do(ks, func() (any, error) {
		// A concurrent flight may have landed between lookup and here.
		if art, ok := c.lookup(ks); ok {
			return flightResult{art: art, fromCache: true}, nil
		}

		if art, ok := c.loadDurable(ks); ok {
			c.insert(ks, art)
			return flightResult{art: art, fromCache: true}, nil
		}

		c.mu.Lock()
		c.misses++
		c.mu.Unlock()

		art, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		// A cancelled computation must not populate the cache even when
		// the backend returned a value on the way out.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err := art.Validate(); err != nil {
			return nil, err
		}

		c.insert(ks, art)
		c.saveDurable(ks, art)

		c.mu.Lock()
		c.compute++
		c.mu.Unlock()

		return flightResult{art: art}, nil
	})
	if err != nil {
		return artifact.Artifact{}, false, err
	}

	res := v.(flightResult)
	return res.art, res.fromCache || shared, nil
}

// Stats returns a snapshot of cache counters.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   c.order.Len(),
		Bytes:     c.bytes,
		Hits:      c.hits,
		Misses:    c.misses,
		Computes:  c.compute,
		Evictions: c.evicted,
	}
}

// Clear drops the in-memory tier. The durable store is not touched.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]*list.Element)
	c.order.Init()
	c.bytes = 0
}

func (c *ResultCache) lookup(ks string) (artifact.Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.index[ks]
	if !ok {
		return artifact.Artifact{}, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*entry).art, true
}

// insert adds the artifact under ks and evicts least-recently-used entries
// while over budget. Existing keys are left untouched: entries are
// write-once.
func (c *ResultCache) insert(ks string, art artifact.Artifact) {
	size := int64(0)
	if data, err := artifact.Encode(art); err == nil {
		size = int64(len(data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[ks]; ok {
		return
	}

	elem := c.order.PushFront(&entry{key: ks, art: art, size: size})
	c.index[ks] = elem
	c.bytes += size

	for c.overBudget() {
		back := c.order.Back()
		if back == nil || back == elem && c.order.Len() == 1 {
			break
		}
		ev := back.Value.(*entry)
		c.order.Remove(back)
		delete(c.index, ev.key)
		c.bytes -= ev.size
		c.evicted++
	}
}

func (c *ResultCache) overBudget() bool {
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		return true
	}
	if c.maxBytes > 0 && c.bytes > c.maxBytes {
		return true
	}
	return false
}

func (c *ResultCache) loadDurable(ks string) (artifact.Artifact, bool) {
	if c.store == nil {
		return artifact.Artifact{}, false
	}
	data, ok, err := c.store.Get(ks)
	if err != nil {
		c.logger.Warn("durable cache read failed", logging.Error(err))
		return artifact.Artifact{}, false
	}
	if !ok {
		return artifact.Artifact{}, false
	}
	art, err := artifact.Decode(data)
	if err != nil {
		c.logger.Warn("durable cache entry corrupt, recomputing", logging.Error(err))
		return artifact.Artifact{}, false
	}
	return art, true
}

func (c *ResultCache) saveDurable(ks string, art artifact.Artifact) {
	if c.store == nil {
		return
	}
	data, err := artifact.Encode(art)
	if err != nil {
		return
	}
	if err := c.store.Put(ks, data); err != nil {
		c.logger.Warn("durable cache write failed", logging.Error(err))
	}
}
