package internal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// QueryKey identifies a cached query. Invalidation matches by prefix.
type QueryKey []string

func (k QueryKey) String() string {
	return strings.Join(k, "/")
}

// id is the map and singleflight key; the separator cannot appear in a search term typed on one line
func (k QueryKey) id() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether prefix matches the leading elements of k
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether k and o name the same query
func (k QueryKey) Equal(o QueryKey) bool {
	return len(k) == len(o) && k.HasPrefix(o)
}

// QueryOptions tunes a QueryClient
type QueryOptions struct {
	Retry      int
	RetryDelay time.Duration
	StaleTime  time.Duration
}

// QueryOptionsFromConfig maps the query config section
func QueryOptionsFromConfig(c QueryConfig) QueryOptions {
	return QueryOptions{Retry: c.Retry, RetryDelay: c.RetryDelay, StaleTime: c.StaleTime}
}

type cacheEntry struct {
	key       QueryKey
	value     interface{}
	fetchedAt time.Time
	invalid   bool
}

type flight struct {
	key        QueryKey
	superseded bool
}

// QueryClient caches read results per key and dedupes concurrent reads of the same key
type QueryClient struct {
	opts  QueryOptions
	now   func() time.Time
	group singleflight.Group

	mu       sync.Mutex
	entries  map[string]*cacheEntry
	inflight map[string]*flight
}

// NewQueryClient creates an empty cache
func NewQueryClient(opts QueryOptions) *QueryClient {
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	return &QueryClient{
		opts:     opts,
		now:      time.Now,
		entries:  make(map[string]*cacheEntry),
		inflight: make(map[string]*flight),
	}
}

// Fetch returns the fresh cached value for key, or runs fn (deduped, with retries) and caches its result.
// A result whose key was invalidated while fn was running is returned but not cached.
func Fetch[T any](ctx context.Context, qc *QueryClient, key QueryKey, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := qc.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	ch := qc.group.DoChan(key.id(), func() (interface{}, error) {
		return qc.run(ctx, key, func(ctx context.Context) (interface{}, error) {
			return fn(ctx)
		})
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, _ := res.Val.(T)
		return typed, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Mutate runs fn once and, on success, invalidates every key under the given prefixes
func Mutate[T any](ctx context.Context, qc *QueryClient, fn func(context.Context) (T, error), invalidate ...QueryKey) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	for _, prefix := range invalidate {
		qc.Invalidate(prefix)
	}
	return v, nil
}

func (qc *QueryClient) fresh(key QueryKey) (interface{}, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	e, ok := qc.entries[key.id()]
	if !ok || e.invalid || qc.now().Sub(e.fetchedAt) >= qc.opts.StaleTime {
		return nil, false
	}
	return e.value, true
}

func (qc *QueryClient) run(ctx context.Context, key QueryKey, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	f := &flight{key: key}
	qc.mu.Lock()
	qc.inflight[key.id()] = f
	qc.mu.Unlock()

	var (
		v   interface{}
		err error
	)
	for attempt := 0; attempt <= qc.opts.Retry; attempt++ {
		if attempt > 0 {
			LogDebug("retrying query %s after: %v", key, err)
			if !sleepCtx(ctx, qc.opts.RetryDelay) {
				break
			}
		}
		v, err = fn(ctx)
		if err == nil || !retryable(ctx, err) {
			break
		}
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()
	if qc.inflight[key.id()] == f {
		delete(qc.inflight, key.id())
	}
	if err != nil {
		return nil, err
	}
	if f.superseded {
		LogDebug("query %s was invalidated in flight, not caching", key)
		return v, nil
	}
	qc.entries[key.id()] = &cacheEntry{key: key, value: v, fetchedAt: qc.now()}
	return v, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch KindOf(err) {
	case KindUnauthorized, KindValidation:
		return false
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Invalidate marks every entry under prefix stale and supersedes matching in-flight reads
func (qc *QueryClient) Invalidate(prefix QueryKey) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	n := 0
	for _, e := range qc.entries {
		if e.key.HasPrefix(prefix) {
			e.invalid = true
			n++
		}
	}
	for id, f := range qc.inflight {
		if f.key.HasPrefix(prefix) {
			f.superseded = true
			delete(qc.inflight, id)
			// later callers start a new request instead of joining the superseded one
			qc.group.Forget(id)
		}
	}
	LogDebug("invalidated %d cached queries under %s", n, prefix)
}

// Peek returns the cached value for key, fresh or not, and whether it is stale
func (qc *QueryClient) Peek(key QueryKey) (value interface{}, stale bool, ok bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	e, found := qc.entries[key.id()]
	if !found {
		return nil, false, false
	}
	return e.value, e.invalid || qc.now().Sub(e.fetchedAt) >= qc.opts.StaleTime, true
}

// Clear drops every entry and supersedes every in-flight read
func (qc *QueryClient) Clear() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.entries = make(map[string]*cacheEntry)
	for id, f := range qc.inflight {
		f.superseded = true
		qc.group.Forget(id)
	}
	qc.inflight = make(map[string]*flight)
}

// Len returns the number of cached entries
func (qc *QueryClient) Len() int {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return len(qc.entries)
}

// Cached is the typed form of Peek
func Cached[T any](qc *QueryClient, key QueryKey) (value T, stale bool, ok bool) {
	v, stale, found := qc.Peek(key)
	if !found {
		return value, false, false
	}
	typed, ok := v.(T)
	return typed, stale, ok
}
