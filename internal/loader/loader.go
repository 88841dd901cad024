// Package loader fetches display resources off the UI goroutine and hands
// the results back to it.
//
// Fetch starts a load on its own goroutine. The completion callback is not
// run there: it is queued, and Pump runs queued callbacks on the caller's
// goroutine. A single UI goroutine calling Pump therefore owns all widget
// state without locking.
package loader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "loader")

// Source reads the bytes at path.
type Source func(ctx context.Context, path string) ([]byte, error)

// FileSource reads from the local filesystem.
func FileSource(ctx context.Context, path string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- result{data, err}
	}()
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Options configures a Loader.
type Options struct {
	CacheSize int
	Timeout   time.Duration
	Source    Source
}

// Loader is an asynchronous, cached resource fetcher.
type Loader struct {
	cache   *lru.ARCCache
	source  Source
	timeout time.Duration

	mu      sync.Mutex
	queue   []func()
	pending int
	ready   chan struct{}
}

// New returns a Loader. Zero options fall back to a 64 entry cache, a 2s
// timeout and FileSource.
func New(opts Options) (*Loader, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Source == nil {
		opts.Source = FileSource
	}
	cache, err := lru.NewARC(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resource cache: %w", err)
	}
	return &Loader{
		cache:   cache,
		source:  opts.Source,
		timeout: opts.Timeout,
		ready:   make(chan struct{}, 1),
	}, nil
}

// Fetch loads path in the background. done is queued for the next Pump.
// Successful loads are cached by path.
func (l *Loader) Fetch(path string, done func(data []byte, err error)) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	go func() {
		data, err := l.load(path)
		if err != nil {
			log.WithField("path", path).WithError(err).Debug("resource load failed")
		}
		l.post(func() { done(data, err) })
	}()
}

func (l *Loader) load(path string) ([]byte, error) {
	if v, ok := l.cache.Get(path); ok {
		return v.([]byte), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	data, err := l.source(ctx, path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(path, data)
	return data, nil
}

func (l *Loader) post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.pending--
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Pump runs every queued completion on the calling goroutine and returns
// how many ran. Completions that start new fetches are picked up by a
// later Pump.
func (l *Loader) Pump() int {
	l.mu.Lock()
	q := l.queue
	l.queue = nil
	l.mu.Unlock()
	for _, fn := range q {
		fn()
	}
	return len(q)
}

// Idle reports whether no load is in flight and nothing is queued.
func (l *Loader) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending == 0 && len(l.queue) == 0
}

// Ready is signalled whenever a completion is queued.
func (l *Loader) Ready() <-chan struct{} { return l.ready }

// Settle pumps until the loader is idle or ctx ends.
func (l *Loader) Settle(ctx context.Context) error {
	for {
		l.Pump()
		if l.Idle() {
			return nil
		}
		select {
		case <-l.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Cached reports whether path is in the cache.
func (l *Loader) Cached(path string) bool {
	return l.cache.Contains(path)
}

// Purge empties the cache, e.g. after a watched file changed.
func (l *Loader) Purge() {
	l.cache.Purge()
}
