package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSaveDelay is the idle time after the last Set before a save runs.
const DefaultSaveDelay = 10 * time.Second

type (
	Loader[T any] func(ctx context.Context) (T, error)
	Saver[T any]  func(ctx context.Context, v T) error
)

type options struct {
	delay  time.Duration
	logger *slog.Logger
	name   string
}

type Option func(*options)

func WithSaveDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels log lines and errors of the store.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Persistent adds a load-once / debounced-save lifecycle to a Store.
//
// Save marks the store clean before the write completes. A failed save
// therefore leaves Saved() true while the remote copy is stale; the error is
// returned to explicit callers and logged for debounced saves.
type Persistent[T any] struct {
	state   *Store[T]
	initial T
	load    Loader[T]
	save    Saver[T]
	delay   time.Duration
	name    string
	logger  *slog.Logger

	mu     sync.Mutex
	loaded bool
	saved  bool
	timer  *time.Timer
	gen    uint64
}

func NewPersistent[T any](initial T, load Loader[T], save Saver[T], opts ...Option) *Persistent[T] {
	o := options{delay: DefaultSaveDelay, logger: slog.Default(), name: "store"}
	for _, opt := range opts {
		opt(&o)
	}

	return &Persistent[T]{
		state:   New(initial),
		initial: initial,
		load:    load,
		save:    save,
		delay:   o.delay,
		name:    o.name,
		logger:  o.logger.With("store", o.name),
		saved:   true,
	}
}

func (p *Persistent[T]) Get() T                     { return p.state.Get() }
func (p *Persistent[T]) Snapshot() T                { return p.state.Snapshot() }
func (p *Persistent[T]) Subscribe(fn func()) func() { return p.state.Subscribe(fn) }
func (p *Persistent[T]) Name() string               { return p.name }

func (p *Persistent[T]) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.loaded
}

// Saved reports whether no Set happened since the last load or save attempt.
func (p *Persistent[T]) Saved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.saved
}

// Load replaces the value with the loader's result. A failing loader is
// logged and the initial value is used instead, so the store always ends up
// loaded. Overlapping loads are not coalesced; the last one to finish wins.
func (p *Persistent[T]) Load(ctx context.Context) {
	p.mu.Lock()
	p.loaded = false
	p.mu.Unlock()

	v, err := p.load(ctx)
	if err != nil {
		p.logger.Warn("load failed, using defaults", "error", err)
		v = p.initial
	}

	p.state.Set(v)

	p.mu.Lock()
	p.loaded = true
	p.saved = true
	p.mu.Unlock()

	p.logger.Debug("store loaded")
}

// Set replaces the value, notifies subscribers and re-arms the save timer.
func (p *Persistent[T]) Set(v T) {
	p.Update(func(T) (T, bool) { return v, true })
}

// Update is the atomic read-modify-write form of Set: fn sees the current
// value and returns the next one, or false to leave the store untouched
// (no notification, no save). fn must not call back into p.
func (p *Persistent[T]) Update(fn func(T) (T, bool)) bool {
	fns, changed := p.state.apply(fn)
	if !changed {
		return false
	}

	p.mu.Lock()
	p.saved = false
	p.stopTimerLocked()
	gen := p.gen
	p.timer = time.AfterFunc(p.delay, func() { p.expire(gen) })
	p.mu.Unlock()

	notify(fns)

	return true
}

// Save writes the current value now.
func (p *Persistent[T]) Save(ctx context.Context) error {
	p.mu.Lock()
	p.saved = true
	p.stopTimerLocked()
	p.mu.Unlock()

	if err := p.save(ctx, p.state.Get()); err != nil {
		return fmt.Errorf("saving %s: %w", p.name, err)
	}

	return nil
}

// Flush saves only if there are unsaved changes.
func (p *Persistent[T]) Flush(ctx context.Context) error {
	if p.Saved() {
		return nil
	}

	return p.Save(ctx)
}

// Close cancels a pending debounced save.
func (p *Persistent[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimerLocked()
}

func (p *Persistent[T]) expire(gen uint64) {
	p.mu.Lock()
	due := gen == p.gen && p.loaded && !p.saved
	p.mu.Unlock()

	if !due {
		return
	}

	if err := p.Save(context.Background()); err != nil {
		p.logger.Warn("debounced save failed", "error", err)
		return
	}

	p.logger.Debug("debounced save done")
}

// stopTimerLocked cancels the pending timer and invalidates callbacks that
// already fired but have not yet taken the lock.
func (p *Persistent[T]) stopTimerLocked() {
	p.gen++

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
