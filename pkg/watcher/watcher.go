package watcher

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ManouchehrRasoulli/globwatcher/pkg/logger"
	"github.com/ManouchehrRasoulli/globwatcher/pkg/pattern"
)

var ErrNilCallback = errors.New("watcher: callback is required")

// Options is the full, replaceable option set of a Watcher.
type Options struct {
	// CheckInterval is the accumulated tick time between two checks.
	CheckInterval time.Duration
	// FileTypes restricts the final result to these entry kinds.
	FileTypes pattern.FileType
	// AbsolutePath hands resolved paths to the callback instead of root-relative ones.
	AbsolutePath bool
	Filter       pattern.FilterOptions
	// NotifyRemoved dispatches fsnotify.Remove events for paths that stopped matching.
	// Only OnEvent callbacks receive them.
	NotifyRemoved bool
	// CatchUp runs one check per elapsed interval when a tick spans several of them.
	// By default overrun intervals collapse into one check.
	CatchUp bool
}

func DefaultOptions() Options {
	return Options{
		CheckInterval: time.Second,
		FileTypes:     pattern.DefaultType,
		Filter:        pattern.DefaultFilterOptions(),
	}
}

type Option func(w *Watcher)

func WithOptions(o Options) Option {
	return func(w *Watcher) {
		w.option = o
	}
}

// WithRoot sets the data root: relative patterns resolve under it and
// emitted paths are relative to it.
func WithRoot(dir string) Option {
	return func(w *Watcher) {
		w.root = dir
	}
}

func WithLogger(lg *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger.NewColorLogger(lg)
	}
}

// Watcher polls one pattern. It is driven by Tick or Check from a single
// goroutine and is not safe for concurrent use, except for Stop and Running.
type Watcher struct {
	pattern  string
	root     string
	resolver *pattern.Resolver
	callback Callback
	option   Options
	timer    time.Duration
	running  atomic.Bool
	logger   *logger.ColorLogger
}

// New creates a stopped watcher for path.
func New(path string, callback Callback, options ...Option) (*Watcher, error) {
	if !callback.valid() {
		return nil, ErrNilCallback
	}

	w := &Watcher{
		pattern:  path,
		callback: callback,
		option:   DefaultOptions(),
		logger:   logger.Discard(),
	}
	for _, op := range options {
		op(w)
	}

	if w.root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		w.root = wd
	}
	root, err := filepath.Abs(w.root)
	if err != nil {
		return nil, err
	}
	w.root = root

	full := filepath.FromSlash(path)
	if !filepath.IsAbs(full) {
		full = filepath.Join(w.root, full)
	}
	w.resolver = pattern.NewResolver(full)

	w.logger.Printf("NEW watcher :: pattern %s, base %s\n", path, w.resolver.Base())
	return w, nil
}

func (w *Watcher) Pattern() string { return w.pattern }

func (w *Watcher) Root() string { return w.root }

func (w *Watcher) Options() Options { return w.option }

// SetOptions replaces every option, effective from the next check.
func (w *Watcher) SetOptions(o Options) { w.option = o }

func (w *Watcher) Running() bool { return w.running.Load() }

// Start runs a check right away, so the first call reports every matching path.
// Starting a running watcher does nothing.
func (w *Watcher) Start() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	w.timer = 0
	w.Check()
}

// Stop makes further ticks no-ops. Stopping a stopped watcher does nothing.
func (w *Watcher) Stop() {
	w.running.Store(false)
}

// Tick accumulates elapsed time and checks once the interval is reached.
func (w *Watcher) Tick(delta time.Duration) {
	if !w.running.Load() {
		return
	}

	interval := w.option.CheckInterval
	if interval <= 0 {
		w.timer = 0
		w.Check()
		return
	}

	w.timer += delta
	if w.option.CatchUp {
		for w.running.Load() && w.timer >= interval {
			w.timer -= interval
			w.Check()
		}
		return
	}
	if w.timer >= interval {
		w.timer -= interval
		w.Check()
	}
}

// Check resolves now, bypassing the timer, and dispatches one callback per
// changed path in resolution order. It returns the events of this check.
func (w *Watcher) Check() []Event {
	if err := w.resolver.Update(w.option.Filter, w.option.FileTypes); err != nil {
		w.logger.Errorf("ERROR watcher :: %s :: %v", w.pattern, err)
	}

	var events []Event
	for _, c := range w.resolver.Changes() {
		op := fsnotify.Write
		if c.Created {
			op = fsnotify.Create
		}
		events = append(events, w.event(c.Path, op, c.ModTime))
	}
	if w.option.NotifyRemoved {
		for _, p := range w.resolver.Removed() {
			events = append(events, w.event(p, fsnotify.Remove, time.Time{}))
		}
	}

	for _, e := range events {
		w.logger.Printcf(e.Color(), "watcher :: %s --> %s", e.Op, e.Name)
		if err := w.callback.dispatch(e); err != nil {
			w.logger.Errorf("ERROR watcher :: callback failed on %s --> %v", e.Name, err)
		}
	}
	return events
}

func (w *Watcher) event(path string, op fsnotify.Op, mt time.Time) Event {
	name := path
	if !w.option.AbsolutePath {
		if rel, err := filepath.Rel(w.root, path); err == nil {
			name = rel
		}
	}
	return Event{Name: name, Path: path, Op: op, ModTime: mt}
}
