package watcher

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/ManouchehrRasoulli/globwatcher/pkg/logger"
)

// Registry keeps started watchers by the pattern they were created with,
// so they can be ticked together and cancelled by pattern.
type Registry struct {
	watchers map[string][]*Watcher
	rwM      sync.RWMutex
	root     string
	lg       *log.Logger
	logger   *logger.ColorLogger
}

type RegistryOption func(r *Registry)

// WithRegistryRoot is the root handed to every watcher created by the registry.
func WithRegistryRoot(dir string) RegistryOption {
	return func(r *Registry) {
		r.root = dir
	}
}

func WithRegistryLogger(lg *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.lg = lg
		r.logger = logger.NewColorLogger(lg)
	}
}

func NewRegistry(options ...RegistryOption) *Registry {
	r := Registry{
		watchers: make(map[string][]*Watcher),
		logger:   logger.Discard(),
	}
	for _, op := range options {
		op(&r)
	}
	return &r
}

// Watch creates a watcher for path, applies options and starts it, which runs
// the first check before returning. With retain the registry keeps it under
// path; watchers that are not retained are ticked by the caller.
func (r *Registry) Watch(path string, callback Callback, options Options, retain bool) (*Watcher, error) {
	w, err := New(path, callback, WithRoot(r.root), WithLogger(r.lg), WithOptions(options))
	if err != nil {
		return nil, err
	}
	w.Start()

	if retain {
		r.rwM.Lock()
		r.watchers[path] = append(r.watchers[path], w)
		r.rwM.Unlock()
		r.logger.Printf("registry :: retained --> %s\n", path)
	}
	return w, nil
}

// Unwatch stops and forgets every watcher registered under path.
func (r *Registry) Unwatch(path string) bool {
	r.rwM.Lock()
	defer r.rwM.Unlock()

	ws, ok := r.watchers[path]
	if !ok {
		return false
	}
	for _, w := range ws {
		w.Stop()
	}
	delete(r.watchers, path)
	r.logger.Printf("registry :: released %d watcher(s) --> %s\n", len(ws), path)
	return true
}

// Watchers returns the watchers registered under path.
func (r *Registry) Watchers(path string) []*Watcher {
	r.rwM.RLock()
	defer r.rwM.RUnlock()

	return append([]*Watcher(nil), r.watchers[path]...)
}

// Patterns lists the registered patterns, sorted.
func (r *Registry) Patterns() []string {
	r.rwM.RLock()
	defer r.rwM.RUnlock()

	ret := make([]string, 0, len(r.watchers))
	for p := range r.watchers {
		ret = append(ret, p)
	}
	sort.Strings(ret)
	return ret
}

func (r *Registry) Len() int {
	r.rwM.RLock()
	defer r.rwM.RUnlock()

	n := 0
	for _, ws := range r.watchers {
		n += len(ws)
	}
	return n
}

// Tick forwards delta to every retained watcher, one after another, ordered by pattern.
// The registry is not locked while callbacks run, so they may Watch or Unwatch.
// Tick itself must be driven from one goroutine.
func (r *Registry) Tick(delta time.Duration) {
	r.rwM.RLock()
	var ws []*Watcher
	for _, p := range r.sortedLocked() {
		ws = append(ws, r.watchers[p]...)
	}
	r.rwM.RUnlock()

	for _, w := range ws {
		w.Tick(delta)
	}
}

// Close stops every watcher and empties the registry.
func (r *Registry) Close() {
	r.rwM.Lock()
	defer r.rwM.Unlock()

	for _, ws := range r.watchers {
		for _, w := range ws {
			w.Stop()
		}
	}
	r.watchers = make(map[string][]*Watcher)
}

func (r *Registry) sortedLocked() []string {
	ret := make([]string, 0, len(r.watchers))
	for p := range r.watchers {
		ret = append(ret, p)
	}
	sort.Strings(ret)
	return ret
}
