package watcher

import (
	"github.com/fsnotify/fsnotify"
)

// Callback receives the events of one check. Build one with Notify, OnPath,
// OnEvent or Load. Returned errors are logged by the watcher, the check goes on.
type Callback struct {
	fn func(Event) error
	// removals marks callbacks that want fsnotify.Remove events.
	removals bool
}

func (c Callback) valid() bool { return c.fn != nil }

func (c Callback) dispatch(e Event) error {
	if e.Has(fsnotify.Remove) && !c.removals {
		return nil
	}
	return c.fn(e)
}

// Notify calls fn once per updated path without telling which.
func Notify(fn func()) Callback {
	if fn == nil {
		return Callback{}
	}
	return Callback{fn: func(Event) error {
		fn()
		return nil
	}}
}

// OnPath calls fn with every updated path.
func OnPath(fn func(path string)) Callback {
	if fn == nil {
		return Callback{}
	}
	return Callback{fn: func(e Event) error {
		fn(e.Name)
		return nil
	}}
}

// OnEvent calls fn with the full event, including removals when the
// watcher is configured to report them.
func OnEvent(fn func(e Event)) Callback {
	if fn == nil {
		return Callback{}
	}
	return Callback{removals: true, fn: func(e Event) error {
		fn(e)
		return nil
	}}
}

// Load reads every updated path with load and hands the value to then.
// load receives the path on disk, then the emitted name.
func Load[T any](load func(path string) (T, error), then func(value T, path string)) Callback {
	if load == nil || then == nil {
		return Callback{}
	}
	return Callback{fn: func(e Event) error {
		v, err := load(e.Path)
		if err != nil {
			return err
		}
		then(v, e.Name)
		return nil
	}}
}
