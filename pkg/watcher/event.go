package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ManouchehrRasoulli/globwatcher/pkg/logger"
)

// Event is one changed path reported by a check.
//
// Op is fsnotify.Create the first time a path is observed, fsnotify.Write when
// its modification time moved and fsnotify.Remove when it is not resolved anymore.
type Event struct {
	// Name is the path handed to callbacks, relative to the watcher root unless absolute paths are requested.
	Name string
	// Path is the resolved path on disk.
	Path    string
	Op      fsnotify.Op
	ModTime time.Time
}

func (e Event) Has(op fsnotify.Op) bool { return e.Op.Has(op) }

func (e Event) String() string {
	return fmt.Sprintf("%-13s %q", e.Op.String(), e.Name)
}

// Color picks the log color for the event kind.
func (e Event) Color() logger.Color {
	switch {
	case e.Has(fsnotify.Remove):
		return logger.ColorYellow
	case e.Has(fsnotify.Create):
		return logger.ColorGreen
	default:
		return logger.ColorBlue
	}
}
