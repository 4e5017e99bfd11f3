package watcher

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/ManouchehrRasoulli/globwatcher/pkg/pattern"
)

var (
	lg *log.Logger
	t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	lg = log.New(os.Stdout, "test --> ", 1|4)
	os.Exit(m.Run())
}

func writeFile(t *testing.T, root, name string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "create parent of %s.", p)
	require.NoError(t, os.WriteFile(p, []byte(name), 0o644), "write file %s.", p)
	return p
}

func touch(t *testing.T, path string, mt time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mt, mt), "set modification time of %s.", path)
}

type recorder struct {
	paths []string
}

func (r *recorder) callback() Callback {
	return OnPath(func(path string) {
		r.paths = append(r.paths, path)
	})
}

func (r *recorder) take() []string {
	p := r.paths
	r.paths = nil
	return p
}

func TestWatcher_NilCallback(t *testing.T) {
	_, err := New("*.jpg", Callback{})
	require.ErrorIs(t, err, ErrNilCallback)

	_, err = New("*.jpg", OnPath(nil))
	require.ErrorIs(t, err, ErrNilCallback)
}

func TestWatcher_EndToEnd(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "images/a.jpg")
	writeFile(t, root, "images/b.png")
	touch(t, a, t0)

	rec := &recorder{}
	w, err := New("images/*.jpg", rec.callback(), WithRoot(root), WithLogger(lg))
	require.NoError(t, err, "create watcher.")

	w.Check()
	require.Equal(t, []string{filepath.Join("images", "a.jpg")}, rec.take(), "first check reports the match")

	touch(t, a, t0.Add(time.Minute))
	w.Check()
	require.Equal(t, []string{filepath.Join("images", "a.jpg")}, rec.take(), "touched file is reported once")

	w.Check()
	require.Empty(t, rec.take(), "nothing changed")
}

func TestWatcher_AbsolutePath(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "images/a.jpg")

	o := DefaultOptions()
	o.AbsolutePath = true

	rec := &recorder{}
	w, err := New("images/*.jpg", rec.callback(), WithRoot(root), WithOptions(o))
	require.NoError(t, err, "create watcher.")

	abs, err := filepath.Abs(a)
	require.NoError(t, err)

	events := w.Check()
	require.Equal(t, []string{abs}, rec.take())
	require.Len(t, events, 1)
	require.Equal(t, abs, events[0].Path)
	require.Equal(t, fsnotify.Create, events[0].Op)
}

func TestWatcher_AbsolutePattern(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	writeFile(t, other, "x.txt")

	rec := &recorder{}
	w, err := New(filepath.Join(other, "*.txt"), rec.callback(), WithRoot(root))
	require.NoError(t, err, "create watcher.")

	w.Check()
	got := rec.take()
	require.Len(t, got, 1)
	require.Equal(t, "x.txt", filepath.Base(got[0]))
	require.Equal(t, filepath.Join(other, "x.txt"), filepath.Join(root, got[0]), "relative to the root even outside it")
}

func TestWatcher_StartStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	calls := 0
	w, err := New("*.txt", Notify(func() { calls++ }), WithRoot(root))
	require.NoError(t, err, "create watcher.")
	require.False(t, w.Running())

	w.Start()
	require.True(t, w.Running())
	require.Equal(t, 1, calls, "start checks right away")

	w.Start()
	require.Equal(t, 1, calls, "second start is a no-op")

	w.Stop()
	w.Stop()
	require.False(t, w.Running())

	writeFile(t, root, "b.txt")
	w.Tick(time.Hour)
	require.Equal(t, 1, calls, "stopped watcher ignores ticks")

	w.Check()
	require.Equal(t, 2, calls, "explicit check works while stopped")
}

// selfTouching reports one change per check: each callback moves the
// file's modification time forward.
func selfTouching(t *testing.T, root string, calls *int) (string, Callback) {
	p := writeFile(t, root, "a.txt")
	touch(t, p, t0)
	return p, OnPath(func(string) {
		*calls++
		touch(t, p, t0.Add(time.Duration(*calls)*time.Minute))
	})
}

func TestWatcher_Tick(t *testing.T) {
	root := t.TempDir()
	calls := 0
	_, cb := selfTouching(t, root, &calls)

	w, err := New("*.txt", cb, WithRoot(root))
	require.NoError(t, err, "create watcher.")
	w.Start()
	require.Equal(t, 1, calls)

	w.Tick(400 * time.Millisecond)
	w.Tick(400 * time.Millisecond)
	require.Equal(t, 1, calls, "interval not reached")

	w.Tick(200 * time.Millisecond)
	require.Equal(t, 2, calls, "interval reached")

	w.Tick(3500 * time.Millisecond)
	require.Equal(t, 3, calls, "overrun collapses into one check")

	w.Tick(0)
	require.Equal(t, 4, calls, "left over time is kept")
}

func TestWatcher_TickCatchUp(t *testing.T) {
	root := t.TempDir()
	calls := 0
	_, cb := selfTouching(t, root, &calls)

	o := DefaultOptions()
	o.CatchUp = true
	w, err := New("*.txt", cb, WithRoot(root), WithOptions(o))
	require.NoError(t, err, "create watcher.")
	w.Start()
	require.Equal(t, 1, calls)

	w.Tick(3500 * time.Millisecond)
	require.Equal(t, 4, calls, "one check per elapsed interval")

	w.Tick(400 * time.Millisecond)
	require.Equal(t, 4, calls)
	w.Tick(100 * time.Millisecond)
	require.Equal(t, 5, calls)
}

func TestWatcher_ZeroInterval(t *testing.T) {
	root := t.TempDir()
	calls := 0
	_, cb := selfTouching(t, root, &calls)

	o := DefaultOptions()
	o.CheckInterval = 0
	w, err := New("*.txt", cb, WithRoot(root), WithOptions(o))
	require.NoError(t, err, "create watcher.")
	w.Start()

	w.Tick(0)
	w.Tick(0)
	require.Equal(t, 3, calls, "every tick checks")
}

func TestWatcher_SetOptions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/a.txt")
	writeFile(t, root, "data/sub/b.txt")

	rec := &recorder{}
	w, err := New("data/**", rec.callback(), WithRoot(root))
	require.NoError(t, err, "create watcher.")

	o := DefaultOptions()
	o.FileTypes = pattern.Directory
	w.SetOptions(o)
	require.Equal(t, pattern.Directory, w.Options().FileTypes)

	w.Check()
	require.Equal(t, []string{filepath.Join("data", "sub")}, rec.take(), "directories only")

	o.FileTypes = pattern.Regular
	w.SetOptions(o)
	w.Check()
	require.ElementsMatch(t, []string{filepath.Join("data", "a.txt"), filepath.Join("data", "sub", "b.txt")}, rec.take(),
		"files are new to the cache")
}

func TestWatcher_NotifyRemoved(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt")
	writeFile(t, root, "b.txt")

	o := DefaultOptions()
	o.NotifyRemoved = true

	var events []Event
	rec := &recorder{}
	we, err := New("*.txt", OnEvent(func(e Event) { events = append(events, e) }), WithRoot(root), WithOptions(o))
	require.NoError(t, err, "create event watcher.")
	wp, err := New("*.txt", rec.callback(), WithRoot(root), WithOptions(o))
	require.NoError(t, err, "create path watcher.")

	we.Start()
	wp.Start()
	require.Len(t, events, 2)
	require.Len(t, rec.take(), 2)

	require.NoError(t, os.Remove(a), "remove file.")
	events = nil
	we.Check()
	wp.Check()

	require.Len(t, events, 1)
	require.Equal(t, "a.txt", events[0].Name)
	require.True(t, events[0].Has(fsnotify.Remove))
	require.Empty(t, rec.take(), "path callbacks only see updates")
}

func TestWatcher_Load(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "json/a.json")
	writeFile(t, root, "json/b.json")

	failing := errors.New("cannot parse")
	load := func(path string) (int, error) {
		if filepath.Base(path) == "a.json" {
			return 0, failing
		}
		b, err := os.ReadFile(path)
		return len(b), err
	}

	got := map[string]int{}
	w, err := New("json/*.json", Load(load, func(n int, path string) { got[path] = n }), WithRoot(root), WithLogger(lg))
	require.NoError(t, err, "create watcher.")

	w.Check()
	require.Equal(t, map[string]int{filepath.Join("json", "b.json"): len("json/b.json")}, got,
		"failed loads are skipped, the rest is delivered")
}

func TestWatcher_Event(t *testing.T) {
	e := Event{Name: "a.txt", Op: fsnotify.Create}
	require.True(t, e.Has(fsnotify.Create))
	require.Contains(t, e.String(), `"a.txt"`)
	require.NotEqual(t, e.Color(), Event{Op: fsnotify.Remove}.Color())
}
