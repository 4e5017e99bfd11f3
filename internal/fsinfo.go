package internal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Info is the subset of a stat result the resolver cares about.
// A zero Info (Exists == false) stands for a path that is not there.
type Info struct {
	Path    string
	Mode    fs.FileMode
	ModTime time.Time
	Exists  bool
}

func (i Info) IsDir() bool { return i.Exists && i.Mode.IsDir() }

// IsFile reports an existing entry that cannot be descended into.
func (i Info) IsFile() bool { return i.Exists && !i.Mode.IsDir() }

// Stat follows symlinks. A missing path is not an error, it yields Info{Exists: false}.
// A dangling symlink is reported with the symlink mode of the link itself.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err == nil {
		return Info{Path: path, Mode: fi.Mode(), ModTime: fi.ModTime(), Exists: true}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Info{Path: path}, err
	}

	li, lerr := os.Lstat(path)
	if lerr != nil {
		return Info{Path: path}, nil
	}
	return Info{Path: path, Mode: li.Mode(), ModTime: li.ModTime(), Exists: true}, nil
}

// Exists is Stat without the details.
func Exists(path string) bool {
	i, err := Stat(path)
	return err == nil && i.Exists
}

// ModTime reads the modification time of path.
// ok is false when the path vanished in the meantime.
func ModTime(path string) (t time.Time, ok bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return fi.ModTime(), true, nil
}

// ReadDir returns the immediate children of dir joined onto dir, in directory order.
// keep is consulted for every child; a nil keep accepts everything.
func ReadDir(dir string, keep func(path string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if keep != nil && !keep(p) {
			continue
		}
		ret = append(ret, p)
	}
	return ret
}

// Walk returns every descendant of dir at every depth (dir itself excluded), pre-order.
// keep is consulted entry by entry: a rejected directory is dropped but its descendants are still visited.
func Walk(dir string, keep func(path string) bool) []string {
	root := dir
	if li, err := os.Lstat(dir); err == nil && li.Mode()&fs.ModeSymlink != 0 {
		// WalkDir does not descend into a symlinked root unless asked through a trailing separator
		root = dir + string(filepath.Separator)
	}

	var ret []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if path == root {
			if err != nil {
				return filepath.SkipDir
			}
			return nil
		}
		if err != nil {
			// unreadable or vanished entry, keep going with the rest of the tree
			return nil
		}
		if keep != nil && !keep(path) {
			return nil
		}
		ret = append(ret, path)
		return nil
	})
	return ret
}
