package pattern

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ManouchehrRasoulli/globwatcher/internal"
)

var ErrUnknownFileType = errors.New("unknown file type")

// FileType is a bitmask over filesystem entry kinds.
type FileType uint32

const (
	NotFound FileType = 1 << iota
	Regular
	Directory
	Symlink
	Block
	Character
	Fifo
	Socket
	Reparse // windows reparse point that is not a symlink
	Unknown

	AnyType     = NotFound | Regular | Directory | Symlink | Block | Character | Fifo | Socket | Reparse | Unknown
	DefaultType = Regular | Directory
)

var fileTypeNames = []struct {
	t    FileType
	name string
}{
	{NotFound, "not-found"},
	{Regular, "regular"},
	{Directory, "directory"},
	{Symlink, "symlink"},
	{Block, "block"},
	{Character, "character"},
	{Fifo, "fifo"},
	{Socket, "socket"},
	{Reparse, "reparse"},
	{Unknown, "unknown"},
}

func (t FileType) Has(h FileType) bool { return t&h == h }

func (t FileType) String() string {
	var b strings.Builder
	for _, n := range fileTypeNames {
		if t.Has(n.t) {
			b.WriteString("|")
			b.WriteString(n.name)
		}
	}
	if b.Len() == 0 {
		return "[no types]"
	}
	return b.String()[1:]
}

// ParseFileType ors the named kinds together. "any" selects every kind, "default" regular|directory.
// An empty list yields DefaultType.
func ParseFileType(names []string) (FileType, error) {
	if len(names) == 0 {
		return DefaultType, nil
	}

	var t FileType
	var errs []error
	for _, name := range names {
		switch name = strings.ToLower(strings.TrimSpace(name)); name {
		case "any", "all":
			t |= AnyType
			continue
		case "default":
			t |= DefaultType
			continue
		case "file":
			t |= Regular
			continue
		case "dir":
			t |= Directory
			continue
		}

		found := false
		for _, n := range fileTypeNames {
			if n.name == name {
				t |= n.t
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownFileType, name))
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return t, nil
}

// TypeOf classifies an entry by its resolved (symlink-followed) mode.
func TypeOf(i internal.Info) FileType {
	if !i.Exists {
		return NotFound
	}
	m := i.Mode
	switch {
	case m.IsRegular():
		return Regular
	case m.IsDir():
		return Directory
	case m&fs.ModeSymlink != 0:
		// Stat follows links, only a link without a target keeps this bit
		return NotFound
	case m&fs.ModeDevice != 0 && m&fs.ModeCharDevice != 0:
		return Character
	case m&fs.ModeDevice != 0:
		return Block
	case m&fs.ModeNamedPipe != 0:
		return Fifo
	case m&fs.ModeSocket != 0:
		return Socket
	case m&fs.ModeIrregular != 0:
		return Reparse
	}
	return Unknown
}
