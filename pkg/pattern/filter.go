package pattern

import (
	"path/filepath"
	"slices"

	"github.com/ManouchehrRasoulli/globwatcher/internal"
)

// FilterOptions is applied to every listed entry before segment matching.
type FilterOptions struct {
	// Excludes are literal file names that never pass.
	Excludes []string
	// AllowExt restricts files to these extensions (with the leading dot).
	// Empty allows every extension. Extensionless directories always pass.
	AllowExt []string
}

// DefaultFilterOptions excludes macOS folder metadata.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{Excludes: []string{".DS_Store"}}
}

// Filter reports whether path survives the exclude and extension rules.
func (o FilterOptions) Filter(path string) bool {
	name := filepath.Base(path)
	if slices.Contains(o.Excludes, name) {
		return false
	}
	if len(o.AllowExt) == 0 {
		return true
	}

	ext := extension(name)
	if ext == "" {
		i, err := internal.Stat(path)
		return err == nil && i.IsDir()
	}
	return slices.Contains(o.AllowExt, ext)
}

// extension treats a leading dot as part of the stem, ".profile" has no extension.
func extension(name string) string {
	if name == "." || name == ".." {
		return ""
	}
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}
