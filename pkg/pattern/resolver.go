package pattern

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ManouchehrRasoulli/globwatcher/internal"
)

// Change is one entry of the latest Update.
type Change struct {
	Path    string
	ModTime time.Time
	// Created is set when the path was not in the cache before this cycle.
	Created bool
}

// Resolver turns a pattern into the set of paths currently matching it and
// remembers modification times between calls to report what changed.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	pattern  string
	base     string
	segments []Segment

	cache   map[string]time.Time
	updated []Change
	removed []string
}

// NewResolver splits pattern into its literal base directory and the wildcard segments.
func NewResolver(pattern string) *Resolver {
	r := &Resolver{
		pattern: pattern,
		cache:   make(map[string]time.Time),
	}
	r.base, r.segments = split(filepath.ToSlash(pattern))
	r.base = filepath.Clean(filepath.FromSlash(r.base))
	return r
}

func split(pattern string) (string, []Segment) {
	wildcard := strings.IndexByte(pattern, '*')
	if wildcard < 0 {
		if pattern == "" {
			return ".", nil
		}
		return pattern, nil
	}

	base, rest := "", pattern
	if slash := strings.LastIndexByte(pattern[:wildcard], '/'); slash >= 0 {
		base, rest = pattern[:slash], pattern[slash+1:]
		if slash == 0 {
			base = "/"
		}
	}
	if base == "" {
		base = "."
	}

	var segments []Segment
	for _, s := range strings.Split(rest, "/") {
		if s == "" {
			continue
		}
		segments = append(segments, NewSegment(s))
	}
	return base, segments
}

func (r *Resolver) Pattern() string { return r.pattern }

// Base is the literal directory resolution starts from.
func (r *Resolver) Base() string { return r.base }

func (r *Resolver) Segments() []Segment { return r.segments }

// Resolve walks the tree and returns the matching paths in traversal order.
// A listed path that cannot be stat'ed is returned regardless of types.
// It does not touch the modification time cache.
func (r *Resolver) Resolve(option FilterOptions, types FileType) []string {
	if !internal.Exists(r.base) {
		return nil
	}

	candidates := []string{r.base}
	for i, seg := range r.segments {
		last := i == len(r.segments)-1

		var next []string
		seen := make(map[string]struct{})
		add := func(p string) {
			if _, ok := seen[p]; ok {
				return
			}
			seen[p] = struct{}{}
			next = append(next, p)
		}

		for _, dir := range candidates {
			if seg.Recursive() && !last {
				// "**" also matches zero components so the following segment applies to dir itself
				if info, err := internal.Stat(dir); err == nil && info.IsDir() {
					add(dir)
				}
			}

			for _, p := range listDir(dir, seg.Recursive(), option) {
				if !seg.Match(filepath.Base(p)) {
					continue
				}
				if !last {
					info, err := internal.Stat(p)
					if err != nil || !info.IsDir() {
						continue
					}
				}
				add(p)
			}
		}
		candidates = next
	}

	ret := make([]string, 0, len(candidates))
	for _, p := range candidates {
		// the base is never listed, so excludes have not seen it yet
		if slices.Contains(option.Excludes, filepath.Base(p)) {
			continue
		}
		info, err := internal.Stat(p)
		if err != nil {
			// listed but unreadable, Update reports it and keeps the cached entry
			ret = append(ret, p)
			continue
		}
		if types&TypeOf(info) == 0 {
			continue
		}
		ret = append(ret, p)
	}
	return ret
}

// listDir lists dir, or its whole subtree when recursive. A plain file lists as itself.
func listDir(path string, recursive bool, option FilterOptions) []string {
	info, err := internal.Stat(path)
	if err != nil || !info.Exists {
		return nil
	}
	if !info.IsDir() {
		return []string{path}
	}
	if recursive {
		return internal.Walk(path, option.Filter)
	}
	return internal.ReadDir(path, option.Filter)
}

// Update resolves again and diffs the result against the cache.
// Paths that vanished before their timestamp could be read are skipped.
// Cache entries for paths no longer resolved are evicted and reported by Removed.
// The returned error joins unexpected stat failures, the affected paths are skipped.
func (r *Resolver) Update(option FilterOptions, types FileType) error {
	r.updated = r.updated[:0]
	r.removed = r.removed[:0]

	var errs []error
	current := make(map[string]struct{})
	for _, p := range r.Resolve(option, types) {
		mt, ok, err := internal.ModTime(p)
		if err != nil {
			// keep the cached entry, the path is still there
			current[p] = struct{}{}
			errs = append(errs, fmt.Errorf("resolver :: read modification time of %s: %w", p, err))
			continue
		}
		if !ok {
			continue
		}
		current[p] = struct{}{}

		prev, cached := r.cache[p]
		if cached && prev.Equal(mt) {
			continue
		}
		r.cache[p] = mt
		r.updated = append(r.updated, Change{Path: p, ModTime: mt, Created: !cached})
	}

	for p := range r.cache {
		if _, ok := current[p]; !ok {
			delete(r.cache, p)
			r.removed = append(r.removed, p)
		}
	}
	sort.Strings(r.removed)

	return errors.Join(errs...)
}

// Updated returns the paths of the latest Update in resolution order.
func (r *Resolver) Updated() []string {
	ret := make([]string, len(r.updated))
	for i, c := range r.updated {
		ret[i] = c.Path
	}
	return ret
}

// Changes is Updated with the observed timestamps.
func (r *Resolver) Changes() []Change {
	return append([]Change(nil), r.updated...)
}

// Removed returns, sorted, the cached paths the latest Update did not resolve anymore.
func (r *Resolver) Removed() []string {
	return append([]string(nil), r.removed...)
}

// Cached reports the timestamp remembered for path.
func (r *Resolver) Cached(path string) (time.Time, bool) {
	t, ok := r.cache[path]
	return t, ok
}
