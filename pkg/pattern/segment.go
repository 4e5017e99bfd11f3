package pattern

import (
	"strings"

	"github.com/gobwas/glob"
)

// RecursiveToken is the component that expands to a whole subtree.
const RecursiveToken = "**"

// Segment matches a single path component.
type Segment struct {
	text      string
	recursive bool
	g         glob.Glob
}

// NewSegment compiles one component. Only '*' is special, every other
// character matches itself. The component "**" is recursive and matches any name.
func NewSegment(text string) Segment {
	s := Segment{text: text}
	if text == RecursiveToken {
		s.recursive = true
		text = "*"
	}

	parts := strings.Split(text, "*")
	for i := range parts {
		parts[i] = glob.QuoteMeta(parts[i])
	}

	// quoted text only leaves '*' unescaped, which always compiles
	s.g = glob.MustCompile(strings.Join(parts, "*"))
	return s
}

func (s Segment) Match(name string) bool { return s.g.Match(name) }

func (s Segment) Recursive() bool { return s.recursive }

func (s Segment) String() string { return s.text }
