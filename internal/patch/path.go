package patch

import (
	"fmt"
	"strings"
)

// PathSegment is one component of a parameter path: a field name, an
// element index, or both when a named field holds a list element.
type PathSegment struct {
	Name  string
	Index int // -1 when the segment carries no index.
}

// Path locates a leaf within a module's parameter tree, e.g. `fm.mods[1]`.
type Path struct {
	Segments []PathSegment
}

// Field returns a new Path extended with a named segment. The receiver is
// not modified.
func (p Path) Field(name string) Path {
	segs := make([]PathSegment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Segments: append(segs, PathSegment{Name: name, Index: -1})}
}

// Index returns a new Path whose final segment gains the given index.
// Indexing an empty path produces a bare `[i]` segment.
func (p Path) Index(i int) Path {
	if len(p.Segments) == 0 {
		return Path{Segments: []PathSegment{{Index: i}}}
	}
	segs := make([]PathSegment, len(p.Segments))
	copy(segs, p.Segments)
	last := &segs[len(segs)-1]
	if last.Index != -1 {
		// Nested list: the index becomes its own segment.
		return Path{Segments: append(segs, PathSegment{Index: i})}
	}
	last.Index = i
	return Path{Segments: segs}
}

// String serializes the path into its canonical dotted form.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 && seg.Name != "" {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
		if seg.Index != -1 {
			fmt.Fprintf(&sb, "[%d]", seg.Index)
		}
	}
	return sb.String()
}
