package statediagram

import (
	"slices"
	"strconv"
	"strings"
)

// ScopeSeparator joins scope segments and ids into namespace keys.
const ScopeSeparator = "_"

const regionPrefix = "region_"

type segment struct {
	name   string
	region bool
}

// Path is the chain of enclosing composites (and parallel regions) that locates
// a declaration. The zero value is the root scope.
//
// Segments are kept apart rather than re-split from the joined key so that ids
// containing the separator do not produce phantom ancestors.
type Path struct {
	segments []segment
}

// RootPath returns the root scope.
func RootPath() Path {
	return Path{}
}

// PathOf builds a path of composite ids, outermost first.
func PathOf(ids ...string) Path {
	p := Path{}
	for _, id := range ids {
		p = p.Child(id)
	}

	return p
}

// IsRoot reports whether p is the root scope.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Child returns the scope nested inside composite id.
func (p Path) Child(id string) Path {
	return Path{segments: append(slices.Clip(p.segments), segment{name: id})}
}

// Region returns the scope of the index-th parallel region of p.
func (p Path) Region(index int) Path {
	return Path{segments: append(slices.Clip(p.segments), segment{
		name:   RegionName(index),
		region: true,
	})}
}

// Prefix returns the first n segments of p.
func (p Path) Prefix(n int) Path {
	if n >= len(p.segments) {
		return p
	}

	return Path{segments: slices.Clip(p.segments[:n])}
}

// Owner returns the id of the innermost composite of p, skipping region
// segments. It is empty for the root scope.
func (p Path) Owner() string {
	for i := len(p.segments) - 1; i >= 0; i-- {
		if !p.segments[i].region {
			return p.segments[i].name
		}
	}

	return ""
}

// Equal reports whether both paths name the same scope.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// HasPrefix reports whether ancestor is p itself or one of its ancestors.
func (p Path) HasPrefix(ancestor Path) bool {
	if len(ancestor.segments) > len(p.segments) {
		return false
	}

	return slices.Equal(p.segments[:len(ancestor.segments)], ancestor.segments)
}

// String returns the separator-joined form used as a key prefix.
func (p Path) String() string {
	names := make([]string, len(p.segments))
	for i, s := range p.segments {
		names[i] = s.name
	}

	return strings.Join(names, ScopeSeparator)
}

// RegionName returns the identifier of the index-th parallel region.
func RegionName(index int) string {
	return regionPrefix + strconv.Itoa(index)
}

// CommonAncestor returns the longest common prefix of a and b. It reports
// false when either path is the root or their first segments already differ.
func CommonAncestor(a, b Path) (Path, bool) {
	n := min(len(a.segments), len(b.segments))

	common := 0
	for common < n && a.segments[common] == b.segments[common] {
		common++
	}

	if common == 0 {
		return Path{}, false
	}

	return a.Prefix(common), true
}

// ScopedKey returns the namespace key of id declared in scope path. Marker ids
// and root-level ids are stored unscoped.
func ScopedKey(id string, path Path) string {
	if path.IsRoot() || IsMarkerID(id) {
		return id
	}

	return path.String() + ScopeSeparator + id
}
