package field

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Path addresses a column (or group of columns) inside a nested schema
// by the names of the fields leading to it from the root.
type Path []string

func New(name string) Path {
	return Path{name}
}

// A root is an empty slice (not nil).
func NewRoot() Path {
	return Path{}
}

func (p Path) String() string {
	if len(p) == 0 {
		return "this"
	}
	return strings.Join(p, ".")
}

func (p Path) Leaf() string {
	return p[len(p)-1]
}

// Head returns the first element of p, or "" for the root.
func (p Path) Head() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Tail returns p without its first element.
func (p Path) Tail() Path {
	if len(p) == 0 {
		return p
	}
	return p[1:]
}

func (p Path) Equal(to Path) bool {
	if p == nil {
		return to == nil
	}
	if to == nil {
		return false
	}
	return slices.Equal(p, to)
}

func (p Path) Append(name string) Path {
	return append(slices.Clone(p), name)
}

func Dotted(s string) Path {
	return strings.Split(s, ".")
}
