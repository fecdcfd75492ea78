package testing

import (
	"fmt"
	"reflect"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/resolve"
)

// Finder locates nodes in a resolved tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *resolve.Node) []*resolve.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*resolve.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *resolve.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *resolve.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *resolve.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("finder index %d out of range (found %d): %s",
			index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*resolve.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

type predicateFinder struct {
	match func(*resolve.Node) bool
	desc  string
}

func (f predicateFinder) Description() string { return f.desc }

func (f predicateFinder) Evaluate(root *resolve.Node) []*resolve.Node {
	var out []*resolve.Node
	var walk func(n *resolve.Node)
	walk = func(n *resolve.Node) {
		if n == nil {
			return
		}
		if f.match(n) {
			out = append(out, n)
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
	return out
}

// ByKey matches nodes owning the given global key, on any of their scopes.
func ByKey(globalKey string) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("key %q", globalKey),
		match: func(n *resolve.Node) bool {
			for _, sc := range n.Scopes() {
				if sc.GlobalKey() == globalKey {
					return true
				}
			}
			return false
		},
	}
}

// ByType matches nodes resolved from a component of the same type as
// sample, on any of their scopes.
func ByType(sample component.Component) Finder {
	want := reflect.TypeOf(sample)
	return predicateFinder{
		desc: fmt.Sprintf("type %v", want),
		match: func(n *resolve.Node) bool {
			for _, sc := range n.Scopes() {
				if reflect.TypeOf(sc.Component()) == want {
					return true
				}
			}
			return false
		},
	}
}
