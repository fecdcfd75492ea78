package engine

import (
	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/resolve"
)

type attachment struct {
	handler component.AttachHandler
	scope   *component.ScopedContext
}

// dispatchAttachments compares the attach registrations of two committed
// trees: handlers present only in the new tree are attached, handlers
// present only in the old tree are detached. Handlers carried across both
// trees see nothing.
func dispatchAttachments(previous, next *Committed) {
	var prevSet, nextSet map[string]attachment
	if previous != nil {
		prevSet = collectAttachments(previous.Root)
	}
	if next != nil {
		nextSet = collectAttachments(next.Root)
	}
	for key, a := range nextSet {
		if _, ok := prevSet[key]; !ok {
			a.handler.OnAttach(a.scope)
		}
	}
	for key, a := range prevSet {
		if _, ok := nextSet[key]; !ok {
			a.handler.OnDetach(a.scope)
		}
	}
}

func collectAttachments(root *resolve.Node) map[string]attachment {
	out := make(map[string]attachment)
	var walk func(n *resolve.Node)
	walk = func(n *resolve.Node) {
		if n == nil {
			return
		}
		for _, a := range n.Attachables() {
			out[a.GlobalKey] = attachment{handler: a.Handler, scope: scopeForKey(n, a.GlobalKey)}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
	return out
}

func scopeForKey(n *resolve.Node, key string) *component.ScopedContext {
	for _, sc := range n.Scopes() {
		if sc.GlobalKey() == key {
			return sc
		}
	}
	return n.Tail()
}
