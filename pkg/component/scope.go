package component

import "fmt"

// keySeparator joins ancestor keys into a global key.
const keySeparator = ","

// TreeProps is an immutable set of props flowing from ancestors to
// descendants. Extension copies; a TreeProps value handed to a child can
// never mutate the parent's view.
type TreeProps struct {
	values map[any]any
}

// Get returns the prop stored under key, or nil.
func (t TreeProps) Get(key any) any {
	if t.values == nil {
		return nil
	}
	return t.values[key]
}

// With returns a copy of the props with key set to value.
func (t TreeProps) With(key, value any) TreeProps {
	next := make(map[any]any, len(t.values)+1)
	for k, v := range t.values {
		next[k] = v
	}
	next[key] = value
	return TreeProps{values: next}
}

// Len returns the number of stored props.
func (t TreeProps) Len() int {
	return len(t.values)
}

// ScopedContext binds one component instance to its position in the tree:
// global key, ancestor tree props, and resolved state. A scoped context is
// created during resolution and owned by the pass that created it.
type ScopedContext struct {
	parent     *ScopedContext
	component  Component
	globalKey  string
	treeProps  TreeProps
	state      any
	childCount int
}

// NewRootScope creates the scope that anchors a tree version. It carries
// the initial tree props and no component.
func NewRootScope(props TreeProps) *ScopedContext {
	return &ScopedContext{treeProps: props}
}

// Descend creates the scoped context for a child component. When
// keyToReuse is non-empty the child adopts that global key, preserving
// identity across passes; otherwise a key is generated from the ancestor
// path plus the child's own key (or its type and sibling index).
func (sc *ScopedContext) Descend(child Component, keyToReuse string) *ScopedContext {
	globalKey := keyToReuse
	if globalKey == "" {
		globalKey = sc.generateGlobalKey(child)
	}
	sc.childCount++
	return &ScopedContext{
		parent:    sc,
		component: child,
		globalKey: globalKey,
		treeProps: sc.treeProps,
	}
}

func (sc *ScopedContext) generateGlobalKey(child Component) string {
	own := child.Key()
	if own == "" {
		own = fmt.Sprintf("%s[%d]", Name(child), sc.childCount)
	}
	if sc.globalKey == "" {
		return own
	}
	return sc.globalKey + keySeparator + own
}

// Component returns the component this scope binds.
func (sc *ScopedContext) Component() Component {
	return sc.component
}

// GlobalKey returns the key identifying this scope within a tree version.
func (sc *ScopedContext) GlobalKey() string {
	return sc.globalKey
}

// Parent returns the ancestor scope, or nil at the root.
func (sc *ScopedContext) Parent() *ScopedContext {
	return sc.parent
}

// TreeProps returns the props visible to this scope's descendants.
func (sc *ScopedContext) TreeProps() TreeProps {
	return sc.treeProps
}

// SetTreeProps replaces the props passed to descendants of this scope.
func (sc *ScopedContext) SetTreeProps(props TreeProps) {
	sc.treeProps = props
}

// State returns the resolved state for this scope's component.
func (sc *ScopedContext) State() any {
	return sc.state
}

// SetState stores the resolved state for this scope's component.
func (sc *ScopedContext) SetState(state any) {
	sc.state = state
}

// Hierarchy returns the component type names from the root to this scope,
// outermost first, for diagnostics.
func (sc *ScopedContext) Hierarchy() []string {
	var names []string
	for cur := sc; cur != nil; cur = cur.parent {
		if cur.component != nil {
			names = append(names, Name(cur.component))
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}
