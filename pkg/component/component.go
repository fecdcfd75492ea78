// Package component defines the declarative component model consumed by the
// resolution engine.
//
// A Component is an immutable description of one piece of UI, identified by
// a key (unique among siblings) and compared by type identity plus prop
// value-equality. Components are created fresh on every render pass and
// never mutated; the engine resolves them into nodes.
//
// Each component declares a Kind once, at classification time. The engine
// dispatches on that closed enum instead of repeatedly inspecting types
// deeper in the pipeline.
package component

import "reflect"

// Kind classifies a component into one of the four resolution strategies.
type Kind uint8

const (
	// KindContainer components build their own node directly, appending
	// resolved children (structural components such as rows and columns).
	KindContainer Kind = iota
	// KindLeaf components produce content nodes; the engine creates a
	// blank node, runs the prepare hook, and attaches a measure function.
	KindLeaf
	// KindDelegating components render to a single child component which
	// is resolved in their place.
	KindDelegating
	// KindDeferred components need their concrete constraints to decide
	// layout; resolution is postponed until the container measures them.
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindLeaf:
		return "leaf"
	case KindDelegating:
		return "delegating"
	case KindDeferred:
		return "deferred"
	default:
		return "invalid"
	}
}

// Component is an immutable declarative description of one piece of UI.
type Component interface {
	// Key identifies the component among its siblings. An empty key asks
	// the engine to derive one from the component type and child index.
	Key() string
	// Kind selects the resolution strategy. It must be constant for a
	// given component type.
	Kind() Kind
}

// Updater is implemented by components that customize update comparison
// during reconciliation. The previous and next resolved states accompany
// the components themselves.
type Updater interface {
	Component
	ShouldUpdate(prev, next Component, prevState, nextState any) bool
}

// Stateful is implemented by components that hold per-instance state,
// keyed by global key and carried across passes by the tree state.
type Stateful interface {
	Component
	InitialState() any
}

// TreePropsProvider is implemented by components that pass implicit props
// down to their descendants.
type TreePropsProvider interface {
	Component
	TreePropsForChildren(sc *ScopedContext, ancestor TreeProps) TreeProps
}

// Name returns the bare type name of a component for keys and diagnostics.
func Name(c Component) string {
	if c == nil {
		return "nil"
	}
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// SameType reports whether two components have the same concrete type.
func SameType(a, b Component) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// Equivalence is implemented by components that customize their own
// equivalence check, bypassing the reflective prop comparison.
type Equivalence interface {
	Component
	IsEquivalentTo(other Component) bool
}

// Equivalent reports whether two components are interchangeable: same
// concrete type and value-equal props, declared children included.
// Function-valued props compare by presence, not identity: a render pass
// rebuilds closures every time, and a fresh closure with the same role
// must not break equivalence.
func Equivalent(a, b Component) bool {
	return equivalent(a, b, false)
}

// EquivalentProps is Equivalent restricted to a component's own props:
// fields holding child components (or collections of them) are skipped.
// The reconciliation gate compares roots with it; children are compared
// individually as the reconciling walk descends.
func EquivalentProps(a, b Component) bool {
	return equivalent(a, b, true)
}

func equivalent(a, b Component, skipChildren bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !SameType(a, b) {
		return false
	}
	if eq, ok := a.(Equivalence); ok {
		return eq.IsEquivalentTo(b)
	}
	return equivalentValue(reflect.ValueOf(a), reflect.ValueOf(b), skipChildren, 0)
}

// maxEquivalenceDepth bounds the prop walk against cyclic structures.
const maxEquivalenceDepth = 64

var componentType = reflect.TypeOf((*Component)(nil)).Elem()

// carriesComponents reports whether a field type holds child components:
// the Component interface itself, a type implementing it, or a slice,
// array or map of such a type.
func carriesComponents(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return carriesComponents(t.Elem())
	default:
		return t == componentType || t.Implements(componentType)
	}
}

func equivalentValue(a, b reflect.Value, skipChildren bool, depth int) bool {
	if depth > maxEquivalenceDepth {
		return false
	}
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Func:
		return a.IsNil() == b.IsNil()
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return equivalentValue(a.Elem(), b.Elem(), skipChildren, depth+1)
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equivalentValue(a.Elem(), b.Elem(), skipChildren, depth+1)
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}
		fallthrough
	case reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equivalentValue(a.Index(i), b.Index(i), skipChildren, depth+1) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		for _, key := range a.MapKeys() {
			bv := b.MapIndex(key)
			if !bv.IsValid() || !equivalentValue(a.MapIndex(key), bv, skipChildren, depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		t := a.Type()
		for i := 0; i < a.NumField(); i++ {
			if skipChildren && carriesComponents(t.Field(i).Type) {
				continue
			}
			if !equivalentValue(a.Field(i), b.Field(i), skipChildren, depth+1) {
				return false
			}
		}
		return true
	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	}
	return false
}
