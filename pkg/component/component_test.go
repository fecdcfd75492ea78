package component

import (
	"testing"
)

type fakeText struct {
	ManualKey string
	Content   string
}

func (f fakeText) Key() string { return f.ManualKey }
func (f fakeText) Kind() Kind  { return KindLeaf }

type fakeBox struct {
	Children []Component
}

func (f fakeBox) Key() string { return "" }
func (f fakeBox) Kind() Kind  { return KindContainer }

func TestEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b Component
		want bool
	}{
		{"same props", fakeText{Content: "hi"}, fakeText{Content: "hi"}, true},
		{"different props", fakeText{Content: "hi"}, fakeText{Content: "yo"}, false},
		{"different types", fakeText{}, fakeBox{}, false},
		{"nested children equal", fakeBox{Children: []Component{fakeText{Content: "a"}}},
			fakeBox{Children: []Component{fakeText{Content: "a"}}}, true},
		{"nested children differ", fakeBox{Children: []Component{fakeText{Content: "a"}}},
			fakeBox{Children: []Component{fakeText{Content: "b"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("Equivalent() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeButton struct {
	Label   string
	OnPress func()
}

func (f fakeButton) Key() string { return "" }
func (f fakeButton) Kind() Kind  { return KindLeaf }

type fakeAnchor struct {
	Rev int
}

func (f fakeAnchor) Key() string { return "" }
func (f fakeAnchor) Kind() Kind  { return KindLeaf }

func (f fakeAnchor) IsEquivalentTo(other Component) bool { return true }

func TestEquivalentToleratesRebuiltCallbacks(t *testing.T) {
	a := fakeButton{Label: "go", OnPress: func() {}}
	b := fakeButton{Label: "go", OnPress: func() {}}
	if !Equivalent(a, b) {
		t.Error("fresh closures with equal props broke equivalence")
	}
	if Equivalent(a, fakeButton{Label: "stop", OnPress: func() {}}) {
		t.Error("differing props compared equivalent")
	}
	if Equivalent(a, fakeButton{Label: "go"}) {
		t.Error("nil callback compared equivalent to a set one")
	}
}

func TestEquivalentRecursesThroughCallbackCarryingChildren(t *testing.T) {
	build := func(label string) fakeBox {
		return fakeBox{Children: []Component{fakeButton{Label: label, OnPress: func() {}}}}
	}
	if !Equivalent(build("go"), build("go")) {
		t.Error("equal children with rebuilt callbacks broke equivalence")
	}
	if Equivalent(build("go"), build("stop")) {
		t.Error("differing child props compared equivalent")
	}
}

func TestEquivalentPropsIgnoresDeclaredChildren(t *testing.T) {
	a := fakeBox{Children: []Component{fakeText{Content: "a"}}}
	b := fakeBox{Children: []Component{fakeText{Content: "b"}}}
	if !EquivalentProps(a, b) {
		t.Error("own-prop comparison leaked into declared children")
	}
	if Equivalent(a, b) {
		t.Error("full comparison ignored declared children")
	}
}

func TestEquivalenceHookWins(t *testing.T) {
	if !Equivalent(fakeAnchor{Rev: 1}, fakeAnchor{Rev: 2}) {
		t.Error("custom equivalence hook was not consulted")
	}
}

func TestDescendGeneratesGlobalKeys(t *testing.T) {
	root := NewRootScope(TreeProps{})
	box := root.Descend(fakeBox{}, "")
	first := box.Descend(fakeText{Content: "a"}, "")
	second := box.Descend(fakeText{Content: "b"}, "")

	if first.GlobalKey() == second.GlobalKey() {
		t.Fatalf("sibling auto keys collide: %q", first.GlobalKey())
	}
	if first.GlobalKey() == "" {
		t.Fatal("expected generated key")
	}
}

func TestDescendManualKey(t *testing.T) {
	root := NewRootScope(TreeProps{})
	box := root.Descend(fakeBox{}, "")
	child := box.Descend(fakeText{ManualKey: "title"}, "")

	want := box.GlobalKey() + ",title"
	if child.GlobalKey() != want {
		t.Errorf("GlobalKey() = %q, want %q", child.GlobalKey(), want)
	}
}

func TestDescendReusesKey(t *testing.T) {
	root := NewRootScope(TreeProps{})
	child := root.Descend(fakeText{}, "previous-key")
	if child.GlobalKey() != "previous-key" {
		t.Errorf("GlobalKey() = %q, want reused key", child.GlobalKey())
	}
}

func TestTreePropsCopyOnExtend(t *testing.T) {
	base := TreeProps{}.With("theme", "dark")
	derived := base.With("density", 2)

	if base.Get("density") != nil {
		t.Error("extension must not mutate the parent props")
	}
	if derived.Get("theme") != "dark" || derived.Get("density") != 2 {
		t.Error("derived props should see both values")
	}
}

func TestHierarchy(t *testing.T) {
	root := NewRootScope(TreeProps{})
	box := root.Descend(fakeBox{}, "")
	text := box.Descend(fakeText{}, "")

	got := text.Hierarchy()
	want := []string{"fakeBox", "fakeText"}
	if len(got) != len(want) {
		t.Fatalf("Hierarchy() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hierarchy()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
