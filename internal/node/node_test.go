package node

import (
	"errors"
	"testing"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/scene"
	"github.com/livefir/livescene/style"
)

func div() ChildNode {
	return ChildNode{Kind: ChildElement, Element: Element{Kind: host.KindDiv}}
}

func text(s string) ChildNode {
	return ChildNode{Kind: ChildText, Text: host.NewText(s)}
}

func TestInstantiateNested(t *testing.T) {
	// div
	//   div
	//     "a"
	//     div
	//       "b"
	//   ""
	//   placeholder
	var tree ChildrenTree
	tree.Add(div())
	tree.Enter()
	tree.Add(text("a"))
	tree.Add(div())
	tree.Enter()
	tree.Add(text("b"))
	tree.Exit()
	tree.Exit()
	tree.Add(text(""))
	idx := tree.Placeholder()
	_ = idx

	if !tree.Balanced() {
		t.Fatal("tree should be balanced")
	}

	w := scene.NewWorld()
	root, spawned, err := Instantiate(w, RootNode{
		Kind:     RootElementWithChildren,
		Element:  Element{Kind: host.KindButton},
		Children: tree,
	})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	if spawned != 7 {
		t.Errorf("spawned = %d, want 7", spawned)
	}

	if k, _ := w.Kind(root); k != host.KindButton {
		t.Errorf("root kind = %v", k)
	}
	top := w.Children(root)
	if len(top) != 3 {
		t.Fatalf("root has %d children, want 3", len(top))
	}
	if k, _ := w.Kind(top[2]); k != host.KindEmpty {
		t.Errorf("placeholder child spawned as %v", k)
	}

	inner := w.Children(top[0])
	if len(inner) != 2 {
		t.Fatalf("first child has %d children, want 2", len(inner))
	}
	if txt, _ := w.Text(inner[0]); txt.String() != "a" {
		t.Errorf("text = %q", txt.String())
	}
	deepest := w.Children(inner[1])
	if len(deepest) != 1 {
		t.Fatalf("nested div has %d children", len(deepest))
	}
	if txt, _ := w.Text(deepest[0]); txt.String() != "b" {
		t.Errorf("deep text = %q", txt.String())
	}
}

func TestInstantiateLeafRoots(t *testing.T) {
	w := scene.NewWorld()

	e, n, err := Instantiate(w, RootNode{Kind: RootText, Text: host.NewText("hi")})
	if err != nil || n != 1 {
		t.Fatalf("text root: %v, %d", err, n)
	}
	if txt, ok := w.Text(e); !ok || txt.String() != "hi" {
		t.Errorf("text root content = %q", txt.String())
	}

	e, _, _ = Instantiate(w, RootNode{Kind: RootPlaceholder})
	if k, _ := w.Kind(e); k != host.KindEmpty {
		t.Errorf("placeholder root kind = %v", k)
	}
}

func TestInstantiateMalformed(t *testing.T) {
	w := scene.NewWorld()

	var exitFirst ChildrenTree
	exitFirst.Add(div())
	exitFirst.Exit()
	_, _, err := Instantiate(w, RootNode{Kind: RootElementWithChildren, Element: Element{Kind: host.KindDiv}, Children: exitFirst})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	var enterFirst ChildrenTree
	enterFirst.Enter()
	_, _, err = Instantiate(w, RootNode{Kind: RootElementWithChildren, Element: Element{Kind: host.KindDiv}, Children: enterFirst})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	if enterFirst.Balanced() {
		t.Error("unclosed enter reported as balanced")
	}
}

func TestElementBundleCopiesStyle(t *testing.T) {
	s := style.Default()
	s.Width = style.Px(3)
	el := Element{Kind: host.KindDiv, Style: &s}

	b := el.Bundle()
	b.Style.Width = style.Px(9)
	if s.Width != style.Px(3) {
		t.Error("Bundle must not hand out the compiled style record")
	}
}

func TestResolvePath(t *testing.T) {
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	a := w.Spawn(host.Bundle{Kind: host.KindDiv})
	b := w.Spawn(host.Bundle{Kind: host.KindButton})
	leaf := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("x")})
	_ = w.AppendChild(root, a)
	_ = w.AppendChild(root, b)
	_ = w.AppendChild(b, leaf)

	tests := []struct {
		path []uint8
		want host.Entity
	}{
		{nil, root},
		{[]uint8{0}, a},
		{[]uint8{1}, b},
		{[]uint8{1, 0}, leaf},
	}
	for _, tt := range tests {
		got, err := Resolve(w, root, tt.path)
		if err != nil {
			t.Fatalf("Resolve(%v) error: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%v) = %v, want %v", tt.path, got, tt.want)
		}
	}

	for _, bad := range [][]uint8{{2}, {0, 0}, {1, 0, 0}} {
		if _, err := Resolve(w, root, bad); !errors.Is(err, ErrPath) {
			t.Errorf("Resolve(%v) should fail with ErrPath, got %v", bad, err)
		}
	}
}
