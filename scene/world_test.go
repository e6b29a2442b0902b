package scene

import (
	"errors"
	"testing"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/style"
)

func TestWorldHierarchy(t *testing.T) {
	w := NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	a := w.Spawn(host.Bundle{Kind: host.KindDiv})
	b := w.Spawn(host.Bundle{Kind: host.KindButton})
	c := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("c")})

	for _, e := range []host.Entity{a, b} {
		if err := w.AppendChild(root, e); err != nil {
			t.Fatalf("AppendChild failed: %v", err)
		}
	}
	if err := w.InsertChild(root, 1, c); err != nil {
		t.Fatalf("InsertChild failed: %v", err)
	}

	got := w.Children(root)
	want := []host.Entity{a, c, b}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}

	if p, ok := w.Parent(c); !ok || p != root {
		t.Errorf("Parent(c) = %v, %v", p, ok)
	}

	// Re-attaching moves the node
	if err := w.AppendChild(a, c); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if len(w.Children(root)) != 2 || w.Children(a)[0] != c {
		t.Errorf("move did not detach from old parent: root=%v a=%v", w.Children(root), w.Children(a))
	}
}

func TestWorldRejectsCycles(t *testing.T) {
	w := NewWorld()
	a := w.Spawn(host.Bundle{Kind: host.KindDiv})
	b := w.Spawn(host.Bundle{Kind: host.KindDiv})
	if err := w.AppendChild(a, b); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendChild(b, a); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
	if err := w.AppendChild(a, a); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle for self attach, got %v", err)
	}
}

func TestWorldInsertOutOfRange(t *testing.T) {
	w := NewWorld()
	a := w.Spawn(host.Bundle{Kind: host.KindDiv})
	b := w.Spawn(host.Bundle{Kind: host.KindDiv})
	if err := w.InsertChild(a, 1, b); !errors.Is(err, ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestWorldDestroyIsRecursive(t *testing.T) {
	w := NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	mid := w.Spawn(host.Bundle{Kind: host.KindDiv})
	leaf := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("x")})
	_ = w.AppendChild(root, mid)
	_ = w.AppendChild(mid, leaf)

	if err := w.Destroy(mid); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if w.Alive(mid) || w.Alive(leaf) {
		t.Error("destroyed subtree should be gone")
	}
	if len(w.Children(root)) != 0 {
		t.Errorf("root still lists %v", w.Children(root))
	}
	if w.Len() != 1 {
		t.Errorf("Len() = %d, want 1", w.Len())
	}
	if err := w.Destroy(leaf); !errors.Is(err, ErrNoEntity) {
		t.Errorf("expected ErrNoEntity, got %v", err)
	}
}

func TestWorldStyleIsLazy(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(host.Bundle{Kind: host.KindDiv})
	if _, ok := w.LookupStyle(e); ok {
		t.Fatal("style should not exist before first access")
	}
	s, err := w.Style(e)
	if err != nil {
		t.Fatal(err)
	}
	s.Width = style.Px(10)

	again, _ := w.Style(e)
	if again.Width != style.Px(10) {
		t.Error("Style should return the stored record")
	}
}

func TestWorldSpawnClonesBundleData(t *testing.T) {
	w := NewWorld()
	s := style.Default()
	b := host.Bundle{Kind: host.KindDiv, Style: &s}
	e1 := w.Spawn(b)
	e2 := w.Spawn(b)

	s1, _ := w.Style(e1)
	s1.Height = style.Px(4)
	s2, _ := w.Style(e2)
	if s2.Height == style.Px(4) || s.Height == style.Px(4) {
		t.Error("spawned entities must not share the bundle's style record")
	}
}

func TestWorldWalk(t *testing.T) {
	w := NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	a := w.Spawn(host.Bundle{Kind: host.KindDiv})
	a1 := w.Spawn(host.Bundle{Kind: host.KindEmpty})
	b := w.Spawn(host.Bundle{Kind: host.KindImage, Image: host.Image{Source: "x.png"}})
	_ = w.AppendChild(root, a)
	_ = w.AppendChild(a, a1)
	_ = w.AppendChild(root, b)

	var order []host.Entity
	var depths []int
	w.Walk(root, func(e host.Entity, depth int) bool {
		order = append(order, e)
		depths = append(depths, depth)
		return true
	})
	want := []host.Entity{root, a, a1, b}
	wantDepth := []int{0, 1, 2, 1}
	for i := range want {
		if order[i] != want[i] || depths[i] != wantDepth[i] {
			t.Fatalf("walk order %v depths %v", order, depths)
		}
	}

	if img, ok := w.Image(b); !ok || img.Source != "x.png" {
		t.Errorf("image component = %+v, %v", img, ok)
	}
}
