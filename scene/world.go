// Package scene is an in-memory retained scene graph implementing host.Host.
//
// Nodes are entities with components stored in per-component maps, the way
// an entity/component system keeps them: kind, hierarchy, text, style and
// image data. Entity handles are never reused, so a stale handle always
// fails with ErrNoEntity instead of aliasing a newer node.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/style"
)

var (
	// ErrNoEntity is returned for handles that were never spawned or were destroyed
	ErrNoEntity = errors.New("no such entity")
	// ErrCycle is returned when attaching a node below itself
	ErrCycle = errors.New("attachment would create a cycle")
	// ErrIndex is returned for out of range child positions
	ErrIndex = errors.New("child index out of range")
)

// World owns every entity and its components. It is not safe for concurrent use.
type World struct {
	kinds    map[host.Entity]host.Kind
	parents  map[host.Entity]host.Entity
	children map[host.Entity][]host.Entity
	texts    map[host.Entity]host.Text
	styles   map[host.Entity]*style.Style
	images   map[host.Entity]host.Image
	next     host.Entity
}

var _ host.Host = (*World)(nil)

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		kinds:    make(map[host.Entity]host.Kind),
		parents:  make(map[host.Entity]host.Entity),
		children: make(map[host.Entity][]host.Entity),
		texts:    make(map[host.Entity]host.Text),
		styles:   make(map[host.Entity]*style.Style),
		images:   make(map[host.Entity]host.Image),
	}
}

// Spawn creates a detached entity from the bundle
func (w *World) Spawn(b host.Bundle) host.Entity {
	e := w.next
	w.next++

	w.kinds[e] = b.Kind
	if b.Style != nil {
		w.styles[e] = b.Style.Clone()
	}
	switch b.Kind {
	case host.KindText:
		w.texts[e] = cloneText(b.Text)
	case host.KindImage:
		w.images[e] = b.Image
	}
	return e
}

// Alive reports whether e exists
func (w *World) Alive(e host.Entity) bool {
	_, ok := w.kinds[e]
	return ok
}

// Kind returns the kind e was spawned with
func (w *World) Kind(e host.Entity) (host.Kind, bool) {
	k, ok := w.kinds[e]
	return k, ok
}

// Len returns the number of live entities
func (w *World) Len() int {
	return len(w.kinds)
}

func (w *World) check(e host.Entity) error {
	if !w.Alive(e) {
		return fmt.Errorf("%w: %s", ErrNoEntity, e)
	}
	return nil
}

// AppendChild attaches child as the last child of parent
func (w *World) AppendChild(parent, child host.Entity) error {
	if err := w.prepareAttach(parent, child); err != nil {
		return err
	}
	w.children[parent] = append(w.children[parent], child)
	w.parents[child] = parent
	return nil
}

// InsertChild attaches child at index among parent's children
func (w *World) InsertChild(parent host.Entity, index int, child host.Entity) error {
	if err := w.prepareAttach(parent, child); err != nil {
		return err
	}
	kids := w.children[parent]
	if index < 0 || index > len(kids) {
		return fmt.Errorf("%w: %d not in [0, %d] for %s", ErrIndex, index, len(kids), parent)
	}
	w.children[parent] = slices.Insert(kids, index, child)
	w.parents[child] = parent
	return nil
}

func (w *World) prepareAttach(parent, child host.Entity) error {
	if err := w.check(parent); err != nil {
		return err
	}
	if err := w.check(child); err != nil {
		return err
	}
	for p, ok := parent, true; ok; p, ok = w.parents[p] {
		if p == child {
			return fmt.Errorf("%w: %s under %s", ErrCycle, child, parent)
		}
	}
	w.unlink(child)
	return nil
}

// Detach removes e from its parent. Detaching a root is a no-op.
func (w *World) Detach(e host.Entity) error {
	if err := w.check(e); err != nil {
		return err
	}
	w.unlink(e)
	return nil
}

func (w *World) unlink(e host.Entity) {
	parent, ok := w.parents[e]
	if !ok {
		return
	}
	delete(w.parents, e)
	kids := w.children[parent]
	if i := slices.Index(kids, e); i >= 0 {
		w.children[parent] = slices.Delete(kids, i, i+1)
	}
}

// Destroy detaches e and removes it and all its descendants
func (w *World) Destroy(e host.Entity) error {
	if err := w.check(e); err != nil {
		return err
	}
	w.unlink(e)

	pending := []host.Entity{e}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = append(pending[:len(pending)-1], w.children[cur]...)

		delete(w.kinds, cur)
		delete(w.parents, cur)
		delete(w.children, cur)
		delete(w.texts, cur)
		delete(w.styles, cur)
		delete(w.images, cur)
	}
	return nil
}

// Parent returns the parent of e, if attached
func (w *World) Parent(e host.Entity) (host.Entity, bool) {
	p, ok := w.parents[e]
	return p, ok
}

// Children returns a copy of e's ordered children
func (w *World) Children(e host.Entity) []host.Entity {
	return slices.Clone(w.children[e])
}

// Text returns the text component of e
func (w *World) Text(e host.Entity) (host.Text, bool) {
	t, ok := w.texts[e]
	return t, ok
}

// SetText replaces the text component of e
func (w *World) SetText(e host.Entity, t host.Text) error {
	if err := w.check(e); err != nil {
		return err
	}
	w.texts[e] = cloneText(t)
	return nil
}

// Style returns e's style record, inserting the default one if absent
func (w *World) Style(e host.Entity) (*style.Style, error) {
	if err := w.check(e); err != nil {
		return nil, err
	}
	s, ok := w.styles[e]
	if !ok {
		d := style.Default()
		s = &d
		w.styles[e] = s
	}
	return s, nil
}

// LookupStyle returns e's style record without inserting one
func (w *World) LookupStyle(e host.Entity) (*style.Style, bool) {
	s, ok := w.styles[e]
	return s, ok
}

// Image returns the image component of e
func (w *World) Image(e host.Entity) (host.Image, bool) {
	img, ok := w.images[e]
	return img, ok
}

// Walk visits e and its descendants depth first, parents before children.
// Returning false from fn skips the node's subtree.
func (w *World) Walk(e host.Entity, fn func(e host.Entity, depth int) bool) {
	type frame struct {
		e     host.Entity
		depth int
	}
	stack := []frame{{e, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !w.Alive(f.e) || !fn(f.e, f.depth) {
			continue
		}
		kids := w.children[f.e]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

func cloneText(t host.Text) host.Text {
	return host.Text{Sections: slices.Clone(t.Sections)}
}
