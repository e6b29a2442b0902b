// Package node holds the compiled form of templates.
//
// A compiled root carries its whole descendant tree as one flat ChildrenTree:
// node entries interleaved with Enter and Exit markers. Replaying the entries
// with a stack of insertion points rebuilds the tree without recursion, and
// the same flat sequence is replayed for every instantiation.
package node

import (
	"errors"
	"fmt"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/style"
)

var (
	// ErrMalformed is returned when a children tree has unbalanced Enter/Exit markers
	ErrMalformed = errors.New("malformed children tree")
	// ErrPath is returned when a path hop has no child at its index
	ErrPath = errors.New("path does not resolve")
)

// Element is a spawnable element kind with its default initial data
type Element struct {
	Kind  host.Kind // KindDiv, KindImage or KindButton
	Style *style.Style
	Image host.Image
}

// Bundle returns fresh spawn data; the style record is copied
func (e Element) Bundle() host.Bundle {
	b := host.Bundle{Kind: e.Kind, Image: e.Image}
	if e.Style != nil {
		b.Style = e.Style.Clone()
	}
	return b
}

// RootKind discriminates compiled template roots
type RootKind uint8

const (
	RootElementWithChildren RootKind = iota
	RootElement
	RootText
	RootPlaceholder
)

func (k RootKind) String() string {
	switch k {
	case RootElementWithChildren:
		return "element-with-children"
	case RootElement:
		return "element"
	case RootText:
		return "text"
	case RootPlaceholder:
		return "placeholder"
	}
	return fmt.Sprintf("root(%d)", uint8(k))
}

// RootNode is one compiled root of a template
type RootNode struct {
	Kind     RootKind
	Element  Element      // RootElementWithChildren, RootElement
	Children ChildrenTree // RootElementWithChildren
	Text     host.Text    // RootText
}

// Bundle returns the spawn data of the root itself
func (n RootNode) Bundle() host.Bundle {
	switch n.Kind {
	case RootElementWithChildren, RootElement:
		return n.Element.Bundle()
	case RootText:
		return textBundle(n.Text)
	default:
		return host.Bundle{Kind: host.KindEmpty}
	}
}

// ChildKind discriminates compiled child nodes
type ChildKind uint8

const (
	ChildElement ChildKind = iota
	ChildText
	ChildPlaceholder
)

func (k ChildKind) String() string {
	switch k {
	case ChildElement:
		return "element"
	case ChildText:
		return "text"
	case ChildPlaceholder:
		return "placeholder"
	}
	return fmt.Sprintf("child(%d)", uint8(k))
}

// ChildNode is a node below a template root. Its own children, if any,
// follow it in the enclosing ChildrenTree between Enter and Exit.
type ChildNode struct {
	Kind    ChildKind
	Element Element
	Text    host.Text
}

// Bundle returns the spawn data of the child
func (n ChildNode) Bundle() host.Bundle {
	switch n.Kind {
	case ChildElement:
		return n.Element.Bundle()
	case ChildText:
		return textBundle(n.Text)
	default:
		return host.Bundle{Kind: host.KindEmpty}
	}
}

func textBundle(t host.Text) host.Bundle {
	return host.Bundle{Kind: host.KindText, Text: host.Text{Sections: append([]host.TextSection(nil), t.Sections...)}}
}

// EntryKind discriminates ChildrenTree entries
type EntryKind uint8

const (
	EntryNode EntryKind = iota
	EntryEnter
	EntryExit
)

// Entry is one step of a flattened children tree
type Entry struct {
	Kind EntryKind
	Node ChildNode // EntryNode only
}

// ChildrenTree is the flat encoding of a nested child list
type ChildrenTree struct {
	entries []Entry
}

// Placeholder appends a placeholder node and returns its index so the
// caller can fill it in once the child is compiled
func (t *ChildrenTree) Placeholder() int {
	t.entries = append(t.entries, Entry{Kind: EntryNode, Node: ChildNode{Kind: ChildPlaceholder}})
	return len(t.entries) - 1
}

// Replace overwrites the node entry at index
func (t *ChildrenTree) Replace(index int, n ChildNode) {
	t.entries[index] = Entry{Kind: EntryNode, Node: n}
}

// Add appends a node entry
func (t *ChildrenTree) Add(n ChildNode) {
	t.entries = append(t.entries, Entry{Kind: EntryNode, Node: n})
}

// Enter moves the insertion point to the most recently added node
func (t *ChildrenTree) Enter() {
	t.entries = append(t.entries, Entry{Kind: EntryEnter})
}

// Exit moves the insertion point back to where it was before the matching Enter
func (t *ChildrenTree) Exit() {
	t.entries = append(t.entries, Entry{Kind: EntryExit})
}

func (t ChildrenTree) Len() int {
	return len(t.entries)
}

// Entries exposes the flat sequence for inspection
func (t ChildrenTree) Entries() []Entry {
	return t.entries
}

// Balanced reports whether every Exit closes an earlier Enter and all Enters are closed
func (t ChildrenTree) Balanced() bool {
	depth := 0
	for _, e := range t.entries {
		switch e.Kind {
		case EntryEnter:
			depth++
		case EntryExit:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Instantiate spawns the root and replays its children tree onto h.
// It returns the root handle and the number of nodes spawned.
func Instantiate(h host.Host, n RootNode) (host.Entity, int, error) {
	root := h.Spawn(n.Bundle())
	spawned := 1
	if n.Kind != RootElementWithChildren {
		return root, spawned, nil
	}

	parent, last := root, host.Placeholder
	var stack []host.Entity

	for i, e := range n.Children.entries {
		switch e.Kind {
		case EntryNode:
			child := h.Spawn(e.Node.Bundle())
			spawned++
			if err := h.AppendChild(parent, child); err != nil {
				return root, spawned, fmt.Errorf("attach entry %d: %w", i, err)
			}
			last = child
		case EntryEnter:
			if last == host.Placeholder {
				return root, spawned, fmt.Errorf("%w: enter at %d before any node", ErrMalformed, i)
			}
			stack = append(stack, parent)
			parent = last
		case EntryExit:
			if len(stack) == 0 {
				return root, spawned, fmt.Errorf("%w: exit at %d without enter", ErrMalformed, i)
			}
			parent = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) != 0 {
		return root, spawned, fmt.Errorf("%w: %d unclosed enter", ErrMalformed, len(stack))
	}
	return root, spawned, nil
}

// Resolve walks path from start, each hop selecting the child at that index
func Resolve(h host.Host, start host.Entity, path []uint8) (host.Entity, error) {
	current := start
	for depth, index := range path {
		children := h.Children(current)
		if int(index) >= len(children) {
			return host.Placeholder, fmt.Errorf("%w: hop %d wants child %d of %v, which has %d",
				ErrPath, depth, index, current, len(children))
		}
		current = children[index]
	}
	return current, nil
}
