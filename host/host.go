// Package host declares the contract the reconciler needs from a retained
// scene graph: spawning nodes of a closed set of kinds, parent/child
// bookkeeping with positional lookup, text content and a layout style record.
package host

import (
	"fmt"
	"math"
	"strings"

	"github.com/livefir/livescene/style"
)

// Entity is an opaque handle to a node owned by the host
type Entity uint32

// Placeholder marks an unassigned handle. Hosts never return it from Spawn.
const Placeholder Entity = math.MaxUint32

func (e Entity) String() string {
	if e == Placeholder {
		return "placeholder"
	}
	return fmt.Sprintf("%dv", uint32(e))
}

// Kind is the closed set of node kinds a host must be able to spawn
type Kind uint8

const (
	KindEmpty Kind = iota
	KindDiv
	KindImage
	KindButton
	KindText
)

var kindNames = []string{"empty", "div", "image", "button", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// TextStyle is the visual style of one text section
type TextStyle struct {
	FontSize float32 `json:"font_size"`
	Color    string  `json:"color"`
}

// DefaultTextStyle matches the host's default font settings
func DefaultTextStyle() TextStyle {
	return TextStyle{FontSize: 12, Color: "white"}
}

// TextSection is a run of text sharing one style
type TextSection struct {
	Value string    `json:"value"`
	Style TextStyle `json:"style"`
}

// Text is the content of a text node, possibly split in several sections
type Text struct {
	Sections []TextSection `json:"sections"`
}

// NewText returns single-section text with the default style
func NewText(value string) Text {
	return Text{Sections: []TextSection{{Value: value, Style: DefaultTextStyle()}}}
}

// String concatenates all sections
func (t Text) String() string {
	var b strings.Builder
	for _, s := range t.Sections {
		b.WriteString(s.Value)
	}
	return b.String()
}

// Collapse replaces the content with a single section holding value.
// The style of the first existing section is kept.
func (t Text) Collapse(value string) Text {
	ts := DefaultTextStyle()
	if len(t.Sections) > 0 {
		ts = t.Sections[0].Style
	}
	return Text{Sections: []TextSection{{Value: value, Style: ts}}}
}

// Image carries the initial data of an image node
type Image struct {
	Source string `json:"source,omitempty"`
}

// Bundle is the initial data used to spawn a node
type Bundle struct {
	Kind  Kind
	Style *style.Style // optional; nil leaves the node without a style record
	Text  Text         // KindText only
	Image Image        // KindImage only
}

// Host is the scene graph mutated by the reconciler. Implementations are
// driven from a single goroutine.
type Host interface {
	// Spawn creates a detached node
	Spawn(b Bundle) Entity

	// AppendChild attaches child as the last child of parent,
	// detaching it from any previous parent first
	AppendChild(parent, child Entity) error

	// InsertChild attaches child at index among parent's children
	InsertChild(parent Entity, index int, child Entity) error

	// Detach removes e from its parent, keeping it alive
	Detach(e Entity) error

	// Destroy detaches e and destroys it with all descendants
	Destroy(e Entity) error

	Parent(e Entity) (Entity, bool)

	// Children returns the ordered children of e
	Children(e Entity) []Entity

	// Text returns the text of a text node
	Text(e Entity) (Text, bool)
	SetText(e Entity, t Text) error

	// Style returns the node's style record, inserting a default one if absent
	Style(e Entity) (*style.Style, error)
}
