// Package protocol defines what a diffing engine hands to the reconciler on
// each pass: template announcements and an ordered batch of edits.
package protocol

// NodeType discriminates template node descriptions
type NodeType string

const (
	NodeElement     NodeType = "element"
	NodeText        NodeType = "text"
	NodeDynamic     NodeType = "dynamic"
	NodeDynamicText NodeType = "dynamic_text"
)

// TemplateAttribute is a static attribute written in the template source
type TemplateAttribute struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// TemplateNode describes one node of a template.
//
//   - element: Tag, Attrs and Children are used
//   - text: Text is the literal content
//   - dynamic: a placeholder filled later by an explicit edit; Slot names it
//   - dynamic_text: a text placeholder filled by HydrateText or SetText
type TemplateNode struct {
	Type     NodeType            `json:"type" validate:"oneof=element text dynamic dynamic_text"`
	Tag      string              `json:"tag,omitempty" validate:"required_if=Type element"`
	Attrs    []TemplateAttribute `json:"attrs,omitempty" validate:"dive"`
	Children []TemplateNode      `json:"children,omitempty" validate:"dive"`
	Text     string              `json:"text,omitempty"`
	Slot     int                 `json:"slot,omitempty" validate:"gte=0"`
}

// Template is a named static fragment, compiled once and instantiated many times
type Template struct {
	Name  string         `json:"name" validate:"required"`
	Roots []TemplateNode `json:"roots" validate:"min=1,dive"`
}

// Element builds an element description
func Element(tag string, attrs []TemplateAttribute, children ...TemplateNode) TemplateNode {
	return TemplateNode{Type: NodeElement, Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a literal text description
func Text(s string) TemplateNode {
	return TemplateNode{Type: NodeText, Text: s}
}

// Dynamic builds a placeholder description
func Dynamic(slot int) TemplateNode {
	return TemplateNode{Type: NodeDynamic, Slot: slot}
}

// DynamicText builds a text placeholder description
func DynamicText(slot int) TemplateNode {
	return TemplateNode{Type: NodeDynamicText, Slot: slot}
}

// Attrs builds a static attribute list from name/value pairs
func Attrs(pairs ...string) []TemplateAttribute {
	out := make([]TemplateAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, TemplateAttribute{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}
