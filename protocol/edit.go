package protocol

// ElementID is the small integer a diffing engine assigns to a node it
// needs to address later. ID 0 is the mount point.
type ElementID uint32

// Root is the id of the mount point every top-level node is appended to
const Root ElementID = 0

// Path selects a descendant by successive child indices
type Path []uint8

// Op names an edit operation on the wire
type Op string

const (
	OpLoadTemplate        Op = "LoadTemplate"
	OpCreatePlaceholder   Op = "CreatePlaceholder"
	OpCreateTextNode      Op = "CreateTextNode"
	OpAssignID            Op = "AssignId"
	OpAppendChildren      Op = "AppendChildren"
	OpReplaceWith         Op = "ReplaceWith"
	OpReplacePlaceholder  Op = "ReplacePlaceholder"
	OpInsertAfter         Op = "InsertAfter"
	OpInsertBefore        Op = "InsertBefore"
	OpSetAttribute        Op = "SetAttribute"
	OpSetText             Op = "SetText"
	OpRemove              Op = "Remove"
	OpPushRoot            Op = "PushRoot"
	OpHydrateText         Op = "HydrateText"
	OpNewEventListener    Op = "NewEventListener"
	OpRemoveEventListener Op = "RemoveEventListener"
)

// Edit is one operation of an edit batch. The set of implementations is closed.
type Edit interface {
	Op() Op
	edit()
}

// LoadTemplate instantiates root Index of template Name, maps ID to it and pushes it
type LoadTemplate struct {
	Name  string    `json:"name" validate:"required"`
	Index int       `json:"index" validate:"gte=0"`
	ID    ElementID `json:"id"`
}

// CreatePlaceholder spawns an empty node, maps ID to it and pushes it
type CreatePlaceholder struct {
	ID ElementID `json:"id"`
}

// CreateTextNode spawns a text node, maps ID to it and pushes it
type CreateTextNode struct {
	Value string    `json:"value"`
	ID    ElementID `json:"id"`
}

// AssignID maps ID to the node at Path below the top of the stack
type AssignID struct {
	Path Path      `json:"path"`
	ID   ElementID `json:"id"`
}

// AppendChildren pops M nodes and appends them to ID in push order
type AppendChildren struct {
	ID ElementID `json:"id"`
	M  int       `json:"m" validate:"gte=0"`
}

// ReplaceWith pops M nodes, puts them where ID is and destroys ID
type ReplaceWith struct {
	ID ElementID `json:"id"`
	M  int       `json:"m" validate:"gte=0"`
}

// ReplacePlaceholder pops M nodes and puts them in place of the node at Path
// below the new top of the stack, destroying it
type ReplacePlaceholder struct {
	Path Path `json:"path" validate:"min=1"`
	M    int  `json:"m" validate:"gte=0"`
}

// InsertAfter pops M nodes and inserts them right after ID
type InsertAfter struct {
	ID ElementID `json:"id"`
	M  int       `json:"m" validate:"gte=0"`
}

// InsertBefore pops M nodes and inserts them right before ID
type InsertBefore struct {
	ID ElementID `json:"id"`
	M  int       `json:"m" validate:"gte=0"`
}

// SetAttribute writes a layout attribute on ID. A nil Value resets the field.
//
// Value is either the typed style value, its string form, or raw JSON
// (json.RawMessage) as decoded from the wire.
type SetAttribute struct {
	Name  string    `json:"name" validate:"required"`
	Value any       `json:"value"`
	NS    string    `json:"ns,omitempty"`
	ID    ElementID `json:"id"`
}

// SetText replaces the content of text node ID
type SetText struct {
	Value string    `json:"value"`
	ID    ElementID `json:"id"`
}

// Remove destroys ID and its subtree
type Remove struct {
	ID ElementID `json:"id"`
}

// PushRoot pushes the node already mapped to ID
type PushRoot struct {
	ID ElementID `json:"id"`
}

// HydrateText fills the text placeholder at Path and maps ID to it
type HydrateText struct {
	Path  Path      `json:"path"`
	Value string    `json:"value"`
	ID    ElementID `json:"id"`
}

// NewEventListener subscribes ID to an event
type NewEventListener struct {
	Name string    `json:"name" validate:"required"`
	ID   ElementID `json:"id"`
}

// RemoveEventListener unsubscribes ID from an event
type RemoveEventListener struct {
	Name string    `json:"name" validate:"required"`
	ID   ElementID `json:"id"`
}

func (LoadTemplate) Op() Op        { return OpLoadTemplate }
func (CreatePlaceholder) Op() Op   { return OpCreatePlaceholder }
func (CreateTextNode) Op() Op      { return OpCreateTextNode }
func (AssignID) Op() Op            { return OpAssignID }
func (AppendChildren) Op() Op      { return OpAppendChildren }
func (ReplaceWith) Op() Op         { return OpReplaceWith }
func (ReplacePlaceholder) Op() Op  { return OpReplacePlaceholder }
func (InsertAfter) Op() Op         { return OpInsertAfter }
func (InsertBefore) Op() Op        { return OpInsertBefore }
func (SetAttribute) Op() Op        { return OpSetAttribute }
func (SetText) Op() Op             { return OpSetText }
func (Remove) Op() Op              { return OpRemove }
func (PushRoot) Op() Op            { return OpPushRoot }
func (HydrateText) Op() Op         { return OpHydrateText }
func (NewEventListener) Op() Op    { return OpNewEventListener }
func (RemoveEventListener) Op() Op { return OpRemoveEventListener }

func (LoadTemplate) edit()        {}
func (CreatePlaceholder) edit()   {}
func (CreateTextNode) edit()      {}
func (AssignID) edit()            {}
func (AppendChildren) edit()      {}
func (ReplaceWith) edit()         {}
func (ReplacePlaceholder) edit()  {}
func (InsertAfter) edit()         {}
func (InsertBefore) edit()        {}
func (SetAttribute) edit()        {}
func (SetText) edit()             {}
func (Remove) edit()              {}
func (PushRoot) edit()            {}
func (HydrateText) edit()         {}
func (NewEventListener) edit()    {}
func (RemoveEventListener) edit() {}

// Mutations is everything produced by one diffing pass
type Mutations struct {
	Templates []Template `json:"templates,omitempty" validate:"dive"`
	Edits     EditList   `json:"edits"`
}

// IsEmpty reports whether the pass carries nothing to apply
func (m Mutations) IsEmpty() bool {
	return len(m.Templates) == 0 && len(m.Edits) == 0
}
