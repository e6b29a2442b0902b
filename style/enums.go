package style

import (
	"fmt"
	"strings"
)

type enum interface{ ~uint8 }

func enumString[E enum](e E, names []string) string {
	if int(e) < len(names) {
		return names[e]
	}
	return fmt.Sprintf("%d", uint8(e))
}

func parseEnum[E enum](dst *E, b []byte, names []string, what string) error {
	s := strings.TrimSpace(strings.ToLower(string(b)))
	for i, n := range names {
		if n == s {
			*dst = E(i)
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}

// Display selects the layout algorithm for a node's children
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayGrid
	DisplayNone
)

var displayNames = []string{"flex", "grid", "none"}

func (d Display) String() string                { return enumString(d, displayNames) }
func (d Display) MarshalText() ([]byte, error)  { return []byte(d.String()), nil }
func (d *Display) UnmarshalText(b []byte) error { return parseEnum(d, b, displayNames, "display") }

// PositionType decides whether a node takes part in its parent's layout
type PositionType uint8

const (
	PositionRelative PositionType = iota
	PositionAbsolute
)

var positionNames = []string{"relative", "absolute"}

func (p PositionType) String() string                { return enumString(p, positionNames) }
func (p PositionType) MarshalText() ([]byte, error)  { return []byte(p.String()), nil }
func (p *PositionType) UnmarshalText(b []byte) error { return parseEnum(p, b, positionNames, "position type") }

// Overflow controls clipping of children
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
)

var overflowNames = []string{"visible", "clip"}

func (o Overflow) String() string                { return enumString(o, overflowNames) }
func (o Overflow) MarshalText() ([]byte, error)  { return []byte(o.String()), nil }
func (o *Overflow) UnmarshalText(b []byte) error { return parseEnum(o, b, overflowNames, "overflow") }

// Direction is the inline text direction
type Direction uint8

const (
	DirectionInherit Direction = iota
	DirectionLeftToRight
	DirectionRightToLeft
)

var directionNames = []string{"inherit", "ltr", "rtl"}

func (d Direction) String() string                { return enumString(d, directionNames) }
func (d Direction) MarshalText() ([]byte, error)  { return []byte(d.String()), nil }
func (d *Direction) UnmarshalText(b []byte) error { return parseEnum(d, b, directionNames, "direction") }

// AlignItems aligns children on the cross axis
type AlignItems uint8

const (
	AlignItemsDefault AlignItems = iota
	AlignItemsStart
	AlignItemsEnd
	AlignItemsFlexStart
	AlignItemsFlexEnd
	AlignItemsCenter
	AlignItemsBaseline
	AlignItemsStretch
)

var alignItemsNames = []string{"default", "start", "end", "flex-start", "flex-end", "center", "baseline", "stretch"}

func (a AlignItems) String() string                { return enumString(a, alignItemsNames) }
func (a AlignItems) MarshalText() ([]byte, error)  { return []byte(a.String()), nil }
func (a *AlignItems) UnmarshalText(b []byte) error { return parseEnum(a, b, alignItemsNames, "align-items") }

// JustifyItems aligns grid children inside their cells on the inline axis
type JustifyItems uint8

const (
	JustifyItemsDefault JustifyItems = iota
	JustifyItemsStart
	JustifyItemsEnd
	JustifyItemsCenter
	JustifyItemsBaseline
	JustifyItemsStretch
)

var justifyItemsNames = []string{"default", "start", "end", "center", "baseline", "stretch"}

func (j JustifyItems) String() string               { return enumString(j, justifyItemsNames) }
func (j JustifyItems) MarshalText() ([]byte, error) { return []byte(j.String()), nil }
func (j *JustifyItems) UnmarshalText(b []byte) error {
	return parseEnum(j, b, justifyItemsNames, "justify-items")
}

// AlignSelf overrides the parent's AlignItems for one node
type AlignSelf uint8

const (
	AlignSelfAuto AlignSelf = iota
	AlignSelfStart
	AlignSelfEnd
	AlignSelfFlexStart
	AlignSelfFlexEnd
	AlignSelfCenter
	AlignSelfBaseline
	AlignSelfStretch
)

var alignSelfNames = []string{"auto", "start", "end", "flex-start", "flex-end", "center", "baseline", "stretch"}

func (a AlignSelf) String() string                { return enumString(a, alignSelfNames) }
func (a AlignSelf) MarshalText() ([]byte, error)  { return []byte(a.String()), nil }
func (a *AlignSelf) UnmarshalText(b []byte) error { return parseEnum(a, b, alignSelfNames, "align-self") }

// JustifySelf overrides the parent's JustifyItems for one node
type JustifySelf uint8

const (
	JustifySelfAuto JustifySelf = iota
	JustifySelfStart
	JustifySelfEnd
	JustifySelfCenter
	JustifySelfBaseline
	JustifySelfStretch
)

var justifySelfNames = []string{"auto", "start", "end", "center", "baseline", "stretch"}

func (j JustifySelf) String() string               { return enumString(j, justifySelfNames) }
func (j JustifySelf) MarshalText() ([]byte, error) { return []byte(j.String()), nil }
func (j *JustifySelf) UnmarshalText(b []byte) error {
	return parseEnum(j, b, justifySelfNames, "justify-self")
}

// AlignContent distributes lines on the cross axis
type AlignContent uint8

const (
	AlignContentDefault AlignContent = iota
	AlignContentStart
	AlignContentEnd
	AlignContentFlexStart
	AlignContentFlexEnd
	AlignContentCenter
	AlignContentStretch
	AlignContentSpaceBetween
	AlignContentSpaceEvenly
	AlignContentSpaceAround
)

var alignContentNames = []string{
	"default", "start", "end", "flex-start", "flex-end", "center", "stretch",
	"space-between", "space-evenly", "space-around",
}

func (a AlignContent) String() string               { return enumString(a, alignContentNames) }
func (a AlignContent) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a *AlignContent) UnmarshalText(b []byte) error {
	return parseEnum(a, b, alignContentNames, "align-content")
}

// JustifyContent distributes children on the main axis
type JustifyContent uint8

const (
	JustifyContentDefault JustifyContent = iota
	JustifyContentStart
	JustifyContentEnd
	JustifyContentFlexStart
	JustifyContentFlexEnd
	JustifyContentCenter
	JustifyContentSpaceBetween
	JustifyContentSpaceEvenly
	JustifyContentSpaceAround
)

var justifyContentNames = []string{
	"default", "start", "end", "flex-start", "flex-end", "center",
	"space-between", "space-evenly", "space-around",
}

func (j JustifyContent) String() string               { return enumString(j, justifyContentNames) }
func (j JustifyContent) MarshalText() ([]byte, error) { return []byte(j.String()), nil }
func (j *JustifyContent) UnmarshalText(b []byte) error {
	return parseEnum(j, b, justifyContentNames, "justify-content")
}

// FlexDirection is the main axis of a flex container
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

var flexDirectionNames = []string{"row", "column", "row-reverse", "column-reverse"}

func (f FlexDirection) String() string               { return enumString(f, flexDirectionNames) }
func (f FlexDirection) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
func (f *FlexDirection) UnmarshalText(b []byte) error {
	return parseEnum(f, b, flexDirectionNames, "flex-direction")
}

// FlexWrap controls wrapping of flex lines
type FlexWrap uint8

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapLines
	FlexWrapReverse
)

var flexWrapNames = []string{"nowrap", "wrap", "wrap-reverse"}

func (f FlexWrap) String() string                { return enumString(f, flexWrapNames) }
func (f FlexWrap) MarshalText() ([]byte, error)  { return []byte(f.String()), nil }
func (f *FlexWrap) UnmarshalText(b []byte) error { return parseEnum(f, b, flexWrapNames, "flex-wrap") }

// GridAutoFlow controls auto-placement of grid items
type GridAutoFlow uint8

const (
	GridFlowRow GridAutoFlow = iota
	GridFlowColumn
	GridFlowRowDense
	GridFlowColumnDense
)

var gridAutoFlowNames = []string{"row", "column", "row-dense", "column-dense"}

func (g GridAutoFlow) String() string               { return enumString(g, gridAutoFlowNames) }
func (g GridAutoFlow) MarshalText() ([]byte, error) { return []byte(g.String()), nil }
func (g *GridAutoFlow) UnmarshalText(b []byte) error {
	return parseEnum(g, b, gridAutoFlowNames, "grid-auto-flow")
}
