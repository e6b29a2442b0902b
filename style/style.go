// Package style defines the layout style record attached to host nodes
// and the value types its fields hold.
//
// Every value type has a compact string form ("10px", "50%", "auto",
// "1px 2px", "1fr auto", "span 2", enum names) used both for static
// template attributes and, through encoding.TextMarshaler, for JSON.
package style

// Style is the single layout record a node carries. Fields are set one at a
// time by the attribute translator; unset fields keep the values of Default.
type Style struct {
	Display      Display
	PositionType PositionType
	Overflow     Overflow
	Direction    Direction

	Left   Val
	Right  Val
	Top    Val
	Bottom Val

	Width     Val
	Height    Val
	MinWidth  Val
	MinHeight Val
	MaxWidth  Val
	MaxHeight Val

	// AspectRatio of zero means none
	AspectRatio float32

	AlignItems     AlignItems
	JustifyItems   JustifyItems
	AlignSelf      AlignSelf
	JustifySelf    JustifySelf
	AlignContent   AlignContent
	JustifyContent JustifyContent

	Margin  UiRect
	Padding UiRect
	Border  UiRect

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexGrow      float32
	FlexShrink    float32
	FlexBasis     Val

	RowGap    Val
	ColumnGap Val

	GridAutoFlow        GridAutoFlow
	GridTemplateRows    Tracks
	GridTemplateColumns Tracks
	GridAutoRows        Tracks
	GridAutoColumns     Tracks
	GridRow             GridPlacement
	GridColumn          GridPlacement
}

// Default returns a style with every field at its default value
func Default() Style {
	return Style{
		Display:      DisplayFlex,
		PositionType: PositionRelative,
		Margin:       All(Px(0)),
		Padding:      All(Px(0)),
		Border:       All(Px(0)),
		FlexShrink:   1,
		RowGap:       Px(0),
		ColumnGap:    Px(0),
		GridRow:      DefaultPlacement(),
		GridColumn:   DefaultPlacement(),
	}
}

// Clone returns a deep copy; track lists are not shared
func (s *Style) Clone() *Style {
	c := *s
	c.GridTemplateRows = cloneTracks(s.GridTemplateRows)
	c.GridTemplateColumns = cloneTracks(s.GridTemplateColumns)
	c.GridAutoRows = cloneTracks(s.GridAutoRows)
	c.GridAutoColumns = cloneTracks(s.GridAutoColumns)
	return &c
}

func cloneTracks(ts Tracks) Tracks {
	if ts == nil {
		return nil
	}
	return append(Tracks(nil), ts...)
}
