// Package attr maps attribute names to typed fields of the layout style
// record. The name set is closed: it is built once by New and an attribute
// outside it is an error, never silently ignored.
package attr

import (
	"errors"
	"fmt"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/style"
)

var (
	// ErrUnknownAttribute is returned for names with no registered field
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrTypeMismatch is returned when a value has the wrong shape for its field
	ErrTypeMismatch = errors.New("attribute value type mismatch")
)

// Translator dispatches attribute writes to style fields
type Translator struct {
	fields map[string]Field
	order  []Field
}

// New builds the translator with every supported attribute registered
func New() *Translator {
	t := &Translator{fields: make(map[string]Field)}

	t.register(
		textField("display", func(s *style.Style) *style.Display { return &s.Display }),
		textField("position_type", func(s *style.Style) *style.PositionType { return &s.PositionType }),
		textField("overflow", func(s *style.Style) *style.Overflow { return &s.Overflow }),
		textField("direction", func(s *style.Style) *style.Direction { return &s.Direction }),

		textField("left", func(s *style.Style) *style.Val { return &s.Left }),
		textField("right", func(s *style.Style) *style.Val { return &s.Right }),
		textField("top", func(s *style.Style) *style.Val { return &s.Top }),
		textField("bottom", func(s *style.Style) *style.Val { return &s.Bottom }),

		textField("width", func(s *style.Style) *style.Val { return &s.Width }),
		textField("height", func(s *style.Style) *style.Val { return &s.Height }),
		textField("min_width", func(s *style.Style) *style.Val { return &s.MinWidth }),
		textField("min_height", func(s *style.Style) *style.Val { return &s.MinHeight }),
		textField("max_width", func(s *style.Style) *style.Val { return &s.MaxWidth }),
		textField("max_height", func(s *style.Style) *style.Val { return &s.MaxHeight }),
		floatField("aspect_ratio", func(s *style.Style) *float32 { return &s.AspectRatio }),

		textField("align_items", func(s *style.Style) *style.AlignItems { return &s.AlignItems }),
		textField("justify_items", func(s *style.Style) *style.JustifyItems { return &s.JustifyItems }),
		textField("align_self", func(s *style.Style) *style.AlignSelf { return &s.AlignSelf }),
		textField("justify_self", func(s *style.Style) *style.JustifySelf { return &s.JustifySelf }),
		textField("align_content", func(s *style.Style) *style.AlignContent { return &s.AlignContent }),
		textField("justify_content", func(s *style.Style) *style.JustifyContent { return &s.JustifyContent }),

		textField("margin", func(s *style.Style) *style.UiRect { return &s.Margin }),
		textField("padding", func(s *style.Style) *style.UiRect { return &s.Padding }),
		textField("border", func(s *style.Style) *style.UiRect { return &s.Border }),

		textField("flex_direction", func(s *style.Style) *style.FlexDirection { return &s.FlexDirection }),
		textField("flex_wrap", func(s *style.Style) *style.FlexWrap { return &s.FlexWrap }),
		floatField("flex_grow", func(s *style.Style) *float32 { return &s.FlexGrow }),
		floatField("flex_shrink", func(s *style.Style) *float32 { return &s.FlexShrink }),
		textField("flex_basis", func(s *style.Style) *style.Val { return &s.FlexBasis }),
		textField("row_gap", func(s *style.Style) *style.Val { return &s.RowGap }),
		textField("column_gap", func(s *style.Style) *style.Val { return &s.ColumnGap }),

		textField("grid_auto_flow", func(s *style.Style) *style.GridAutoFlow { return &s.GridAutoFlow }),
		tracksField("grid_template_rows", func(s *style.Style) *style.Tracks { return &s.GridTemplateRows }),
		tracksField("grid_template_columns", func(s *style.Style) *style.Tracks { return &s.GridTemplateColumns }),
		tracksField("grid_auto_rows", func(s *style.Style) *style.Tracks { return &s.GridAutoRows }),
		tracksField("grid_auto_columns", func(s *style.Style) *style.Tracks { return &s.GridAutoColumns }),
		textField("grid_row", func(s *style.Style) *style.GridPlacement { return &s.GridRow }),
		textField("grid_column", func(s *style.Style) *style.GridPlacement { return &s.GridColumn }),
	)

	return t
}

func (t *Translator) register(fields ...Field) {
	for _, f := range fields {
		if _, dup := t.fields[f.Name()]; dup {
			panic("attr: duplicate attribute " + f.Name())
		}
		t.fields[f.Name()] = f
		t.order = append(t.order, f)
	}
}

// Lookup returns the field registered under name
func (t *Translator) Lookup(name string) (Field, error) {
	f, ok := t.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return f, nil
}

// Fields returns every registered field in registration order
func (t *Translator) Fields() []Field {
	return t.order
}

// Set writes an attribute on a host node, creating its style record if needed
func (t *Translator) Set(h host.Host, e host.Entity, name string, v any) error {
	f, err := t.Lookup(name)
	if err != nil {
		return err
	}
	s, err := h.Style(e)
	if err != nil {
		return err
	}
	return f.Set(s, v)
}

// Apply writes an attribute on a detached style record
func (t *Translator) Apply(s *style.Style, name string, v any) error {
	f, err := t.Lookup(name)
	if err != nil {
		return err
	}
	return f.Set(s, v)
}

// Parse writes an attribute given in string form
func (t *Translator) Parse(s *style.Style, name, text string) error {
	f, err := t.Lookup(name)
	if err != nil {
		return err
	}
	return f.Parse(s, text)
}

// Changed returns the fields of s that differ from their defaults
func (t *Translator) Changed(s *style.Style) []Field {
	var out []Field
	for _, f := range t.order {
		if !f.IsDefault(s) {
			out = append(out, f)
		}
	}
	return out
}
