package attr

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/livefir/livescene/style"
)

// Field is one registered attribute: a typed accessor into style.Style
type Field interface {
	Name() string
	// Set writes v, or the field default when v is nil. v may be the typed
	// value, its string form or raw JSON.
	Set(s *style.Style, v any) error
	// Parse writes the value given in string form
	Parse(s *style.Style, text string) error
	// Format returns the string form of the current value
	Format(s *style.Style) string
	IsDefault(s *style.Style) bool
}

var defaults = style.Default()

type field[T any] struct {
	name   string
	sel    func(*style.Style) *T
	parse  func(string) (T, error)
	format func(T) string
	equal  func(a, b T) bool
}

func (f *field[T]) Name() string { return f.name }

func (f *field[T]) Set(s *style.Style, v any) error {
	switch v := v.(type) {
	case nil:
		*f.sel(s) = *f.sel(&defaults)
		return nil
	case T:
		*f.sel(s) = v
		return nil
	case json.RawMessage:
		return f.setJSON(s, v)
	case string:
		return f.Parse(s, v)
	default:
		var want T
		return fmt.Errorf("%w: %s wants %T, got %T", ErrTypeMismatch, f.name, want, v)
	}
}

func (f *field[T]) setJSON(s *style.Style, raw json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*f.sel(s) = *f.sel(&defaults)
		return nil
	}
	// a JSON string carries the string form
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return f.Parse(s, text)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTypeMismatch, f.name, err)
	}
	*f.sel(s) = v
	return nil
}

func (f *field[T]) Parse(s *style.Style, text string) error {
	v, err := f.parse(text)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTypeMismatch, f.name, err)
	}
	*f.sel(s) = v
	return nil
}

func (f *field[T]) Format(s *style.Style) string {
	return f.format(*f.sel(s))
}

func (f *field[T]) IsDefault(s *style.Style) bool {
	return f.equal(*f.sel(s), *f.sel(&defaults))
}

// textValue is a style value with a string form
type textValue[T any] interface {
	*T
	encoding.TextUnmarshaler
}

func parseText[T any, PT textValue[T]](s string) (T, error) {
	var v T
	err := PT(&v).UnmarshalText([]byte(s))
	return v, err
}

func equalComparable[T comparable](a, b T) bool { return a == b }

func stringOf[T fmt.Stringer](v T) string { return v.String() }

// textField registers a comparable value type with a string form
func textField[T interface {
	comparable
	fmt.Stringer
}, PT textValue[T]](name string, sel func(*style.Style) *T) Field {
	return &field[T]{
		name:   name,
		sel:    sel,
		parse:  parseText[T, PT],
		format: stringOf[T],
		equal:  equalComparable[T],
	}
}

func floatField(name string, sel func(*style.Style) *float32) Field {
	return &field[float32]{
		name:   name,
		sel:    sel,
		parse:  style.ParseFloat,
		format: func(f float32) string { return fmt.Sprintf("%g", f) },
		equal:  equalComparable[float32],
	}
}

func tracksField(name string, sel func(*style.Style) *style.Tracks) Field {
	return &field[style.Tracks]{
		name:   name,
		sel:    sel,
		parse:  style.ParseTracks,
		format: stringOf[style.Tracks],
		equal:  style.Tracks.Equal,
	}
}
