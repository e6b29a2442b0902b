package style

import (
	"fmt"
	"strconv"
	"strings"
)

// ValKind identifies the unit of a Val
type ValKind uint8

const (
	ValAuto ValKind = iota
	ValPx
	ValPercent
	ValVw
	ValVh
	ValVMin
	ValVMax
)

// unit suffixes, checked longest first when parsing
var valSuffixes = []struct {
	suffix string
	kind   ValKind
}{
	{"vmin", ValVMin},
	{"vmax", ValVMax},
	{"px", ValPx},
	{"vw", ValVw},
	{"vh", ValVh},
	{"%", ValPercent},
}

// Val is a length along one axis. The zero value is Auto.
type Val struct {
	Kind  ValKind
	Value float32
}

// Auto returns the automatic length
func Auto() Val { return Val{} }

// Px returns a length in logical pixels
func Px(v float32) Val { return Val{Kind: ValPx, Value: v} }

// Percent returns a length relative to the parent
func Percent(v float32) Val { return Val{Kind: ValPercent, Value: v} }

// Vw returns a length relative to the viewport width
func Vw(v float32) Val { return Val{Kind: ValVw, Value: v} }

// Vh returns a length relative to the viewport height
func Vh(v float32) Val { return Val{Kind: ValVh, Value: v} }

// VMin returns a length relative to the smaller viewport side
func VMin(v float32) Val { return Val{Kind: ValVMin, Value: v} }

// VMax returns a length relative to the larger viewport side
func VMax(v float32) Val { return Val{Kind: ValVMax, Value: v} }

func (v Val) String() string {
	if v.Kind == ValAuto {
		return "auto"
	}
	for _, s := range valSuffixes {
		if s.kind == v.Kind {
			return formatFloat(v.Value) + s.suffix
		}
	}
	return fmt.Sprintf("val(%d)", v.Kind)
}

// MarshalText encodes the CSS-like string form ("10px", "50%", "auto")
func (v Val) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes the string form produced by MarshalText
func (v *Val) UnmarshalText(b []byte) error {
	parsed, err := ParseVal(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVal parses "auto", "<n>px", "<n>%", "<n>vw", "<n>vh", "<n>vmin", "<n>vmax".
// A bare number is read as pixels.
func ParseVal(s string) (Val, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" {
		return Auto(), nil
	}
	kind := ValPx
	for _, suf := range valSuffixes {
		if strings.HasSuffix(s, suf.suffix) {
			kind = suf.kind
			s = strings.TrimSpace(strings.TrimSuffix(s, suf.suffix))
			break
		}
	}
	f, err := ParseFloat(s)
	if err != nil {
		return Val{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	return Val{Kind: kind, Value: f}, nil
}

// ParseFloat parses a 32-bit float
func ParseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// UiRect holds one length per edge
type UiRect struct {
	Left   Val
	Right  Val
	Top    Val
	Bottom Val
}

// All returns a rect with the same length on every edge
func All(v Val) UiRect {
	return UiRect{Left: v, Right: v, Top: v, Bottom: v}
}

// String uses CSS shorthand order: one value when all edges match,
// otherwise "top right bottom left".
func (r UiRect) String() string {
	if r.Left == r.Right && r.Right == r.Top && r.Top == r.Bottom {
		return r.Top.String()
	}
	return strings.Join([]string{r.Top.String(), r.Right.String(), r.Bottom.String(), r.Left.String()}, " ")
}

func (r UiRect) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *UiRect) UnmarshalText(b []byte) error {
	parsed, err := ParseUiRect(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseUiRect accepts the CSS shorthand with one, two or four lengths
func ParseUiRect(s string) (UiRect, error) {
	parts := strings.Fields(s)
	vals := make([]Val, len(parts))
	for i, p := range parts {
		v, err := ParseVal(p)
		if err != nil {
			return UiRect{}, err
		}
		vals[i] = v
	}

	switch len(vals) {
	case 1:
		return All(vals[0]), nil
	case 2:
		return UiRect{Top: vals[0], Bottom: vals[0], Left: vals[1], Right: vals[1]}, nil
	case 4:
		return UiRect{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return UiRect{}, fmt.Errorf("invalid rect %q: want 1, 2 or 4 lengths", s)
	}
}
