package style

import (
	"fmt"
	"strconv"
	"strings"
)

// TrackKind is the sizing function of a single grid track
type TrackKind uint8

const (
	TrackAuto TrackKind = iota
	TrackPx
	TrackPercent
	TrackFr
	TrackMinContent
	TrackMaxContent
)

// GridTrack sizes one row or column of a grid
type GridTrack struct {
	Kind  TrackKind
	Value float32
}

func (t GridTrack) String() string {
	switch t.Kind {
	case TrackAuto:
		return "auto"
	case TrackPx:
		return formatFloat(t.Value) + "px"
	case TrackPercent:
		return formatFloat(t.Value) + "%"
	case TrackFr:
		return formatFloat(t.Value) + "fr"
	case TrackMinContent:
		return "min-content"
	case TrackMaxContent:
		return "max-content"
	}
	return fmt.Sprintf("track(%d)", t.Kind)
}

// ParseGridTrack parses a single track ("auto", "10px", "25%", "1fr", "min-content", "max-content")
func ParseGridTrack(s string) (GridTrack, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "auto":
		return GridTrack{Kind: TrackAuto}, nil
	case "min-content":
		return GridTrack{Kind: TrackMinContent}, nil
	case "max-content":
		return GridTrack{Kind: TrackMaxContent}, nil
	}

	kind := TrackPx
	switch {
	case strings.HasSuffix(s, "fr"):
		kind, s = TrackFr, strings.TrimSuffix(s, "fr")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		kind, s = TrackPercent, strings.TrimSuffix(s, "%")
	}
	f, err := ParseFloat(s)
	if err != nil {
		return GridTrack{}, fmt.Errorf("invalid grid track %q: %w", s, err)
	}
	return GridTrack{Kind: kind, Value: f}, nil
}

// Tracks is an ordered list of grid tracks. Nil means no explicit tracks.
type Tracks []GridTrack

func (ts Tracks) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func (ts Tracks) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *Tracks) UnmarshalText(b []byte) error {
	parsed, err := ParseTracks(string(b))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// ParseTracks parses a space separated track list. An empty string yields nil.
func ParseTracks(s string) (Tracks, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(Tracks, 0, len(fields))
	for _, f := range fields {
		t, err := ParseGridTrack(f)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Equal reports whether both lists hold the same tracks in the same order
func (ts Tracks) Equal(other Tracks) bool {
	if len(ts) != len(other) {
		return false
	}
	for i := range ts {
		if ts[i] != other[i] {
			return false
		}
	}
	return true
}

// GridPlacement positions an item on one grid axis. Start 0 means auto-placed.
type GridPlacement struct {
	Start int16
	Span  uint16
}

// DefaultPlacement is auto placement spanning one track
func DefaultPlacement() GridPlacement {
	return GridPlacement{Span: 1}
}

func (p GridPlacement) String() string {
	switch {
	case p.Start == 0 && p.Span == 1:
		return "auto"
	case p.Start == 0:
		return fmt.Sprintf("span %d", p.Span)
	case p.Span == 1:
		return strconv.Itoa(int(p.Start))
	default:
		return fmt.Sprintf("%d / span %d", p.Start, p.Span)
	}
}

func (p GridPlacement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *GridPlacement) UnmarshalText(b []byte) error {
	parsed, err := ParseGridPlacement(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseGridPlacement parses "auto", "<start>", "span <n>" or "<start> / span <n>"
func ParseGridPlacement(s string) (GridPlacement, error) {
	p := DefaultPlacement()
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" || s == "" {
		return p, nil
	}

	start, span, hasSpan := strings.Cut(s, "/")
	if !hasSpan && strings.HasPrefix(s, "span") {
		start, span, hasSpan = "", s, true
	}

	if start = strings.TrimSpace(start); start != "" {
		n, err := strconv.ParseInt(start, 10, 16)
		if err != nil || n == 0 {
			return p, fmt.Errorf("invalid grid line %q", start)
		}
		p.Start = int16(n)
	}
	if hasSpan {
		span = strings.TrimSpace(span)
		if !strings.HasPrefix(span, "span") {
			return p, fmt.Errorf("invalid grid span %q", span)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(span, "span")), 10, 16)
		if err != nil || n == 0 {
			return p, fmt.Errorf("invalid grid span %q", span)
		}
		p.Span = uint16(n)
	}
	return p, nil
}
