package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EditList is an ordered edit batch. On the wire each edit is an object whose
// "type" member names the operation: {"type":"AppendChildren","id":0,"m":1}.
type EditList []Edit

type envelope struct {
	Type Op `json:"type"`
}

// MarshalJSON writes each edit with its "type" discriminator
func (l EditList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", e.Op(), err)
		}
		fmt.Fprintf(&buf, `{"type":%q`, e.Op())
		if len(body) > 2 {
			buf.WriteByte(',')
			buf.Write(body[1 : len(body)-1])
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes edits by their "type" discriminator
func (l *EditList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(EditList, 0, len(raws))
	for i, raw := range raws {
		e, err := DecodeEdit(raw)
		if err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

// DecodeEdit decodes a single edit object
func DecodeEdit(raw []byte) (Edit, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case OpLoadTemplate:
		return decodeAs[LoadTemplate](raw)
	case OpCreatePlaceholder:
		return decodeAs[CreatePlaceholder](raw)
	case OpCreateTextNode:
		return decodeAs[CreateTextNode](raw)
	case OpAssignID:
		return decodeAs[AssignID](raw)
	case OpAppendChildren:
		return decodeAs[AppendChildren](raw)
	case OpReplaceWith:
		return decodeAs[ReplaceWith](raw)
	case OpReplacePlaceholder:
		return decodeAs[ReplacePlaceholder](raw)
	case OpInsertAfter:
		return decodeAs[InsertAfter](raw)
	case OpInsertBefore:
		return decodeAs[InsertBefore](raw)
	case OpSetAttribute:
		return decodeSetAttribute(raw)
	case OpSetText:
		return decodeAs[SetText](raw)
	case OpRemove:
		return decodeAs[Remove](raw)
	case OpPushRoot:
		return decodeAs[PushRoot](raw)
	case OpHydrateText:
		return decodeAs[HydrateText](raw)
	case OpNewEventListener:
		return decodeAs[NewEventListener](raw)
	case OpRemoveEventListener:
		return decodeAs[RemoveEventListener](raw)
	case "":
		return nil, fmt.Errorf("missing edit type")
	default:
		return nil, fmt.Errorf("unknown edit type %q", env.Type)
	}
}

func decodeAs[T Edit](raw []byte) (Edit, error) {
	var e T
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", e.Op(), err)
	}
	return e, nil
}

// decodeSetAttribute keeps the value as raw JSON; only the attribute
// translator knows the type each attribute expects
func decodeSetAttribute(raw []byte) (Edit, error) {
	var wire struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
		NS    string          `json:"ns"`
		ID    ElementID       `json:"id"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", OpSetAttribute, err)
	}

	e := SetAttribute{Name: wire.Name, NS: wire.NS, ID: wire.ID}
	if len(wire.Value) > 0 && !bytes.Equal(bytes.TrimSpace(wire.Value), []byte("null")) {
		e.Value = wire.Value
	}
	return e, nil
}

// MarshalJSON writes a path as an array of numbers rather than base64
func (p Path) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(p))
	for i, v := range p {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON reads a path written as an array of numbers
func (p *Path) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make(Path, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("path index %d out of range", v)
		}
		out[i] = uint8(v)
	}
	*p = out
	return nil
}
