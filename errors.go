package livescene

import (
	"errors"
	"fmt"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/attr"
	"github.com/livefir/livescene/internal/catalog"
	"github.com/livefir/livescene/protocol"
)

var (
	// ErrPoisoned is returned by every call after a pass failed
	ErrPoisoned = errors.New("reconciler poisoned by an earlier failure")
	// ErrNotBuilt is returned by Update before Rebuild succeeded
	ErrNotBuilt = errors.New("reconciler has not been built")
	// ErrAlreadyBuilt is returned by a second Rebuild
	ErrAlreadyBuilt = errors.New("reconciler already built")

	// ErrStackUnderflow means an edit wanted more operands than the stack holds
	ErrStackUnderflow = errors.New("operand stack underflow")
	// ErrNotText means a text edit targeted a node without text
	ErrNotText = errors.New("node is not a text node")
	// ErrUnknownEdit means an edit value outside the protocol's closed set
	ErrUnknownEdit = errors.New("unknown edit")
	// ErrEventListener means listener edits arrived without WithIgnoredEventListeners
	ErrEventListener = errors.New("event listeners are not supported")
)

// TemplatePhase is the Index reported for failures while compiling
// announced templates, before any edit ran
const TemplatePhase = -1

// ProtocolError reports a malformed batch: stack underflow, unmapped ids,
// unresolvable paths and unknown templates
type ProtocolError struct {
	Index int
	Op    protocol.Op
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation %s: %v", position(e.Index, e.Op), e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UnsupportedError reports input outside the closed supported surface
type UnsupportedError struct {
	Index int
	Op    protocol.Op
	What  string // tag, node type, attribute, value or event listener
	Err   error
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s %s: %v", e.What, position(e.Index, e.Op), e.Err)
}

func (e *UnsupportedError) Unwrap() error { return e.Err }

// HostError reports a host tree that broke its contract
type HostError struct {
	Index  int
	Op     protocol.Op
	Entity host.Entity
	Err    error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host failure on %v %s: %v", e.Entity, position(e.Index, e.Op), e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

func position(index int, op protocol.Op) string {
	if index == TemplatePhase {
		return "while compiling templates"
	}
	if op == "" {
		return fmt.Sprintf("at edit %d", index)
	}
	return fmt.Sprintf("at edit %d (%s)", index, op)
}

// hostFailure marks an error returned by a host call
type hostFailure struct {
	entity host.Entity
	err    error
}

func (f *hostFailure) Error() string { return f.err.Error() }
func (f *hostFailure) Unwrap() error { return f.err }

func hostErr(e host.Entity, err error) error {
	if err == nil {
		return nil
	}
	return &hostFailure{entity: e, err: err}
}

// classify turns an error from a pass into one of the three typed errors
func classify(index int, op protocol.Op, err error) error {
	var hf *hostFailure
	switch {
	case errors.As(err, &hf):
		return &HostError{Index: index, Op: op, Entity: hf.entity, Err: err}
	case errors.Is(err, catalog.ErrUnknownTag):
		return &UnsupportedError{Index: index, Op: op, What: "tag", Err: err}
	case errors.Is(err, catalog.ErrNodeType):
		return &UnsupportedError{Index: index, Op: op, What: "node type", Err: err}
	case errors.Is(err, attr.ErrUnknownAttribute):
		return &UnsupportedError{Index: index, Op: op, What: "attribute", Err: err}
	case errors.Is(err, attr.ErrTypeMismatch):
		return &UnsupportedError{Index: index, Op: op, What: "value", Err: err}
	case errors.Is(err, ErrEventListener):
		return &UnsupportedError{Index: index, Op: op, What: "event listener", Err: err}
	default:
		return &ProtocolError{Index: index, Op: op, Err: err}
	}
}
