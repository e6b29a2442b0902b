package livescene

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/node"
	"github.com/livefir/livescene/protocol"
)

// pass is the state of one batch: the operand stack lives only here
type pass struct {
	r     *Reconciler
	h     host.Host
	stack []host.Entity
}

func (p *pass) exec(e protocol.Edit) error {
	switch e := e.(type) {
	case protocol.LoadTemplate:
		return p.loadTemplate(e)
	case protocol.CreatePlaceholder:
		return p.create(e.ID, host.Bundle{Kind: host.KindEmpty})
	case protocol.CreateTextNode:
		return p.create(e.ID, host.Bundle{Kind: host.KindText, Text: host.NewText(e.Value)})
	case protocol.AssignID:
		return p.assignID(e)
	case protocol.AppendChildren:
		return p.appendChildren(e)
	case protocol.ReplaceWith:
		return p.replaceWith(e)
	case protocol.ReplacePlaceholder:
		return p.replacePlaceholder(e)
	case protocol.InsertAfter:
		return p.insert(e.ID, e.M, true)
	case protocol.InsertBefore:
		return p.insert(e.ID, e.M, false)
	case protocol.SetAttribute:
		return p.setAttribute(e)
	case protocol.SetText:
		return p.setText(e)
	case protocol.Remove:
		return p.remove(e)
	case protocol.PushRoot:
		return p.pushRoot(e)
	case protocol.HydrateText:
		return p.hydrateText(e)
	case protocol.NewEventListener:
		return p.eventListener(e.Op(), e.Name, e.ID)
	case protocol.RemoveEventListener:
		return p.eventListener(e.Op(), e.Name, e.ID)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEdit, e)
	}
}

func (p *pass) push(e host.Entity) {
	p.stack = append(p.stack, e)
	p.r.metrics.ObserveStackDepth(len(p.stack))
}

// pop removes the top m operands and returns them in push order
func (p *pass) pop(m int) ([]host.Entity, error) {
	if m < 0 || m > len(p.stack) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrStackUnderflow, m, len(p.stack))
	}
	cut := len(p.stack) - m
	nodes := slices.Clone(p.stack[cut:])
	p.stack = p.stack[:cut]
	return nodes, nil
}

func (p *pass) top() (host.Entity, error) {
	if len(p.stack) == 0 {
		return host.Placeholder, fmt.Errorf("%w: path needs a node on the stack", ErrStackUnderflow)
	}
	return p.stack[len(p.stack)-1], nil
}

// resolve walks path from the top of the stack
func (p *pass) resolve(path protocol.Path) (host.Entity, error) {
	start, err := p.top()
	if err != nil {
		return host.Placeholder, err
	}
	return node.Resolve(p.h, start, path)
}

func (p *pass) lookup(id protocol.ElementID) (host.Entity, error) {
	return p.r.ids.Get(id)
}

func (p *pass) loadTemplate(e protocol.LoadTemplate) error {
	root, err := p.r.catalog.Root(e.Name, e.Index)
	if err != nil {
		return err
	}

	entity, spawned, err := node.Instantiate(p.h, root)
	p.r.metrics.AddNodesSpawned(spawned)
	if err != nil {
		return hostErr(entity, err)
	}
	if err := p.r.ids.Set(e.ID, entity); err != nil {
		return err
	}
	p.push(entity)
	return nil
}

func (p *pass) create(id protocol.ElementID, b host.Bundle) error {
	entity := p.h.Spawn(b)
	p.r.metrics.AddNodesSpawned(1)
	if err := p.r.ids.Set(id, entity); err != nil {
		return err
	}
	p.push(entity)
	return nil
}

func (p *pass) assignID(e protocol.AssignID) error {
	target, err := p.resolve(e.Path)
	if err != nil {
		return err
	}
	return p.r.ids.Set(e.ID, target)
}

func (p *pass) appendChildren(e protocol.AppendChildren) error {
	parent, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	nodes, err := p.pop(e.M)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := p.h.AppendChild(parent, n); err != nil {
			return hostErr(parent, err)
		}
	}
	return nil
}

func (p *pass) replaceWith(e protocol.ReplaceWith) error {
	target, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	nodes, err := p.pop(e.M)
	if err != nil {
		return err
	}
	return p.replace(target, nodes)
}

func (p *pass) replacePlaceholder(e protocol.ReplacePlaceholder) error {
	nodes, err := p.pop(e.M)
	if err != nil {
		return err
	}
	target, err := p.resolve(e.Path)
	if err != nil {
		return err
	}
	return p.replace(target, nodes)
}

func (p *pass) insert(id protocol.ElementID, m int, after bool) error {
	target, err := p.lookup(id)
	if err != nil {
		return err
	}
	nodes, err := p.pop(m)
	if err != nil {
		return err
	}
	return p.insertSiblings(target, nodes, after)
}

// replace puts nodes where target is, then destroys target's subtree
func (p *pass) replace(target host.Entity, nodes []host.Entity) error {
	if err := p.insertSiblings(target, nodes, false); err != nil {
		return err
	}
	if err := p.h.Destroy(target); err != nil {
		return hostErr(target, err)
	}
	p.r.metrics.IncrementSubtreeRemoved()
	return nil
}

// insertSiblings places nodes next to target, keeping their order. Nodes
// already attached somewhere are detached first so that the target index
// is computed on the final sibling list.
func (p *pass) insertSiblings(target host.Entity, nodes []host.Entity, after bool) error {
	for _, n := range nodes {
		if _, attached := p.h.Parent(n); attached {
			if err := p.h.Detach(n); err != nil {
				return hostErr(n, err)
			}
		}
	}

	parent, index, err := p.slot(target)
	if err != nil {
		return err
	}
	if after {
		index++
	}
	for i, n := range nodes {
		if err := p.h.InsertChild(parent, index+i, n); err != nil {
			return hostErr(parent, err)
		}
	}
	return nil
}

// slot returns target's parent and its index among the parent's children
func (p *pass) slot(target host.Entity) (host.Entity, int, error) {
	parent, ok := p.h.Parent(target)
	if !ok {
		return host.Placeholder, 0, hostErr(target, fmt.Errorf("node %v has no parent", target))
	}
	index := slices.Index(p.h.Children(parent), target)
	if index < 0 {
		return host.Placeholder, 0, hostErr(parent, fmt.Errorf("node %v missing from its parent's children", target))
	}
	return parent, index, nil
}

func (p *pass) setAttribute(e protocol.SetAttribute) error {
	target, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	if err := p.r.translator.Set(p.h, target, e.Name, e.Value); err != nil {
		return err
	}
	return nil
}

func (p *pass) setText(e protocol.SetText) error {
	target, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	text, ok := p.h.Text(target)
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotText, target)
	}
	if err := p.h.SetText(target, text.Collapse(e.Value)); err != nil {
		return hostErr(target, err)
	}
	return nil
}

func (p *pass) remove(e protocol.Remove) error {
	target, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	if err := p.h.Destroy(target); err != nil {
		return hostErr(target, err)
	}
	p.r.metrics.IncrementSubtreeRemoved()
	return nil
}

func (p *pass) pushRoot(e protocol.PushRoot) error {
	target, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	p.push(target)
	return nil
}

// hydrateText fills a text slot of a freshly loaded template. A slot that
// is not a text node is replaced by a new bare text node; whatever style
// the old node carried is lost.
func (p *pass) hydrateText(e protocol.HydrateText) error {
	target, err := p.resolve(e.Path)
	if err != nil {
		return err
	}

	if text, ok := p.h.Text(target); ok {
		if err := p.h.SetText(target, text.Collapse(e.Value)); err != nil {
			return hostErr(target, err)
		}
		return p.r.ids.Set(e.ID, target)
	}

	fresh := p.h.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText(e.Value)})
	p.r.metrics.AddNodesSpawned(1)

	if _, attached := p.h.Parent(target); attached {
		if err := p.replace(target, []host.Entity{fresh}); err != nil {
			return err
		}
	} else {
		if err := p.h.Destroy(target); err != nil {
			return hostErr(target, err)
		}
		p.r.metrics.IncrementSubtreeRemoved()
	}

	if len(e.Path) == 0 {
		p.stack[len(p.stack)-1] = fresh
	}
	return p.r.ids.Set(e.ID, fresh)
}

func (p *pass) eventListener(op protocol.Op, name string, id protocol.ElementID) error {
	if !p.r.config.IgnoreEventListeners {
		return fmt.Errorf("%w: %s %q on %d", ErrEventListener, op, name, id)
	}
	p.r.log.Debug("ignoring event listener edit",
		zap.String("op", string(op)),
		zap.String("event", name),
		zap.Uint32("id", uint32(id)))
	return nil
}
