// Package catalog compiles template descriptions into the node model and
// caches them by name for the lifetime of a reconciler.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/attr"
	"github.com/livefir/livescene/internal/node"
	"github.com/livefir/livescene/protocol"
	"github.com/livefir/livescene/style"
)

var (
	// ErrUnknownTag is returned when a template uses a tag outside div, img and button
	ErrUnknownTag = errors.New("unknown tag")
	// ErrUnknownTemplate is returned by Root for names never added
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrRootIndex is returned by Root when the template has fewer roots
	ErrRootIndex = errors.New("template root index out of range")
	// ErrNodeType is returned for descriptions with an unrecognized type
	ErrNodeType = errors.New("unknown template node type")
)

var tagKinds = map[string]host.Kind{
	"div":    host.KindDiv,
	"img":    host.KindImage,
	"button": host.KindButton,
}

// Catalog stores compiled templates by name
type Catalog struct {
	mu         sync.RWMutex
	templates  map[string][]node.RootNode
	translator *attr.Translator
}

// New creates an empty catalog. Static attributes are parsed through t.
func New(t *attr.Translator) *Catalog {
	if t == nil {
		t = attr.New()
	}
	return &Catalog{
		templates:  make(map[string][]node.RootNode),
		translator: t,
	}
}

// Add compiles every root of tmpl and stores them under its name, replacing
// any previous entry. Nothing is stored if any root fails to compile.
func (c *Catalog) Add(tmpl protocol.Template) error {
	roots, err := c.Compile(tmpl)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.templates[tmpl.Name] = roots
	c.mu.Unlock()
	return nil
}

// Compile compiles tmpl without storing it
func (c *Catalog) Compile(tmpl protocol.Template) ([]node.RootNode, error) {
	roots := make([]node.RootNode, 0, len(tmpl.Roots))
	for i, desc := range tmpl.Roots {
		root, err := c.compileRoot(desc)
		if err != nil {
			return nil, fmt.Errorf("template %q root %d: %w", tmpl.Name, i, err)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// Root returns the compiled root at index of the named template
func (c *Catalog) Root(name string, index int) (node.RootNode, error) {
	c.mu.RLock()
	roots, ok := c.templates[name]
	c.mu.RUnlock()

	if !ok {
		return node.RootNode{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	if index < 0 || index >= len(roots) {
		return node.RootNode{}, fmt.Errorf("%w: %q has %d roots, wanted %d", ErrRootIndex, name, len(roots), index)
	}
	return roots[index], nil
}

// Roots returns every compiled root of the named template
func (c *Catalog) Roots(name string) ([]node.RootNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roots, ok := c.templates[name]
	return roots, ok
}

// Len returns the number of cached templates
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Names returns the cached template names in sorted order
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	c.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (c *Catalog) compileRoot(desc protocol.TemplateNode) (node.RootNode, error) {
	switch desc.Type {
	case protocol.NodeElement:
		el, err := c.element(desc)
		if err != nil {
			return node.RootNode{}, err
		}
		if len(desc.Children) == 0 {
			return node.RootNode{Kind: node.RootElement, Element: el}, nil
		}
		var tree node.ChildrenTree
		if err := c.compileChildren(&tree, desc.Children); err != nil {
			return node.RootNode{}, err
		}
		return node.RootNode{Kind: node.RootElementWithChildren, Element: el, Children: tree}, nil
	case protocol.NodeText:
		return node.RootNode{Kind: node.RootText, Text: host.NewText(desc.Text)}, nil
	case protocol.NodeDynamicText:
		return node.RootNode{Kind: node.RootText, Text: host.NewText("")}, nil
	case protocol.NodeDynamic:
		return node.RootNode{Kind: node.RootPlaceholder}, nil
	default:
		return node.RootNode{}, fmt.Errorf("%w: %q", ErrNodeType, desc.Type)
	}
}

// compileChildren appends children to tree. Each child gets its slot
// reserved first; an element child with children of its own is followed by
// Enter, its compiled children and Exit.
func (c *Catalog) compileChildren(tree *node.ChildrenTree, children []protocol.TemplateNode) error {
	for i, desc := range children {
		slot := tree.Placeholder()

		child, err := c.compileChild(tree, desc)
		if err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		tree.Replace(slot, child)
	}
	return nil
}

func (c *Catalog) compileChild(tree *node.ChildrenTree, desc protocol.TemplateNode) (node.ChildNode, error) {
	switch desc.Type {
	case protocol.NodeElement:
		el, err := c.element(desc)
		if err != nil {
			return node.ChildNode{}, err
		}
		if len(desc.Children) > 0 {
			tree.Enter()
			if err := c.compileChildren(tree, desc.Children); err != nil {
				return node.ChildNode{}, err
			}
			tree.Exit()
		}
		return node.ChildNode{Kind: node.ChildElement, Element: el}, nil
	case protocol.NodeText:
		return node.ChildNode{Kind: node.ChildText, Text: host.NewText(desc.Text)}, nil
	case protocol.NodeDynamicText:
		return node.ChildNode{Kind: node.ChildText, Text: host.NewText("")}, nil
	case protocol.NodeDynamic:
		return node.ChildNode{Kind: node.ChildPlaceholder}, nil
	default:
		return node.ChildNode{}, fmt.Errorf("%w: %q", ErrNodeType, desc.Type)
	}
}

// element resolves the tag and folds static attributes into the initial style
func (c *Catalog) element(desc protocol.TemplateNode) (node.Element, error) {
	kind, ok := tagKinds[strings.ToLower(desc.Tag)]
	if !ok {
		return node.Element{}, fmt.Errorf("%w: %q", ErrUnknownTag, desc.Tag)
	}

	el := node.Element{Kind: kind}
	for _, a := range desc.Attrs {
		if kind == host.KindImage && a.Name == "src" {
			el.Image.Source = a.Value
			continue
		}
		if el.Style == nil {
			s := style.Default()
			el.Style = &s
		}
		if err := c.translator.Parse(el.Style, a.Name, a.Value); err != nil {
			return node.Element{}, fmt.Errorf("<%s %s=%q>: %w", desc.Tag, a.Name, a.Value, err)
		}
	}
	return el, nil
}
