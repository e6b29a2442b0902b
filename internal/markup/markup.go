// Package markup reads template descriptions written as HTML.
//
//	<template name="card">
//	  <div width="120px" padding="4px">
//	    <button>ok</button>
//	    <dyn-text slot="0"></dyn-text>
//	    <dyn slot="1"></dyn>
//	  </div>
//	</template>
//
// Every attribute on a regular element is kept as a static attribute; the
// catalog decides whether it is supported. Whitespace-only text and comments
// are dropped, other text has its whitespace collapsed.
package markup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/livefir/livescene/protocol"
)

const (
	tagTemplate    = "template"
	tagDynamic     = "dyn"
	tagDynamicText = "dyn-text"
)

var (
	// ErrNoTemplates is returned when a source holds no <template> element
	ErrNoTemplates = errors.New("no templates found")
	// ErrDuplicate is returned when two templates share a name
	ErrDuplicate = errors.New("duplicate template name")
)

// Parse reads every top-level <template> element from r
func Parse(r io.Reader) ([]protocol.Template, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var templates []protocol.Template
	seen := make(map[string]bool)
	for _, n := range nodes {
		if n.Type != html.ElementNode || n.Data != tagTemplate {
			continue
		}
		t, err := parseTemplate(n)
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, t.Name)
		}
		seen[t.Name] = true
		templates = append(templates, t)
	}

	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	return templates, nil
}

// ParseString parses templates from a string
func ParseString(s string) ([]protocol.Template, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses templates from a file
func ParseFile(path string) ([]protocol.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	templates, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return templates, nil
}

// ParseGlob parses every file matching pattern. Names must be unique across files.
func ParseGlob(pattern string) ([]protocol.Template, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %q", ErrNoTemplates, pattern)
	}

	var all []protocol.Template
	seen := make(map[string]string)
	for _, path := range paths {
		templates, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		for _, t := range templates {
			if prev, dup := seen[t.Name]; dup {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicate, t.Name, prev, path)
			}
			seen[t.Name] = path
		}
		all = append(all, templates...)
	}
	return all, nil
}

func parseTemplate(n *html.Node) (protocol.Template, error) {
	name := attrValue(n, "name")
	if name == "" {
		return protocol.Template{}, errors.New("template without a name attribute")
	}

	roots, err := parseChildren(n)
	if err != nil {
		return protocol.Template{}, fmt.Errorf("template %q: %w", name, err)
	}
	if len(roots) == 0 {
		return protocol.Template{}, fmt.Errorf("template %q is empty", name)
	}
	return protocol.Template{Name: name, Roots: roots}, nil
}

func parseChildren(parent *html.Node) ([]protocol.TemplateNode, error) {
	var out []protocol.TemplateNode
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := normalizeWhitespace(c.Data)
			if text == "" {
				continue
			}
			out = append(out, protocol.Text(text))
		case html.ElementNode:
			n, err := parseElement(c)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func parseElement(n *html.Node) (protocol.TemplateNode, error) {
	switch n.Data {
	case tagTemplate:
		return protocol.TemplateNode{}, errors.New("nested <template>")
	case tagDynamic, tagDynamicText:
		slot, err := slotOf(n)
		if err != nil {
			return protocol.TemplateNode{}, err
		}
		if n.FirstChild != nil {
			return protocol.TemplateNode{}, fmt.Errorf("<%s slot=%d> must be empty", n.Data, slot)
		}
		if n.Data == tagDynamic {
			return protocol.Dynamic(slot), nil
		}
		return protocol.DynamicText(slot), nil
	}

	attrs := make([]protocol.TemplateAttribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		attrs = append(attrs, protocol.TemplateAttribute{Name: a.Key, Value: a.Val})
	}
	children, err := parseChildren(n)
	if err != nil {
		return protocol.TemplateNode{}, err
	}
	el := protocol.Element(n.Data, attrs, children...)
	if len(attrs) == 0 {
		el.Attrs = nil
	}
	return el, nil
}

func slotOf(n *html.Node) (int, error) {
	raw := attrValue(n, "slot")
	slot, err := strconv.Atoi(raw)
	if err != nil || slot < 0 {
		return 0, fmt.Errorf("<%s> needs a non-negative slot, got %q", n.Data, raw)
	}
	return slot, nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// normalizeWhitespace trims and collapses runs of whitespace to one space
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
