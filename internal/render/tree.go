package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/livefir/livescene/host"
)

var (
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	enumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
)

// Label describes one node on a single line: kind, handle, text content and
// non-default style fields
func (r *Renderer) Label(e host.Entity) string {
	kind, ok := r.world.Kind(e)
	if !ok {
		return fmt.Sprintf("%s %s", kindStyle.Render("Gone"), idStyle.Render(e.String()))
	}

	parts := []string{kindStyle.Render(cases.Title(language.English).String(kind.String())), idStyle.Render(e.String())}
	if text, ok := r.world.Text(e); ok {
		parts = append(parts, textStyle.Render(fmt.Sprintf("%q", text.String())))
	}
	if s, ok := r.world.LookupStyle(e); ok {
		var fields []string
		for _, f := range r.translator.Changed(s) {
			fields = append(fields, f.Name()+"="+f.Format(s))
		}
		if len(fields) > 0 {
			parts = append(parts, styleStyle.Render("["+strings.Join(fields, " ")+"]"))
		}
	}
	return strings.Join(parts, " ")
}

// Tree renders the subtree at root with box-drawing branches
func (r *Renderer) Tree(root host.Entity) string {
	nodes := make(map[host.Entity]*tree.Tree)
	r.world.Walk(root, func(e host.Entity, _ int) bool {
		t := tree.Root(r.Label(e)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(enumStyle)
		nodes[e] = t
		if parent, ok := r.world.Parent(e); ok && e != root {
			nodes[parent].Child(t)
		}
		return true
	})

	t, ok := nodes[root]
	if !ok {
		return r.Label(root)
	}
	return t.String()
}
