package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/livescene"
	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/render"
	"github.com/livefir/livescene/protocol"
	"github.com/livefir/livescene/scene"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

// chrome is the number of lines around the viewport: title, status, help and border
const chrome = 5

// inspectModel applies one batch per keypress and shows the scene after it
type inspectModel struct {
	batches  []protocol.Mutations
	next     int
	world    *scene.World
	root     host.Entity
	recon    *livescene.Reconciler
	renderer *render.Renderer
	viewport viewport.Model
	err      error
}

func newInspectModel(batches []protocol.Mutations, opts []livescene.Option) inspectModel {
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	m := inspectModel{
		batches:  batches,
		world:    w,
		root:     root,
		recon:    livescene.New(root, opts...),
		renderer: render.New(w, nil),
		viewport: viewport.New(80, 20),
	}
	m.refresh()
	return m
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-chrome, 1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right", " ":
			m.step()
			return m, nil
		case "a":
			for m.step() {
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// step applies the next batch and reports whether another one can follow
func (m *inspectModel) step() bool {
	if m.err != nil || m.next >= len(m.batches) {
		return false
	}
	b := m.batches[m.next]
	if m.next == 0 {
		m.err = m.recon.Rebuild(m.world, b)
	} else {
		m.err = m.recon.Update(m.world, b)
	}
	m.next++
	m.refresh()
	return m.err == nil && m.next < len(m.batches)
}

func (m *inspectModel) refresh() {
	m.viewport.SetContent(m.renderer.Tree(m.root))
}

func (m inspectModel) title() string {
	if m.next == 0 {
		return fmt.Sprintf("livescene  [0/%d]  nothing applied", len(m.batches))
	}
	b := m.batches[m.next-1]
	mode := livescene.ModeUpdate
	if m.next == 1 {
		mode = livescene.ModeRebuild
	}
	return fmt.Sprintf("livescene  [%d/%d]  %s: %d templates, %d edits",
		m.next, len(m.batches), mode, len(b.Templates), len(b.Edits))
}

func (m inspectModel) status() string {
	switch {
	case m.err != nil:
		return styleErr.Render(m.err.Error())
	case m.next == len(m.batches):
		return styleOK.Render("all batches applied")
	default:
		return styleOK.Render(fmt.Sprintf("%d nodes in scene", m.world.Len()))
	}
}

func (m inspectModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(styleBase.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("n/→ next batch • a apply all • ↑/↓ scroll • q quit"))
	return b.String()
}
