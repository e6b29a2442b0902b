package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/attr"
	"github.com/livefir/livescene/internal/node"
	"github.com/livefir/livescene/protocol"
	"github.com/livefir/livescene/scene"
	"github.com/livefir/livescene/style"
)

func cardTemplate() protocol.Template {
	return protocol.Template{
		Name: "card",
		Roots: []protocol.TemplateNode{
			protocol.Element("div", protocol.Attrs("width", "100px", "flex_direction", "column"),
				protocol.Element("button", nil,
					protocol.Text("ok"),
				),
				protocol.DynamicText(0),
				protocol.Element("div", nil,
					protocol.Element("img", protocol.Attrs("src", "logo.png")),
					protocol.Dynamic(1),
				),
			),
			protocol.Text("footer"),
			protocol.Dynamic(2),
			protocol.Element("img", nil),
		},
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	c := New(nil)
	a, err := c.Compile(cardTemplate())
	require.NoError(t, err)
	b, err := c.Compile(cardTemplate())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCompileRootKinds(t *testing.T) {
	c := New(nil)
	roots, err := c.Compile(cardTemplate())
	require.NoError(t, err)
	require.Len(t, roots, 4)

	require.Equal(t, node.RootElementWithChildren, roots[0].Kind)
	require.Equal(t, node.RootText, roots[1].Kind)
	require.Equal(t, "footer", roots[1].Text.String())
	require.Equal(t, node.RootPlaceholder, roots[2].Kind)
	require.Equal(t, node.RootElement, roots[3].Kind)
	require.Equal(t, host.KindImage, roots[3].Element.Kind)

	s := roots[0].Element.Style
	require.NotNil(t, s)
	require.Equal(t, style.Px(100), s.Width)
	require.Equal(t, style.FlexColumn, s.FlexDirection)
	require.Nil(t, roots[3].Element.Style, "no attributes means no style record")
}

func TestCompileFlatEncoding(t *testing.T) {
	c := New(nil)
	roots, err := c.Compile(cardTemplate())
	require.NoError(t, err)

	tree := roots[0].Children
	require.True(t, tree.Balanced())

	var shape []string
	for _, e := range tree.Entries() {
		switch e.Kind {
		case node.EntryEnter:
			shape = append(shape, "in")
		case node.EntryExit:
			shape = append(shape, "out")
		default:
			shape = append(shape, e.Node.Kind.String())
		}
	}
	require.Equal(t, []string{
		"element", "in", "text", "out",
		"text",
		"element", "in", "element", "placeholder", "out",
	}, shape)

	img := tree.Entries()[7].Node.Element
	require.Equal(t, host.KindImage, img.Kind)
	require.Equal(t, "logo.png", img.Image.Source)
}

func TestCompileSingleRootTemplate(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Add(protocol.Template{
		Name:  "root",
		Roots: []protocol.TemplateNode{protocol.Element("div", nil, protocol.Text("hello"))},
	}))

	root, err := c.Root("root", 0)
	require.NoError(t, err)

	w := scene.NewWorld()
	e, spawned, err := node.Instantiate(w, root)
	require.NoError(t, err)
	require.Equal(t, 2, spawned)

	kind, _ := w.Kind(e)
	require.Equal(t, host.KindDiv, kind)

	children := w.Children(e)
	require.Len(t, children, 1)
	text, ok := w.Text(children[0])
	require.True(t, ok)
	require.Equal(t, "hello", text.String())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		tmpl protocol.Template
		want error
	}{
		{
			name: "unknown root tag",
			tmpl: protocol.Template{Name: "x", Roots: []protocol.TemplateNode{protocol.Element("span", nil)}},
			want: ErrUnknownTag,
		},
		{
			name: "unknown nested tag",
			tmpl: protocol.Template{Name: "x", Roots: []protocol.TemplateNode{
				protocol.Element("div", nil, protocol.Element("div", nil, protocol.Element("p", nil))),
			}},
			want: ErrUnknownTag,
		},
		{
			name: "unknown static attribute",
			tmpl: protocol.Template{Name: "x", Roots: []protocol.TemplateNode{
				protocol.Element("div", protocol.Attrs("class", "card")),
			}},
			want: attr.ErrUnknownAttribute,
		},
		{
			name: "bad static value",
			tmpl: protocol.Template{Name: "x", Roots: []protocol.TemplateNode{
				protocol.Element("div", protocol.Attrs("width", "wide")),
			}},
			want: attr.ErrTypeMismatch,
		},
		{
			name: "unknown node type",
			tmpl: protocol.Template{Name: "x", Roots: []protocol.TemplateNode{{Type: "comment"}}},
			want: ErrNodeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			err := c.Add(tt.tmpl)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Add() error = %v, want %v", err, tt.want)
			}
			if c.Len() != 0 {
				t.Errorf("failed template was stored")
			}
		})
	}
}

func TestAddOverwritesAndIsAtomic(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Add(protocol.Template{Name: "a", Roots: []protocol.TemplateNode{protocol.Text("one")}}))
	require.NoError(t, c.Add(protocol.Template{Name: "a", Roots: []protocol.TemplateNode{protocol.Text("two")}}))

	root, err := c.Root("a", 0)
	require.NoError(t, err)
	require.Equal(t, "two", root.Text.String())

	err = c.Add(protocol.Template{Name: "a", Roots: []protocol.TemplateNode{
		protocol.Text("three"),
		protocol.Element("video", nil),
	}})
	require.ErrorIs(t, err, ErrUnknownTag)

	root, err = c.Root("a", 0)
	require.NoError(t, err)
	require.Equal(t, "two", root.Text.String(), "failed add must not replace the entry")
}

func TestRootLookupErrors(t *testing.T) {
	c := New(nil)
	_, err := c.Root("missing", 0)
	require.ErrorIs(t, err, ErrUnknownTemplate)

	require.NoError(t, c.Add(protocol.Template{Name: "b", Roots: []protocol.TemplateNode{protocol.Dynamic(0)}}))
	require.NoError(t, c.Add(protocol.Template{Name: "a", Roots: []protocol.TemplateNode{protocol.Dynamic(0)}}))
	_, err = c.Root("a", 1)
	require.ErrorIs(t, err, ErrRootIndex)
	_, err = c.Root("a", -1)
	require.ErrorIs(t, err, ErrRootIndex)

	require.Equal(t, []string{"a", "b"}, c.Names())
}

// Any nested description, once compiled and replayed, rebuilds a host tree
// with the same shape, kinds and order.
func TestFlatteningRoundTrip(t *testing.T) {
	faker := gofakeit.New(7)
	c := New(nil)

	for i := 0; i < 100; i++ {
		desc := randomElement(faker, 0)
		tmpl := protocol.Template{Name: fmt.Sprintf("t%d", i), Roots: []protocol.TemplateNode{desc}}
		require.NoError(t, c.Add(tmpl))

		root, err := c.Root(tmpl.Name, 0)
		require.NoError(t, err)
		require.True(t, root.Children.Balanced())

		w := scene.NewWorld()
		e, spawned, err := node.Instantiate(w, root)
		require.NoError(t, err)
		require.Equal(t, countNodes(desc), spawned)
		assertIsomorphic(t, w, e, desc)
	}
}

func randomElement(f *gofakeit.Faker, depth int) protocol.TemplateNode {
	tag := f.RandomString([]string{"div", "img", "button"})
	n := protocol.Element(tag, nil)
	if depth >= 4 {
		return n
	}
	for i := f.IntRange(0, 4); i > 0; i-- {
		switch f.IntRange(0, 5) {
		case 0:
			n.Children = append(n.Children, protocol.Text(f.Word()))
		case 1:
			n.Children = append(n.Children, protocol.DynamicText(i))
		case 2:
			n.Children = append(n.Children, protocol.Dynamic(i))
		default:
			n.Children = append(n.Children, randomElement(f, depth+1))
		}
	}
	return n
}

func countNodes(n protocol.TemplateNode) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

func assertIsomorphic(t *testing.T, w *scene.World, e host.Entity, desc protocol.TemplateNode) {
	t.Helper()

	kind, ok := w.Kind(e)
	require.True(t, ok)

	switch desc.Type {
	case protocol.NodeElement:
		require.Equal(t, tagKinds[desc.Tag], kind)
	case protocol.NodeText, protocol.NodeDynamicText:
		require.Equal(t, host.KindText, kind)
		text, _ := w.Text(e)
		require.Equal(t, desc.Text, text.String())
	case protocol.NodeDynamic:
		require.Equal(t, host.KindEmpty, kind)
	}

	children := w.Children(e)
	require.Len(t, children, len(desc.Children))
	for i, child := range children {
		assertIsomorphic(t, w, child, desc.Children[i])
	}
}
