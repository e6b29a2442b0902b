package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/scene"
	"github.com/livefir/livescene/style"
)

// buildScene returns div(width=10px) > [button > "ok", placeholder, img(src)]
func buildScene(t *testing.T) (*scene.World, host.Entity) {
	t.Helper()
	w := scene.NewWorld()

	s := style.Default()
	s.Width = style.Px(10)
	root := w.Spawn(host.Bundle{Kind: host.KindDiv, Style: &s})
	button := w.Spawn(host.Bundle{Kind: host.KindButton})
	label := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("ok")})
	empty := w.Spawn(host.Bundle{Kind: host.KindEmpty})
	img := w.Spawn(host.Bundle{Kind: host.KindImage, Image: host.Image{Source: "a.png"}})

	require.NoError(t, w.AppendChild(root, button))
	require.NoError(t, w.AppendChild(button, label))
	require.NoError(t, w.AppendChild(root, empty))
	require.NoError(t, w.AppendChild(root, img))
	return w, root
}

func TestHTML(t *testing.T) {
	w, root := buildScene(t)
	r := New(w, nil)

	out, err := r.HTML(root)
	require.NoError(t, err)
	require.Equal(t,
		`<div data-width="10px"><button>ok</button><!--placeholder 3v--><img src="a.png"/></div>`,
		out)
}

func TestMinifiedHTMLDropsPlaceholders(t *testing.T) {
	w, root := buildScene(t)
	r := New(w, nil)

	out, err := r.MinifiedHTML(root)
	require.NoError(t, err)
	require.NotContains(t, out, "placeholder")
	require.Contains(t, out, `data-width=10px`)
	require.Contains(t, out, `<button>ok</button>`)
}

func TestHTMLEscapesText(t *testing.T) {
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	text := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("a < b & c")})
	require.NoError(t, w.AppendChild(root, text))

	out, err := New(w, nil).HTML(root)
	require.NoError(t, err)
	require.Equal(t, `<div>a &lt; b &amp; c</div>`, out)
}

func TestHTMLRendersChildrenOfLeafNodes(t *testing.T) {
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	empty := w.Spawn(host.Bundle{Kind: host.KindEmpty})
	x := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("x")})
	y := w.Spawn(host.Bundle{Kind: host.KindText, Text: host.NewText("y")})
	button := w.Spawn(host.Bundle{Kind: host.KindButton})
	require.NoError(t, w.AppendChild(root, empty))
	require.NoError(t, w.AppendChild(empty, x))
	require.NoError(t, w.AppendChild(root, y))
	require.NoError(t, w.AppendChild(y, button))

	r := New(w, nil)

	out, err := r.HTML(root)
	require.NoError(t, err)
	require.Equal(t, `<div><!--placeholder 1v-->xy<button></button></div>`, out)

	out, err = r.HTML(empty)
	require.NoError(t, err)
	require.Equal(t, `<!--placeholder 1v-->x`, out)

	out, err = r.MinifiedHTML(root)
	require.NoError(t, err)
	require.Contains(t, out, "x")
	require.NotContains(t, out, "placeholder")
}

func TestHTMLUnknownEntity(t *testing.T) {
	w := scene.NewWorld()
	_, err := New(w, nil).HTML(host.Entity(99))
	require.ErrorIs(t, err, scene.ErrNoEntity)
}

func TestTree(t *testing.T) {
	w, root := buildScene(t)
	r := New(w, nil)

	out := r.Tree(root)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5, out)
	require.Contains(t, lines[0], "Div")
	require.Contains(t, lines[0], "width=10px")
	require.Contains(t, lines[1], "Button")
	require.Contains(t, lines[2], `"ok"`)
	require.Contains(t, lines[3], "Empty")
	require.Contains(t, lines[4], "Image")
}

func TestLabelOfDestroyedNode(t *testing.T) {
	w, root := buildScene(t)
	require.NoError(t, w.Destroy(root))
	require.Contains(t, New(w, nil).Label(root), "Gone")
}
