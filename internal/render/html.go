// Package render dumps a scene as HTML or as a terminal tree.
package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/attr"
	"github.com/livefir/livescene/scene"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", minhtml.Minify)
	})
	return minifier
}

// Renderer turns scene subtrees into markup
type Renderer struct {
	world      *scene.World
	translator *attr.Translator
}

// New creates a renderer over w. Style fields are named through t.
func New(w *scene.World, t *attr.Translator) *Renderer {
	if t == nil {
		t = attr.New()
	}
	return &Renderer{world: w, translator: t}
}

// HTML renders the subtree at root. Divs, images and buttons become the
// matching elements, text nodes become text and placeholders become comments.
// Every non-default style field becomes a data-* attribute.
func (r *Renderer) HTML(root host.Entity) (string, error) {
	n, err := r.htmlNode(root)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.String(), nil
}

// MinifiedHTML renders like HTML and minifies the result. Placeholder
// comments do not survive minification.
func (r *Renderer) MinifiedHTML(root host.Entity) (string, error) {
	out, err := r.HTML(root)
	if err != nil {
		return "", err
	}
	minified, err := getMinifier().String("text/html", out)
	if err != nil {
		return "", fmt.Errorf("failed to minify HTML: %w", err)
	}
	return minified, nil
}

// htmlNode builds the x/net/html tree iteratively, parents before children.
// Text nodes and placeholders cannot hold markup, so their descendants
// follow them as siblings.
func (r *Renderer) htmlNode(root host.Entity) (*html.Node, error) {
	if !r.world.Alive(root) {
		return nil, fmt.Errorf("%w: %v", scene.ErrNoEntity, root)
	}

	doc := &html.Node{Type: html.DocumentNode}
	holders := make(map[host.Entity]*html.Node)
	r.world.Walk(root, func(e host.Entity, _ int) bool {
		parent := doc
		if p, ok := r.world.Parent(e); ok && e != root {
			parent = holders[p]
		}
		n := r.element(e)
		parent.AppendChild(n)
		if n.Type == html.ElementNode {
			holders[e] = n
		} else {
			holders[e] = parent
		}
		return true
	})
	return doc, nil
}

func (r *Renderer) element(e host.Entity) *html.Node {
	kind, _ := r.world.Kind(e)

	var n *html.Node
	switch kind {
	case host.KindText:
		text, _ := r.world.Text(e)
		return &html.Node{Type: html.TextNode, Data: text.String()}
	case host.KindEmpty:
		return &html.Node{Type: html.CommentNode, Data: fmt.Sprintf("placeholder %v", e)}
	case host.KindImage:
		n = &html.Node{Type: html.ElementNode, Data: "img", DataAtom: atom.Img}
		if img, ok := r.world.Image(e); ok && img.Source != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "src", Val: img.Source})
		}
	case host.KindButton:
		n = &html.Node{Type: html.ElementNode, Data: "button", DataAtom: atom.Button}
	default:
		n = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}

	if s, ok := r.world.LookupStyle(e); ok {
		for _, f := range r.translator.Changed(s) {
			n.Attr = append(n.Attr, html.Attribute{Key: "data-" + f.Name(), Val: f.Format(s)})
		}
	}
	return n
}
