package markup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livefir/livescene/internal/catalog"
	"github.com/livefir/livescene/protocol"
)

const cardHTML = `
<template name="card">
  <div width="120px" flex_direction="column">
    <button>  ok
    </button>
    <dyn-text slot="0"></dyn-text>
    <!-- filled by the engine -->
    <dyn slot="1"></dyn>
    <img src="logo.png">
  </div>
</template>

<template name="label">hello <dyn-text slot="0"></dyn-text></template>
`

func TestParseTemplates(t *testing.T) {
	templates, err := ParseString(cardHTML)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	want := protocol.Template{
		Name: "card",
		Roots: []protocol.TemplateNode{
			protocol.Element("div", protocol.Attrs("width", "120px", "flex_direction", "column"),
				protocol.Element("button", nil, protocol.Text("ok")),
				protocol.DynamicText(0),
				protocol.Dynamic(1),
				protocol.Element("img", protocol.Attrs("src", "logo.png")),
			),
		},
	}
	require.Equal(t, want, templates[0])

	require.Equal(t, protocol.Template{
		Name:  "label",
		Roots: []protocol.TemplateNode{protocol.Text("hello"), protocol.DynamicText(0)},
	}, templates[1])
}

func TestParsedTemplatesCompile(t *testing.T) {
	templates, err := ParseString(cardHTML)
	require.NoError(t, err)

	c := catalog.New(nil)
	for _, tmpl := range templates {
		require.NoError(t, protocol.Validate(protocol.Mutations{Templates: []protocol.Template{tmpl}}))
		require.NoError(t, c.Add(tmpl))
	}
	require.Equal(t, []string{"card", "label"}, c.Names())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no templates", `<div></div>`, ErrNoTemplates},
		{"duplicate", `<template name="a">x</template><template name="a">y</template>`, ErrDuplicate},
		{"missing name", `<template>x</template>`, nil},
		{"empty", `<template name="a">   </template>`, nil},
		{"bad slot", `<template name="a"><dyn slot="x"></dyn></template>`, nil},
		{"negative slot", `<template name="a"><dyn-text slot="-1"></dyn-text></template>`, nil},
		{"dyn with content", `<template name="a"><dyn slot="0">x</dyn></template>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseGlob(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
	}
	write("a.html", `<template name="a"><div></div></template>`)
	write("b.html", `<template name="b">text</template>`)

	templates, err := ParseGlob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)
	require.Len(t, templates, 2)

	write("c.html", `<template name="a">again</template>`)
	_, err = ParseGlob(filepath.Join(dir, "*.html"))
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = ParseGlob(filepath.Join(dir, "*.tmpl"))
	require.ErrorIs(t, err, ErrNoTemplates)
}
