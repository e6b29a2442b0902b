package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/livefir/livescene/internal/catalog"
	"github.com/livefir/livescene/internal/node"
	"github.com/livefir/livescene/internal/render"
	"github.com/livefir/livescene/scene"
)

func newTemplatesCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates <glob>",
		Short: "Compile HTML template files and print what each instantiates to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := loadTemplates(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(templates)
			}

			c := catalog.New(nil)
			for _, tmpl := range templates {
				if err := c.Add(tmpl); err != nil {
					return err
				}
			}

			w := scene.NewWorld()
			renderer := render.New(w, nil)
			for _, name := range c.Names() {
				roots, _ := c.Roots(name)
				fmt.Fprintf(out, "%s (%d roots)\n", name, len(roots))
				for _, root := range roots {
					e, _, err := node.Instantiate(w, root)
					if err != nil {
						return fmt.Errorf("template %q: %w", name, err)
					}
					fmt.Fprintln(out, renderer.Tree(e))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed descriptions as JSON")
	return cmd
}
