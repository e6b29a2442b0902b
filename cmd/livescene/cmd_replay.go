package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/livescene"
	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/journal"
	"github.com/livefir/livescene/internal/render"
	"github.com/livefir/livescene/protocol"
	"github.com/livefir/livescene/scene"
)

type replayOptions struct {
	journal   string
	templates string
	html      bool
	minify    bool
}

func newReplayCmd(a *app) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay [script.json]",
		Short: "Apply a recorded script or journal and print the resulting scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := openScript(cmd.Context(), args, opts.journal)
			if err != nil {
				return err
			}
			templates, err := loadTemplates(opts.templates)
			if err != nil {
				return err
			}
			return replay(cmd.OutOrStdout(), a, script, templates, opts)
		},
	}
	cmd.Flags().StringVar(&opts.journal, "journal", "", "replay a journal database instead of a script file")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "glob of HTML template files announced with the first batch")
	cmd.Flags().BoolVar(&opts.html, "html", false, "print HTML instead of a tree")
	cmd.Flags().BoolVar(&opts.minify, "minify", false, "minify the HTML output")
	return cmd
}

// openScript reads the script named by args, or the journal at journalPath
func openScript(ctx context.Context, args []string, journalPath string) (*protocol.Script, error) {
	switch {
	case journalPath != "" && len(args) > 0:
		return nil, errors.New("give either a script file or --journal, not both")
	case journalPath != "":
		if ctx == nil {
			ctx = context.Background()
		}
		j, err := journal.Open(ctx, journalPath, nil)
		if err != nil {
			return nil, err
		}
		defer j.Close()
		return j.Script(ctx)
	case len(args) == 1:
		return protocol.LoadScript(args[0])
	default:
		return nil, errors.New("a script file or --journal is required")
	}
}

func replay(out io.Writer, a *app, script *protocol.Script, templates []protocol.Template, opts replayOptions) error {
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	r := livescene.New(root, a.reconcilerOptions(a.log, nil)...)
	d := livescene.NewDriver(r, w, &preload{source: script, templates: templates})

	failure := d.Setup()
	if failure != nil {
		a.log.Error("replay stopped", zap.Error(failure))
	}

	renderer := render.New(w, nil)
	switch {
	case opts.html && opts.minify:
		s, err := renderer.MinifiedHTML(root)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	case opts.html:
		s, err := renderer.HTML(root)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	default:
		fmt.Fprintln(out, renderer.Tree(root))
	}

	m := r.Metrics().GetMetrics()
	fmt.Fprintf(out, "%d batches, %d edits applied\n", m.BatchesApplied, m.EditsApplied)
	return failure
}
