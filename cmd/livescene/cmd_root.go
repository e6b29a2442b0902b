package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/livescene"
	"github.com/livefir/livescene/internal/config"
	"github.com/livefir/livescene/internal/logger"
	"github.com/livefir/livescene/internal/markup"
	"github.com/livefir/livescene/internal/metrics"
	"github.com/livefir/livescene/protocol"
)

// app is the state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "livescene",
		Short: "Apply virtual-tree edit streams to a retained scene",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.FileName, "config file")

	root.AddCommand(
		newReplayCmd(a),
		newServeCmd(a),
		newInspectCmd(a),
		newTemplatesCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// reconcilerOptions maps the config onto reconciler options
func (a *app) reconcilerOptions(log *zap.Logger, collector *metrics.Collector) []livescene.Option {
	opts := []livescene.Option{
		livescene.WithLogger(log),
		livescene.WithIDCapacity(a.cfg.Reconciler.IDCapacity),
	}
	if a.cfg.Reconciler.IgnoreEventListeners {
		opts = append(opts, livescene.WithIgnoredEventListeners())
	}
	if collector != nil {
		opts = append(opts, livescene.WithMetrics(collector))
	}
	return opts
}

// loadTemplates parses every HTML template matching pattern; an empty
// pattern yields nothing
func loadTemplates(pattern string) ([]protocol.Template, error) {
	if pattern == "" {
		return nil, nil
	}
	return markup.ParseGlob(pattern)
}

// preload announces templates with the first batch a source yields
type preload struct {
	source    livescene.Source
	templates []protocol.Template
}

func (p *preload) Pending() ([]protocol.Mutations, error) {
	batches, err := p.source.Pending()
	if err != nil || len(p.templates) == 0 {
		return batches, err
	}
	batches = append([]protocol.Mutations(nil), batches...)
	if len(batches) == 0 {
		batches = []protocol.Mutations{{}}
	}
	first := batches[0]
	first.Templates = append(append([]protocol.Template(nil), p.templates...), first.Templates...)
	batches[0] = first
	p.templates = nil
	return batches, nil
}
