package main

import (
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func newInspectCmd(a *app) *cobra.Command {
	var journalPath, templatePattern string

	cmd := &cobra.Command{
		Use:   "inspect [script.json]",
		Short: "Step through a script or journal one batch at a time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := openScript(cmd.Context(), args, journalPath)
			if err != nil {
				return err
			}
			templates, err := loadTemplates(templatePattern)
			if err != nil {
				return err
			}
			batches, _ := (&preload{source: script, templates: templates}).Pending()

			// the terminal belongs to the UI
			m := newInspectModel(batches, a.reconcilerOptions(zap.NewNop(), nil))
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&journalPath, "journal", "", "inspect a journal database instead of a script file")
	cmd.Flags().StringVar(&templatePattern, "templates", "", "glob of HTML template files announced with the first batch")
	return cmd
}
