package main

import (
	"fmt"

	"camelot/internal/format"
	"camelot/internal/mood"

	"github.com/spf13/cobra"
)

// keywordWidth caps the keyword column of the graph table.
const keywordWidth = 40

var graphFlags struct {
	format string
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the mood graph",
	Args:  cobra.NoArgs,
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphFlags.format, "format", "mermaid", "Output format: mermaid, table or markdown")
}

func runGraph(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if graphFlags.format == "mermaid" {
		fmt.Fprint(out, mood.Render(env.registry))
		return nil
	}
	mode, err := format.ParseMode(graphFlags.format)
	if err != nil {
		return err
	}

	tb := format.NewTable(mode)
	tb.Title(env.registry.Name())
	tb.Header("Mood", "Valence", "Energy", "Step", "Next", "Keywords")
	tb.Columns(format.ColumnConfig{Number: 4, Align: format.AlignRight})
	for _, n := range env.registry.Nodes() {
		tb.Row(
			n.ID,
			n.Valence.String(),
			n.Energy.String(),
			fmt.Sprintf("%+.2f / %+.2f", n.Step.Valence, n.Step.Energy),
			format.List(n.Targets()),
			format.Truncate(format.List(n.Keywords), keywordWidth),
		)
	}
	fmt.Fprintln(out, tb.String())
	return nil
}
