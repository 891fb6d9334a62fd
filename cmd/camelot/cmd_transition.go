package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"camelot/internal/format"
	"camelot/internal/logging"
	"camelot/internal/mood"

	"github.com/spf13/cobra"
)

var transitionFlags struct {
	steps  int
	text   string
	format string
}

var transitionCmd = &cobra.Command{
	Use:   "transition [mood]",
	Short: "Simulate a mood walk through the graph",
	Long: `Starts at the given mood (or the mood detected from --text) and takes up to
--steps transitions, printing the visited path and the final attributes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTransition,
}

func init() {
	f := transitionCmd.Flags()
	f.IntVar(&transitionFlags.steps, "steps", mood.DefaultMaxSteps, "Maximum number of transition steps")
	f.StringVar(&transitionFlags.text, "text", "", "Detect the starting mood from this text")
	f.StringVar(&transitionFlags.format, "format", "table", "Output format: table, markdown or json")
}

func runTransition(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}

	var start string
	switch {
	case len(args) == 1:
		start = strings.ToLower(strings.TrimSpace(args[0]))
	case transitionFlags.text != "":
		start = mood.NewDetector(env.registry).Detect(transitionFlags.text)
		if !env.registry.Has(start) {
			return fmt.Errorf("no mood detected in %q", transitionFlags.text)
		}
	default:
		return errors.New("transition: give a mood or --text")
	}

	sim := mood.NewSimulator(env.registry, mood.WithObserver(&mood.LogObserver{Logger: logging.New("mood")}))
	res, err := sim.Transition(start, transitionFlags.steps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if transitionFlags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	mode, err := format.ParseMode(transitionFlags.format)
	if err != nil {
		return err
	}
	tb := format.NewTable(mode)
	tb.Header("Field", "Value")
	tb.Row("Path", format.Path(res.Path))
	tb.Row("Mood", res.CurrentMood)
	tb.Row("Valence", format.Fixed2(res.Valence))
	tb.Row("Energy", format.Fixed2(res.Energy))
	tb.Row("Steps", res.Steps)
	tb.Row("Final", format.BoolMark(res.IsFinalMood))
	tb.Row("Next", format.List(res.NextMoods))
	if res.Stuck {
		tb.Footer("Stuck", "no eligible edge")
	}
	fmt.Fprintln(out, tb.String())
	return nil
}
