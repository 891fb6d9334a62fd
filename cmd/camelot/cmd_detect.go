package main

import (
	"fmt"
	"strings"

	"camelot/internal/format"
	"camelot/internal/mood"

	"github.com/spf13/cobra"
)

var detectFlags struct {
	all bool
}

var detectCmd = &cobra.Command{
	Use:   "detect <text...>",
	Short: "Detect the mood expressed by a piece of text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectFlags.all, "all", false, "List every matching mood, not just the first")
}

func runDetect(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	det := mood.NewDetector(env.registry)

	out := cmd.OutOrStdout()
	if detectFlags.all {
		fmt.Fprintln(out, format.List(det.DetectAll(text)))
		return nil
	}
	fmt.Fprintln(out, det.Detect(text))
	return nil
}
