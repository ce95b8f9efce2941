package cli

import (
	"fmt"

	"github.com/keshon/v0id/internal/mind"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "think",
		Short: "Run one or more ticks right now and print the thoughts",
		RunE:  runThink,
	}
	cmd.Flags().IntP("count", "n", 1, "Number of ticks")
	RootCmd.AddCommand(cmd)
}

func runThink(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	reports := make([]mind.TickReport, 0, count)
	for i := 0; i < count && ctx.Err() == nil; i++ {
		r := a.runner.ThinkOnce(ctx)
		reports = append(reports, r)
		if !jsonOutput() {
			printReport(r)
		}
	}
	if jsonOutput() {
		return printJSON(reports)
	}
	if banner := a.gateway.LastError(); banner != "" {
		fmt.Printf("! %s\n", banner)
	}
	return nil
}

func printReport(r mind.TickReport) {
	switch {
	case r.Skipped:
		fmt.Printf("#%d  (still dreaming)\n", r.Tick)
	case r.Dreamed:
		fmt.Printf("#%d  [dream] %s\n", r.Tick, r.Thought)
	default:
		tag := r.Kind
		if r.Style != "" {
			tag += "/" + r.Style
		}
		fmt.Printf("#%d  [%s] %s\n", r.Tick, tag, r.Thought)
	}
}
