package cli

import (
	"fmt"
	"time"

	"github.com/keshon/v0id/internal/archive"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived thoughts, newest first",
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "l", archive.DefaultHistoryLimit, "Max results")
	cmd.Flags().StringP("session", "s", "", "Only this session id")
	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	session, _ := cmd.Flags().GetString("session")

	a, err := openArchive(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.History(cmd.Context(), limit, session)
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Println("no archived thoughts")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %-5s %-11s %-14s %s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Mode, r.Emotion, r.Topic, r.Thought)
	}
	return nil
}
