package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the saved state of the mind",
		RunE:  runStatus,
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	ds, store, err := openSnapshot(cfg)
	if err != nil {
		return err
	}
	defer ds.Close()

	s := store.Load("", time.Now())
	if jsonOutput() {
		return printJSON(s)
	}

	fmt.Printf("mode:      %s", s.Mode)
	if !s.DreamEndsAt.IsZero() {
		fmt.Printf(" (wakes %s)", s.DreamEndsAt.Local().Format(time.TimeOnly))
	}
	fmt.Println()
	fmt.Printf("ticks:     %d\n", s.TickCount)
	fmt.Printf("topic:     %s (locked %d)\n", s.Topic, s.TopicLock)
	fmt.Printf("emotion:   %s\n", s.Emotions.Blend())
	fmt.Printf("maturity:  %.3f\n", s.Maturity)
	fmt.Printf("voice:     %s\n", s.SubAgent)
	fmt.Printf("graph:     %d nodes, %d edges\n", s.Graph.Len(), s.Graph.Edges())
	fmt.Printf("last:      %s\n", s.LastThought)
	if s.LastError != "" {
		fmt.Printf("banner:    %s\n", s.LastError)
	}
	if len(s.Conflicts) > 0 {
		fmt.Printf("conflicts: %s\n", strings.Join(s.Conflicts, "; "))
	}

	fmt.Println("beliefs:")
	for _, b := range s.Beliefs {
		fmt.Printf("  %-10s %-12s %.2f\n", b.Concept, b.Stance, b.Confidence)
	}
	fmt.Println("memory:")
	for _, m := range s.Memory {
		fmt.Printf("  %.2f  %-10s %s\n", m.Strength, m.EmotionTag, m.Text)
	}
	return nil
}
