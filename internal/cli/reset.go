package cli

import (
	"fmt"
	"time"

	"github.com/keshon/v0id/internal/mind"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget everything and boot a fresh mind (the archive is kept)",
		RunE:  runReset,
	}
	cmd.Flags().Bool("yes", false, "Do not ask for confirmation")
	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Printf("This wipes %s. Continue? [y/N] ", cfg.SnapshotFile)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	ds, store, err := openSnapshot(cfg)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := store.Reset(); err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}
	if err := store.Save(mind.NewState("", cfg.GraphCapacity, time.Now())); err != nil {
		return err
	}
	fmt.Println("mind reset")
	return nil
}
