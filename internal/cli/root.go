// Package cli implements the v0id commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keshon/v0id/internal/config"
	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	formatFlag string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "v0id",
	Short:         "A small synthetic mind that keeps thinking to itself",
	Long:          "v0id runs an introspective thought loop against a text model: it remembers, feels, doubts, dreams and keeps a concept graph of what it has thought about.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.New()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		cfg = c
		logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		if !config.DotenvLoaded() {
			log.Debug().Msg("no .env file, using process environment")
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override V0ID_LOG_LEVEL (trace, debug, info, warn, error)")
}

// Execute runs the root command and prints any error.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func jsonOutput() bool {
	return formatFlag == "json"
}
