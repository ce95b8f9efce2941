package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/v0id/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the thought loop and the status API until interrupted",
		RunE:  runLoop,
	}
	cmd.Flags().String("addr", "", "Status API address (default: $V0ID_HTTP_ADDR, \"off\" disables)")
	cmd.Flags().Duration("interval", 0, "Tick interval (default: $V0ID_INTERVAL)")
	RootCmd.AddCommand(cmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if iv, _ := cmd.Flags().GetDuration("interval"); iv > 0 {
		cfg.Interval = iv
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.runner.Run(ctx) })
	g.Go(func() error { return a.ds.Run(ctx) })
	if cfg.HTTPAddr != "" && cfg.HTTPAddr != "off" {
		srv := web.New(a.updater, a.archive, web.WithSkipped(a.runner.Scheduler.Skipped))
		g.Go(func() error { return srv.Run(ctx, cfg.HTTPAddr) })
	}

	err = g.Wait()
	log.Info().Msg("mind stopped")
	return err
}
