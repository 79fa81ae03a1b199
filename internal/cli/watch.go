package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/wire"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the message store and fix new message timestamps",
	Long: `Watch the message store for newly inserted inbound messages and apply
the configured timestamp adjustment to each one exactly once. Runs until
interrupted. Messages already present at startup are left alone; use
'smsfix fix' to adjust them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if interval, _ := cmd.Flags().GetInt("interval"); interval > 0 {
			cfg.PollIntervalMS = interval
		}
		if listen, _ := cmd.Flags().GetString("metrics-listen"); listen != "" {
			cfg.MetricsListen = listen
		}

		ctx := context.Background()
		if err := wire.Init(ctx, cfg); err != nil {
			return err
		}
		defer wire.Close()

		svc := wire.FixService()
		if err := svc.Start(ctx); err != nil {
			return err
		}

		wire.StartMetrics()
		wire.Watcher().Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		wire.Watcher().Stop()
		if err := svc.Stop(ctx); err != nil {
			wire.Logger().WithError(err).Error("failed to stop watcher cleanly")
		}
		wire.StopMetrics(ctx)

		return nil
	},
}

// WatchCmd returns the watch command.
func WatchCmd() *cobra.Command {
	watchCmd.Flags().Int("interval", 0, "Override the store poll interval in milliseconds")
	watchCmd.Flags().String("metrics-listen", "", "Serve Prometheus metrics on this host:port")
	return watchCmd
}
