package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/cli"
	"github.com/example/smsfix/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "smsfix",
		Short:   "smsfix - fix carrier-skewed message timestamps",
		Version: version.String(),
		Long: `smsfix watches a message store for newly inserted inbound messages and
adjusts each one's timestamp exactly once, marking processed messages with a
sentinel embedded in the timestamp's sub-second digits.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.smsfix/config.json)")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.FixCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.SendCmd())
	rootCmd.AddCommand(cli.MessagesCmd())
	rootCmd.AddCommand(cli.DeleteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
