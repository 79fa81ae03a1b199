package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/wire"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Run a single fixup sweep over the message store",
	Long: `Adjust the timestamp of every inbound message that does not yet carry
the processed sentinel, then exit. Safe to run repeatedly: already adjusted
messages are never touched again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := wire.Init(ctx, cfg); err != nil {
			return err
		}
		defer wire.Close()

		fixed, err := wire.FixService().FixNow(ctx)
		if err != nil {
			return err
		}

		if fixed == 0 {
			fmt.Println("No messages needed adjusting.")
		} else {
			fmt.Printf("Adjusted %d message(s).\n", fixed)
		}
		return nil
	},
}

// FixCmd returns the fix command.
func FixCmd() *cobra.Command {
	return fixCmd
}
