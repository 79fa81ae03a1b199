package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/wire"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher state and message counts",
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

		status, err := wire.FixService().Status(ctx)
		if err != nil {
			return err
		}

		if status.Active {
			color.Green("Watcher: active")
		} else {
			color.Red("Watcher: inactive")
		}

		fmt.Printf("Offset mode:      %s\n", cfg.OffsetMode)
		fmt.Printf("Magic:            %03d\n", cfg.Magic)
		fmt.Printf("Newest message:   %s\n", formatID(status.NewestID))
		fmt.Printf("Inbox messages:   %d (%d adjusted)\n", status.TotalMessages, status.MarkedMessages)

		// The frontier lives in the watch process only; in this process it
		// is meaningful only right after a 'fix' run.
		if status.LastProcessedID >= 0 {
			fmt.Printf("Last processed:   %d\n", status.LastProcessedID)
		}

		return nil
	},
}

func formatID(id int64) string {
	if id < 0 {
		return "none"
	}
	return fmt.Sprintf("%d", id)
}

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return statusCmd
}
