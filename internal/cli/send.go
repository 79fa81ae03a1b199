package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/ports/secondary"
	"github.com/example/smsfix/internal/wire"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Insert a message into the store",
	Long: `Insert a message the way an external writer (the carrier) would:
with a raw store-assigned timestamp that a running watcher then picks up
and adjusts. --skew backdates the timestamp to simulate a carrier clock
that is off.`,
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

		address, _ := cmd.Flags().GetString("address")
		body, _ := cmd.Flags().GetString("body")
		skew, _ := cmd.Flags().GetDuration("skew")
		sent, _ := cmd.Flags().GetBool("sent")

		folder := secondary.FolderInbox
		if sent {
			folder = secondary.FolderSent
		}

		rec := &secondary.MessageRecord{
			Address:   address,
			Body:      body,
			Folder:    folder,
			Timestamp: time.Now().Add(-skew).UnixMilli(),
		}

		id, err := wire.MessageStore().Insert(ctx, rec)
		if err != nil {
			return err
		}

		fmt.Printf("Inserted message %d\n", id)
		return nil
	},
}

// SendCmd returns the send command.
func SendCmd() *cobra.Command {
	sendCmd.Flags().String("address", "", "Sender address")
	sendCmd.Flags().String("body", "", "Message body")
	sendCmd.Flags().Duration("skew", 0, "Backdate the timestamp by this duration")
	sendCmd.Flags().Bool("sent", false, "Insert into the sent folder instead of the inbox")
	return sendCmd
}
