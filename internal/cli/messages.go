package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/core/stamp"
	"github.com/example/smsfix/internal/ports/secondary"
	"github.com/example/smsfix/internal/wire"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List messages, newest first",
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

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := wire.MessageStore().List(ctx, limit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No messages found.")
			return nil
		}

		for _, rec := range records {
			printMessage(rec, cfg.Magic)
		}
		return nil
	},
}

func printMessage(rec secondary.MessageRecord, magic int64) {
	marked := " "
	if rec.Folder == secondary.FolderInbox && stamp.IsMarked(rec.Timestamp, magic) {
		marked = color.GreenString("*")
	}

	folder := "inbox"
	if rec.Folder == secondary.FolderSent {
		folder = "sent"
	}

	when := time.UnixMilli(rec.Timestamp).Format("2006-01-02 15:04:05")

	fmt.Printf("%s %4d | %-5s | %s | %-15s | %s\n",
		marked, rec.ID, folder, when, rec.Address, truncate(rec.Body, 40))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// MessagesCmd returns the messages command.
func MessagesCmd() *cobra.Command {
	messagesCmd.Flags().IntP("limit", "n", 50, "Maximum messages to show")
	return messagesCmd
}
