package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/wire"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a message",
	Long: `Delete a message by id. Ids are never reused, so deleting leaves a
gap in the id sequence; the watcher's confirmation sweep handles that.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid message id %q", args[0])
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := wire.Init(ctx, cfg); err != nil {
			return err
		}
		defer wire.Close()

		if err := wire.MessageStore().Delete(ctx, id); err != nil {
			return err
		}

		fmt.Printf("Deleted message %d\n", id)
		return nil
	},
}

// DeleteCmd returns the delete command.
func DeleteCmd() *cobra.Command {
	return deleteCmd
}
