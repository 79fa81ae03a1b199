package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/config"
	"github.com/example/smsfix/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the smsfix database and default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		if cfgPath == "" {
			var err error
			cfgPath, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := config.Save(cfgPath, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", cfgPath)
		} else {
			fmt.Printf("Config already exists at %s\n", cfgPath)
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer conn.Close()

		dbPath := cfg.DBPath
		if dbPath == "" {
			dbPath, _ = db.DefaultPath()
		}
		fmt.Printf("Database ready at %s\n", dbPath)

		color.Green("smsfix initialized")
		return nil
	},
}

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	return initCmd
}
