// Package cli provides CLI commands for the smsfix application.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/smsfix/internal/config"
)

// loadConfig resolves the --config flag (default ~/.smsfix/config.json) and
// loads the configuration. A missing file yields the defaults; an invalid
// file is a hard error before anything touches the store.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return config.Load(path)
}
