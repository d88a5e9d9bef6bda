package app

import (
	"github.com/spf13/cobra"

	"github.com/mellow-bot/mellow/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the settings database and serve the configuration panel",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := daemon.New(cmd.Context(), &cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}
