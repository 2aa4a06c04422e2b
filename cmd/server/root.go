package main

import (
	"github.com/spf13/cobra"
)

var (
	flagEnv       string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Project and task tracking API",
	Long: `server runs the project tracker HTTP API.

Examples:
  server                      # same as "server serve"
  server migrate              # apply the embedded schema and exit
  server project add Website  # insert a project`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", "config environment (default $CONFIG_ENV or local)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default $CONFIG_DIR or config)")

	rootCmd.AddCommand(serveCmd, migrateCmd, projectCmd)
}
