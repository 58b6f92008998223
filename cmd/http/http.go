package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the HTTP server subcommands (currently just start).
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run and manage the HTTP API server",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
