package cmd

import (
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/ceprunsa/consultorio_backend/cmd/http"
	systemcmd "github.com/ceprunsa/consultorio_backend/cmd/system"
	"github.com/ceprunsa/consultorio_backend/pkg/logs"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "consultorio",
	Short: "Appointment management backend for the CEPRUNSA psychological counseling office.",
	Long: `Consultorio is the backend for the CEPRUNSA pre-university center's
psychological counseling office: appointment scheduling and lifecycle,
reference catalogs (processes, consultation reasons, psychologists), and
office reporting.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logs.Default().Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
