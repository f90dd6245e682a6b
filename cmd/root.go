package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the capi-catalog-provider
// application. It is the entry point when the application is called without
// any subcommands.
var rootCmd = &cobra.Command{
	Use:   "capi-catalog-provider",
	Short: "Project CAPI clusters into a software catalog",
	Long: `capi-catalog-provider discovers Cluster API (CAPI) Cluster resources on one
or more hub Kubernetes clusters and projects them into a software catalog as
Resource entities, keeping the catalog eventually consistent with cluster
lifecycle state through periodic full-replacement mutations.

When run without subcommands, it starts the provider (equivalent to
'capi-catalog-provider run').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. It is called from the
// main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "capi-catalog-provider version %s\n" .Version}}`)

	// If no subcommand is provided, run the provider by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
