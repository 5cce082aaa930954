package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/candor-hq/candor/internal/interfaces/cli/migrate"
	"github.com/candor-hq/candor/internal/interfaces/cli/seed"
	"github.com/candor-hq/candor/internal/interfaces/cli/server"
	"github.com/candor-hq/candor/internal/interfaces/cli/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "candor",
		Short:        "Candor - anonymous workplace issue reporting",
		Long:         `Candor runs the issue reporting API and its administrative commands.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
