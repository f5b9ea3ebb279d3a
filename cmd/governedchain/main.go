package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"governedchain/cmd/cli"
	"governedchain/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "governedchain",
		Short: "Drive the programmable DAO governance engine from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadFromEnv(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: config load failed, continuing with defaults: %v\n", err)
			}
			return nil
		},
	}
	cli.RegisterRoutes(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
