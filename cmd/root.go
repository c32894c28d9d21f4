package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hydration",
	Short: "Water intake tracking service",
	Long:  `A water intake tracking service with account management, daily statistics and one-tap quick-access logging via HTTP and gRPC.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
