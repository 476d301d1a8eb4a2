package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "faultline",
		Short: "Error-capture pipeline for remote collectors",
		Long:  "faultline captures application faults, deduplicates them and delivers structured diagnostic payloads to a remote collector",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
