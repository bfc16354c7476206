package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title Synergo API
// @version 1.0.0
// @description Media tagging, vocabulary and quiz service
// @BasePath /api/v1
// @schemes http

var rootCmd = &cobra.Command{
	Use:           "synergo",
	Short:         "Synergo media tagging and quiz API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
