package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevelFlag  string
	logFormatFlag string
	rootCmd       = &cobra.Command{
		Use:           "userbook",
		Short:         "User directory and grocery list, over websockets or in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error); overrides USERBOOK_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (text, json); overrides USERBOOK_LOG_FORMAT")

	rootCmd.AddCommand(newServeCmd(), newTUICmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
