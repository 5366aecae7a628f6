package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errReported marks failures whose message was already shown to the user.
var errReported = errors.New("reported")

var flagConfig string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medication-bot",
		Short:         "Medication progress webhook for chat skills",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: runServe,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "medbot.yaml", "Config file (.yaml, .yml or .toml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newProgressCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
