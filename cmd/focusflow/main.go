package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "focusflow - plan your tasks into focused days",
	Long: `focusflow turns a backlog of tasks into a time-boxed agenda that respects
working hours, a daily budget, peak-focus windows and Pomodoro breaks.

Run without a subcommand to open the interactive planner.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	dbPath     string
	logLevel   string
)

func init() {
	// Set here rather than in the literal: the hooks refer back to rootCmd.
	rootCmd.PersistentPreRunE = openSession
	rootCmd.RunE = runTUI

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/focusflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	err := rootCmd.Execute()
	sess.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
