package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), sess.cfgPath)
		return nil
	},
}

var configForce bool

func init() {
	configCmd.AddCommand(configInitCmd, configPathCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	_, err := os.Stat(sess.cfgPath)
	switch {
	case err == nil && !configForce:
		return fmt.Errorf("%s already exists (use --force to overwrite)", sess.cfgPath)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := config.Write(sess.cfgPath, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", sess.cfgPath)
	return nil
}
