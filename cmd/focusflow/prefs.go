package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change planning preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current preferences",
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change one or more preferences",
	Long: `Change preferences, for example:

  focusflow prefs set daily_minutes=360 peak_hours=09:00-11:30,14:00-15:00

Keys: ` + strings.Join(store.PreferenceKeys, ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: runPrefsSet,
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	p, err := sess.store.GetPreferences()
	if err != nil {
		return err
	}
	kv := store.PreferencesToSettings(p)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, k := range store.PreferenceKeys {
		fmt.Fprintf(w, "%s\t%s\n", k, kv[k])
	}
	return w.Flush()
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	changes, err := parseAssignments(args)
	if err != nil {
		return err
	}
	p, err := sess.store.GetPreferences()
	if err != nil {
		return err
	}
	kv := store.PreferencesToSettings(p)
	for k, v := range changes {
		kv[k] = v
	}
	next, err := store.PreferencesFromSettings(kv)
	if err != nil {
		return err
	}
	if err := sess.store.SetPreferences(next); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d preference(s)\n", len(changes))
	return nil
}

// parseAssignments reads key=value arguments, rejecting unknown keys.
func parseAssignments(args []string) (map[string]string, error) {
	known := make(map[string]bool, len(store.PreferenceKeys))
	for _, k := range store.PreferenceKeys {
		known[k] = true
	}
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if !known[k] {
			return nil, fmt.Errorf("unknown preference %q (known: %s)", k, strings.Join(store.PreferenceKeys, ", "))
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
