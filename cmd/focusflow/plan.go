package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/logx"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and print the agenda",
	RunE:  runPlan,
}

var (
	planDays int
	planFrom string
	planSave bool
)

func init() {
	planCmd.Flags().IntVar(&planDays, "days", 0, "Number of days to plan (default from config)")
	planCmd.Flags().StringVar(&planFrom, "from", "", "First day as YYYY-MM-DD (default today)")
	planCmd.Flags().BoolVar(&planSave, "save", false, "Store the plan so the TUI shows it")
}

func runPlan(cmd *cobra.Command, args []string) error {
	from, days, err := planWindow(planFrom, planDays)
	if err != nil {
		return err
	}
	schedule, tasks, err := sess.plan(from, days)
	if err != nil {
		return err
	}
	if planSave {
		if err := sess.store.SaveSchedules(schedule); err != nil {
			return err
		}
		sess.log.Info("plan saved", logx.Int("days", len(schedule)))
	}
	renderPlan(cmd.OutOrStdout(), schedule, indexTasks(tasks))
	return nil
}

// planWindow resolves the --from and --days flags against today and the
// configured horizon.
func planWindow(from string, days int) (time.Time, int, error) {
	if days < 0 {
		return time.Time{}, 0, fmt.Errorf("--days must be positive, got %d", days)
	}
	if days == 0 {
		days = sess.cfg.Plan.Days
	}
	if from == "" {
		return today(), days, nil
	}
	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid --from %q: use YYYY-MM-DD", from)
	}
	return start, days, nil
}
