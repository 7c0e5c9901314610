package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/planner"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the agenda to a CSV or JSON file",
	RunE:  runExport,
}

var (
	exportFormat string
	exportOut    string
	exportDays   int
	exportFrom   string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (required)")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Number of days to plan (default from config)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First day as YYYY-MM-DD (default today)")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	write, err := exporter(exportFormat)
	if err != nil {
		return err
	}
	from, days, err := planWindow(exportFrom, exportDays)
	if err != nil {
		return err
	}
	schedule, tasks, err := sess.plan(from, days)
	if err != nil {
		return err
	}
	if err := write(afero.NewOsFs(), schedule, indexTasks(tasks), exportOut); err != nil {
		return err
	}
	sess.log.Info("plan exported", logx.String("path", exportOut), logx.String("format", exportFormat))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d days to %s\n", len(schedule), exportOut)
	return nil
}

func exporter(format string) (func(afero.Fs, []planner.DailySchedule, map[string]*planner.Task, string) error, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return export.ToCSV, nil
	case "json":
		return export.ToJSON, nil
	}
	return nil, fmt.Errorf("unknown export format %q: use csv or json", format)
}
