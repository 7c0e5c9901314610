package export

import (
	"encoding/csv"
	"fmt"

	"github.com/spf13/afero"

	"github.com/sadopc/focusflow/internal/planner"
)

// ToCSV writes one row per block, breaks included, in schedule order.
func ToCSV(fs afero.Fs, days []planner.DailySchedule, tasks map[string]*planner.Task, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"Date", "Start", "End", "Kind", "Task ID", "Task", "Category", "Minutes", "Duration"}); err != nil {
		return err
	}

	for _, d := range days {
		for _, b := range d.Blocks {
			title, category := describe(b, tasks)
			row := []string{
				d.Date.Format(dateLayout),
				b.Start.String(),
				b.End.String(),
				kindOf(b),
				b.TaskID,
				title,
				category,
				fmt.Sprintf("%d", b.Minutes()),
				formatDuration(b.Minutes()),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

const dateLayout = "2006-01-02"

func kindOf(b planner.Block) string {
	if b.IsBreak() {
		return string(b.Break)
	}
	return "work"
}

func describe(b planner.Block, tasks map[string]*planner.Task) (title, category string) {
	if b.IsBreak() {
		return "", ""
	}
	if t, ok := tasks[b.TaskID]; ok {
		return t.Title, string(t.Category)
	}
	return "Unknown", ""
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
