package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/sadopc/focusflow/internal/planner"
)

type jsonExport struct {
	ExportedAt   string    `json:"exported_at"`
	Count        int       `json:"count"`
	TotalMinutes int       `json:"total_minutes"`
	Days         []jsonDay `json:"days"`
}

type jsonDay struct {
	Date         string      `json:"date"`
	TotalMinutes int         `json:"total_minutes"`
	BreakMinutes int         `json:"break_minutes"`
	Blocks       []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Kind     string `json:"kind"`
	TaskID   string `json:"task_id,omitempty"`
	Task     string `json:"task,omitempty"`
	Category string `json:"category,omitempty"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

// ToJSON writes the days as an indented document. Count is the number of
// days; TotalMinutes sums their work minutes.
func ToJSON(fs afero.Fs, days []planner.DailySchedule, tasks map[string]*planner.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(days),
	}

	for _, d := range days {
		day := jsonDay{
			Date:         d.Date.Format(dateLayout),
			TotalMinutes: d.TotalMinutes,
			BreakMinutes: d.BreakMinutes,
			Blocks:       []jsonBlock{},
		}
		for _, b := range d.Blocks {
			title, category := describe(b, tasks)
			day.Blocks = append(day.Blocks, jsonBlock{
				Start:    b.Start.String(),
				End:      b.End.String(),
				Kind:     kindOf(b),
				TaskID:   b.TaskID,
				Task:     title,
				Category: category,
				Minutes:  b.Minutes(),
				Duration: formatDuration(b.Minutes()),
			})
		}
		export.TotalMinutes += d.TotalMinutes
		export.Days = append(export.Days, day)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
