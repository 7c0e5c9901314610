package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], planner.StatusInProgress)
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], planner.StatusCompleted)
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

var taskSplitCmd = &cobra.Command{
	Use:   "split [task-id]",
	Short: "Split a long task into parts of about 45 minutes",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSplit,
}

var (
	taskTitle      string
	taskDesc       string
	taskCategory   string
	taskMinutes    int
	taskPriority   string
	taskDifficulty string
	taskDeadline   string
	taskAll        bool
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskStartCmd, taskDoneCmd, taskRmCmd, taskSplitCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskCategory, "category", string(planner.CategoryWork), "work, study or project")
	taskAddCmd.Flags().IntVar(&taskMinutes, "minutes", 0, "Estimated minutes (required)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", string(planner.PriorityMedium), "low, medium, high or urgent")
	taskAddCmd.Flags().StringVar(&taskDifficulty, "difficulty", string(planner.DifficultyMedium), "easy, medium or hard")
	taskAddCmd.Flags().StringVar(&taskDeadline, "deadline", "", "Deadline as YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	taskAddCmd.MarkFlagRequired("title")
	taskAddCmd.MarkFlagRequired("minutes")

	taskListCmd.Flags().BoolVar(&taskAll, "all", false, "Include completed tasks")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	deadline, err := parseDeadline(taskDeadline)
	if err != nil {
		return err
	}
	t, err := sess.store.CreateTask(store.NewTask{
		Title:            taskTitle,
		Description:      taskDesc,
		Category:         planner.Category(taskCategory),
		Deadline:         deadline,
		EstimatedMinutes: taskMinutes,
		Priority:         planner.Priority(taskPriority),
		Difficulty:       planner.Difficulty(taskDifficulty),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", t.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	tasks, err := sess.store.ListTasks(taskAll)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
		return nil
	}

	ranked := planner.Rank(tasks, time.Now())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRIORITY\tDIFFICULTY\tEST\tDEADLINE\tSTATUS")
	for _, t := range append(ranked, completedOnly(tasks)...) {
		deadline := "-"
		if t.Deadline != nil {
			deadline = t.Deadline.Local().Format("2006-01-02 15:04")
		}
		title := t.Title
		if len(t.Subtasks) > 0 {
			title = fmt.Sprintf("%s (%d parts)", t.Title, len(t.Subtasks))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%dm\t%s\t%s\n",
			shortID(t.ID), title, t.Category, t.Priority, t.Difficulty, t.EstimatedMinutes, deadline, t.Status)
	}
	return w.Flush()
}

func setStatus(cmd *cobra.Command, ref string, status planner.Status) error {
	id, err := resolveTaskID(ref)
	if err != nil {
		return err
	}
	if err := sess.store.SetTaskStatus(id, status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(id), status)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}
	if err := sess.store.DeleteTask(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
	return nil
}

func runTaskSplit(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}
	t, err := sess.store.SplitTask(id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(t.Subtasks) == 0 {
		fmt.Fprintf(out, "Task %s is %d minutes; nothing to split\n", shortID(id), t.EstimatedMinutes)
		return nil
	}
	fmt.Fprintf(out, "Split %q into %d parts:\n", t.Title, len(t.Subtasks))
	for _, st := range t.Subtasks {
		fmt.Fprintf(out, "  %s  %dm\n", st.Title, st.EstimatedMinutes)
	}
	return nil
}

// resolveTaskID accepts a full ID or a unique prefix of one, as printed by
// task list.
func resolveTaskID(ref string) (string, error) {
	tasks, err := sess.store.ListTasks(true)
	if err != nil {
		return "", err
	}
	return matchID(tasks, ref)
}

func matchID(tasks []planner.Task, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty task id")
	}
	var match string
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("task %s: %w", ref, store.ErrNotFound)
	}
	return match, nil
}

func completedOnly(tasks []planner.Task) []planner.Task {
	var out []planner.Task
	for _, t := range tasks {
		if t.Status == planner.StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDeadline reads YYYY-MM-DD (end of that day) or YYYY-MM-DDTHH:MM in
// local time. An empty string means no deadline.
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD or YYYY-MM-DDTHH:MM", s)
	}
	t = t.Add(24*time.Hour - time.Minute)
	return &t, nil
}
