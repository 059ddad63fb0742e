package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/models"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage a task's checklist",
}

var subtaskListCmd = &cobra.Command{
	Use:   "list [task-id]",
	Short: "List subtasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubtaskList,
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add [task-id] [title]",
	Short: "Add a subtask",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSubtaskAdd,
}

var subtaskDoneCmd = &cobra.Command{
	Use:   "done [task-id] [subtask-id]",
	Short: "Toggle a subtask",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskDone,
}

var subtaskRmCmd = &cobra.Command{
	Use:   "rm [task-id] [subtask-id]",
	Short: "Delete a subtask",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskRm,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage task templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a template",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTemplateAdd,
}

var templateUseCmd = &cobra.Command{
	Use:   "use [template-id]",
	Short: "Create a task from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUse,
}

var templateRmCmd = &cobra.Command{
	Use:   "rm [template-id]",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateRm,
}

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Log and review focus sessions",
}

var pomodoroLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a session that just ended",
	Args:  cobra.NoArgs,
	RunE:  runPomodoroLog,
}

var pomodoroStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session totals, streak and best hours",
	Args:  cobra.NoArgs,
	RunE:  runPomodoroStats,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List earned badges",
	Args:  cobra.NoArgs,
	RunE:  runBadges,
}

func init() {
	subtaskCmd.AddCommand(subtaskListCmd, subtaskAddCmd, subtaskDoneCmd, subtaskRmCmd)
	templateCmd.AddCommand(templateListCmd, templateAddCmd, templateUseCmd, templateRmCmd)
	pomodoroCmd.AddCommand(pomodoroLogCmd, pomodoroStatsCmd)

	templateAddCmd.Flags().String("title", "", "Title of tasks created from the template (defaults to the name)")
	templateAddCmd.Flags().StringP("priority", "p", string(models.PriorityMedium), "low, medium or high")
	templateAddCmd.Flags().StringP("description", "d", "", "Description")
	templateAddCmd.Flags().String("project", "", "Project id")
	templateAddCmd.Flags().String("repeat", "", "daily, weekly or monthly")
	templateUseCmd.Flags().String("due", "", "Due date (YYYY-MM-DD or RFC 3339)")

	pomodoroLogCmd.Flags().Int("minutes", 25, "Session length")
	pomodoroLogCmd.Flags().String("mode", string(models.PomodoroFocus), "pomodoro, shortBreak or longBreak")
	pomodoroLogCmd.Flags().String("task", "", "Task the session was spent on")
	pomodoroLogCmd.Flags().Bool("interrupted", false, "The timer was stopped early")
	pomodoroLogCmd.Flags().Bool("task-done", false, "The task was finished during the session")
	pomodoroStatsCmd.Flags().Int("days", 0, "Only sessions from the last N days")

	statsCmd.Flags().Int("days", 0, "Window in days (default 30)")
	badgesCmd.Flags().Bool("check", false, "Award any newly earned badges first")
}

func taskRef(cmd *cobra.Command, backend client.Backend, ref string) (string, error) {
	tasks, err := backend.ListTasks(cmd.Context(), nil)
	if err != nil {
		return "", err
	}
	return resolveID(tasks, ref)
}

func subtaskRef(cmd *cobra.Command, backend client.Backend, taskID, ref string) (models.Subtask, error) {
	subtasks, err := backend.ListSubtasks(cmd.Context(), taskID)
	if err != nil {
		return models.Subtask{}, err
	}
	ids := make([]string, len(subtasks))
	for i, s := range subtasks {
		ids[i] = s.Id
	}
	id, err := matchID("subtask", ids, ref)
	if err != nil {
		return models.Subtask{}, err
	}
	for _, s := range subtasks {
		if s.Id == id {
			return s, nil
		}
	}
	return models.Subtask{}, fmt.Errorf("subtask %s: %w", ref, models.ErrNotFound)
}

func templateRef(cmd *cobra.Command, backend client.Backend, ref string) (string, error) {
	templates, err := backend.ListTemplates(cmd.Context())
	if err != nil {
		return "", err
	}
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.Id
	}
	return matchID("template", ids, ref)
}

func runSubtaskList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	taskID, err := taskRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	subtasks, err := e.backend.ListSubtasks(cmd.Context(), taskID)
	if err != nil {
		return err
	}

	e.formatter().subtasks(cmd.OutOrStdout(), subtasks)
	return nil
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	taskID, err := taskRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	subtask, err := e.backend.AddSubtask(cmd.Context(), taskID, models.CreateSubtaskInput{
		Title: strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}

	e.formatter().subtasks(cmd.OutOrStdout(), []models.Subtask{subtask})
	return nil
}

func runSubtaskDone(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	taskID, err := taskRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	current, err := subtaskRef(cmd, e.backend, taskID, args[1])
	if err != nil {
		return err
	}
	completed := !current.Completed
	subtask, err := e.backend.UpdateSubtask(cmd.Context(), current.Id, models.UpdateSubtaskInput{Completed: &completed})
	if err != nil {
		return err
	}

	e.formatter().subtasks(cmd.OutOrStdout(), []models.Subtask{subtask})
	return nil
}

func runSubtaskRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	taskID, err := taskRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	subtask, err := subtaskRef(cmd, e.backend, taskID, args[1])
	if err != nil {
		return err
	}
	if err := e.backend.DeleteSubtask(cmd.Context(), subtask.Id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(subtask.Id))
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	templates, err := e.backend.ListTemplates(cmd.Context())
	if err != nil {
		return err
	}

	e.formatter().templates(cmd.OutOrStdout(), templates)
	return nil
}

func runTemplateAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	name := strings.Join(args, " ")
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = name
	}
	priority, _ := cmd.Flags().GetString("priority")
	in := models.CreateTemplateInput{
		Name:     name,
		Title:    title,
		Priority: models.Priority(priority),
	}
	if description, _ := cmd.Flags().GetString("description"); description != "" {
		in.Description = &description
	}
	if project, _ := cmd.Flags().GetString("project"); project != "" {
		in.ProjectId = &project
	}
	if repeat, _ := cmd.Flags().GetString("repeat"); repeat != "" {
		in.RecurrenceType = models.RecurrenceType(repeat)
	}

	tmpl, err := e.backend.CreateTemplate(cmd.Context(), in)
	if err != nil {
		return err
	}

	e.formatter().templates(cmd.OutOrStdout(), []models.TaskTemplate{tmpl})
	return nil
}

func runTemplateUse(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	id, err := templateRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	var in models.UseTemplateInput
	if due, _ := cmd.Flags().GetString("due"); due != "" {
		t, err := parseDue(due)
		if err != nil {
			return err
		}
		in.DueDate = &t
	}

	task, err := e.backend.CreateTaskFromTemplate(cmd.Context(), id, in)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), e.formatter().task(task))
	return nil
}

func runTemplateRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	id, err := templateRef(cmd, e.backend, args[0])
	if err != nil {
		return err
	}
	if err := e.backend.DeleteTemplate(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
	return nil
}

func runPomodoroLog(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	mins, _ := cmd.Flags().GetInt("minutes")
	if mins < 1 {
		return fmt.Errorf("--minutes must be positive")
	}
	mode, _ := cmd.Flags().GetString("mode")
	interrupted, _ := cmd.Flags().GetBool("interrupted")
	taskDone, _ := cmd.Flags().GetBool("task-done")

	end := time.Now()
	in := models.LogPomodoroInput{
		StartedAt:       end.Add(-time.Duration(mins) * time.Minute),
		CompletedAt:     end,
		DurationSeconds: mins * 60,
		Mode:            models.PomodoroMode(mode),
		WasCompleted:    !interrupted,
		TaskCompleted:   taskDone,
	}
	if ref, _ := cmd.Flags().GetString("task"); ref != "" {
		taskID, err := taskRef(cmd, e.backend, ref)
		if err != nil {
			return err
		}
		in.TaskId = &taskID
	}

	session, err := e.backend.LogPomodoro(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s session\n", minutes(int64(session.DurationSeconds/60)), session.Mode)
	return nil
}

func runPomodoroStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	var rng models.StatsRange
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		from := time.Now().AddDate(0, 0, -days)
		rng.From = &from
	}

	ctx := cmd.Context()
	stats, err := e.backend.PomodoroStats(ctx, rng)
	if err != nil {
		return err
	}
	streak, err := e.backend.PomodoroStreak(ctx)
	if err != nil {
		return err
	}
	focus, err := e.backend.BestFocusTimes(ctx)
	if err != nil {
		return err
	}

	e.formatter().pomodoro(cmd.OutOrStdout(), stats, streak, focus)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	days, _ := cmd.Flags().GetInt("days")
	summary, err := e.backend.Stats(cmd.Context(), days)
	if err != nil {
		return err
	}

	e.formatter().stats(cmd.OutOrStdout(), summary)
	return nil
}

func runBadges(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	out := cmd.OutOrStdout()
	if check, _ := cmd.Flags().GetBool("check"); check {
		awarded, err := e.backend.CheckBadges(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range awarded {
			fmt.Fprintf(out, "New badge: %s\n", b.Type)
		}
	}

	badges, err := e.backend.ListBadges(cmd.Context())
	if err != nil {
		return err
	}

	e.formatter().badges(out, badges)
	return nil
}
