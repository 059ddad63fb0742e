package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	listCmd.Flags().String("project", "", "Only tasks in this project")
	listCmd.Flags().Bool("completed", false, "Only completed tasks")
	listCmd.Flags().Bool("pending", false, "Only pending tasks")
	listCmd.Flags().String("search", "", "Match title or description")
	listCmd.Flags().String("tag", "", "Only tasks with this tag id")

	addCmd.Flags().StringP("priority", "p", string(models.PriorityMedium), "low, medium or high")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	addCmd.Flags().String("project", "", "Project id")
	addCmd.Flags().StringP("description", "d", "", "Description")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	filter := &models.TaskFilter{}
	if project, _ := cmd.Flags().GetString("project"); project != "" {
		filter.ProjectId = &project
	}
	completed, _ := cmd.Flags().GetBool("completed")
	pending, _ := cmd.Flags().GetBool("pending")
	if completed && pending {
		return fmt.Errorf("--completed and --pending are mutually exclusive")
	}
	if completed || pending {
		filter.Completed = &completed
	}
	filter.Search, _ = cmd.Flags().GetString("search")
	filter.TagId, _ = cmd.Flags().GetString("tag")

	tasks, err := e.backend.ListTasks(cmd.Context(), filter)
	if err != nil {
		return err
	}

	e.formatter().tasks(cmd.OutOrStdout(), tasks)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	priority, _ := cmd.Flags().GetString("priority")
	in := models.CreateTaskInput{
		Title:    strings.Join(args, " "),
		Priority: models.Priority(priority),
	}
	if due, _ := cmd.Flags().GetString("due"); due != "" {
		t, err := parseDue(due)
		if err != nil {
			return err
		}
		in.DueDate = &t
	}
	if project, _ := cmd.Flags().GetString("project"); project != "" {
		in.ProjectId = &project
	}
	if description, _ := cmd.Flags().GetString("description"); description != "" {
		in.Description = &description
	}

	s := store.New(e.backend, e.log)
	task, err := s.AddTask(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), e.formatter().task(task))
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	s := store.New(e.backend, e.log)
	if err := s.SyncTasks(cmd.Context()); err != nil {
		return err
	}
	id, err := resolveID(s.Tasks(), args[0])
	if err != nil {
		return err
	}

	task, err := s.ToggleComplete(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), e.formatter().task(task))
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	s := store.New(e.backend, e.log)
	if err := s.SyncTasks(cmd.Context()); err != nil {
		return err
	}
	id, err := resolveID(s.Tasks(), args[0])
	if err != nil {
		return err
	}

	if err := s.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
	return nil
}
