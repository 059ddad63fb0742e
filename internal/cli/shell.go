package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/history"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/store"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session with undo and redo",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

const shellHelp = `Commands:
  ls                          list tasks
  add <title> [p:PRI] [due:DATE]
  title <id> <new title>
  pri <id> <low|medium|high>
  due <id> <DATE|none>
  done <id>                   toggle completion
  rm <id>
  undo | redo
  sync                        reload from the backend
  help | quit`

func runShell(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sess := newSession(e.backend, e.cfg.History.Limit, e.formatter(), e.log)
	return sess.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), interactive(os.Stdin))
}

// session owns one store and one history for the lifetime of the shell.
type session struct {
	store   *store.TaskStore
	history *history.History
	format  formatter
	out     io.Writer
}

var errQuit = errors.New("quit")

func newSession(backend client.TaskBackend, limit int, f formatter, log logrus.FieldLogger) *session {
	return &session{
		store:   store.New(backend, log),
		history: history.New(history.WithLimit(limit), history.WithLogger(log)),
		format:  f,
	}
}

func (s *session) run(ctx context.Context, in io.Reader, out io.Writer, prompt bool) error {
	s.out = out

	unsubscribe := s.history.Subscribe(func(st history.State) {
		if st.CanUndo {
			fmt.Fprintf(s.out, "  (undo: %s)\n", st.UndoLabel)
		}
	})
	defer unsubscribe()

	if err := s.store.SyncTasks(ctx); err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "taskctl> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func (s *session) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "ls":
		s.format.tasks(s.out, s.store.Tasks())
		return nil
	case "add":
		in, err := parseAdd(args)
		if err != nil {
			return err
		}
		return s.history.Execute(ctx, history.NewCreateTask(s.store, in))
	case "title":
		if len(args) < 2 {
			return errors.New("usage: title <id> <new title>")
		}
		title := strings.Join(args[1:], " ")
		return s.update(ctx, args[0], models.UpdateTaskInput{Title: &title})
	case "pri":
		if len(args) != 2 {
			return errors.New("usage: pri <id> <low|medium|high>")
		}
		priority := models.Priority(args[1])
		return s.update(ctx, args[0], models.UpdateTaskInput{Priority: &priority})
	case "due":
		if len(args) != 2 {
			return errors.New("usage: due <id> <DATE|none>")
		}
		var due time.Time
		if args[1] != "none" {
			d, err := parseDue(args[1])
			if err != nil {
				return err
			}
			due = d
		}
		return s.update(ctx, args[0], models.UpdateTaskInput{DueDate: &due})
	case "done":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		return s.history.Execute(ctx, history.NewToggleComplete(s.store, id))
	case "rm":
		id, err := s.resolve(args)
		if err != nil {
			return err
		}
		return s.history.Execute(ctx, history.NewDeleteTask(s.store, id))
	case "undo":
		if !s.history.CanUndo() {
			fmt.Fprintln(s.out, "Nothing to undo.")
			return nil
		}
		return s.history.Undo(ctx)
	case "redo":
		if !s.history.CanRedo() {
			fmt.Fprintln(s.out, "Nothing to redo.")
			return nil
		}
		return s.history.Redo(ctx)
	case "sync":
		return s.store.SyncTasks(ctx)
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (s *session) resolve(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a task id")
	}
	return resolveID(s.store.Tasks(), args[0])
}

func (s *session) update(ctx context.Context, ref string, patch models.UpdateTaskInput) error {
	id, err := resolveID(s.store.Tasks(), ref)
	if err != nil {
		return err
	}
	return s.history.Execute(ctx, history.NewUpdateTask(s.store, id, patch))
}

// parseAdd reads "title words [p:PRI] [due:DATE]".
func parseAdd(args []string) (models.CreateTaskInput, error) {
	in := models.CreateTaskInput{Priority: models.PriorityMedium}
	var title []string
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "p:"):
			in.Priority = models.Priority(strings.TrimPrefix(a, "p:"))
		case strings.HasPrefix(a, "due:"):
			d, err := parseDue(strings.TrimPrefix(a, "due:"))
			if err != nil {
				return in, err
			}
			in.DueDate = &d
		default:
			title = append(title, a)
		}
	}
	in.Title = strings.Join(title, " ")
	return in, nil
}
