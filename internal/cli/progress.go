package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level, XP and streak",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func runProgress(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	p, err := e.backend.GetProgress(cmd.Context())
	if err != nil {
		return err
	}

	e.formatter().progress(cmd.OutOrStdout(), p)
	return nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.backend.ListProjects(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects.")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(out, "%-8s  %s\n", shortID(p.Id), p.Name)
	}
	return nil
}
