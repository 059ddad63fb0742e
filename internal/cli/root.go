package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	offline    bool
	configPath string
	serverURL  string
	dbPath     string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "taskctl",
		Short: "taskctl - personal task manager",
		Long: `taskctl manages tasks against a taskdesk server or a local database.

Use "taskctl shell" for an interactive session with undo and redo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "taskdesk server URL (overrides backend.url)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Local database path (overrides database.path)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Run without a backend; writes fail")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(pomodoroCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(shellCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
