package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/board"
)

func exportCmd(e *env) *cobra.Command {
	var query, tag, out string

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Write a project's tasks as CSV",
		Long: `Write a project's tasks as CSV, in board order. The --query and --tag
filters narrow the export the same way they narrow the board.

Use --out - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(e, args[0])
			if err != nil {
				return err
			}
			tasks, err := e.db.ListTasks(project.ID)
			if err != nil {
				return err
			}
			tasks = board.FilterTasks(tasks, query, tag)

			if out == "-" {
				return board.WriteCSV(e.out, tasks)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := board.WriteCSV(f, tasks); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			e.log.Info().Str("path", out).Int("tasks", len(tasks)).Msg("exported csv")
			fmt.Fprintf(e.out, "exported %d tasks to %s\n", len(tasks), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search in title and description")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only tasks carrying this tag")
	cmd.Flags().StringVarP(&out, "out", "o", board.ExportFilename, "output file, or - for stdout")
	return cmd
}
