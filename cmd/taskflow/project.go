package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
)

func projectsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := e.db.ListProjects()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(e.out, "No projects yet. Create one with: taskflow project create <name>")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					p.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			printTable(e, []string{"ID", "NAME", "CREATED"}, rows)
			return nil
		},
	}
}

func projectCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create or rename a project",
	}
	cmd.AddCommand(projectCreateCmd(e))
	cmd.AddCommand(projectRenameCmd(e))
	return cmd
}

func projectCreateCmd(e *env) *cobra.Command {
	var reuse bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reuse {
				project, created, err := e.db.EnsureProject(args[0])
				if err != nil {
					return err
				}
				verb := "opened existing"
				if created {
					verb = "created"
				}
				fmt.Fprintf(e.out, "%s project #%d %q\n", verb, project.ID, project.Name)
				return nil
			}

			id, err := e.db.CreateProject(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "created project #%d %q\n", id, strings.TrimSpace(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reuse, "reuse", false, "succeed with the existing project if the name is taken")
	return cmd
}

func projectRenameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <new-name>",
		Short: "Rename a project, given its id or current name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(e, args[0])
			if err != nil {
				return err
			}
			if err := e.db.RenameProject(project.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "renamed project #%d to %q\n", project.ID, strings.TrimSpace(args[1]))
			return nil
		},
	}
}

// resolveProject accepts a numeric id or an exact project name
func resolveProject(e *env, ref string) (*models.Project, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		project, err := e.db.GetProject(id)
		if err == nil || !errs.IsNotFound(err) {
			return project, err
		}
		// a project may be named "42"
	}
	return e.db.FindProjectByName(strings.TrimSpace(ref))
}

func printTable(e *env, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(e.out, t.Render())
}
