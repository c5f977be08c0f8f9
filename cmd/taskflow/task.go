package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/board"
	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/validate"
)

func tasksCmd(e *env) *cobra.Command {
	var query, tag, status string

	cmd := &cobra.Command{
		Use:   "tasks <project>",
		Short: "List a project's tasks by priority",
		Args:  cobra.ExactArgs(1),
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

			if status != "" {
				want, err := validate.Status("ListTasks", status)
				if err != nil {
					return err
				}
				tasks = board.SplitByStatus(tasks)[want]
			}

			counts, err := e.db.CountByStatus(project.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s  BACKLOG %d • DOING %d/%d • DONE %d\n",
				project.Name,
				counts[models.StatusBacklog],
				counts[models.StatusDoing], e.db.WIPLimit(),
				counts[models.StatusDone],
			)

			if len(tasks) == 0 {
				fmt.Fprintln(e.out, "No tasks match.")
				return nil
			}

			today := time.Now()
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				due := t.DueDate
				if badge := board.DeadlineBadge(t.DueDate, today); badge != models.BadgeNone {
					due += " (" + badge.Label() + ")"
				}
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10),
					string(t.Status),
					strconv.Itoa(t.Priority),
					t.Title,
					due,
					strings.Join(t.Tags, ", "),
				})
			}
			printTable(e, []string{"ID", "STATUS", "P", "TITLE", "DUE", "TAGS"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search in title and description")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only tasks carrying this tag")
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks in this status")
	return cmd
}

func taskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, move or delete a task",
	}
	cmd.AddCommand(taskAddCmd(e))
	cmd.AddCommand(taskMoveCmd(e))
	cmd.AddCommand(taskDeleteCmd(e))
	return cmd
}

func taskAddCmd(e *env) *cobra.Command {
	var in models.NewTask
	var tags string

	cmd := &cobra.Command{
		Use:   "add <project> <title>",
		Short: "Add a task to a project's BACKLOG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(e, args[0])
			if err != nil {
				return err
			}
			in.Title = args[1]
			in.Tags = validate.ParseTagsInput(tags)

			id, err := e.db.AddTask(project.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "added task #%d to %s\n", id, project.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Description, "desc", "d", "", "description")
	cmd.Flags().IntVarP(&in.Priority, "priority", "p", 3, "priority from 1 (highest) to 5")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma separated tags")
	return cmd
}

func taskMoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <project> <task-id> <status>",
		Short: "Move a task to BACKLOG, DOING or DONE",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(e, args[0])
			if err != nil {
				return err
			}
			taskID, err := parseTaskID("MoveTask", args[1])
			if err != nil {
				return err
			}
			status := strings.ToUpper(strings.TrimSpace(args[2]))
			if err := e.db.MoveTask(project.ID, taskID, status); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "moved task #%d to %s\n", taskID, status)
			return nil
		},
	}
}

func taskDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(e, args[0])
			if err != nil {
				return err
			}
			taskID, err := parseTaskID("DeleteTask", args[1])
			if err != nil {
				return err
			}
			if err := e.db.DeleteTask(project.ID, taskID); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "deleted task #%d\n", taskID)
			return nil
		},
	}
}

func parseTaskID(op, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation(op, "task id", fmt.Sprintf("%q is not a task id", raw))
	}
	return id, nil
}
