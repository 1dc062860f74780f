package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/tasks"
)

func init() {
	TasksAddCommand.Flags().Int("priority", 3, "task priority (1, 2 or 3)")
	TasksAddCommand.Flags().String("due", "", "due date (YYYY-MM-DD)")
	TasksEditCommand.Flags().String("title", "", "new title")
	TasksEditCommand.Flags().Int("priority", 0, "new priority (1, 2 or 3)")
	TasksEditCommand.Flags().String("due", "", "new due date (YYYY-MM-DD)")

	TasksCommand.AddCommand(&TasksAddCommand)
	TasksCommand.AddCommand(&TasksToggleCommand)
	TasksCommand.AddCommand(&TasksEditCommand)
	TasksCommand.AddCommand(&TasksRmCommand)
	RootCmd.AddCommand(&TasksCommand)
}

func printListing(cmd *cobra.Command, listing tasks.Listing) {
	controls := tasks.ControlsFor(listing.Role)
	cmd.Printf("role: %s (edit: %t, delete: %t)\n", listing.Role, controls.CanEdit, controls.CanDelete)

	for _, task := range listing.Tasks {
		check := " "
		if task.Completed() {
			check = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", check, task.ID, task.Title)
		if task.DueDate != "" {
			line += fmt.Sprintf("  (due: %s)", task.DueDate)
		}
		line += fmt.Sprintf("  [priority: %d]", task.Priority)
		cmd.Println(line)
	}
}

var TasksCommand = cobra.Command{
	Use:   "tasks <listID>",
	Short: "List the tasks of a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := tasks.NewService(a.api, a.alerter, a.confirmer)
		listing, err := service.List(args[0])
		if err != nil {
			return err
		}

		printListing(cmd, listing)
		return nil
	},
}

var TasksAddCommand = cobra.Command{
	Use:   "add <listID> <title>",
	Short: "Add a task to a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		priority, _ := cmd.Flags().GetInt("priority")
		due, _ := cmd.Flags().GetString("due")

		service := tasks.NewService(a.api, a.alerter, a.confirmer)
		listing, err := service.Create(args[0], tasks.Draft{
			Title:    args[1],
			Priority: priority,
			DueDate:  due,
		})
		if err != nil {
			return err
		}

		printListing(cmd, listing)
		return nil
	},
}

var TasksToggleCommand = cobra.Command{
	Use:   "toggle <listID> <taskID>",
	Short: "Toggle a task between completed and in progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := tasks.NewService(a.api, a.alerter, a.confirmer)
		listing, err := service.List(args[0])
		if err != nil {
			return err
		}

		task, ok := findTask(listing, args[1])
		if !ok {
			return errors.New(fmt.Sprintf("no task with id %s", args[1]), errors.NotFound())
		}

		listing, err = service.ToggleComplete(args[0], task.ID, task.Completed())
		if err != nil {
			return err
		}

		printListing(cmd, listing)
		return nil
	},
}

var TasksEditCommand = cobra.Command{
	Use:   "edit <listID> <taskID>",
	Short: "Edit a task's title, due date or priority",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := tasks.NewService(a.api, a.alerter, a.confirmer)
		listing, err := service.List(args[0])
		if err != nil {
			return err
		}

		task, ok := findTask(listing, args[1])
		if !ok {
			return errors.New(fmt.Sprintf("no task with id %s", args[1]), errors.NotFound())
		}

		// Unset flags keep the current values: the backend gets a full
		// patch of all editable fields either way.
		draft := tasks.Draft{
			Title:    task.Title,
			Priority: task.Priority,
			DueDate:  task.DueDate,
		}
		if title, _ := cmd.Flags().GetString("title"); title != "" {
			draft.Title = title
		}
		if priority, _ := cmd.Flags().GetInt("priority"); priority != 0 {
			draft.Priority = priority
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			draft.DueDate = due
		}

		listing, err = service.Update(args[0], task.ID, draft)
		if err != nil {
			return err
		}

		printListing(cmd, listing)
		return nil
	},
}

var TasksRmCommand = cobra.Command{
	Use:   "rm <listID> <taskID>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := tasks.NewService(a.api, a.alerter, a.confirmer)
		listing, err := service.Delete(args[0], args[1])
		if err != nil {
			return err
		}

		printListing(cmd, listing)
		return nil
	},
}

func findTask(listing tasks.Listing, taskID string) (todonet.Task, bool) {
	for _, task := range listing.Tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return todonet.Task{}, false
}
