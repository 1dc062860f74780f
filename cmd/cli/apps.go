package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobinette/todonet/apps"
	"github.com/bobinette/todonet/errors"
)

func init() {
	AppsCommand.AddCommand(&AppsCreateCommand)
	AppsCommand.AddCommand(&AppsDeleteCommand)
	RootCmd.AddCommand(&AppsCommand)
}

var AppsCommand = cobra.Command{
	Use:   "apps",
	Short: "List your todo lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := apps.NewService(a.api, a.alerter, a.confirmer)
		lists, err := service.List()
		if err != nil {
			return err
		}

		for _, list := range lists {
			data, err := json.Marshal(list)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		}
		return nil
	},
}

var AppsCreateCommand = cobra.Command{
	Use:   "create <name>",
	Short: "Create a todo list",
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

		service := apps.NewService(a.api, a.alerter, a.confirmer)
		lists, err := service.Create(args[0])
		if err != nil {
			return err
		}

		for _, list := range lists {
			cmd.Println(list.ID, list.Title)
		}
		return nil
	},
}

var AppsDeleteCommand = cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo list you own",
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

		service := apps.NewService(a.api, a.alerter, a.confirmer)
		lists, err := service.List()
		if err != nil {
			return err
		}

		for _, list := range lists {
			if list.ID != args[0] {
				continue
			}

			if _, err := service.Delete(list, a.session.UserID()); err != nil {
				return err
			}
			return nil
		}

		return errors.New(fmt.Sprintf("no list with id %s", args[0]), errors.NotFound())
	},
}
