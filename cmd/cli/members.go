package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/memberships"
	"github.com/bobinette/todonet/users"
)

func init() {
	MembersCommand.AddCommand(&MembersInviteCommand)
	MembersCommand.AddCommand(&MembersRoleCommand)
	MembersCommand.AddCommand(&MembersRmCommand)
	RootCmd.AddCommand(&MembersCommand)
	RootCmd.AddCommand(&UsersCommand)
}

var MembersCommand = cobra.Command{
	Use:   "members <listID>",
	Short: "List the collaborators of a list",
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

		service := memberships.NewService(a.api, a.alerter, a.confirmer)
		collaborators, err := service.List(args[0])
		if err != nil {
			return err
		}

		for _, collaborator := range collaborators {
			data, err := json.Marshal(collaborator)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		}
		return nil
	},
}

var MembersInviteCommand = cobra.Command{
	Use:   "invite <listID> <email> <role>",
	Short: "Invite a user as editor or viewer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := memberships.NewService(a.api, a.alerter, a.confirmer)
		if _, err := service.Invite(args[0], args[1], todonet.ParseRole(args[2])); err != nil {
			return err
		}
		return nil
	},
}

var MembersRoleCommand = cobra.Command{
	Use:   "role <listID> <membershipID> <role>",
	Short: "Change a collaborator's role to editor or viewer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := memberships.NewService(a.api, a.alerter, a.confirmer)
		if _, err := service.ChangeRole(args[0], args[1], todonet.ParseRole(args[2])); err != nil {
			return err
		}
		return nil
	},
}

var MembersRmCommand = cobra.Command{
	Use:   "rm <listID> <membershipID>",
	Short: "Remove a collaborator",
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

		service := memberships.NewService(a.api, a.alerter, a.confirmer)
		if _, err := service.Remove(args[0], args[1]); err != nil {
			return err
		}
		return nil
	},
}

var UsersCommand = cobra.Command{
	Use:   "users",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		service := users.NewService(a.api)
		all, err := service.List()
		if err != nil {
			return err
		}

		for _, user := range all {
			data, err := json.Marshal(user)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		}
		return nil
	},
}
