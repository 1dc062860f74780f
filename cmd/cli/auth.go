package main

import (
	"github.com/spf13/cobra"

	"github.com/bobinette/todonet/errors"
)

func init() {
	RootCmd.AddCommand(&LoginCommand)
	RootCmd.AddCommand(&SignupCommand)
	RootCmd.AddCommand(&LogoutCommand)
	RootCmd.AddCommand(&WhoamiCommand)
}

var LoginCommand = cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and store the access token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Login(a.legacy, args[0], args[1]); err != nil {
			a.alerter.Errorf("Failed to login: %v", err)
			return err
		}

		a.alerter.Successf("Logged in as %s", args[0])
		return nil
	},
}

var SignupCommand = cobra.Command{
	Use:   "signup <name> <email> <password>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Signup(a.legacy, args[0], args[1], args[2]); err != nil {
			a.alerter.Errorf("Failed to sign up: %v", err)
			return err
		}

		a.alerter.Successf("Account created for %s", args[1])
		return nil
	},
}

var LogoutCommand = cobra.Command{
	Use:   "logout",
	Short: "Clear the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Logout(); err != nil {
			return err
		}

		a.alerter.Successf("Logged out")
		return nil
	},
}

var WhoamiCommand = cobra.Command{
	Use:   "whoami",
	Short: "Print the user id derived from the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		if a.session.UserID() == "" {
			return errors.New("stored token carries no subject")
		}

		cmd.Println(a.session.UserID())
		return nil
	},
}
