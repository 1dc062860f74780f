package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
)

func init() {
	MissionCommand.AddCommand(&MissionAddCommand)
	MissionCommand.AddCommand(&MissionUpdateCommand)
	MissionCommand.AddCommand(&MissionDeleteCommand)
	RootCmd.AddCommand(&MissionCommand)
}

// The mission surface predates the bearer API and still authenticates
// with the x-auth-token / x-api-key pair.
var MissionCommand = cobra.Command{
	Use:   "mission",
	Short: "Manage missions on the legacy surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var MissionAddCommand = cobra.Command{
	Use:   "add <mission-json>",
	Short: "Add a mission",
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

		var mission todonet.Mission
		if err := json.NewDecoder(strings.NewReader(args[0])).Decode(&mission); err != nil {
			return errors.New("could not decode mission", errors.WithCause(err))
		}

		if err := a.legacy.AddMission(mission); err != nil {
			a.alerter.Errorf("Failed to add mission: %v", err)
			return err
		}

		a.alerter.Successf("Mission added")
		return nil
	},
}

var MissionUpdateCommand = cobra.Command{
	Use:   "update <id> <mission-json>",
	Short: "Update a mission",
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

		var mission todonet.Mission
		if err := json.NewDecoder(strings.NewReader(args[1])).Decode(&mission); err != nil {
			return errors.New("could not decode mission", errors.WithCause(err))
		}

		if err := a.legacy.UpdateMission(args[0], mission); err != nil {
			a.alerter.Errorf("Failed to update mission: %v", err)
			return err
		}

		a.alerter.Successf("Mission updated")
		return nil
	},
}

var MissionDeleteCommand = cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mission",
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

		if err := a.legacy.DeleteMission(args[0]); err != nil {
			a.alerter.Errorf("Failed to delete mission: %v", err)
			return err
		}

		a.alerter.Successf("Mission deleted")
		return nil
	},
}
