package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bobinette/todonet/realtime"
)

func init() {
	RootCmd.AddCommand(&WatchCommand)
}

var WatchCommand = cobra.Command{
	Use:   "watch",
	Short: "Stay connected and print notifications as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAuth(); err != nil {
			return err
		}

		notifier, err := realtime.Connect(config.API.BaseURL, a.session.UserID(), a.alerter, logger)
		if err != nil {
			return err
		}
		defer notifier.Close()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt

		return nil
	},
}
