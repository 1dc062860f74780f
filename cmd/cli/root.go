package main

import (
	"fmt"
	"os"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/bobinette/todonet/client"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/log"
	"github.com/bobinette/todonet/session"
	"github.com/bobinette/todonet/token"
	"github.com/bobinette/todonet/ui"
)

type Configuration struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Key     string `toml:"key"`
	} `toml:"api"`
	TokenPath string `toml:"token_path"`
}

var (
	// flags
	env        string
	configFile string

	// loaded in PersistentPreRunE
	logger log.Logger
	config Configuration
)

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file")
}

var RootCmd = cobra.Command{
	Use:   "todonet",
	Short: "Collaborative todo lists from your terminal",
	Long:  "Collaborative todo lists from your terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.New(env)

		if configFile == "" {
			configFile = path.Join("configuration", fmt.Sprintf("config.%s.toml", env))
		}

		if _, err := toml.DecodeFile(configFile, &config); err != nil {
			return errors.New("could not read configuration", errors.WithCause(err))
		}

		if config.TokenPath == "" {
			config.TokenPath = "data/credentials.db"
		}
		return nil
	},
}

// app bundles everything a command needs: the credential store, the
// session, both API clients and the interactive seams.
type app struct {
	driver  *token.Driver
	tokens  token.Store
	session *session.Session
	guard   *session.Guard

	api    *client.Client
	legacy *client.Legacy

	alerter   ui.Alerter
	confirmer ui.Confirmer
}

func newApp() (*app, error) {
	if dir := path.Dir(config.TokenPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.New("could not create credential directory", errors.WithCause(err))
		}
	}

	driver := &token.Driver{}
	if err := driver.Open(config.TokenPath); err != nil {
		return nil, errors.New("could not open credential store", errors.WithCause(err))
	}

	tokens := &token.BoltStore{Driver: driver}
	sess := session.New(tokens)

	return &app{
		driver:    driver,
		tokens:    tokens,
		session:   sess,
		guard:     session.NewGuard(sess, loginRedirector{}),
		api:       client.New(tokens, nil, config.API.BaseURL),
		legacy:    client.NewLegacy(tokens, nil, config.API.BaseURL, config.API.Key),
		alerter:   &ui.StdioAlerter{Out: os.Stdout},
		confirmer: &ui.StdioConfirmer{In: os.Stdin, Out: os.Stdout},
	}, nil
}

func (a *app) Close() {
	a.session.Teardown()
	a.driver.Close()
}

// requireAuth runs the session guard before a protected command.
func (a *app) requireAuth() error {
	if !a.guard.Check() {
		return errors.New("authentication required", errors.Unauthenticated())
	}
	return nil
}

// loginRedirector is the CLI's navigation side effect: point the user
// at the login command.
type loginRedirector struct{}

func (loginRedirector) RedirectToLogin() {
	fmt.Fprintln(os.Stderr, "You are not logged in. Run: todonet login <email> <password>")
}
