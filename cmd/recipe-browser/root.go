package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cookbookd/recipe-browser/pkg/api"
	"github.com/cookbookd/recipe-browser/pkg/logging"
	"github.com/cookbookd/recipe-browser/pkg/store"
)

// app carries the configuration shared by all subcommands.
type app struct {
	APIURL   string
	LogLevel string
	Pretty   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "recipe-browser",
		Short:        "Browse a remote recipe catalog from the terminal or over HTTP",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(a.LogLevel),
				Pretty: a.Pretty,
				Output: os.Stderr,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&a.APIURL, "api-url", getEnv("RECIPE_API_URL", api.DefaultBaseURL), "Recipe backend API base URL")
	cmd.PersistentFlags().StringVar(&a.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&a.Pretty, "pretty", false, "Human-readable console logs")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newShowCmd(a))

	return cmd
}

// newStore builds the backend client and record store from the app config.
func (a *app) newStore() (*store.Store, error) {
	client, err := api.New(api.DefaultConfig(a.APIURL))
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	s, err := store.New(store.Config{Fetcher: client})
	if err != nil {
		return nil, fmt.Errorf("create record store: %w", err)
	}

	return s, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
