// cmd/tools/relayctl/main.go
//
// relayctl drives the relay services from a terminal: submit a stored
// submission, delete a candidate, or validate a submission file offline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"application-relay/internal/common/config"
	"application-relay/internal/common/errors"
	"application-relay/internal/common/greenhouse"
	relayhttp "application-relay/internal/common/http"
	"application-relay/internal/common/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "relayctl",
		Short:         "Operator tool for the application relay",
		Long:          "relayctl submits applications, deletes candidates and validates submission files using the relay's configuration and credentials.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config YAML file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(
		newSubmitCmd(opts),
		newDeleteCmd(opts),
		newValidateCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

// newLogger writes to stderr so results on stdout stay pipeable.
func (o *rootOptions) newLogger() logger.Logger {
	return logger.NewZapAdapter(logger.NewWithOutput(o.logLevel, "console", "stderr"))
}

func newHarvestClient(cfg *config.Config) *greenhouse.Client {
	return greenhouse.NewClient(greenhouse.Options{
		BaseURL: cfg.Greenhouse.BaseURL,
		Credentials: relayhttp.Credentials{
			APIKey:     cfg.Greenhouse.APIKey,
			OnBehalfOf: cfg.Greenhouse.OnBehalfOf,
		},
		Timeout: config.GetDuration(cfg.Greenhouse.Timeout),
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printFailure writes the failure outcome a browser client would have seen
// and returns an error carrying its status.
func printFailure(w io.Writer, err error) error {
	stdErr := errors.Normalize(err)
	outcome := errors.ToFailureOutcome(stdErr)
	if printErr := printJSON(w, outcome); printErr != nil {
		return printErr
	}
	return fmt.Errorf("%s (status %d)", outcome.Error, outcome.Status)
}
