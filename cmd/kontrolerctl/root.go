package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	token    string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "kontrolerctl",
		Short: "Author, check and inspect Kontroler DAGs from the terminal",
		Long: `kontrolerctl works with Kontroler DAG documents (YAML or JSON).

It validates documents with the same rules as the dashboard, renders their
dependency graph as SVG or Graphviz, previews cron schedules, submits DAGs
to the backend and follows task pod logs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("KONTROLER_TOKEN"), "Backend session token (jwt-kontroler cookie)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(
		newValidateCmd(),
		newRenderCmd(),
		newPreviewCmd(),
		newSubmitCmd(opts),
		newLogsCmd(opts),
	)

	return rootCmd
}

func (o *globalOptions) logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return logger, nil
}
