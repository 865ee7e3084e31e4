package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dag"
	"github.com/GreedyKomodoDragon/Kontroler/internal/dagform"
	"github.com/GreedyKomodoDragon/Kontroler/internal/layout"
	"github.com/GreedyKomodoDragon/Kontroler/internal/logs"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/spf13/cobra"
)

// errInvalid is returned after validation problems have been printed
var errInvalid = errors.New("DAG is invalid")

func loadForm(path string) (models.DagFormObj, error) {
	form, err := dagform.NewParser().ParseFile(path)
	if err != nil {
		return models.DagFormObj{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return form, nil
}

func printProblems(w io.Writer, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "- %s\n", p)
	}
	return fmt.Errorf("%w: %d problem(s)", errInvalid, len(problems))
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a DAG document against the submission rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := loadForm(args[0])
			if err != nil {
				return err
			}

			if err := printProblems(cmd.OutOrStdout(), dag.ValidateDagFormObj(form)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DAG %s is valid (%d tasks)\n", form.Name, len(form.Tasks))
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		format   string
		width    float64
		height   float64
		selected string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw the dependency graph of a DAG document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := loadForm(args[0])
			if err != nil {
				return err
			}

			d := layout.NewDiagram(models.DagRunGraph{Connections: form.Connections()},
				layout.Options{Width: width, Height: height}, nil)
			if selected != "" && !d.Select(selected) {
				return fmt.Errorf("task %q is not in the graph", selected)
			}

			switch format {
			case "svg":
				return d.Render(cmd.OutOrStdout())
			case "dot":
				return d.ToDot(cmd.OutOrStdout())
			}
			return fmt.Errorf("unknown format %q, must be svg or dot", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format (svg or dot)")
	cmd.Flags().Float64Var(&width, "width", 1200, "Container width")
	cmd.Flags().Float64Var(&height, "height", 400, "Container height")
	cmd.Flags().StringVar(&selected, "select", "", "Highlight a task")

	return cmd
}

func newPreviewCmd() *cobra.Command {
	var (
		count    int
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "List the next run times of a DAG's schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				if len(args) == 0 {
					return errors.New("a file or --schedule is required")
				}
				form, err := loadForm(args[0])
				if err != nil {
					return err
				}
				schedule = form.Schedule
			}

			if !dag.IsValidCron(schedule) && schedule != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: the backend will reject this schedule")
			}

			times, err := dagform.SchedulePreview(schedule, time.Now(), count)
			if err != nil {
				return err
			}
			if times == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "DAG has no schedule")
				return nil
			}
			for _, t := range times {
				fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of runs to list")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Preview this schedule instead of the file's")

	return cmd
}

func newSubmitCmd(opts *globalOptions) *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Validate a DAG document and create it on the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := loadForm(args[0])
			if err != nil {
				return err
			}
			if err := printProblems(cmd.OutOrStdout(), dag.ValidateDagFormObj(form)); err != nil {
				return err
			}

			logger, err := opts.logger()
			if err != nil {
				return err
			}
			backend, err := client.NewClient(apiURL, client.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx := client.WithToken(cmd.Context(), opts.token)
			message, err := backend.CreateDag(ctx, dagform.FromState(form).Submission())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", getEnv("API_URL", "http://localhost:8082"), "Kontroler backend URL")

	return cmd
}

func newLogsCmd(opts *globalOptions) *cobra.Command {
	var wsURL string

	cmd := &cobra.Command{
		Use:   "logs <podUID>",
		Short: "Follow the logs of a task pod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			streamer, err := logs.NewStreamer(wsURL, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = client.WithToken(ctx, opts.token)

			err = streamer.Stream(ctx, args[0], func(line string) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			})
			if errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&wsURL, "ws-url", getEnv("WS_URL", "ws://localhost:8082"), "Kontroler log websocket URL")

	return cmd
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
