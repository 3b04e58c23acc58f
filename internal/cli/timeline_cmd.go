package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/schologic/practicum/internal/cli/formatter"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/service"
	"github.com/schologic/practicum/internal/timeline"
)

func newTimelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"tl"},
		Short:   "View and edit cohort timelines",
	}

	cmd.AddCommand(
		newTimelineShowCmd(app),
		newTimelinePreviewCmd(app),
		newTimelineNextCmd(app),
		newTimelineEditCmd(app),
		newTimelineRegenerateCmd(app),
		newTimelineExportCmd(app),
		newTimelineImportCmd(app),
		newEventCmd(app),
	)

	return cmd
}

func newTimelineShowCmd(app *App) *cobra.Command {
	var showLogs bool

	cmd := &cobra.Command{
		Use:   "show REF",
		Short: "Print a cohort's timeline grouped by week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			cfg, err := app.Timelines.Get(ctx, p.ID)
			if err != nil {
				return err
			}

			view := timeline.BuildView(cfg, timeline.Filter{ShowLogs: showLogs})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", formatter.Bold(resolveDisplay(p)))
			fmt.Fprint(out, formatter.FormatTimeline(view))
			if view.HiddenLogs > 0 {
				fmt.Fprintln(out, formatter.Dim("Use --logs to include them."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLogs, "logs", app.ShowLogs, "Include log events")

	return cmd
}

func newTimelinePreviewCmd(app *App) *cobra.Command {
	var (
		start, end domain.Day
		interval   domain.LogInterval
		label      string
		showLogs   bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate a timeline without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = app.defaultInterval()
			}
			cfg, err := app.Timelines.Preview(start, end, interval, label)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatTimeline(timeline.BuildView(cfg, timeline.Filter{ShowLogs: showLogs})))
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Preview only: %s, %s. Nothing was saved.",
				formatter.Plural(len(cfg.Weeks), "week"), formatter.Plural(len(cfg.Events), "event"))))
			return nil
		},
	}

	dayFlag(cmd.Flags(), &start, "start", "First day (YYYY-MM-DD)")
	dayFlag(cmd.Flags(), &end, "end", "Last day, inclusive (YYYY-MM-DD)")
	intervalFlag(cmd.Flags(), &interval, "interval", "Log cadence: daily, weekly or monthly")
	cmd.Flags().StringVar(&label, "label", "", "Cohort label used in log titles")
	cmd.Flags().BoolVar(&showLogs, "logs", true, "Include log events")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newTimelineNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next REF",
		Short: "Show when the next log is due",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			sched, err := app.Timelines.LogSchedule(ctx, p.ID, app.today())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLogSchedule(p, sched))
			return nil
		},
	}
}

func newTimelineEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit REF",
		Short: "Open the interactive timeline editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("timeline edit needs an interactive terminal; use `timeline event` commands instead")
			}
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			savedBefore := p.TimelineSavedAt
			ed, err := app.openEditor(ctx, p)
			if err != nil {
				return err
			}
			if err := app.runTUI(newAppModel(app, p, ed)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p.TimelineSavedAt != savedBefore {
				fmt.Fprintf(out, "Saved timeline for %s at %s\n",
					resolveDisplay(p), p.TimelineSavedAt.Format("2006-01-02 15:04"))
			}
			if ed.Dirty() {
				fmt.Fprintln(out, formatter.Dim("Unsaved changes discarded."))
			}
			return nil
		},
	}
}

func newTimelineRegenerateCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "regenerate REF",
		Short: "Replace a timeline with a freshly generated one",
		Long: "Replace a timeline with one generated from the cohort's current dates and\n" +
			"log cadence. Every event is replaced, including ones added or edited by hand.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ed, err := app.openEditor(ctx, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ed.RequestRegenerate(timeline.InputFor(p))
			prompt := fmt.Sprintf("Replace all %s of %s with a generated timeline?",
				formatter.Plural(len(ed.Working().Events), "event"), p.DisplayID())
			ok, err := confirmOrYes(app, yes, prompt)
			if err != nil {
				ed.CancelRegenerate()
				return err
			}
			if !ok {
				ed.CancelRegenerate()
				fmt.Fprintln(out, "Regenerate cancelled.")
				return nil
			}

			if err := ed.ConfirmRegenerate(); err != nil {
				return err
			}
			if err := ed.Save(ctx); err != nil {
				return err
			}
			cfg := ed.Working()
			fmt.Fprintf(out, "Regenerated timeline for %s: %s, %s\n", resolveDisplay(p),
				formatter.Plural(len(cfg.Weeks), "week"), formatter.Plural(len(cfg.Events), "event"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newTimelineExportCmd(app *App) *cobra.Command {
	var (
		format service.Format = service.FormatJSON
		output string
	)

	cmd := &cobra.Command{
		Use:   "export REF",
		Short: "Write a timeline as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				if !cmd.Flags().Changed("format") {
					format = formatForPath(output)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			if err := app.Timelines.Export(ctx, p.ID, format, w); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s timeline to %s\n", p.DisplayID(), output)
			}
			return nil
		},
	}

	formatFlag(cmd.Flags(), &format, "format", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func newTimelineImportCmd(app *App) *cobra.Command {
	var format service.Format

	cmd := &cobra.Command{
		Use:   "import REF FILE",
		Short: "Replace a timeline with a JSON or YAML document",
		Long: "Replace a timeline with a JSON or YAML document. The document is validated\n" +
			"before anything is written. Use - to read from stdin.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			path := args[1]
			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer f.Close()
				r = f
			}
			if !cmd.Flags().Changed("format") {
				format = formatForPath(path)
			}

			cfg, err := app.Timelines.Import(ctx, p.ID, format, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s and %s into %s\n",
				formatter.Plural(len(cfg.Weeks), "week"), formatter.Plural(len(cfg.Events), "event"), resolveDisplay(p))
			return nil
		},
	}

	formatFlag(cmd.Flags(), &format, "format", "Input format: json or yaml (default from extension)")

	return cmd
}
