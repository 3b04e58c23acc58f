package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schologic/practicum/internal/cli/formatter"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/service"
)

func newPracticumCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "practicum",
		Aliases: []string{"cohort"},
		Short:   "Manage practicum cohorts",
	}

	cmd.AddCommand(
		newPracticumAddCmd(app),
		newPracticumListCmd(app),
		newPracticumShowCmd(app),
		newPracticumRescheduleCmd(app),
		newPracticumRemoveCmd(app),
	)

	return cmd
}

func newPracticumAddCmd(app *App) *cobra.Command {
	var in service.CreatePracticumInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a cohort and generate its timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				in.LogInterval = app.defaultInterval()
			}

			p, cfg, err := app.Practicums.Create(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created practicum %s [%s]\n", p.Title, p.CohortCode)
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%s, %s, %s logs",
				formatter.Plural(len(cfg.Weeks), "week"),
				formatter.Plural(len(cfg.Events), "event"),
				p.LogInterval)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Cohort title")
	dayFlag(cmd.Flags(), &in.StartDate, "start", "First day (YYYY-MM-DD)")
	dayFlag(cmd.Flags(), &in.EndDate, "end", "Last day, inclusive (YYYY-MM-DD)")
	intervalFlag(cmd.Flags(), &in.LogInterval, "interval", "Log cadence: daily, weekly or monthly")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newPracticumListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cohorts",
		RunE: func(cmd *cobra.Command, args []string) error {
			practicums, err := app.Practicums.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(practicums) == 0 {
				fmt.Fprintln(out, "No practicums found.")
				return nil
			}
			fmt.Fprint(out, formatter.FormatPracticumList(practicums, app.today()))
			return nil
		},
	}
}

func newPracticumShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show REF",
		Short: "Show a cohort by code or id",
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
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPracticumDetail(p, cfg, app.today()))
			return nil
		},
	}
}

func newPracticumRescheduleCmd(app *App) *cobra.Command {
	var in service.RescheduleInput

	cmd := &cobra.Command{
		Use:   "reschedule REF",
		Short: "Change a cohort's title, dates or log cadence",
		Long: "Change a cohort's title, dates or log cadence.\n\n" +
			"The stored timeline is left alone unless --regenerate is given, in which\n" +
			"case it is replaced by a freshly generated one in the same transaction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("start") && !flags.Changed("end") && !flags.Changed("interval") {
				return errors.New("nothing to change: pass --title, --start, --end or --interval")
			}

			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Practicums.Reschedule(ctx, p.ID, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated practicum %s [%s]: %s, %s logs\n",
				updated.Title, updated.DisplayID(),
				formatter.DayRange(updated.StartDate, updated.EndDate), updated.LogInterval)
			if in.Regenerate {
				fmt.Fprintln(out, "Timeline regenerated.")
			} else {
				fmt.Fprintln(out, formatter.Dim("Timeline unchanged. Run `practicum timeline regenerate` to rebuild it."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "New title")
	dayFlag(cmd.Flags(), &in.StartDate, "start", "New first day (YYYY-MM-DD)")
	dayFlag(cmd.Flags(), &in.EndDate, "end", "New last day (YYYY-MM-DD)")
	intervalFlag(cmd.Flags(), &in.LogInterval, "interval", "New log cadence")
	cmd.Flags().BoolVar(&in.Regenerate, "regenerate", false, "Replace the timeline with a generated one")

	return cmd
}

func newPracticumRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a cohort and its timeline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Practicums.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ok, err := confirmOrYes(app, yes, fmt.Sprintf("Delete %s (%s) and its timeline?", p.Title, p.DisplayID()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := app.Practicums.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted practicum %s [%s]\n", p.Title, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// errNeedsYes is returned when a destructive command cannot prompt.
var errNeedsYes = errors.New("this replaces or deletes data; pass --yes to confirm in a non-interactive session")

// confirmOrYes returns true when --yes was given, asks when a terminal is
// attached and fails otherwise.
func confirmOrYes(app *App, yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errNeedsYes
	}
	return app.confirm(prompt)
}

// resolveDisplay is the "Title [CODE]" label used in command output.
func resolveDisplay(p *domain.Practicum) string {
	return fmt.Sprintf("%s [%s]", p.Title, p.DisplayID())
}
