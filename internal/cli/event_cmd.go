package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schologic/practicum/internal/domain"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add, edit or remove a single timeline event",
	}

	cmd.AddCommand(
		newEventAddCmd(app),
		newEventEditCmd(app),
		newEventRemoveCmd(app),
	)

	return cmd
}

// resolveEventID matches ref against event ids, accepting a unique prefix.
func resolveEventID(cfg domain.TimelineConfig, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("event id is required")
	}
	if _, ok := cfg.Event(ref); ok {
		return ref, nil
	}

	var matches []string
	for _, e := range cfg.Events {
		if strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrEventNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("event id prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

type eventFlags struct {
	title       string
	date        domain.Moment
	typ         domain.EventType
	description string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Event title")
	momentFlag(cmd.Flags(), &f.date, "date", "Date (YYYY-MM-DD) or date-time (YYYY-MM-DDTHH:MM)")
	eventTypeFlag(cmd.Flags(), &f.typ, "type", "milestone, deadline, log, meeting or report")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
}

// apply copies the flags the user set onto ev and reports whether any were.
func (f *eventFlags) apply(cmd *cobra.Command, ev *domain.TimelineEvent) bool {
	changed := false
	flags := cmd.Flags()
	if flags.Changed("title") {
		ev.Title = strings.TrimSpace(f.title)
		changed = true
	}
	if flags.Changed("date") {
		ev.Date = f.date
		changed = true
	}
	if flags.Changed("type") {
		ev.Type = f.typ
		changed = true
	}
	if flags.Changed("description") {
		ev.Description = strings.TrimSpace(f.description)
		changed = true
	}
	return changed
}

func newEventAddCmd(app *App) *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "add REF",
		Short: "Add an event to a cohort's timeline",
		Args:  cobra.ExactArgs(1),
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

			ev := ed.AddEvent()
			f.apply(cmd, &ev)
			if err := ed.CommitEdit(ev); err != nil {
				return err
			}
			if err := ed.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q on %s [%s]\n", ev.Type, ev.Title, ev.Date.Display(), shortID(ev.ID))
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newEventEditCmd(app *App) *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "edit REF EVENT_ID",
		Short: "Change an event's title, date, type or description",
		Args:  cobra.ExactArgs(2),
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
			id, err := resolveEventID(ed.Working(), args[1])
			if err != nil {
				return err
			}

			ev, err := ed.EditEvent(id)
			if err != nil {
				return err
			}
			if !f.apply(cmd, &ev) {
				ed.CancelEdit()
				return errors.New("nothing to change: pass --title, --date, --type or --description")
			}
			if err := ed.CommitEdit(ev); err != nil {
				return err
			}
			if err := ed.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q on %s [%s]\n", ev.Type, ev.Title, ev.Date.Display(), shortID(ev.ID))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newEventRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF EVENT_ID",
		Aliases: []string{"remove"},
		Short:   "Remove an event from a cohort's timeline",
		Args:    cobra.ExactArgs(2),
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
			id, err := resolveEventID(ed.Working(), args[1])
			if err != nil {
				return err
			}

			ev, _ := ed.Working().Event(id)
			ed.DeleteEvent(id)
			if err := ed.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q [%s]\n", ev.Title, shortID(id))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
