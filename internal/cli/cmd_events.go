package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/eventstore"
	"github.com/alexanderramin/plannersmart/internal/ical"
	"github.com/alexanderramin/plannersmart/internal/reconcile"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"ev"},
		Short:   "Manage calendar events",
	}

	cmd.AddCommand(
		newEventsListCmd(app),
		newEventsAddCmd(app),
		newEventsRemoveCmd(app),
		newEventsCompleteCmd(app),
		newEventsExportCmd(app),
	)

	return cmd
}

// loadStore fetches the user's events into a fresh store.
func loadStore(ctx context.Context, app *App) (*eventstore.Store, error) {
	client, _, err := app.client(true)
	if err != nil {
		return nil, err
	}
	store := eventstore.New(client)
	if err := store.Fetch(ctx); err != nil {
		return nil, explain(err)
	}
	return store, nil
}

func newEventsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active and completed events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEvents(store.Active(), store.Completed(), app.now()))
			return nil
		},
	}
}

func newEventsAddCmd(app *App) *cobra.Command {
	var title, description, start, color string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return errors.New("--title is required")
			}
			at, err := parseWhen(start, app.now())
			if err != nil {
				return err
			}
			if duration <= 0 {
				return errors.New("--duration must be positive")
			}

			ev, err := reconcile.ToEvent(domain.GeneratedTask{
				Title:       strings.TrimSpace(title),
				Description: description,
				StartTime:   domain.FormatEventTime(at),
				Duration:    hhmm(duration),
				Color:       color,
			}, uuid.NewString())
			if err != nil {
				return err
			}

			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			if err := store.Add(cmd.Context(), ev); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Event added successfully. %s\n", formatter.TruncID(ev.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "event title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "event description")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start time, e.g. \"2025-06-01 09:00\" or \"09:00\"")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "event length")
	cmd.Flags().Var(newColorValue(&color), "color", "event color (name or #hex)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newEventsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			id, err := resolveEventID(store, args[0])
			if err != nil {
				return err
			}
			if err := store.Remove(cmd.Context(), id); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Event deleted successfully.")
			return nil
		},
	}
}

func newEventsCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "complete ID",
		Aliases: []string{"done"},
		Short:   "Mark an event as completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			id, err := resolveEventID(store, args[0])
			if err != nil {
				return err
			}
			if err := store.MarkCompleted(cmd.Context(), id); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Event marked as completed.")
			return nil
		},
	}
}

func newEventsExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all events as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			events := append(store.Active(), store.Completed()...)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			skipped, err := ical.Export(w, events)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %d event(s) with unreadable times.\n", skipped)
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d event(s) to %s\n", len(events)-skipped, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// resolveEventID accepts a full id or a unique prefix of one.
func resolveEventID(store *eventstore.Store, arg string) (string, error) {
	var matches []string
	for _, e := range append(store.Active(), store.Completed()...) {
		if e.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d events", arg, len(matches))
	}
}
