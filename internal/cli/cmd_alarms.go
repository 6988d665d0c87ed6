package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexanderramin/plannersmart/internal/alarm"
	"github.com/alexanderramin/plannersmart/internal/apiclient"
	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/spf13/cobra"
)

func newAlarmsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarms",
		Short: "Manage alarms",
	}

	cmd.AddCommand(
		newAlarmsListCmd(app),
		newAlarmsAddCmd(app),
		newAlarmsRemoveCmd(app),
		newAlarmsToggleCmd(app),
		newAlarmsWatchCmd(app),
	)

	return cmd
}

func newAlarmsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List alarms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.client(true)
			if err != nil {
				return err
			}
			alarms, err := client.ListAlarms(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAlarms(alarms, app.now()))
			return nil
		},
	}
}

func newAlarmsAddCmd(app *App) *cobra.Command {
	var title, description, at string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Set an alarm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return errors.New("--title is required")
			}
			when, err := parseWhen(at, app.now())
			if err != nil {
				return err
			}

			client, _, err := app.client(true)
			if err != nil {
				return err
			}
			created, err := client.CreateAlarm(cmd.Context(), domain.Alarm{
				Title:       strings.TrimSpace(title),
				Description: description,
				Time:        domain.FormatEventTime(when),
				IsActive:    true,
			})
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alarm set for %s. %s\n",
				formatter.When(when, app.now()), formatter.TruncID(created.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "alarm title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "alarm description")
	cmd.Flags().StringVar(&at, "at", "", "alarm time, e.g. \"07:30\" or \"2025-06-01 07:30\"")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newAlarmsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete an alarm",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, id, err := resolveAlarm(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := client.DeleteAlarm(cmd.Context(), id); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Alarm deleted.")
			return nil
		},
	}
}

func newAlarmsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Switch an alarm on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, id, err := resolveAlarm(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			a, err := client.ToggleAlarm(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(a.Title), formatter.ActiveIndicator(a.IsActive))
			return nil
		},
	}
}

func newAlarmsWatchCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ring alarms as they come due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.client(true)
			if err != nil {
				return err
			}
			if schedule == "" {
				schedule = app.Config.AlarmSchedule
			}

			out := cmd.OutOrStdout()
			w := alarm.NewWatcher(client, func(a domain.Alarm) {
				fmt.Fprintf(out, "\a%s\n", formatter.FormatAlarmFired(a))
			}, schedule, app.logger())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Dim("Watching alarms. Press Ctrl+C to stop."))
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "check schedule in cron syntax (default from config)")
	return cmd
}

// resolveAlarm returns a client and the alarm id matching arg exactly or by
// unique prefix.
func resolveAlarm(ctx context.Context, app *App, arg string) (*apiclient.Client, string, error) {
	client, _, err := app.client(true)
	if err != nil {
		return nil, "", err
	}
	alarms, err := client.ListAlarms(ctx)
	if err != nil {
		return nil, "", explain(err)
	}

	var matches []string
	for _, a := range alarms {
		if a.ID == arg {
			return client, arg, nil
		}
		if strings.HasPrefix(a.ID, arg) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return client, arg, nil
	case 1:
		return client, matches[0], nil
	default:
		return nil, "", fmt.Errorf("id prefix %q matches %d alarms", arg, len(matches))
	}
}
