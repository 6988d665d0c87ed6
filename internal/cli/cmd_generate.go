package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/eventstore"
	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/reconcile"
	"github.com/alexanderramin/plannersmart/internal/taskgen"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var addAll bool

	cmd := &cobra.Command{
		Use:     "generate GOAL",
		Aliases: []string{"gen"},
		Short:   "Break a goal into scheduled tasks with the AI assistant",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			goal := strings.TrimSpace(strings.Join(args, " "))
			if goal == "" {
				return errors.New("goal is required")
			}

			client, _, err := app.client(true)
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating tasks...")
			}
			tasks, err := client.GenerateTasks(ctx, goal)
			stop()
			if err != nil {
				return explainGenerate(err)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "AI generated no tasks for this prompt.")
				return nil
			}

			session := reconcile.NewSession(tasks, eventstore.New(client))

			if app.interactive() && !addAll {
				if _, err := app.runProgram(ctx, newReviewModel(ctx, session)); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.FormatTasks(tasks, session.Tracker().IsAdded))
				return nil
			}

			if !addAll {
				fmt.Fprintln(out, formatter.FormatTasks(tasks, nil))
				fmt.Fprintln(out, formatter.Dim("Re-run with --add-all to put them on your calendar."))
				return nil
			}

			res, err := session.AddAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatTasks(tasks, session.Tracker().IsAdded))
			fmt.Fprintln(out, formatter.FormatBulkResult(res))
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d task(s) could not be added", res.Failed, len(tasks))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&addAll, "add-all", false, "add every generated task without reviewing")
	return cmd
}

// explainGenerate adds a next step to task-generation failures.
func explainGenerate(err error) error {
	var hint string
	switch {
	case errors.Is(err, taskgen.ErrMissingCredential):
		hint = "no Gemini API key on file; set one with `plannersmart apikey set`"
	case errors.Is(err, llm.ErrInvalidCredential):
		hint = "the Gemini API key was rejected; update it with `plannersmart apikey set`"
	case errors.Is(err, llm.ErrQuotaExceeded):
		hint = "the Gemini quota is used up; try again later"
	case errors.Is(err, llm.ErrProviderUnavailable):
		hint = "the AI provider did not respond; try again in a moment"
	default:
		return explain(err)
	}
	return fmt.Errorf("generating tasks: %w (%s)", err, hint)
}
