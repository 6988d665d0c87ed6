package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newRegisterCmd(app *App) *cobra.Command {
	var username, password, apiKey string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := fillMissing(app, cmd.Flags(), func() *huh.Form {
				return registerForm(&username, &password, &apiKey)
			}, "username", "password", "api-key")
			if err != nil {
				return err
			}

			client, _, err := app.client(false)
			if err != nil {
				return err
			}
			id, err := client.Register(cmd.Context(), strings.TrimSpace(username), password, strings.TrimSpace(apiKey))
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("username %q is already taken", username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (user %d). Run `plannersmart login` to sign in.\n",
				formatter.Bold(username), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := fillMissing(app, cmd.Flags(), func() *huh.Form {
				return loginForm(&username, &password)
			}, "username", "password")
			if err != nil {
				return err
			}

			client, s, err := app.client(false)
			if err != nil {
				return err
			}
			res, err := client.Login(cmd.Context(), strings.TrimSpace(username), password)
			if err != nil {
				return err
			}

			if err := SaveSession(app.SessionPath, &Session{
				ServerURL: app.serverURL(s),
				Token:     res.Token,
				Username:  res.Username,
				UserID:    res.UserID,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", formatter.Bold(res.Username))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ClearSession(app.SessionPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newAPIKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the Gemini API key stored with your account",
	}

	set := &cobra.Command{
		Use:   "set [KEY]",
		Short: "Replace the stored API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			}
			if key == "" {
				if !app.interactive() {
					return errors.New("API key argument is required")
				}
				if err := newForm(apiKeyInput(&key)).Run(); err != nil {
					return err
				}
			}
			if err := validateAPIKey(key); err != nil {
				return err
			}

			client, _, err := app.client(true)
			if err != nil {
				return err
			}
			if err := client.UpdateAPIKey(cmd.Context(), strings.TrimSpace(key)); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key updated.")
			return nil
		},
	}

	cmd.AddCommand(set)
	return cmd
}
