package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/plannersmart/internal/apiclient"
	"github.com/alexanderramin/plannersmart/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// errNotLoggedIn is returned by commands that need a session token.
var errNotLoggedIn = errors.New("not logged in; run `plannersmart login` first")

// App holds configuration and process hooks shared by all commands.
type App struct {
	Config      *config.Config
	SessionPath string

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// review screen are only shown when it returns true.
	IsInteractive func() bool

	// RunProgram runs a bubbletea model to completion. Nil uses tea.NewProgram.
	RunProgram func(ctx context.Context, m tea.Model) (tea.Model, error)

	// Logs go to Stderr; nil means os.Stderr.
	Stderr io.Writer

	Now func() time.Time

	serverOverride string
}

// NewRootCmd creates the top-level "plannersmart" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plannersmart",
		Short:         "Turn goals into scheduled calendar events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.serverOverride, "server", "", "backend URL (overrides session and config)")

	root.AddCommand(
		newServeCmd(app),
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newAPIKeyCmd(app),
		newEventsCmd(app),
		newGenerateCmd(app),
		newAlarmsCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) stderr() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

func (a *App) logger() *slog.Logger {
	return a.Config.Logger(a.stderr())
}

func (a *App) runProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	if a.RunProgram != nil {
		return a.RunProgram(ctx, m)
	}
	return tea.NewProgram(m, tea.WithContext(ctx)).Run()
}

// serverURL picks the backend: --server, then the saved session, then config.
func (a *App) serverURL(s *Session) string {
	switch {
	case a.serverOverride != "":
		return a.serverOverride
	case s != nil && s.ServerURL != "":
		return s.ServerURL
	default:
		return a.Config.ServerURL
	}
}

// client returns an API client for the saved session. With requireLogin it
// fails unless a token is on file.
func (a *App) client(requireLogin bool) (*apiclient.Client, *Session, error) {
	s, err := LoadSession(a.SessionPath)
	if err != nil {
		return nil, nil, err
	}
	if requireLogin && s.Token == "" {
		return nil, nil, errNotLoggedIn
	}
	return apiclient.New(a.serverURL(s), s.Token), s, nil
}

// explain turns an expired-session failure into a hint to log in again.
func explain(err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return errors.Join(err, errors.New("run `plannersmart login` to start a new session"))
	}
	return err
}
