package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
)

// plannerHuhTheme returns a huh theme matching the formatter palette.
func plannerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

func usernameInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Username").
		Value(value).
		Validate(validateRequired("username"))
}

func passwordInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(value).
		Validate(validatePassword)
}

func apiKeyInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Gemini API key").
		Description("Used by the server to generate tasks for you.").
		EchoMode(huh.EchoModePassword).
		Value(value).
		Validate(validateAPIKey)
}

// registerForm collects the fields register was not given as flags.
func registerForm(username, password, apiKey *string) *huh.Form {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, usernameInput(username))
	}
	if *password == "" {
		fields = append(fields, passwordInput(password))
	}
	if *apiKey == "" {
		fields = append(fields, apiKeyInput(apiKey))
	}
	return newForm(fields...)
}

func loginForm(username, password *string) *huh.Form {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, usernameInput(username))
	}
	if *password == "" {
		fields = append(fields, passwordInput(password))
	}
	return newForm(fields...)
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validatePassword(s string) error {
	if len(s) < service.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", service.MinPasswordLength)
	}
	return nil
}

func validateAPIKey(s string) error {
	if len(strings.TrimSpace(s)) < service.MinAPIKeyLength {
		return fmt.Errorf("API key must be at least %d characters", service.MinAPIKeyLength)
	}
	return nil
}

// missingFlags lists the named flags that were left empty.
func missingFlags(fs *pflag.FlagSet, names ...string) []string {
	var missing []string
	for _, name := range names {
		if f := fs.Lookup(name); f != nil && f.Value.String() == "" {
			missing = append(missing, "--"+name)
		}
	}
	return missing
}

// fillMissing runs form when flags are missing on a terminal, and fails
// with the list of missing flags otherwise.
func fillMissing(app *App, fs *pflag.FlagSet, form func() *huh.Form, names ...string) error {
	missing := missingFlags(fs, names...)
	if len(missing) == 0 {
		return nil
	}
	if !app.interactive() {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	if err := form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return err
	}
	return nil
}

// colorValue is a pflag.Value accepting palette names and #rgb/#rrggbb.
type colorValue struct{ s *string }

func newColorValue(p *string) *colorValue { return &colorValue{s: p} }

func (c *colorValue) String() string {
	if c.s == nil {
		return ""
	}
	return *c.s
}

func (c *colorValue) Set(v string) error {
	v = strings.TrimSpace(v)
	if formatter.EventColor(v) == formatter.ColorDim && !isGrey(v) {
		return fmt.Errorf("unknown color %q (use a name like green or a hex value like #7c3aed)", v)
	}
	*c.s = v
	return nil
}

func (c *colorValue) Type() string { return "color" }

func isGrey(v string) bool {
	v = strings.ToLower(v)
	return v == "grey" || v == "gray" || v == strings.ToLower(string(formatter.ColorDim))
}

var _ pflag.Value = (*colorValue)(nil)
