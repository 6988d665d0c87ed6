package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/plannersmart/internal/apiclient"
	"github.com/alexanderramin/plannersmart/internal/config"
	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/teatest"
	"github.com/alexanderramin/plannersmart/internal/testutil"
	ics "github.com/arran4/golang-ical"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedPlan = `Title: Research destinations
Description: Compare three cities
Start Time: 2025-06-02T09:00:00.000Z
Duration: 01:00
Color: blue

Title: Book flights
Description: Use the fare alert
Start Time: 2025-06-02T11:00:00.000Z
Duration: 00:30
Color: green

Title: Pack
Description: Night before
Start Time: sometime next week
Duration: 00:45
Color: red
`

// fakeLLM returns a canned reply and records prompts.
type fakeLLM struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake"}, nil
}

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// testApp wires an App against a real backend on an in-memory DB.
func testApp(t *testing.T) (*App, *fakeLLM) {
	t.Helper()
	database := testutil.NewTestDB(t)

	cfg := config.DefaultConfig()
	cfg.JWTSecret = "cli-test-secret"
	fake := &fakeLLM{text: generatedPlan}
	srv := httptest.NewServer(buildServer(cfg, database, slog.New(slog.DiscardHandler), fake).Handler())
	t.Cleanup(srv.Close)
	cfg.ServerURL = srv.URL

	return &App{
		Config:      cfg,
		SessionPath: filepath.Join(t.TempDir(), "session.yaml"),
		Stderr:      io.Discard,
		Now:         func() time.Time { return testNow },
	}, fake
}

// executeCmd runs a command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func loginAlice(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "register", "--username", "alice", "--password", "secret1", "--api-key", "key-0123456789")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "login", "--username", "alice", "--password", "secret1")
	require.NoError(t, err)
}

func sessionClient(t *testing.T, app *App) *apiclient.Client {
	t.Helper()
	client, _, err := app.client(true)
	require.NoError(t, err)
	return client
}

// --- Auth ---

func TestRegisterLoginLogout(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "register", "--username", "alice", "--password", "secret1", "--api-key", "key-0123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice")

	out, err = executeCmd(t, app, "login", "--username", "alice", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice.")

	info, err := os.Stat(app.SessionPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	s, err := LoadSession(app.SessionPath)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, app.Config.ServerURL, s.ServerURL)

	out, err = executeCmd(t, app, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.NoFileExists(t, app.SessionPath)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	_, err := executeCmd(t, app, "register", "--username", "alice", "--password", "other12", "--api-key", "key-0123456789")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestRegister_MissingFlagsWithoutTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "register", "--username", "alice")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
	assert.Contains(t, err.Error(), "--api-key")
}

func TestLogin_WrongPassword(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)
	require.NoError(t, ClearSession(app.SessionPath))

	_, err := executeCmd(t, app, "login", "--username", "alice", "--password", "wrong-pass")

	assert.Error(t, err)
	assert.NoFileExists(t, app.SessionPath)
}

func TestCommandsRequireLogin(t *testing.T) {
	app, _ := testApp(t)

	for _, args := range [][]string{
		{"events", "list"},
		{"generate", "plan a trip"},
		{"alarms", "list"},
		{"apikey", "set", "key-0123456789"},
	} {
		_, err := executeCmd(t, app, args...)
		assert.ErrorIs(t, err, errNotLoggedIn, strings.Join(args, " "))
	}
}

func TestAPIKeySet(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	out, err := executeCmd(t, app, "apikey", "set", "new-key-9876543210")
	require.NoError(t, err)
	assert.Contains(t, out, "API key updated.")

	_, err = executeCmd(t, app, "apikey", "set", "short")
	assert.Error(t, err)
}

// --- Events ---

func TestEventsLifecycle(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	out, err := executeCmd(t, app, "events", "add", "--title", "Dentist", "--start", "2025-06-01T09:00:00Z", "--duration", "30m", "--color", "green")
	require.NoError(t, err)
	assert.Contains(t, out, "Event added successfully.")

	active, _, err := sessionClient(t, app).ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	ev := active[0]
	assert.Equal(t, "2025-06-01T09:00:00.000Z", ev.StartTime)
	assert.Equal(t, "2025-06-01T09:30:00.000Z", ev.EndTime)
	assert.Equal(t, "green", ev.Color)

	out, err = executeCmd(t, app, "events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "Today 09:00")

	out, err = executeCmd(t, app, "events", "complete", ev.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Event marked as completed.")

	active, completed, err := sessionClient(t, app).ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
	require.Len(t, completed, 1)

	out, err = executeCmd(t, app, "events", "remove", ev.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Event deleted successfully.")

	out, err = executeCmd(t, app, "events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No upcoming events.")
}

func TestEventsAdd_Validation(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	_, err := executeCmd(t, app, "events", "add", "--title", "X", "--start", "09:00", "--color", "chartreuse-ish")
	assert.ErrorContains(t, err, "unknown color")

	_, err = executeCmd(t, app, "events", "add", "--title", "X", "--start", "whenever")
	assert.ErrorContains(t, err, "cannot read time")

	_, err = executeCmd(t, app, "events", "add", "--start", "09:00")
	assert.ErrorContains(t, err, "--title")
}

func TestEventsComplete_UnknownID(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	_, err := executeCmd(t, app, "events", "complete", "does-not-exist")

	assert.Error(t, err)
}

func TestEventsExport(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)
	_, err := executeCmd(t, app, "events", "add", "--title", "Dentist", "--start", "2025-06-01 09:00")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plan.ics")
	out, err := executeCmd(t, app, "events", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 event(s)")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cal, err := ics.ParseCalendar(f)
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	assert.Equal(t, "Dentist", cal.Events()[0].GetProperty(ics.ComponentPropertySummary).Value)
}

// --- Generate ---

func TestGenerate_ListOnlyWithoutTerminal(t *testing.T) {
	app, fake := testApp(t)
	loginAlice(t, app)

	out, err := executeCmd(t, app, "generate", "plan", "a", "trip")
	require.NoError(t, err)

	assert.Contains(t, out, "Research destinations")
	assert.Contains(t, out, "--add-all")
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "plan a trip")

	active, _, err := sessionClient(t, app).ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGenerate_AddAll(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	out, err := executeCmd(t, app, "generate", "plan a trip", "--add-all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Contains(t, out, "2 task(s) added successfully.")
	assert.Contains(t, out, "1 task(s) could not be added.")
	assert.Contains(t, out, "Pack")

	active, _, err := sessionClient(t, app).ListEvents(context.Background())
	require.NoError(t, err)
	titles := make([]string, 0, len(active))
	for _, e := range active {
		titles = append(titles, e.Title)
	}
	assert.ElementsMatch(t, []string{"Research destinations", "Book flights"}, titles)
}

func TestGenerate_NoTasks(t *testing.T) {
	app, fake := testApp(t)
	fake.text = ""
	loginAlice(t, app)

	out, err := executeCmd(t, app, "generate", "nothing", "--add-all")

	require.NoError(t, err)
	assert.Contains(t, out, "AI generated no tasks for this prompt.")
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"invalid key", llm.ErrInvalidCredential, "apikey set"},
		{"quota", llm.ErrQuotaExceeded, "quota"},
		{"unavailable", llm.ErrProviderUnavailable, "try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, fake := testApp(t)
			fake.err = tt.err
			loginAlice(t, app)

			_, err := executeCmd(t, app, "generate", "plan a trip")

			assert.ErrorIs(t, err, tt.err)
			assert.ErrorContains(t, err, tt.hint)
		})
	}
}

func TestGenerate_InteractiveUsesReviewScreen(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)
	app.IsInteractive = func() bool { return true }

	var ran bool
	app.RunProgram = func(ctx context.Context, m tea.Model) (tea.Model, error) {
		ran = true
		d := teatest.New(t, m, teatest.WithCmdTimeout(5*time.Second))
		d.PressEnter()
		d.PressKey('q')
		return d.Model, nil
	}

	out, err := executeCmd(t, app, "generate", "plan a trip")

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Contains(t, out, "1/3")

	active, _, err := sessionClient(t, app).ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Research destinations", active[0].Title)
}

// --- Alarms ---

func TestAlarmsLifecycle(t *testing.T) {
	app, _ := testApp(t)
	loginAlice(t, app)

	out, err := executeCmd(t, app, "alarms", "add", "--title", "Wake up", "--at", "07:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Alarm set for Tomorrow 07:30.")

	alarms, err := sessionClient(t, app).ListAlarms(context.Background())
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	a := alarms[0]
	assert.Equal(t, "2025-06-02T07:30:00.000Z", a.Time)
	assert.True(t, a.IsActive)

	out, err = executeCmd(t, app, "alarms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Wake up")
	assert.Contains(t, out, "● ON")

	out, err = executeCmd(t, app, "alarms", "toggle", a.ID[:6])
	require.NoError(t, err)
	assert.Contains(t, out, "○ OFF")

	out, err = executeCmd(t, app, "alarms", "remove", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Alarm deleted.")

	alarms, err = sessionClient(t, app).ListAlarms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alarms)
}

// --- Serve ---

func TestServe_RequiresJWTSecret(t *testing.T) {
	app, _ := testApp(t)
	app.Config.JWTSecret = ""

	_, err := executeCmd(t, app, "serve", "--db", ":memory:")

	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-03T10:00:00Z", time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)},
		{"2025-06-03 10:15", time.Date(2025, 6, 3, 10, 15, 0, 0, time.UTC)},
		{"2025-06-03", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"09:00", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		{"07:00", time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWhen(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := parseWhen("soon", now)
	assert.Error(t, err)
}

func TestHHMM(t *testing.T) {
	assert.Equal(t, "00:30", hhmm(30*time.Minute))
	assert.Equal(t, "01:00", hhmm(time.Hour))
	assert.Equal(t, "25:05", hhmm(25*time.Hour+5*time.Minute))
}

func TestSession_MissingFileIsEmpty(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Session{}, s)
	assert.NoError(t, ClearSession(filepath.Join(t.TempDir(), "none.yaml")))
}

func TestServerURLPrecedence(t *testing.T) {
	app := &App{Config: &config.Config{ServerURL: "http://config"}}
	assert.Equal(t, "http://config", app.serverURL(&Session{}))
	assert.Equal(t, "http://session", app.serverURL(&Session{ServerURL: "http://session"}))
	app.serverOverride = "http://flag"
	assert.Equal(t, "http://flag", app.serverURL(&Session{ServerURL: "http://session"}))
}
