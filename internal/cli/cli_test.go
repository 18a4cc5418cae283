package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luo-one/inbox-agent/internal/api/middleware"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/database"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = dir

	db, err := database.Initialize(filepath.Join(dir, "agent.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logService := services.NewLogService(db)
	logService.Logger().SetOutput(io.Discard)

	keys, err := middleware.NewAPIKeyManager(dir)
	require.NoError(t, err)

	return &App{Config: cfg, LogService: logService, APIKeys: keys}
}

func execute(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunSampleText(t *testing.T) {
	out, err := execute(t, newTestApp(t), "", "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Processed 5 emails")
	assert.Contains(t, out, "important: 3  marketing: 2")
	assert.Contains(t, out, "replies drafted: 3  unsubscribes: 1  pending: 1")
	assert.Contains(t, out, "| Best regards,")
	assert.Contains(t, out, " ago")
}

func TestRunSampleJSON(t *testing.T) {
	out, err := execute(t, newTestApp(t), "", "run", "--json", "--aggressiveness", "aggressive", "--tone", "very_formal")
	require.NoError(t, err)

	var result functions.ProcessResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Emails, 5)
	assert.Equal(t, 2, result.Summary.AutoUnsubscribes)
	assert.Equal(t, 0, result.Summary.Pending)
	assert.Contains(t, result.Emails[0].ReplyDraft, "Respectfully,")
}

func TestRunJSONSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"n1","sender":"news@shop.com","subject":"Weekly newsletter","body":"Our deals","unsubscribeLink":"https://shop.com/u"}
	]`), 0644))

	out, err := execute(t, newTestApp(t), "", "run", "--source", "json", "--path", path, "--json")
	require.NoError(t, err)

	var result functions.ProcessResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Emails, 1)
	assert.Equal(t, 1, result.Summary.AutoUnsubscribes)
}

func TestRunRejectsBadFlags(t *testing.T) {
	app := newTestApp(t)

	_, err := execute(t, app, "", "run", "--tone", "casual")
	assert.Error(t, err)

	_, err = execute(t, app, "", "run", "--source", "json")
	assert.Error(t, err)

	_, err = execute(t, app, "", "run", "--source", "imap")
	assert.Error(t, err)

	_, err = execute(t, app, "", "run", "--source", "pop3")
	assert.Error(t, err)
}

func TestKeyShowAndReset(t *testing.T) {
	app := newTestApp(t)
	original := app.APIKeys.GetCurrentKey()

	out, err := execute(t, app, "", "key", "show")
	require.NoError(t, err)
	assert.Contains(t, out, original)

	out, err = execute(t, app, "no\n", "key", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, original, app.APIKeys.GetCurrentKey())

	out, err = execute(t, app, "yes\n", "key", "reset")
	require.NoError(t, err)
	assert.NotEqual(t, original, app.APIKeys.GetCurrentKey())
	assert.Contains(t, out, app.APIKeys.GetCurrentKey())

	_, err = execute(t, app, "", "key", "reset", "--yes")
	require.NoError(t, err)
}

func TestLogsCommand(t *testing.T) {
	app := newTestApp(t)

	_, err := execute(t, app, "", "run")
	require.NoError(t, err)

	out, err := execute(t, app, "", "logs", "--module", "agent")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 log entries")
	assert.Contains(t, out, "Inbox processed")
}
