package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaplan-michael/neecathon-bank/pkg/database"
	"github.com/kaplan-michael/neecathon-bank/pkg/roles"
)

// fakeSlack creates channels named after the request, except the ones listed
// in failing.
func fakeSlack(t *testing.T, failing ...string) (string, func() map[string]bool) {
	t.Helper()
	var mu sync.Mutex
	private := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		name := r.PostForm.Get("name")
		for _, f := range failing {
			if f == name {
				io.WriteString(w, `{"ok":false,"error":"name_taken"}`)
				return
			}
		}
		mu.Lock()
		private[name] = r.PostForm.Get("is_private") == "true"
		mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"channel":{"id":"C_%s","name":"%s"}}`, strings.ToUpper(name), name)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/", func() map[string]bool {
		mu.Lock()
		defer mu.Unlock()
		return private
	}
}

func TestInitWritesEnvFile(t *testing.T) {
	apiURL, created := fakeSlack(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	var out bytes.Buffer

	err := runInit(context.Background(), initConfig{
		envFile:        envFile,
		sqliteFile:     "bank.db",
		logsChannel:    "logs",
		staffChannel:   "staff",
		supportChannel: "support",
		apiURL:         apiURL,
	}, strings.NewReader("s3cr3t\nxoxp-123\n"), &out, log.New(io.Discard))
	require.NoError(t, err)

	env, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"NEECATHON_SQLITE_FILENAME": "bank.db",
		"SLACK_SIGNING_SECRET":      "s3cr3t",
		"SLACK_USER_TOKEN":          "xoxp-123",
		"SLACK_LOGS_CHANNEL_ID":     "C_LOGS",
		"SLACK_STAFF_CHANNEL_ID":    "C_STAFF",
		"SLACK_SUPPORT_CHANNEL_ID":  "C_SUPPORT",
	}, env)
	assert.Equal(t, map[string]bool{"logs": true, "staff": true, "support": false}, created())
	assert.Contains(t, out.String(), "Slack signing secret: ")
	assert.Contains(t, out.String(), "Configuration written to "+envFile)
}

func TestInitSkipsChannelsThatFail(t *testing.T) {
	apiURL, _ := fakeSlack(t, "staff")
	envFile := filepath.Join(t.TempDir(), ".env")

	err := runInit(context.Background(), initConfig{
		envFile:        envFile,
		signingSecret:  "s3cr3t",
		userToken:      "xoxp-123",
		logsChannel:    "logs",
		staffChannel:   "staff",
		supportChannel: "support",
		apiURL:         apiURL,
	}, strings.NewReader(""), io.Discard, log.New(io.Discard))
	require.NoError(t, err)

	env, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "C_LOGS", env["SLACK_LOGS_CHANNEL_ID"])
	assert.NotContains(t, env, "SLACK_STAFF_CHANNEL_ID")
}

func TestInitRefusesToOverwrite(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLACK_USER_TOKEN=keep\n"), 0o600))

	err := runInit(context.Background(), initConfig{envFile: envFile}, strings.NewReader(""), io.Discard, log.New(io.Discard))

	require.Error(t, err)
	content, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "SLACK_USER_TOKEN=keep\n", string(content))
}

func TestInitRequiresSecrets(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	err := runInit(context.Background(), initConfig{envFile: envFile}, strings.NewReader("\n"), io.Discard, log.New(io.Discard))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack signing secret is required")
	assert.NoFileExists(t, envFile)
}

func TestGrantAdmin(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "bank.db")
	var out bytes.Buffer
	cmd := makeSetupCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"grant-admin", "UADMIN", "--sqlite-file", dbFile})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "UADMIN is now admin\n", out.String())

	store, err := database.Open(dbFile)
	require.NoError(t, err)
	defer store.Close()
	role, err := store.UserRole(context.Background(), "UADMIN")
	require.NoError(t, err)
	assert.Equal(t, roles.Admin, role)
}

func TestGrantStaffRole(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "bank.db")
	cmd := makeSetupCommand()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"grant-admin", "USTAFF", "--sqlite-file", dbFile, "--role", "staff"})
	require.NoError(t, cmd.Execute())

	cmd = makeSetupCommand()
	cmd.SetArgs([]string{"grant-admin", "USTAFF", "--sqlite-file", dbFile, "--role", "overlord"})
	assert.Error(t, cmd.Execute())

	store, err := database.Open(dbFile)
	require.NoError(t, err)
	defer store.Close()
	role, err := store.UserRole(context.Background(), "USTAFF")
	require.NoError(t, err)
	assert.Equal(t, roles.Staff, role)
}
