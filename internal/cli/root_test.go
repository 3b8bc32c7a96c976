package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tides", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "create", "list", "flow", "end", "show", "insights", "version"}

	for _, name := range commands {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	for _, name := range []string{"store", "config-dir"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
	}
}

// --- end-to-end through Execute ---

type cliEnv struct {
	store     string
	configDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, key := range []string{"TIDES_CONFIG_DIR", "TIDES_STORE_PATH", "TIDES_STORAGE_PATH", "TIDES_LOG_LEVEL", "TIDES_JOURNAL_ENABLED", "TIDES_JOURNAL_PATH"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return &cliEnv{
		store:     filepath.Join(dir, "data", "tides.json"),
		configDir: filepath.Join(dir, "config"),
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--store", e.store, "--config-dir", e.configDir}, args...)
	code = Execute(full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// runJSON runs a command with --format json and decodes the envelope.
func (e *cliEnv) runJSON(t *testing.T, args ...string) (map[string]any, int) {
	t.Helper()
	stdout, stderr, code := e.run(t, append([]string{"--format", "json"}, args...)...)
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout=%q stderr=%q", stdout, stderr)
	return resp, code
}

func dataField(t *testing.T, resp map[string]any, key string) any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data[key]
}

func TestCLI_Lifecycle(t *testing.T) {
	env := newCLIEnv(t)

	resp, code := env.runJSON(t, "create", "Morning Deep Work", "--type", "daily")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "ok", resp["status"])
	id, _ := dataField(t, resp, "id").(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "active", dataField(t, resp, "status"))

	resp, code = env.runJSON(t, "flow", id, "--intensity", "strong", "--insight", "closed the door")
	require.Equal(t, ExitSuccess, code)
	flow, ok := dataField(t, resp, "flow").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "strong", flow["intensity"])
	assert.EqualValues(t, 50, flow["duration_minutes"])

	resp, code = env.runJSON(t, "end", id, "--note", "done")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "completed", dataField(t, resp, "status"))
	assert.Equal(t, "done", dataField(t, resp, "completion_note"))

	stdout, _, code := env.run(t, "show", id)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Morning Deep Work")
	assert.Contains(t, stdout, "closed the door")

	stdout, _, code = env.run(t, "insights", "door")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "closed the door")
}

func TestCLI_ListFilters(t *testing.T) {
	env := newCLIEnv(t)
	_, _, code := env.run(t, "create", "Review", "-t", "weekly")
	require.Equal(t, ExitSuccess, code)
	_, _, code = env.run(t, "create", "Pages", "-t", "daily")
	require.Equal(t, ExitSuccess, code)

	stdout, _, code := env.run(t, "--format", "json", "list", "--type", "weekly", "--active")
	require.Equal(t, ExitSuccess, code)
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Review", resp.Data[0]["name"])

	stdout, _, code = env.run(t, "list", "--status", "paused")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No tides found.\n", stdout)
}

func TestCLI_YAMLOutput(t *testing.T) {
	env := newCLIEnv(t)
	stdout, _, code := env.run(t, "--format", "yaml", "create", "Garden", "--type", "seasonal")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string         `yaml:"status"`
		Data   map[string]any `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Garden", resp.Data["name"])
	assert.Equal(t, "seasonal", resp.Data["tide_type"])
}

func TestCLI_ExitCodes(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, code := env.run(t, "show", "tide_missing")
	assert.Equal(t, ExitUserError, code)
	assert.Contains(t, stderr, "not found")

	resp, code := env.runJSON(t, "flow", "tide_missing")
	assert.Equal(t, ExitUserError, code)
	assert.Equal(t, "error", resp["status"])
	errObj, _ := resp["error"].(map[string]any)
	assert.Equal(t, "not_found", errObj["code"])

	_, _, code = env.run(t, "create", "x", "--type", "hourly")
	assert.Equal(t, ExitUserError, code)

	_, _, code = env.run(t, "--format", "xml", "version")
	assert.Equal(t, ExitUserError, code)

	_, _, code = env.run(t, "flow", "tide_x", "--cadence-days", "-2")
	assert.Equal(t, ExitUserError, code)

	require.NoError(t, os.MkdirAll(filepath.Dir(env.store), 0o755))
	require.NoError(t, os.WriteFile(env.store, []byte("{not json"), 0o644))
	resp, code = env.runJSON(t, "list")
	assert.Equal(t, ExitSysError, code)
	errObj, _ = resp["error"].(map[string]any)
	assert.Equal(t, "corrupt_store", errObj["code"])

	data, err := os.ReadFile(env.store)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "corrupt store must be left untouched")
}

func TestCLI_InsightsDisabled(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("journal:\n  enabled: false\n"), 0o644))

	_, stderr, code := env.run(t, "insights")
	assert.Equal(t, ExitUserError, code)
	assert.Contains(t, stderr, "journal is disabled")
}

func TestCLI_Version(t *testing.T) {
	env := newCLIEnv(t)
	stdout, _, code := env.run(t, "version")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "tides vdev\n", stdout)
}

func TestCLI_ReadOnlyCommandsLeaveNoJournal(t *testing.T) {
	env := newCLIEnv(t)
	journalPath := filepath.Join(filepath.Dir(env.store), "journal.db")

	_, _, code := env.run(t, "list")
	require.Equal(t, ExitSuccess, code)
	_, _, code = env.run(t, "show", "tide_missing")
	require.Equal(t, ExitUserError, code)

	assert.NoFileExists(t, env.store)
	assert.NoFileExists(t, journalPath)

	resp, code := env.runJSON(t, "create", "Pages", "--type", "daily")
	require.Equal(t, ExitSuccess, code)
	id, _ := dataField(t, resp, "id").(string)
	assert.NoFileExists(t, journalPath, "create does not touch the journal")

	_, _, code = env.run(t, "flow", id, "--insight", "morning light")
	require.Equal(t, ExitSuccess, code)
	assert.FileExists(t, journalPath)
}

func TestCLI_FlowBounds(t *testing.T) {
	env := newCLIEnv(t)
	resp, code := env.runJSON(t, "create", "Novel", "--type", "project")
	require.Equal(t, ExitSuccess, code)
	id, _ := dataField(t, resp, "id").(string)

	tests := []struct {
		name string
		args []string
	}{
		{"duration over a day", []string{"--duration", "1441"}},
		{"cadence over ten years", []string{"--cadence-days", "1000000"}},
		{"sub-minute cadence", []string{"--cadence-days", "0.000000000001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, code := env.runJSON(t, append([]string{"flow", id}, tt.args...)...)
			assert.Equal(t, ExitUserError, code)
			errObj, _ := resp["error"].(map[string]any)
			assert.Equal(t, "validation", errObj["code"])
		})
	}

	resp, code = env.runJSON(t, "flow", id, "--duration", "1440", "--cadence-days", "3650")
	require.Equal(t, ExitSuccess, code)
	flow, _ := dataField(t, resp, "flow").(map[string]any)
	assert.EqualValues(t, 1440, flow["duration_minutes"])
}
