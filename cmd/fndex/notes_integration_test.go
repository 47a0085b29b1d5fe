package main_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkflowID = "0f6b2b8e-6c2a-4f3e-9df6-0a4f1f0c2b11"

// runNotes executes an fndex notes command against a local test server,
// with the token environment variable set, and returns stdout.
func runNotes(t *testing.T, bin, dir, baseURL string, args ...string) ([]byte, error) {
	t.Helper()
	fullArgs := append([]string{"notes"}, args...)
	fullArgs = append(fullArgs, "--base-url", baseURL)
	cmd := exec.Command(bin, fullArgs...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "FNDEX_DATAVERSE_TOKEN=local-test-token")
	return cmd.Output()
}

func TestNotes_PullFromLocalServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture, _ := createRepoFixture(t)

	notesJSON := `{"version":1,"entries":[{"function":"add","note":"watch float rounding","pinned":true,"updatedAt":"2024-05-01T10:00:00Z"}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer local-test-token", r.Header.Get("Authorization"))
		if r.URL.Path != "/api/data/v9.2/workflows("+testWorkflowID+")" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"workflowid":            testWorkflowID,
			"name":                  "Invoice approval",
			"fndex_expressionnotes": notesJSON,
		})
	}))
	defer server.Close()

	stdout, err := runNotes(t, bin, fixture, server.URL, "pull", testWorkflowID)
	require.NoError(t, err, "notes pull failed: %s", string(stdout))

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result))
	assert.Equal(t, "notes-pull", result["command"])
	assert.Empty(t, result["error"])

	rows, ok := result["results"].([]any)
	require.True(t, ok, "results should be an array")
	require.Len(t, rows, 1)

	row := rows[0].(map[string]any)
	assert.Equal(t, testWorkflowID, row["workflow_id"])
	assert.EqualValues(t, 1, row["version"])

	entries, ok := row["entries"].([]any)
	require.True(t, ok, "entries should be an array")
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "add", entry["function"])
	assert.Equal(t, "watch float rounding", entry["note"])
	assert.Equal(t, true, entry["pinned"])
}

func TestNotes_PushToLocalServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture, _ := createRepoFixture(t)

	var mu sync.Mutex
	var gotMethod string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod = r.Method
		gotBody = body
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notesPath := filepath.Join(t.TempDir(), "notes.json")
	doc := `{"version":1,"entries":[{"function":"guid","note":"format P everywhere"}]}`
	require.NoError(t, os.WriteFile(notesPath, []byte(doc), 0o644))

	fullArgs := []string{"notes", "push", testWorkflowID, "--file", notesPath, "--base-url", server.URL}
	cmd := exec.Command(bin, fullArgs...)
	cmd.Dir = fixture
	cmd.Env = append(os.Environ(), "FNDEX_DATAVERSE_TOKEN=local-test-token")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "notes push failed: %s", string(out))
	assert.Contains(t, string(out), "Pushed 1 note entries")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPatch, gotMethod)

	// The request body wraps the document in the single custom field.
	var payload map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	stored, ok := payload["fndex_expressionnotes"]
	require.True(t, ok, "payload should carry the notes field")
	assert.Contains(t, stored, `"function":"guid"`)
}

func TestNotes_ListWorkflows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture, _ := createRepoFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/workflows", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("$top"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{"workflowid": testWorkflowID, "name": "Invoice approval", "category": 0},
			},
		})
	}))
	defer server.Close()

	stdout, err := runNotes(t, bin, fixture, server.URL, "workflows", "--top", "5")
	require.NoError(t, err, "notes workflows failed: %s", string(stdout))

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result))
	assert.Equal(t, "notes-workflows", result["command"])

	rows, ok := result["results"].([]any)
	require.True(t, ok, "results should be an array")
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, testWorkflowID, row["workflow_id"])
	assert.Equal(t, "Invoice approval", row["name"])
}

func TestNotes_MissingBaseURL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture, _ := createRepoFixture(t)
	// No --base-url flag and no config file in the fixture.

	cmd := exec.Command(bin, "notes", "pull", testWorkflowID)
	cmd.Dir = fixture
	stdout, err := cmd.Output()
	require.Error(t, err, "pull without a configured URL should fail")

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result))
	assert.Contains(t, result["error"], "no Dataverse URL configured")
}

func TestNotes_ConfigFileProvidesBaseURL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture, _ := createRepoFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{}})
	}))
	defer server.Close()

	// The default config location is .fndex/notes.yaml under the repo root.
	cfgDir := filepath.Join(fixture, ".fndex")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	cfg := "base_url: " + server.URL + "\ntoken_env: FNDEX_TEST_TOKEN\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "notes.yaml"), []byte(cfg), 0o644))

	cmd := exec.Command(bin, "notes", "workflows")
	cmd.Dir = fixture
	cmd.Env = append(os.Environ(), "FNDEX_TEST_TOKEN=from-config-token")
	stdout, err := cmd.Output()
	require.NoError(t, err, "notes workflows failed: %s", string(stdout))

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result))
	assert.Equal(t, "notes-workflows", result["command"])
	assert.Empty(t, result["error"])
}
