package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYAML = `_version: "1"
_schema:
  group_intro/recording:
    manual_transcription:
      - language: fr
      - language: en
`

const payloadYAML = `_version: "1"
_submission: 3f2b6f5e-7c1a-4f0e-9b8d-2a6c4e1d5f7a
group_intro/recording:
  manual_transcription:
    language: en
    transcript: No idea
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	doc, err := LoadDocument(writeFile(t, dir, "config.yaml", configYAML))
	require.NoError(t, err)
	assert.Equal(t, "1", doc["_version"])

	// JSON is a YAML subset; the same loader handles both.
	doc, err = LoadDocument(writeFile(t, dir, "config.json", `{"_version": "1", "_schema": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "1", doc["_version"])

	_, err = LoadDocument(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSchemaCommand_Composed(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var composed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &composed))
	props := composed["properties"].(map[string]any)
	assert.Contains(t, props, "_version")
	assert.Contains(t, props, "_schema")
}

func TestSchemaCommand_ActionWithLanguages(t *testing.T) {
	out, err := execute(t, "schema", "manual_transcription", "--languages", "fr,en")
	require.NoError(t, err)

	var schemas map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schemas))
	assert.Contains(t, schemas, "params")
	assert.Contains(t, schemas, "data")
	assert.Contains(t, schemas, "result")

	enum := schemas["data"].(map[string]any)["properties"].(map[string]any)["language"].(map[string]any)["enum"].([]any)
	assert.Equal(t, []any{"fr", "en"}, enum)
}

func TestSchemaCommand_UnknownAction(t *testing.T) {
	_, err := execute(t, "schema", "automatic_levitation")
	assert.Error(t, err)
}

func TestValidateConfigCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "validate-config", writeFile(t, dir, "ok.yaml", configYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	bad := `_version: "0"
_schema: {}
`
	_, err = execute(t, "validate-config", writeFile(t, dir, "bad.yaml", bad))
	assert.Error(t, err)
}

func TestApplyAndShow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "supplemental.db")
	config := writeFile(t, dir, "config.yaml", configYAML)
	payload := writeFile(t, dir, "payload.yaml", payloadYAML)

	out, err := execute(t, "apply", "--db", db, "--asset", "aBcDeF123", "--config", config, payload)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	record := doc["group_intro/recording"].(map[string]any)["manual_transcription"].(map[string]any)
	assert.Equal(t, "No idea", record["transcript"])
	assert.Contains(t, record, "_dateCreated")

	out, err = execute(t, "show", "--db", db, "--asset", "aBcDeF123")
	require.NoError(t, err)
	assert.Contains(t, out, "3f2b6f5e-7c1a-4f0e-9b8d-2a6c4e1d5f7a")

	out, err = execute(t, "show", "--db", db, "--asset", "aBcDeF123", "3f2b6f5e-7c1a-4f0e-9b8d-2a6c4e1d5f7a")
	require.NoError(t, err)
	assert.Contains(t, out, "No idea")
}

func TestApply_RejectsUnconfiguredQuestion(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "supplemental.db")
	config := writeFile(t, dir, "config.yaml", configYAML)

	bad := `_version: "1"
_submission: 3f2b6f5e-7c1a-4f0e-9b8d-2a6c4e1d5f7a
never_configured:
  manual_transcription:
    language: en
    transcript: nope
`
	payload := writeFile(t, dir, "payload.yaml", bad)

	_, err := execute(t, "apply", "--db", db, "--asset", "aBcDeF123", "--config", config, payload)
	assert.Error(t, err)
}
