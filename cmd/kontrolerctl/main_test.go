package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineYAML = `
name: etlpipeline
schedule: "0 12 * * *"
tasks:
  - name: extract
    image: alpine
    command: ["sh", "-c", "true"]
    args: []
    retryCodes: []
  - name: load
    image: alpine
    command: ["sh", "-c", "true"]
    args: []
    retryCodes: []
    runAfter: [extract]
`

const brokenYAML = `
name: etl-pipeline
tasks:
  - name: extract
    image: alpine
    args: []
    retryCodes: []
    runAfter: [extract]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		out, err := run(t, "validate", writeFile(t, "dag.yaml", pipelineYAML))

		require.NoError(t, err)
		assert.Contains(t, out, "DAG etlpipeline is valid (2 tasks)")
	})

	t.Run("invalid document", func(t *testing.T) {
		out, err := run(t, "validate", writeFile(t, "dag.yaml", brokenYAML))

		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "- Invalid DAG name: should contain only alphabetic characters.")
		assert.Contains(t, out, `- Task "extract" is missing a command. Must be an array of strings`)
		assert.Contains(t, out, `- Task "extract" has itself listed in runAfter, which is not allowed.`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestRenderCommand(t *testing.T) {
	path := writeFile(t, "dag.yaml", pipelineYAML)

	t.Run("svg", func(t *testing.T) {
		out, err := run(t, "render", path, "--select", "load")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg"))
		assert.Contains(t, out, `data-task="extract"`)
		assert.Contains(t, out, `class="node selected"`)
	})

	t.Run("dot", func(t *testing.T) {
		out, err := run(t, "render", path, "-f", "dot")

		require.NoError(t, err)
		assert.Contains(t, out, `"extract" -> "load"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "render", path, "-f", "png")
		assert.Error(t, err)
	})

	t.Run("unknown selection", func(t *testing.T) {
		_, err := run(t, "render", path, "--select", "publish")
		assert.Error(t, err)
	})
}

func TestPreviewCommand(t *testing.T) {
	t.Run("schedule from file", func(t *testing.T) {
		out, err := run(t, "preview", writeFile(t, "dag.yaml", pipelineYAML), "-n", "3")

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Contains(t, line, "T12:00:00")
		}
	})

	t.Run("explicit schedule", func(t *testing.T) {
		out, err := run(t, "preview", "--schedule", "*/15 * * * *", "-n", "2")

		require.NoError(t, err)
		assert.Contains(t, out, "warning: the backend will reject this schedule")
	})

	t.Run("no schedule", func(t *testing.T) {
		out, err := run(t, "preview", writeFile(t, "dag.yaml", brokenYAML))

		require.NoError(t, err)
		assert.Contains(t, out, "DAG has no schedule")
	})

	t.Run("nothing to preview", func(t *testing.T) {
		_, err := run(t, "preview")
		assert.Error(t, err)
	})
}

func TestSubmitCommand(t *testing.T) {
	var received models.DagFormObj
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dag/create", r.URL.Path)
		cookie, err := r.Cookie(client.CookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "secret", cookie.Value)
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "DAG created"})
	}))
	defer server.Close()

	out, err := run(t, "submit", writeFile(t, "dag.yaml", pipelineYAML), "--api-url", server.URL, "--token", "secret")

	require.NoError(t, err)
	assert.Contains(t, out, "DAG created")
	assert.Equal(t, "etlpipeline", received.Name)
	assert.Len(t, received.Tasks, 2)

	t.Run("invalid document is not sent", func(t *testing.T) {
		_, err := run(t, "submit", writeFile(t, "dag.yaml", brokenYAML), "--api-url", "http://backend.invalid")
		assert.ErrorIs(t, err, errInvalid)
	})
}

func TestLogsCommandRejectsHTTPURL(t *testing.T) {
	_, err := run(t, "logs", "pod-1", "--ws-url", "http://localhost:8082")
	assert.Error(t, err)
}
