package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	log, err := New(Config{Level: "info", OutputPaths: []string{out}})
	require.NoError(t, err)

	log.With(Component("ingest")).Info("ingest complete", Int("issues", 3), String("output", "issues.json"))
	log.Debug("hidden")
	log.Warn("download failed", Error(errors.New("boom")))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ingest complete", entry["msg"])
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, float64(3), entry["issues"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("DEBUG").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "error", parseLevel("error").String())
	assert.Equal(t, "info", parseLevel("").String())
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", String("k", "v"))
	assert.Same(t, l, l.With(Int("n", 1)))
	assert.NoError(t, l.Sync())
}
