package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("STUDYMENTOR_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STUDYMENTOR_EXPORT_DIR", filepath.Join(dir, "exports"))
	configPath = ""
	noMarkdown = false
	return dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "studymentor dev (none)\n", out)
}

func TestConfig_PrintsEffectiveValues(t *testing.T) {
	dir := isolate(t)
	t.Setenv("STUDYMENTOR_DEFAULT_PROVIDER", "Gemini")

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "default_provider: Gemini")
	assert.Contains(t, out, filepath.Join(dir, "data"))
}

func TestConfig_Write(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "config.yaml")

	_, err := run(t, "config", "--write", "--path", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "--write", "--path", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestStats_NothingSaved(t *testing.T) {
	isolate(t)
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No statistics saved yet.")
}

func TestExport_TextAndList(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	history := "[\n  \"[2026-01-01 10:00:00] Q: hi\",\n  \"[2026-01-01 10:00:00] A: hello\"\n]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "study_history.json"), []byte(history), 0644))

	out, err := run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved → ")

	out, err = run(t, "exports")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], ".txt"))

	data, err := os.ReadFile(lines[0])
	require.NoError(t, err)
	assert.Equal(t, "[2026-01-01 10:00:00] Q: hi\n[2026-01-01 10:00:00] A: hello\n", string(data))
}

func TestExport_EmptyHistory(t *testing.T) {
	isolate(t)
	out, err := run(t, "export", "--format", "xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "No history.")
}

func TestExport_BadFormat(t *testing.T) {
	isolate(t)
	_, err := run(t, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	isolate(t)
	_, err := run(t, "ask")
	assert.Error(t, err)
}

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestDoctor_ProbesEachProviderWithItsOwnModels(t *testing.T) {
	isolate(t)

	var openaiSeen, geminiSeen recorder
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		openaiSeen.add(string(b))
		w.Write([]byte(`{"choices": [{"message": {"content": "test successful"}}]}`))
	}))
	defer openai.Close()
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geminiSeen.add(r.URL.Path)
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "test successful"}]}}]}`))
	}))
	defer gemini.Close()

	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("STUDYMENTOR_PROVIDERS_OPENAI_BASE_URL", openai.URL)
	t.Setenv("STUDYMENTOR_PROVIDERS_GEMINI_BASE_URL", gemini.URL)

	out, err := run(t, "doctor", "--probe", "--gemini-models", "gemini-x")
	require.NoError(t, err)

	for _, body := range openaiSeen.all() {
		assert.NotContains(t, body, "gemini-x")
	}
	assert.Contains(t, geminiSeen.all(), "/models/gemini-x:generateContent")
	assert.Contains(t, out, "use model: gemini-x")
	assert.Contains(t, out, "use model: gpt-4o-mini")
}
