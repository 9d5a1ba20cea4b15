package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
	tmdb       *httptest.Server
	llm        *httptest.Server
	llmCalls   atomic.Int32
	llmReply   string
	llmStatus  int
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"TMDB_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:   base,
		llmReply:  "Parasite (2019)\nMemories of Murder",
		llmStatus: http.StatusOK,
	}
	env.tmdb = httptest.NewServer(http.HandlerFunc(env.serveTMDB))
	t.Cleanup(env.tmdb.Close)
	env.llm = httptest.NewServer(http.HandlerFunc(env.serveGemini))
	t.Cleanup(env.llm.Close)

	env.configPath = filepath.Join(base, "cinepick.toml")
	writeTestConfig(t, env)
	return env
}

func (env *cliTestEnv) serveTMDB(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/search/movie":
		results := []map[string]any{}
		if r.URL.Query().Get("query") == "Parasite" {
			results = append(results,
				map[string]any{"id": 496243, "title": "Parasite", "original_language": "ko", "release_date": "2019-05-30", "vote_average": 8.5, "poster_path": "/p.jpg"},
				map[string]any{"id": 1, "title": "Parasite", "original_language": "en", "release_date": "1982-03-12"},
			)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"page": 1, "results": results})
	case r.URL.Path == "/movie/496243/videos":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 496243, "results": []map[string]any{
			{"key": "teaser", "site": "YouTube", "type": "Teaser"},
			{"key": "5xH0HfJHsaY", "site": "YouTube", "type": "Trailer"},
		}})
	case strings.HasPrefix(r.URL.Path, "/movie/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 0, "results": []any{}})
	default:
		http.NotFound(w, r)
	}
}

func (env *cliTestEnv) serveGemini(w http.ResponseWriter, r *http.Request) {
	env.llmCalls.Add(1)
	if env.llmStatus != http.StatusOK {
		w.WriteHeader(env.llmStatus)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": env.llmReply}}}},
		},
	})
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
log_dir = ""

[tmdb]
api_key = "tmdb-test-key"
base_url = %q

[llm]
provider = "gemini"
api_key = "llm-test-key"
base_url = %q
model = "gemini-test"

[logging]
level = "error"
`,
		filepath.Join(env.baseDir, "data"),
		filepath.Join(env.baseDir, "cache"),
		env.tmdb.URL,
		env.llm.URL,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
