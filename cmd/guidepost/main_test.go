package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"chunking strategies", "-min-keyword-score", "0.5"},
			expected: []string{"-min-keyword-score", "0.5", "chunking strategies"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-min-keyword-score", "0.5", "chunking strategies"},
			expected: []string{"-min-keyword-score", "0.5", "chunking strategies"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"chunking strategies"},
			expected: []string{"chunking strategies"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-limit", "5"},
			expected: []string{"-limit", "5", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"embeddings"}, "embeddings"},
		{"multiple words", []string{"chunking", "strategies"}, "chunking strategies"},
		{"single quoted phrase", []string{"chunking strategies"}, "chunking strategies"},
		{"three words", []string{"prompt", "design", "patterns"}, "prompt design patterns"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
		{"one space", []string{" "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "rag", []string{"rag"}},
		{"multiple", "rag,retrieval", []string{"rag", "retrieval"}},
		{"spaces around commas", " rag , retrieval ", []string{"rag", "retrieval"}},
		{"trailing comma", "rag,", []string{"rag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTags(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputFormatFromFlag(t *testing.T) {
	if f, err := outputFormatFromFlag("text"); err != nil || string(f) != "text" {
		t.Errorf("outputFormatFromFlag(text) = %v, %v", f, err)
	}
	if f, err := outputFormatFromFlag("json"); err != nil || string(f) != "json" {
		t.Errorf("outputFormatFromFlag(json) = %v, %v", f, err)
	}
	if _, err := outputFormatFromFlag("yaml"); err == nil {
		t.Error("outputFormatFromFlag(yaml) should fail")
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
corpus:
  root: "./guides"
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./guidepost.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
corpus:
  root: "./guides"
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "./guidepost.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}
