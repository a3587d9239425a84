// Package config provides configuration loading and structs for the Guidepost server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Search    SearchConfig    `yaml:"search"`
	Lint      LintConfig      `yaml:"lint"`
	Watch     WatchConfig     `yaml:"watch"`
}

// CorpusConfig describes where the Markdown guides live and which files belong
// to the corpus. Include and Exclude are doublestar glob patterns relative to Root.
type CorpusConfig struct {
	Root    string   `yaml:"root"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// AllowedOrigins are CORS origins for the documentation site consuming the API.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds paths for database and indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds embedding provider settings.
// Provider is "api" (OpenAI-compatible /embeddings endpoint) or "mock".
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
	CacheSize  int    `yaml:"cache_size"`
	// Cache is "memory" (in-process LRU) or "redis" (shared cache).
	Cache     string `yaml:"cache"`
	RedisAddr string `yaml:"redis_addr"`
}

// VectorConfig selects the vector index backend: "memory" or "qdrant".
type VectorConfig struct {
	Backend          string `yaml:"backend"`
	QdrantHost       string `yaml:"qdrant_host"`
	QdrantPort       int    `yaml:"qdrant_port"`
	QdrantCollection string `yaml:"qdrant_collection"`
}

// SearchConfig holds search and chunking settings.
type SearchConfig struct {
	DefaultLimit            int     `yaml:"default_limit"`
	MaxLimit                int     `yaml:"max_limit"`
	ChunkSize               int     `yaml:"chunk_size"`
	ChunkOverlap            int     `yaml:"chunk_overlap"`
	TopKCandidates          int     `yaml:"top_k_candidates"`
	KeywordTitleBoost       float64 `yaml:"keyword_title_boost"`
	TagBoost                float64 `yaml:"tag_boost"`
	DefaultMinKeywordScore  float64 `yaml:"default_min_keyword_score"`
	DefaultMinSemanticScore float64 `yaml:"default_min_semantic_score"`
}

// LintConfig holds documentation hygiene settings.
type LintConfig struct {
	// RequiredFrontMatter lists front matter keys every guide must carry.
	RequiredFrontMatter []string `yaml:"required_front_matter"`
	// CompressedLineThreshold is the minimum length of a fence line containing
	// literal \n escapes before it is reported as a flattened code block.
	CompressedLineThreshold int `yaml:"compressed_line_threshold"`
	// DisabledRules lists rule IDs to skip (e.g. "fence/language").
	DisabledRules []string `yaml:"disabled_rules"`
}

// WatchConfig holds corpus watch settings.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled"`
	Recursive  *bool `yaml:"recursive"`
	DebounceMS int   `yaml:"debounce_ms"`
}

// EnabledOrDefault returns whether watching is enabled; defaults to true when unset.
func (w *WatchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, applies defaults,
// and overlays environment variables. A .env file in the working directory is
// honored (godotenv) so deployments can keep secrets out of the YAML.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	configDir := filepath.Dir(path)
	cfg.Corpus.Root = expandPath(cfg.Corpus.Root, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)

	return &cfg, nil
}

// applyEnvOverrides overlays GUIDEPOST_* environment variables on cfg.
// Secrets (API key, redis address) belong in the environment, not the YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GUIDEPOST_EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("GUIDEPOST_EMBEDDING_ENDPOINT"); v != "" {
		cfg.Embedding.Endpoint = v
	}
	if v := os.Getenv("GUIDEPOST_REDIS_ADDR"); v != "" {
		cfg.Embedding.RedisAddr = v
	}
	if v := os.Getenv("GUIDEPOST_CORPUS_ROOT"); v != "" {
		cfg.Corpus.Root = v
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
