package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Corpus.Include == nil {
		cfg.Corpus.Include = []string{"**/*.md"}
	}
	if cfg.Corpus.Exclude == nil {
		cfg.Corpus.Exclude = []string{"**/node_modules/**", "**/.git/**"}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/guidepost/data/db/guides.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/guidepost/data/indices/bleve"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/guidepost/data/indices/vectors"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "mock"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Cache == "" {
		cfg.Embedding.Cache = "memory"
	}
	if cfg.Vector.Backend == "" {
		cfg.Vector.Backend = "memory"
	}
	if cfg.Vector.QdrantHost == "" {
		cfg.Vector.QdrantHost = "localhost"
	}
	if cfg.Vector.QdrantPort == 0 {
		cfg.Vector.QdrantPort = 6334
	}
	if cfg.Vector.QdrantCollection == "" {
		cfg.Vector.QdrantCollection = "guides"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.ChunkSize == 0 {
		cfg.Search.ChunkSize = 256
	}
	if cfg.Search.ChunkOverlap == 0 {
		cfg.Search.ChunkOverlap = 32
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 100
	}
	if cfg.Search.KeywordTitleBoost == 0 {
		cfg.Search.KeywordTitleBoost = 3.0
	}
	if cfg.Search.TagBoost == 0 {
		cfg.Search.TagBoost = 1.2
	}
	if cfg.Search.DefaultMinKeywordScore == 0 {
		cfg.Search.DefaultMinKeywordScore = 0.49
	}
	if cfg.Search.DefaultMinSemanticScore == 0 {
		cfg.Search.DefaultMinSemanticScore = 0.49
	}
	if cfg.Lint.RequiredFrontMatter == nil {
		cfg.Lint.RequiredFrontMatter = []string{"title", "description"}
	}
	if cfg.Lint.CompressedLineThreshold == 0 {
		cfg.Lint.CompressedLineThreshold = 150
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
}
