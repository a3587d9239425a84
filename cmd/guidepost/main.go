// Package main is the Guidepost CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fieldnotes/guidepost/internal/cli"
	"github.com/fieldnotes/guidepost/internal/config"
	"github.com/fieldnotes/guidepost/internal/corpus"
	"github.com/fieldnotes/guidepost/internal/embedding"
	"github.com/fieldnotes/guidepost/internal/indexer"
	"github.com/fieldnotes/guidepost/internal/keyword"
	"github.com/fieldnotes/guidepost/internal/lint"
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/internal/search"
	"github.com/fieldnotes/guidepost/internal/server"
	"github.com/fieldnotes/guidepost/internal/storage"
	"github.com/fieldnotes/guidepost/internal/vector"
	"github.com/fieldnotes/guidepost/internal/watcher"
	"github.com/fieldnotes/guidepost/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/guidepost/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "guidepost server" from the project dir uses the project's config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "scan":
		runScan()
	case "lint":
		runLint()
	case "fix":
		runFix()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("guidepost version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file watching, indexing, lint hits)")
	noWatch := fs.Bool("no-watch", false, "do not watch the corpus for changes")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("corpus_root", cfg.Corpus.Root),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Bring the indices up to date with the corpus before serving.
	if n, err := components.Indexer.IndexCorpus(context.Background()); err != nil {
		logger.Warn("initial corpus scan failed", zap.Error(err))
	} else {
		logger.Info("corpus scanned", zap.Int("guides", n))
	}

	var watchSvc *watcher.Watcher
	if cfg.Watch.EnabledOrDefault() && !*noWatch {
		idx := components.Indexer
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		if cfg.Watch.DebounceMS > 0 {
			watchOpts = append(watchOpts, watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond))
		}
		watchSvc = watcher.NewWatcher(
			components.Scanner,
			cfg.Watch.RecursiveOrDefault(),
			func(relPath string) {
				ctx := context.Background()
				if err := idx.IndexFile(ctx, relPath); err != nil {
					logger.Warn("watch index failed", zap.String("path", relPath), zap.Error(err))
					return
				}
				// Lint the changed guide so findings show up in the server log.
				if g, err := components.Scanner.Load(relPath); err == nil {
					if report := components.Linter.LintGuide(ctx, g); len(report.Findings) > 0 {
						logger.Warn("guide has lint findings",
							zap.String("path", relPath),
							zap.Int("errors", report.Errors),
							zap.Int("warnings", report.Warnings))
					}
				}
			},
			func(relPath string) {
				if err := idx.DeletePath(context.Background(), relPath); err != nil {
					logger.Warn("watch delete failed", zap.String("path", relPath), zap.Error(err))
				}
			},
			watchOpts...,
		)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Linter,
		components.Storage,
		components.VectorIndex,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if components.VectorIndex != nil {
		if err := components.VectorIndex.Save(); err != nil {
			logger.Warn("vector index save failed", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage and hints.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: guidepost search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Results are split into two lists: keyword matches and semantic-only matches.
  • Use --keyword=false for semantic-only search.
  • Use --semantic=false for keyword-only search.
  • Use --fuzzy to enable typo tolerance (an empty exact search retries with fuzzy automatically).
  • Use --tags to restrict results to guides carrying any of the given tags.

Examples:
  guidepost search chunking strategies
  guidepost search "chunking strategies"            # same as above
  guidepost search --keyword=false prompt patterns  # semantic-only
  guidepost search --tags rag,retrieval embeddings
  guidepost search --min-keyword-score 0.3 --limit 20 your query
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// splitTags parses a comma-separated tag list, dropping empty entries.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "guidepost search \"query\" -limit 5"
// would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results per list")
	minKeywordScore := fs.Float64("min-keyword-score", 0, "minimum score for keyword results (0 = config default)")
	minSemanticScore := fs.Float64("min-semantic-score", 0, "minimum score for semantic-only results (0 = config default)")
	tagsFlag := fs.String("tags", "", "comma-separated tags; restrict results to guides carrying any of them")
	kwEnabled := fs.Bool("keyword", true, "enable keyword search")
	semEnabled := fs.Bool("semantic", true, "enable semantic search")
	fuzzyEnabled := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:            queryStr,
		Limit:            *limit,
		Tags:             splitTags(*tagsFlag),
		MinKeywordScore:  *minKeywordScore,
		MinSemanticScore: *minSemanticScore,
		KeywordEnabled:   *kwEnabled,
		SemanticEnabled:  *semEnabled,
		FuzzyEnabled:     *fuzzyEnabled,
	}

	if *serverURL != "" {
		// Use HTTP API when server is running (avoids Bleve/SQLite lock conflict).
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	components, _, logger := mustInitialize(*configPathFlag)
	defer logger.Sync()
	defer components.Close()

	response, err := components.Engine.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runScan() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	components, _, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	if fs.NArg() > 0 {
		// Positional args are corpus-relative guide paths.
		for _, rel := range fs.Args() {
			if err := components.Indexer.IndexFile(ctx, filepath.ToSlash(rel)); err != nil {
				fmt.Printf("Indexing %s failed: %v\n", rel, err)
				os.Exit(1)
			}
			fmt.Printf("Indexed: %s\n", rel)
		}
		return
	}
	n, err := components.Indexer.IndexCorpus(ctx)
	if err != nil {
		fmt.Printf("Corpus scan failed: %v\n", err)
		os.Exit(1)
	}
	if err := components.VectorIndex.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: vector index save failed: %v\n", err)
	}
	fmt.Printf("Indexed %d guide(s) from %s\n", n, components.Scanner.Root())
}

func runLint() {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	strict := fs.Bool("strict", false, "exit non-zero on warnings too, not just errors")
	_ = fs.Parse(os.Args[2:])

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Lint only needs the corpus on disk, not the indices.
	scanner := corpus.NewScanner(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Exclude)
	lintOpts := []lint.LinterOption{}
	if cfg.Debug {
		lintOpts = append(lintOpts, lint.WithLogger(logger))
	}
	linter := lint.NewLinter(scanner, nil, &cfg.Lint, lintOpts...)

	report, err := linter.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lint failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteLintReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if report.HasErrors() || (*strict && report.Warnings > 0) {
		os.Exit(1)
	}
}

func runFix() {
	fs := flag.NewFlagSet("fix", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	write := fs.Bool("write", false, "write repaired files in place (default is a dry run)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	scanner := corpus.NewScanner(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Exclude)
	fixOpts := []lint.FixerOption{}
	if cfg.Debug {
		fixOpts = append(fixOpts, lint.WithFixLogger(logger))
	}
	fixer := lint.NewFixer(scanner, cfg.Lint.CompressedLineThreshold, fixOpts...)

	var results []*lint.FixResult
	if fs.NArg() > 0 {
		for _, rel := range fs.Args() {
			res, err := fixer.FixFile(filepath.ToSlash(rel), *write)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Fix %s failed: %v\n", rel, err)
				os.Exit(1)
			}
			results = append(results, res)
		}
	} else {
		results, err = fixer.Run(*write)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fix failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteFixResults(os.Stdout, results, !*write, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	byPath := fs.Bool("path", false, "treat the argument as a corpus-relative path instead of a guide ID")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: guidepost delete [flags] <guide-id|path>")
		os.Exit(1)
	}
	arg := fs.Arg(0)

	components, _, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	if *byPath {
		if err := components.Indexer.DeletePath(ctx, filepath.ToSlash(arg)); err != nil {
			fmt.Printf("Deletion failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := components.Indexer.DeleteDocument(ctx, arg); err != nil {
			fmt.Printf("Deletion failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Guide deleted: %s\n", arg)
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Guides          int64                  `json:"guides"`
	Chunks          int64                  `json:"chunks"`
	VectorIndexSize int                    `json:"vector_index_size"`
	DiskUsageBytes  *int64                 `json:"disk_usage_bytes,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Storage.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count guides failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Storage.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Guides:          docCount,
			Chunks:          chunkCount,
			VectorIndexSize: components.VectorIndex.Size(),
			Config: map[string]interface{}{
				"corpus_root":          cfg.Corpus.Root,
				"vector_index_type":    components.VectorIndex.Type(),
				"embedding_provider":   cfg.Embedding.Provider,
				"embedding_dimensions": cfg.Embedding.Dimensions,
				"chunk_size":           cfg.Search.ChunkSize,
				"chunk_overlap":        cfg.Search.ChunkOverlap,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(
			cfg.Storage.DatabasePath,
			cfg.Storage.BleveIndexPath,
			cfg.Storage.VectorIndexPath,
		)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("guides:             %d   # count of indexed guides\n", status.Guides)
		fmt.Printf("chunks:             %d   # count of text chunks\n", status.Chunks)
		fmt.Printf("vector_index_size:  %d   # count of vectors in semantic index\n", status.VectorIndexSize)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # storage + indices on disk\n", *status.DiskUsageBytes)
		}
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{
				"corpus_root", "vector_index_type", "embedding_provider",
				"embedding_dimensions", "chunk_size", "chunk_overlap",
			} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-20s%v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// outputFormatFromFlag maps the --output flag value to a cli.OutputFormat.
func outputFormatFromFlag(v string) (cli.OutputFormat, error) {
	switch v {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", v)
	}
}

// mustInitialize loads config, builds a logger, and initializes all components,
// exiting on any failure. Shared by the direct-mode subcommands.
func mustInitialize(configPath string) (*Components, *config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg, logger
}

// Components holds initialized services.
type Components struct {
	Scanner      *corpus.Scanner
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.Index
	KeywordIndex keyword.Index
	Engine       *search.Engine
	Indexer      *indexer.Indexer
	Linter       *lint.Linter
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	scanner := corpus.NewScanner(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Exclude)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	vectorIndex, err := vector.NewIndex(cfg)
	if err != nil {
		// Fall back to the in-memory index when the configured backend is
		// unreachable (e.g. qdrant not running).
		if cfg.Vector.Backend != "memory" && cfg.Vector.Backend != "" {
			if logger != nil {
				logger.Warn("failed to create vector index, falling back to memory",
					zap.String("requested_backend", cfg.Vector.Backend),
					zap.Error(err))
			}
			memCfg := *cfg
			memCfg.Vector.Backend = "memory"
			vectorIndex, err = vector.NewIndex(&memCfg)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize vector index: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to initialize vector index: %w", err)
		}
	}
	if logger != nil {
		logger.Info("vector index initialized", zap.String("type", vectorIndex.Type()))
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	engine := search.NewEngine(store, embedder, vectorIndex, keywordIndex, &cfg.Search)

	lintOpts := []lint.LinterOption{}
	if debug && logger != nil {
		lintOpts = append(lintOpts, lint.WithLogger(logger))
	}
	linter := lint.NewLinter(scanner, nil, &cfg.Lint, lintOpts...)

	idxOpts := []indexer.IndexerOption{indexer.WithLinter(linter)}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(scanner, store, embedder, vectorIndex, keywordIndex, &cfg.Search, idxOpts...)

	return &Components{
		Scanner:      scanner,
		Storage:      store,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Engine:       engine,
		Indexer:      idx,
		Linter:       linter,
	}, nil
}

func printUsage() {
	fmt.Println(`guidepost - documentation corpus service: scan, lint, search, serve

Usage:
  guidepost server [flags]           Start the HTTP server (scans corpus, watches for changes)
  guidepost scan [flags] [paths]     Index the corpus (or specific guides) into storage
  guidepost search [flags] <query>   Search guides (keyword + semantic)
  guidepost lint [flags]             Check corpus hygiene (front matter, links, code fences)
  guidepost fix [flags] [paths]      Repair flattened code blocks (dry run by default)
  guidepost delete [flags] <id>      Delete a guide from the indices
  guidepost status [flags]           Show corpus/storage/index status
  guidepost version                  Show version
  guidepost help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/guidepost/config.yaml)
  --debug            Enable debug logging (file watching, indexing, lint hits)
  --no-watch         Do not watch the corpus for changes

Search Flags:
  --config string             Config file path (for direct storage mode)
  --server string             Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --limit int                 Number of results per list (default: 10)
  --tags string               Comma-separated tags to restrict results
  --min-keyword-score float   Minimum score for keyword results (0 = config default)
  --min-semantic-score float  Minimum score for semantic-only results (0 = config default)
  --keyword                   Enable keyword search (default: true)
  --semantic                  Enable semantic search (default: true)
  --fuzzy                     Enable fuzzy matching for typo tolerance (default: false)

Lint Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)
  --strict           Exit non-zero on warnings too

Fix Flags:
  --config string    Config file path
  --write            Write repaired files in place (default is a dry run)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  guidepost server
  guidepost scan
  guidepost search "chunking strategies"
  guidepost search --tags rag embeddings
  guidepost lint --strict
  guidepost fix --write
  guidepost delete --path guides/old-guide.md
  guidepost status --output json`)
}
