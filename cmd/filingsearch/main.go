// Package main is the filingsearch CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lexfin/filingsearch/internal/cli"
	"github.com/lexfin/filingsearch/internal/config"
	"github.com/lexfin/filingsearch/internal/corpus"
	"github.com/lexfin/filingsearch/internal/index"
	"github.com/lexfin/filingsearch/internal/ingest"
	"github.com/lexfin/filingsearch/internal/manifest"
	"github.com/lexfin/filingsearch/internal/models"
	"github.com/lexfin/filingsearch/internal/search"
	"github.com/lexfin/filingsearch/internal/segment"
	"github.com/lexfin/filingsearch/internal/server"
	"github.com/lexfin/filingsearch/internal/tfidf"
	"github.com/lexfin/filingsearch/internal/watcher"
	"github.com/lexfin/filingsearch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "preprocess":
		runPreprocess()
	case "corpus":
		runCorpus()
	case "index":
		runIndex()
	case "search":
		runSearch()
	case "server":
		runServer()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("filingsearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: filingsearch <command> [flags]

Commands:
  preprocess  Normalize raw filings and write the manifest
  corpus      Segment processed filings into the chunk table
  index       Fit the vector model and write the index artifact
  search      Query the index artifact
  server      Serve queries over HTTP
  status      Print artifact statistics
  version     Print version

Run "filingsearch <command> -h" for command flags.
`)
}

// setup loads config and builds a logger; both are needed by every command.
func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}

func runPreprocess() {
	fs := flag.NewFlagSet("preprocess", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	pre := ingest.NewPreprocessor(cfg.Data.RawDir, cfg.Data.ProcessedDir, logger)
	records, err := pre.Run()
	if err != nil {
		logger.Fatal("preprocess failed", zap.Error(err))
	}
	if err := manifest.Write(cfg.Data.ManifestPath, records); err != nil {
		logger.Fatal("write manifest failed", zap.Error(err))
	}
	failed := 0
	for _, r := range records {
		if r.Error != "" {
			failed++
		}
	}
	logger.Info("preprocess complete",
		zap.Int("documents", len(records)),
		zap.Int("failed", failed),
		zap.String("manifest", cfg.Data.ManifestPath),
	)
}

func runCorpus() {
	fs := flag.NewFlagSet("corpus", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	records, err := manifest.Read(cfg.Data.ManifestPath)
	if err != nil {
		logger.Fatal("read manifest failed", zap.Error(err))
	}
	seg := segment.NewSegmenter(cfg.Chunking.MaxTokens, cfg.Chunking.Overlap)
	chunks, err := corpus.NewBuilder(seg, logger).Build(records)
	if err != nil {
		logger.Fatal("build corpus failed", zap.Error(err))
	}
	if len(chunks) == 0 {
		logger.Fatal("no chunks produced; check manifest and processed files")
	}

	store, err := corpus.OpenStore(cfg.Data.CorpusDBPath)
	if err != nil {
		logger.Fatal("open corpus store failed", zap.Error(err))
	}
	defer store.Close()
	if err := store.Save(context.Background(), chunks); err != nil {
		logger.Fatal("save corpus failed", zap.Error(err))
	}
	logger.Info("corpus built",
		zap.Int("chunks", len(chunks)),
		zap.String("db", cfg.Data.CorpusDBPath),
	)
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	store, err := corpus.OpenStore(cfg.Data.CorpusDBPath)
	if err != nil {
		logger.Fatal("open corpus store failed", zap.Error(err))
	}
	chunks, err := store.Load(context.Background())
	_ = store.Close()
	if err != nil {
		logger.Fatal("load corpus failed", zap.Error(err))
	}

	artifact, err := index.Build(chunks, tfidf.Config{MinDF: cfg.Index.MinDF, MaxDF: cfg.Index.MaxDF})
	if err != nil {
		logger.Fatal("build index failed", zap.Error(err))
	}
	if err := artifact.Save(cfg.Data.ArtifactPath); err != nil {
		logger.Fatal("save artifact failed", zap.Error(err))
	}
	logger.Info("index built",
		zap.Int("chunks", artifact.Size()),
		zap.Int("vocab_size", artifact.Model.VocabSize()),
		zap.String("build_id", artifact.BuildID),
		zap.String("artifact", cfg.Data.ArtifactPath),
	)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	ticker := fs.String("ticker", "", "filter by ticker (exact match)")
	docType := fs.String("doc", "", "filter by document type (10K or EarningsCall)")
	topK := fs.Int("top_k", models.DefaultTopK, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: filingsearch search [flags] <query>\n\n")
		fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fs.Usage()
		os.Exit(1)
	}
	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	artifact, err := index.Load(cfg.Data.ArtifactPath)
	if err != nil {
		logger.Fatal("load artifact failed", zap.Error(err))
	}
	engine := search.NewEngine(artifact, cfg.Search.Tickers)
	response, err := engine.Search(context.Background(), &models.SearchQuery{
		Query:   query,
		Ticker:  *ticker,
		DocType: *docType,
		TopK:    *topK,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	artifact, err := index.Load(cfg.Data.ArtifactPath)
	if err != nil {
		logger.Fatal("load artifact failed", zap.Error(err))
	}
	logger.Info("artifact loaded",
		zap.Int("chunks", artifact.Size()),
		zap.String("build_id", artifact.BuildID),
	)
	srv := server.NewServer(search.NewEngine(artifact, cfg.Search.Tickers), &cfg.Server, logger)

	// A rebuild replaces the artifact file; reload it and swap the engine so
	// new requests see the new build.
	watch := watcher.NewWatcher(cfg.Data.ArtifactPath, func() {
		reloaded, err := index.Load(cfg.Data.ArtifactPath)
		if err != nil {
			logger.Warn("artifact reload failed", zap.Error(err))
			return
		}
		srv.SwapEngine(search.NewEngine(reloaded, cfg.Search.Tickers))
		logger.Info("artifact reloaded",
			zap.Int("chunks", reloaded.Size()),
			zap.String("build_id", reloaded.BuildID),
		)
	}, logger)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watch.Start(watchCtx); err != nil {
		logger.Fatal("start artifact watcher failed", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watch.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	artifact, err := index.Load(cfg.Data.ArtifactPath)
	if err != nil {
		logger.Fatal("load artifact failed", zap.Error(err))
	}
	fmt.Printf("artifact:   %s\n", cfg.Data.ArtifactPath)
	fmt.Printf("build_id:   %s\n", artifact.BuildID)
	fmt.Printf("built_at:   %s\n", artifact.BuiltAt.Format(time.RFC3339))
	fmt.Printf("chunks:     %d\n", artifact.Size())
	fmt.Printf("vocab_size: %d\n", artifact.Model.VocabSize())
}
