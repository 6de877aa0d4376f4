package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/intellicourse"
	"github.com/poiesic/intellicourse/config"
	"github.com/poiesic/intellicourse/ingestion"
)

var (
	configPath   = flag.String("config", "", "YAML configuration file")
	listFileName = flag.String("src", "", "file listing one catalog path per line")
	indexPath    = flag.String("db", "", "index directory (overrides index.path)")
	force        = flag.Bool("force", false, "re-index unchanged catalogs")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads path over the defaults and fills a missing completion
// key from the environment.
func loadConfig(path, db string) (*config.File, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if db != "" {
		cfg.Index.Path = db
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = envKey("GROQ_API_KEY", "OPENAI_API_KEY")
	}
	if cfg.Index.Pinecone.APIKey == "" {
		cfg.Index.Pinecone.APIKey = os.Getenv("PINECONE_API_KEY")
	}
	return cfg, cfg.Validate()
}

// envKey returns the first non-empty variable among names.
func envKey(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// linesFromFile returns an iterator over the non-blank lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}, nil
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath, *indexPath)
	if err != nil {
		panic(err)
	}

	assistant, err := intellicourse.New(cfg)
	if err != nil {
		panic(err)
	}
	defer assistant.Close()

	pipeline, err := assistant.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	sources := ingestion.DefaultSources
	if len(cfg.Index.Sources) > 0 {
		sources = cfg.Index.Sources
	}
	if *listFileName != "" {
		lines, err := linesFromFile(*listFileName)
		if err != nil {
			panic(err)
		}
		sources = slices.Collect(lines)
	}

	reports, err := pipeline.IngestFiles(context.Background(), sources, *force)
	for _, r := range reports {
		slog.Info("indexed", "source", r.Source, "passages", r.Passages, "replaced", r.Removed, "skipped", r.Skipped)
	}
	if err != nil {
		panic(err)
	}
}
