package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/intellicourse"
	"github.com/poiesic/intellicourse/config"
)

var configPath = flag.String("config", "", "YAML configuration file")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads path over the defaults. A key missing from the file
// comes from GROQ_API_KEY, then OPENAI_API_KEY.
func loadConfig(path string) (*config.File, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Index.Pinecone.APIKey == "" {
		cfg.Index.Pinecone.APIKey = os.Getenv("PINECONE_API_KEY")
	}
	return cfg, nil
}

func queryFrom(args []string) string {
	if len(args) == 0 {
		return "computer science prerequisites"
	}
	return strings.Join(args, " ")
}

// lookup prints the passages the course branch would see for a query.
func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	assistant, err := intellicourse.New(cfg)
	if err != nil {
		panic(err)
	}
	defer assistant.Close()

	query := queryFrom(flag.Args())
	hits, err := assistant.Retriever().Search(context.Background(), query, cfg.Index.TopK)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(hits))
	for i, hit := range hits {
		p := hit.Passage
		fmt.Printf("%d: %s p.%d #%d [%0.3f]\n%s\n\n", i, p.Source, p.Page, p.Chunk, hit.Score, p.Text)
	}
}
