// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/intellicourse"
	"github.com/poiesic/intellicourse/config"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/ingestion"
	"github.com/poiesic/intellicourse/metrics"
	"github.com/poiesic/intellicourse/reembed"
	"github.com/poiesic/intellicourse/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

const (
	banner       = "IntelliCourse is ready! Ask me about courses or any general question. Type 'exit' to quit."
	promptText   = "Enter question: "
	farewellText = "Goodbye!"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "intellicourse",
		Usage: "Answer questions about the course catalog or the open web",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"INTELLICOURSE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the completion service",
				EnvVars: []string{"GROQ_API_KEY", "OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "search",
				Usage:   "Web-search provider (tavily, duckduckgo)",
				EnvVars: []string{"INTELLICOURSE_SEARCH"},
			},
			&cli.StringFlag{
				Name:    "tavily-api-key",
				Usage:   "API key for Tavily web search",
				EnvVars: []string{"TAVILY_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "pinecone-api-key",
				Usage:   "API key for the Pinecone index",
				EnvVars: []string{"PINECONE_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print the routing decision and retrieved context",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive question loop",
				Action: chatCommand,
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to server.addr)",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Index course catalogs for retrieval",
				ArgsUsage: "[FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-index sources even if unchanged",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers (default: half the CPUs)",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all indexed passages with the configured embedder",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N passages",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// loadConfig reads the configured file and applies flag overrides. The
// file's log_level takes effect unless --log-level was given.
func loadConfig(c *cli.Context) (*config.File, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if key := c.String("api-key"); key != "" {
		cfg.AI.APIKey = key
	}
	if provider := c.String("search"); provider != "" {
		cfg.WebSearch.Provider = strings.ToLower(provider)
	}
	if key := c.String("tavily-api-key"); key != "" {
		cfg.WebSearch.APIKey = key
	}
	if key := c.String("pinecone-api-key"); key != "" {
		cfg.Index.Pinecone.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !c.IsSet("log-level") {
		if err := installLogger(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func openAssistant(c *cli.Context, opts ...intellicourse.Option) (*intellicourse.Assistant, *config.File, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	a, err := intellicourse.New(cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open assistant: %w", err)
	}
	return a, cfg, nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if err := core.ValidateQuestion(question); err != nil {
		return err
	}

	a, _, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.Invoke(c.Context, question)
	if err != nil {
		return err
	}
	if c.Bool("verbose") {
		fmt.Fprintf(c.App.ErrWriter, "Classification: %s\n", state.Classification)
		fmt.Fprintf(c.App.ErrWriter, "Source: %s\n", state.SourceTool)
		if state.RetrievedContext != "" {
			fmt.Fprintf(c.App.ErrWriter, "Context:\n%s\n\n", state.RetrievedContext)
		}
	}
	fmt.Fprintln(c.App.Writer, state.Answer())
	return nil
}

func chatCommand(c *cli.Context) error {
	a, _, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()
	return runChat(c.Context, a, c.App.Reader, c.App.Writer)
}

// runChat reads questions line by line until exit, quit or end of input.
// Failed questions are reported and the loop continues.
func runChat(ctx context.Context, answerer server.Answerer, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, banner)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptText)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, farewellText)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, farewellText)
			return nil
		}

		state, err := answerer.Invoke(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Answer: %s\n", state.Answer())
	}
}

func serveCommand(c *cli.Context) error {
	a, cfg, err := openAssistant(c, intellicourse.WithMonitor(metrics.Default()))
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(a,
		server.WithGatherer(prometheus.DefaultGatherer),
		server.WithLogger(slog.Default().With("component", "server")),
	)
	if err != nil {
		return err
	}

	addr := c.String("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

func ingestCommand(c *cli.Context) error {
	a, cfg, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	pipeline, err := a.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	paths := sourcePaths(c.Args().Slice(), cfg)
	reports, err := pipeline.IngestFiles(c.Context, paths, c.Bool("force"))
	for _, r := range reports {
		printReport(c.App.Writer, r)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// sourcePaths picks the command-line paths, then the configured sources,
// then the bundled catalogs.
func sourcePaths(args []string, cfg *config.File) []string {
	if len(args) > 0 {
		return args
	}
	if len(cfg.Index.Sources) > 0 {
		return cfg.Index.Sources
	}
	return ingestion.DefaultSources
}

func printReport(w io.Writer, r ingestion.Report) {
	if r.Skipped {
		fmt.Fprintf(w, "%s: unchanged, skipped\n", r.Source)
		return
	}
	fmt.Fprintf(w, "%s: %d passages indexed, %d replaced\n", r.Source, r.Passages, r.Removed)
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	a, cfg, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	reembedder, err := a.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Index: %s\n", cfg.Index.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if _, err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	return installLogger(c.String("log-level"))
}

// installLogger replaces the default logger with a text handler on stderr
// at the named level.
func installLogger(name string) error {
	// Normalize to lowercase
	levelStr := strings.ToLower(name)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
