// Package main is the saiyo CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/hyperjump/saiyo/internal/cli"
	"github.com/hyperjump/saiyo/internal/config"
	"github.com/hyperjump/saiyo/internal/extract"
	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/internal/ranking"
	"github.com/hyperjump/saiyo/internal/screening"
	"github.com/hyperjump/saiyo/internal/server"
	"github.com/hyperjump/saiyo/internal/source"
	"github.com/hyperjump/saiyo/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/saiyo/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence, and a missing default file yields the
// built-in defaults. Returns the config and the path that was loaded ("" for
// defaults).
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
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.Default()
			return cfg, "", err
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
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "rank":
		runRank()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("saiyo version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// newScreener wires extraction and ranking from cfg.
func newScreener(cfg *config.Config, logger *zap.Logger) (*screening.Screener, error) {
	ranker, err := ranking.NewRanker(&cfg.Ranking, ranking.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return screening.NewScreener(
		extract.NewExtractor(),
		ranker,
		screening.WithLogger(logger),
		screening.WithPreviewChars(cfg.Ranking.PreviewChars),
	), nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-document extraction and ranking)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("analyzer", cfg.Ranking.Analyzer),
	)

	if cfg.Diagnostics.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warn("gops agent failed to start", zap.Error(err))
		} else {
			defer agent.Close()
		}
	}

	screener, err := newScreener(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize ranker", zap.Error(err))
	}
	srv, err := server.NewServer(screener, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outPath := fs.String("out", "", "save the effective config to file instead of printing it")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if err := writeEffectiveConfig(os.Stdout, cfg, *outPath); err != nil {
		fatalf("%v", err)
	}
}

// writeEffectiveConfig saves cfg to outPath, or prints it to w when outPath is
// empty. The result is a complete config file with every default filled in.
func writeEffectiveConfig(w io.Writer, cfg *config.Config, outPath string) error {
	if outPath == "" {
		return config.Write(w, cfg)
	}
	if err := config.Save(outPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "Config written to %s\n", outPath)
	return nil
}

// rankOptions are the parsed inputs of the rank subcommand.
type rankOptions struct {
	jobPath   string
	jobText   string
	serverURL string
	locations []string
}

// rankArgsReorder moves flags (and their values) ahead of positional arguments
// so that flag.Parse sees flags written after résumé paths. Positional order is
// preserved, since it is the upload order used to break score ties.
func rankArgsReorder(fs *flag.FlagSet, args []string) []string {
	var flags, positionals []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positionals = append(positionals, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				continue
			}
		}
		if i+1 < len(args) {
			flags = append(flags, args[i+1])
			i++
		}
	}
	return append(flags, positionals...)
}

func printRankUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: saiyo rank [flags] <resume files, directories or URLs...>\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  saiyo rank --job jd.txt resumes/
  saiyo rank --job-text "Python developer, 5 years" alice.pdf bob.pdf
  saiyo rank resumes/*.pdf --job jd.txt --output json
  saiyo rank --job jd.txt --output xlsx --out ranking.xlsx resumes/
  saiyo rank --server http://localhost:8080 --job jd.txt resumes/
`)
}

func runRank() {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobPath := fs.String("job", "", "job description file or URL")
	jobText := fs.String("job-text", "", "job description text (overrides --job)")
	outputFormat := fs.String("output", "text", "output format: text, compact, json or xlsx")
	outPath := fs.String("out", "", "write output to file instead of stdout (required for xlsx)")
	serverURL := fs.String("server", "", "rank on a running saiyo server instead of in-process")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printRankUsage(fs) }
	_ = fs.Parse(rankArgsReorder(fs, os.Args[2:]))

	if fs.NArg() < 1 {
		printRankUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	if format == cli.OutputXLSX && *outPath == "" {
		fatalf("xlsx output needs --out <file>")
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	opts := &rankOptions{
		jobPath:   *jobPath,
		jobText:   *jobText,
		serverURL: *serverURL,
		locations: fs.Args(),
	}
	response, err := rank(context.Background(), cfg, logger, opts)
	if err != nil {
		fatalf("Ranking failed: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf("Failed to create %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}
	if err := cli.WriteResults(out, response, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

// rank loads the job description and résumés, then ranks them in-process or,
// when opts.serverURL is set, on a running server.
func rank(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts *rankOptions) (*models.RankResponse, error) {
	loader := source.NewLoader(source.WithFilter(cfg.Extract.Accepts), source.WithLogger(logger))
	jd := opts.jobText
	if jd == "" {
		if opts.jobPath == "" {
			return nil, errors.New("job description required (--job or --job-text)")
		}
		text, err := loader.Text(ctx, opts.jobPath)
		if err != nil {
			return nil, fmt.Errorf("load job description: %w", err)
		}
		jd = text
	}
	docs, err := loader.Documents(ctx, opts.locations...)
	if err != nil {
		return nil, err
	}
	if opts.serverURL != "" {
		return rankViaHTTP(ctx, opts.serverURL, jd, docs)
	}
	screener, err := newScreener(cfg, logger)
	if err != nil {
		return nil, err
	}
	return screener.Screen(ctx, jd, docs)
}

func rankViaHTTP(ctx context.Context, serverURL, jd string, docs []*models.Document) (*models.RankResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField(server.FieldJobDescription, jd); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		part, err := mw.CreateFormFile(server.FieldResumes, doc.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(serverURL, "/")+"/api/v1/rank", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.RankResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func printUsage() {
	fmt.Println(`saiyo - Rank résumés against a job description

Usage:
  saiyo server [flags]                 Start the upload page and HTTP API
  saiyo rank [flags] <resumes...>      Rank résumé files, directories or URLs
  saiyo config [flags]                 Print or save the effective config
  saiyo version                        Show version
  saiyo help                           Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/saiyo/config.yaml)
  --debug            Enable debug logging

Rank Flags:
  --config string    Config file path
  --job string       Job description file or URL (file://, s3://, gs://, ...)
  --job-text string  Job description text
  --output string    Output format: text, compact, json or xlsx (default: text)
  --out string       Output file (required for xlsx)
  --server string    Rank on a running server instead of in-process
  --debug            Enable debug logging

Config Flags:
  --config string    Config file path
  --out string       Save the effective config to file

Environment:
  SAIYO_HOST, SAIYO_PORT, SAIYO_DEBUG, SAIYO_ANALYZER override the config file.
  A .env file in the working directory is loaded first.

Examples:
  saiyo server
  saiyo rank --job jd.txt resumes/
  saiyo rank alice.pdf bob.pdf --job-text "Go developer with Kubernetes"
  saiyo rank --job jd.txt --output xlsx --out ranking.xlsx resumes/
  saiyo config --out config.yaml`)
}
