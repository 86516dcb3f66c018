package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"slidegen/internal/cluster"
	"slidegen/internal/config"
	"slidegen/internal/domain"
	"slidegen/internal/embedding"
	"slidegen/internal/layout"
	"slidegen/internal/render"
	"slidegen/internal/segmenter"
	"slidegen/internal/service"
	"slidegen/internal/summarize"
	"slidegen/internal/theme"
	"slidegen/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath   = flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/slidegen/config.yaml if not provided)")
		themePath = flag.String("theme", "", "Path to theme JSON file (overrides config; empty uses the built-in clean theme)")
		outDir    = flag.String("out", "", "Output directory (overrides config)")
		format    = flag.String("format", "all", "Output format: pdf, pptx, md or all")
		preview   = flag.Bool("preview", false, "Open an interactive preview of the generated deck")
	)
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: slidegen [--config=config.yaml] [--theme=clean.json] [--format=all] ocr1.txt [ocr2.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	if *themePath != "" {
		cfg.Theme = *themePath
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	log := newLogger(cfg.LogLevel)

	th := theme.Clean()
	if cfg.Theme != "" {
		th, err = theme.Load(cfg.Theme)
		if err != nil {
			fatal("failed to load theme: %v", err)
		}
	}
	engine, err := layout.NewEngine(th)
	if err != nil {
		fatal("invalid theme: %v", err)
	}

	blocks, err := readBlocks(inputs)
	if err != nil {
		fatal("failed to read input: %v", err)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = embedding.NewTFIDFEmbedder()
	case "openai":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{}
		}
		emb, err = embedding.NewOpenAIClient(embedding.OpenAIConfig{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			fatal("openai embedder init failed: %v", err)
		}
	default:
		fatal("unknown embedder: %s", cfg.Embedder.Type)
	}

	p := cfg.Pipeline
	pipeline := service.NewPipeline(
		segmenter.New(p.MinSentenceWords, p.MinSentenceChars),
		emb,
		cluster.New(p.MinClusterSize, p.MaxTopics, cluster.Method(p.Clustering)),
		summarize.New(p.MaxBulletsPerSlide, p.DiversityThreshold),
		p.MaxTopics,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := pipeline.Generate(ctx, blocks)
	if err != nil {
		fatal("deck generation failed: %v", err)
	}

	renderers := selectRenderers(*format)
	if len(renderers) == 0 {
		fatal("unknown format: %s", *format)
	}
	paths, err := service.Export(d, engine, renderers, cfg.OutputDir, "slides", log)
	if err != nil {
		fatal("export failed: %v", err)
	}
	for f, p := range paths {
		fmt.Printf("%s: %s\n", f, p)
	}

	if *preview {
		if _, err := tea.NewProgram(tui.New(d, th)).Run(); err != nil {
			fatal("preview failed: %v", err)
		}
	}
}

// readBlocks loads each input file as one OCR text block. A first line of
// the form "#confidence:NN" is consumed as the block's OCR confidence.
func readBlocks(paths []string) ([]domain.TextBlock, error) {
	var blocks []domain.TextBlock
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		text := string(data)
		conf := 0.0
		if strings.HasPrefix(text, "#confidence:") {
			line, rest, _ := strings.Cut(text, "\n")
			if v, perr := strconv.ParseFloat(strings.TrimPrefix(line, "#confidence:"), 64); perr == nil {
				conf = v
				text = rest
			}
		}
		blocks = append(blocks, domain.TextBlock{Source: i, Text: text, Confidence: conf})
	}
	return blocks, nil
}

func selectRenderers(format string) []render.Renderer {
	switch format {
	case "all":
		return []render.Renderer{render.NewPDF(), render.NewPPTX(), render.NewMarkdown()}
	case "pdf":
		return []render.Renderer{render.NewPDF()}
	case "pptx":
		return []render.Renderer{render.NewPPTX()}
	case "md":
		return []render.Renderer{render.NewMarkdown()}
	default:
		return nil
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "slidegen: "+format+"\n", args...)
	os.Exit(1)
}
