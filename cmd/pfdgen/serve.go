package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/pfdgen-service/internal/assistant"
	"github.com/MalithGihan/pfdgen-service/internal/config"
	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/metrics"
	"github.com/MalithGihan/pfdgen-service/internal/server"
	"github.com/MalithGihan/pfdgen-service/internal/session"
	"github.com/MalithGihan/pfdgen-service/internal/store"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	reg := metrics.NewRegistry()

	client, err := newLLM(cfg.LLM, reg)
	if err != nil {
		return err
	}
	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	var ocr ingest.OCR
	if cfg.OCR.Enabled {
		ocr = ingest.Tesseract{Languages: cfg.OCR.Languages}
	}

	quality := diagram.Quality(cfg.Render.Quality)
	renderer := diagram.NewRenderer(diagram.NewRendererParams{
		Backend:       diagram.DotCommand{Binary: cfg.Render.DotBinary},
		Quality:       quality,
		MaxConcurrent: cfg.Render.MaxConcurrent,
		Metrics:       reg,
	})

	logger.Info("Starting PFD service",
		"port", cfg.Port,
		"llm", client.Name(),
		"store", cfg.Store.Backend,
		"ocr", cfg.OCR.Enabled)

	srv := server.New(server.Params{
		Addr: ":" + cfg.Port,
		Assistant: assistant.New(assistant.Params{
			LLM:      client,
			Renderer: renderer,
			Store:    st,
			OCR:      ocr,
			Quality:  quality,
		}),
		Sessions: session.NewRegistry(reg),
		Renderer: renderer,
		Store:    st,
		OCR:      ocr,
		Metrics:  reg,
	})
	return srv.ListenAndServe(ctx)
}

func newLLM(c config.LLM, reg *metrics.Registry) (llm.Client, error) {
	switch c.Provider {
	case "ollama":
		return llm.NewOllama(llm.NewOllamaParams{
			BaseURL:               c.OllamaURL,
			APIKey:                c.OllamaKey,
			Model:                 c.Model,
			VisionModel:           c.VisionModel,
			MaxConcurrentRequests: c.MaxConcurrent,
			Timeout:               c.Timeout,
			Metrics:               reg,
		})
	case "openai":
		return llm.NewOpenAI(llm.NewOpenAIParams{
			BaseURL:     c.OpenAIURL,
			APIKey:      c.OpenAIKey,
			Model:       c.Model,
			VisionModel: c.VisionModel,
			Metrics:     reg,
		})
	case "mock":
		return &llm.Mock{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.Provider)
	}
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.Backend == "s3" {
		return store.NewS3(ctx, store.S3Params{
			Bucket:    cfg.Store.S3Bucket,
			Region:    cfg.Store.S3Region,
			Endpoint:  cfg.Store.S3Endpoint,
			AccessKey: cfg.Store.S3AccessKey,
			SecretKey: cfg.Store.S3SecretKey,
			Prefix:    cfg.Store.S3Prefix,
		})
	}
	return store.New(cfg.DataRoot)
}
