// Command pfdgen serves the PFD assistant over HTTP and renders process
// models from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/pfdgen-service/internal/config"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/logger/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pfdgen",
		Short:         "Generate, render and discuss process flow diagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), renderCmd(), summaryCmd())
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	logger.Init(console.New(console.Params{Debug: cfg.Debug, JSON: cfg.LogJSON}))
	return cfg, nil
}
