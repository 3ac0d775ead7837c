// Command boorudex-server runs the search query surface alongside the
// background ingestion pipeline (Discoverer + Fetcher), supervised
// with automatic restart and exponential backoff.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/internal/config"
	"github.com/lorehash/boorudex/internal/ingest"
	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/search"
	"github.com/lorehash/boorudex/internal/server"
	"github.com/lorehash/boorudex/internal/supervisor"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/internal/utils"
)

func main() {
	app := &cli.App{
		Name:  "boorudex-server",
		Usage: "serve the perceptual-hash search index and run the ingestion pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the boorudex YAML config file",
				Value:   "boorudex.yaml",
			},
		},
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading config: %v", err), 1)
	}

	log, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		return cli.Exit(fmt.Sprintf("configuring logger: %v", err), 1)
	}
	logger := log.Logger

	client, err := kv.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return cli.Exit(fmt.Sprintf("connecting to redis: %v", err), 1)
	}
	defer client.Close()

	baseStore := index.NewKVStore(client)
	store, err := index.NewCachedStore(baseStore, cfg.Cache.Size, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("building cached store: %v", err), 1)
	}

	up := upstream.New(cfg.UpstreamBaseURL, cfg.IndexerUA, logger)

	discoverer := ingest.NewDiscoverer(client, up, ingest.DiscovererConfig{
		ExcludeTags: cfg.ExcludeTags,
		Interval:    time.Duration(cfg.RefreshInterval),
		Logger:      logger,
	})
	fetcher := ingest.NewFetcher(client, up, store, ingest.FetcherConfig{
		MinDownloadDelay: time.Duration(cfg.MinDownloadDelay),
		Logger:           logger,
	})
	sup := supervisor.New(discoverer, fetcher, logger)

	srv := server.New(search.New(client, store), cfg.Server.ListenAddr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupInterruptHandler(cancel)

	go sup.Run(ctx)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("search server shutdown")
		}
		return nil
	case err := <-serveErr:
		if err != nil {
			return cli.Exit(fmt.Sprintf("search server: %v", err), 1)
		}
		return nil
	}
}

func setupInterruptHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, stopping...")
		cancel()
	}()
}
