// Package cmd defines and implements the CLI commands for the domgraph executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/domgraph/domgraph/internal/archive"
	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/dispatcher"
	"github.com/domgraph/domgraph/internal/frontier"
	"github.com/domgraph/domgraph/internal/graph"
	iduuid "github.com/domgraph/domgraph/internal/id/uuid"
	"github.com/domgraph/domgraph/internal/metrics"
	"github.com/domgraph/domgraph/internal/worker"
)

// writerCloseTimeout bounds the final edge flush so a wedged store cannot
// hang shutdown forever.
const writerCloseTimeout = 30 * time.Second

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed ...]",
		Short: "Starts a crawl from the seed domains",
		Long: `Crawls outward from the seed domains given as arguments (or from
crawler.seeds in the configuration when none are given). Every link found on
a fetched page is recorded as a directed, counted edge between root domains,
and each discovered domain's root page is fetched at most once per run.`,

		RunE: runCrawlCommand,
	}

	cmd.Flags().Int("workers", 8, "number of concurrent crawl workers")
	_ = viper.BindPFlag("crawler.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runCrawlCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	if len(args) > 0 {
		viper.Set("crawler.seeds", args)
	}
	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	seeds, err := normalizeSeeds(cfg.Seeds)
	if err != nil {
		return err
	}

	runID, err := iduuid.New().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	logger.Info("Starting crawl",
		zap.String("run_id", runID),
		zap.Strings("seeds", cfg.Seeds),
		zap.Int("workers", cfg.Workers),
		zap.Int("max_domains", cfg.MaxDomains),
	)

	// SIGINT/SIGTERM stop the claim loop; edges already submitted still
	// flush through the writer close below.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fr := frontier.New(seeds, cfg.MaxDomains)
	writer := graph.NewWriter(appInstance.GetStore(), cfg.EdgeBuffer, logger)
	archiver := archive.NewArchiver(appInstance.GetArchive(), runID)
	fetcher := crawler.NewCollyFetcher(cfg, logger)
	extractor := crawler.NewLinkExtractor()
	blocklist := crawler.NewBlocklist(cfg.Blocklist)

	workers := make([]*worker.Worker, 0, cfg.Workers)
	for i := range cfg.Workers {
		workers = append(workers, worker.New(i, fr, fetcher, extractor, writer, archiver, blocklist, logger))
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// Ending the run context stops the frontier watcher too.
		defer cancel()
		dispatcher.New(fr, workers).Run(gctx)
		return nil
	})
	g.Go(func() error {
		watchFrontier(gctx, fr)
		return nil
	})
	_ = g.Wait()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), writerCloseTimeout)
	defer closeCancel()
	if err := writer.Close(closeCtx); err != nil {
		logger.Warn("Graph writer did not flush cleanly", zap.Error(err))
	}

	visited, _, _ := fr.Stats()
	submitted, written, failed := writer.Stats()
	logger.Info("Crawl finished.",
		zap.String("run_id", runID),
		zap.Int("domains_visited", visited),
		zap.Int64("edges_submitted", submitted),
		zap.Int64("edges_written", written),
		zap.Int64("edge_write_failures", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// watchFrontier mirrors the queue depth into the pending gauge once a second
// until the crawl ends.
func watchFrontier(ctx context.Context, fr *frontier.Frontier) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			metrics.SetFrontierPending(0)
			return
		case <-t.C:
			_, pending, _ := fr.Stats()
			metrics.SetFrontierPending(pending)
		}
	}
}

func normalizeSeeds(raw []string) ([]crawler.Domain, error) {
	out := make([]crawler.Domain, 0, len(raw))
	for _, s := range raw {
		d, err := crawler.NormalizeSeed(s)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", s, err)
		}
		out = append(out, d)
	}
	return out, nil
}
