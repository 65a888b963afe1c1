package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/TerminalFarm_Go/internal/config"
	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmclient"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/feed"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
	"github.com/osse101/TerminalFarm_Go/internal/status"
	"github.com/osse101/TerminalFarm_Go/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	slog.Info("Starting terminal farm client", "config", cfg.String())
	for _, w := range config.Warnings(cfg) {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Client failed", "error", err)
		os.Exit(1)
	}
}

// run wires the client together and blocks until the player quits
func run(ctx context.Context, cfg *config.Config) error {
	api := farmclient.NewAPIClient(cfg.APIURL,
		farmclient.WithAPIKey(cfg.APIKey),
		farmclient.WithTimeout(cfg.RequestTimeout),
		farmclient.WithRetries(cfg.MaxRetries, 0),
	)

	messages := notify.NewMessageLog(cfg.MessageHistory, notify.DefaultSuppressTTL)
	defer messages.Close()

	var ui *terminal.UI
	sync := farmsync.New(api,
		farmsync.WithNotifier(messages),
		farmsync.WithInterval(cfg.RefreshInterval),
		farmsync.WithOnUpdate(func(state *domain.ClientGameState) { ui.OnUpdate(state) }),
	)
	ui = terminal.NewUI(sync, messages, os.Stdin, os.Stdout, terminal.WithClearScreen(true))

	// A failed first fetch is shown in the view; the refresher keeps trying
	_, _ = sync.FetchState(ctx)
	sync.Start(ctx)
	defer sync.Stop()

	var feedClient *feed.Client
	if cfg.EventsEnabled {
		feedClient = feed.NewClient(cfg.APIURL, feed.WithAPIKey(cfg.APIKey))
		feedClient.OnEvent(feed.ReconcileHandler(sync))
		feedClient.Start(ctx)
		defer feedClient.Stop()
	}

	if addr := cfg.StatusAddr(); addr != "" {
		opts := []status.Option{status.WithMessages(messages)}
		if feedClient != nil {
			opts = append(opts, status.WithFeed(feedClient))
		}
		srv := status.NewServer(addr, sync, opts...)
		srv.Start(ctx)
		defer func() { _ = srv.Stop(context.Background()) }()
	}

	if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
