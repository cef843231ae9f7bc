// Package app assembles the bot: config, logging, transport, state,
// pipeline, and scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ecebot/internal/archive"
	"ecebot/internal/config"
	"ecebot/internal/greektext"
	"ecebot/internal/notify"
	"ecebot/internal/scheduler"
	"ecebot/internal/state"
	"ecebot/internal/status"
	"ecebot/internal/transport"
	"ecebot/internal/transport/telegram"
	"ecebot/internal/watch"
	"ecebot/pkg/logx"
)

const (
	announceJob = "announce"
	presenceJob = "presence"
)

type App struct {
	cfg    *config.Config
	logSvc *logx.Service
	log    logx.Logger

	client  transport.Client
	store   state.Store
	watcher *watch.Watcher
	rotator *status.Rotator
	sched   *scheduler.Service
}

// New loads configuration and wires every component. Nothing talks to the
// network yet except the Telegram getMe handshake.
func New(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, errors.New("TELEGRAM_TOKEN is not set")
	}

	// Bootstrap console logger until the full log service exists; the
	// adapter is both a log dependency and the log service's chat sink.
	boot := logx.NewConsole(cfg.Logging.Level)
	adapter, err := telegram.New(telegram.Config{Token: token}, boot)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleLogging(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}, chatSink{adapter})
	if cfg.Logging.Telegram.Enabled {
		target := cfg.Logging.Telegram.ChatID
		if target == 0 {
			target = cfg.Telegram.StateChannelID
		}
		logSvc.SetChatTarget(target)
	}
	adapter.SetLogger(log.With(logx.String("component", "telegram")))

	a := &App{cfg: cfg, logSvc: logSvc, log: log, client: adapter}
	if err := a.build(); err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	cfg := a.cfg

	interval, err := cfg.Interval()
	if err != nil {
		return err
	}
	httpTimeout, err := cfg.HTTPTimeout()
	if err != nil {
		return err
	}
	statusInterval, err := cfg.StatusInterval()
	if err != nil {
		return err
	}

	keywords, err := greektext.NewKeywordSet(cfg.Keywords)
	if err != nil {
		return fmt.Errorf("keywords: %w", err)
	}

	policy, ok := watch.ParsePolicy(cfg.Archive.DetailFailPolicy)
	if !ok {
		return fmt.Errorf("unknown archive.detail_fail_policy %q", cfg.Archive.DetailFailPolicy)
	}

	fetcher := archive.NewFetcher(archive.FetcherConfig{
		ArchiveURL: cfg.Archive.URL,
		BaseURL:    cfg.Archive.BaseURL,
		Timeout:    httpTimeout,
	}, a.log.With(logx.String("component", "archive")))

	filter := archive.NewFilter(keywords, cfg.MaxAge(), a.log)

	a.store, err = state.Open(state.Config{
		Driver:   cfg.State.Driver,
		Chat:     transport.ChatID(cfg.Telegram.StateChannelID),
		Filename: cfg.State.Filename,
		Path:     cfg.State.Path,
	}, a.client, a.log.With(logx.String("component", "state")))
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}

	seen := state.NewSeenIDs()
	notifier := notify.New(a.client, transport.ChatID(cfg.Telegram.ChannelID), a.log)
	a.watcher = watch.New(fetcher, filter, notifier, seen, a.store, policy, a.log.With(logx.String("component", "watch")))
	a.rotator = status.NewRotator(a.client, cfg.Status.Activities, a.log)

	a.sched = scheduler.New(a.log.With(logx.String("component", "scheduler")))
	if err := a.sched.AddEvery(announceJob, interval, a.watcher.Cycle); err != nil {
		return err
	}
	if cfg.StatusEnabled() {
		if err := a.sched.AddEvery(presenceJob, statusInterval, a.rotator.Rotate); err != nil {
			return err
		}
	}
	return nil
}

// Start restores persisted state, starts the timers, and kicks an immediate
// first cycle.
func (a *App) Start(ctx context.Context) error {
	a.watcher.Restore(ctx)

	if err := a.sched.Start(ctx); err != nil {
		return err
	}
	a.sched.Kick(announceJob)
	if a.cfg.StatusEnabled() {
		a.sched.Kick(presenceJob)
	}

	a.log.Info("ecebot started",
		logx.String("archive", a.cfg.Archive.URL),
		logx.Int64("channel", a.cfg.Telegram.ChannelID),
	)
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	err := a.sched.Stop(ctx)
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	if cerr := a.logSvc.Close(); err == nil {
		err = cerr
	}
	return err
}

// chatSink adapts the transport client to the logx sender interface.
type chatSink struct {
	client transport.Client
}

func (s chatSink) SendText(ctx context.Context, chatID int64, text string) error {
	return s.client.SendText(ctx, transport.ChatID(chatID), text)
}
