package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/YrayPixels/recipiehunter-sub001/internal/config"
	"github.com/YrayPixels/recipiehunter-sub001/internal/eventbus"
	"github.com/YrayPixels/recipiehunter-sub001/internal/gateway"
	"github.com/YrayPixels/recipiehunter-sub001/internal/remind"
	"github.com/YrayPixels/recipiehunter-sub001/internal/storage"
	logx "github.com/YrayPixels/recipiehunter-sub001/pkg/logx"
)

// App wires config, logging, the settings store, the notification gateway,
// and the scheduling engine into a runnable daemon.
//
// Reconciliation runs at startup and again whenever the config file is
// reloaded, the daemon equivalents of "app launch" and "settings changed".
type App struct {
	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger
	bus  eventbus.Bus

	store storage.Store
	gw    *gateway.Local
	rec   *remind.Reconciler
	disp  *remind.Dispatcher

	cancel context.CancelFunc
	cfgSub chan *config.Config
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	bus := eventbus.New()

	busyTimeout, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	sink, err := buildSink(cfg.Gateway, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	gw, err := gateway.NewLocal(gateway.Config{
		Timezone:   cfg.Gateway.Timezone,
		Permission: cfg.Gateway.Permission,
	}, sink, log.With(logx.String("comp", "gateway")), bus)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		cfgm:  cfgm,
		logs:  logs,
		log:   log,
		bus:   bus,
		store: store,
		gw:    gw,
		rec:   remind.NewReconciler(gw, log.With(logx.String("comp", "reconciler")), bus),
		disp:  remind.NewDispatcher(gw, store, log.With(logx.String("comp", "oneshot")), bus),
	}, nil
}

func buildSink(cfg config.GatewayConfig, log logx.Logger) (gateway.Sink, error) {
	switch cfg.Sink {
	case "", "log":
		return gateway.NewLogSink(log.With(logx.String("comp", "sink"))), nil
	case "telegram":
		if cfg.Telegram == nil {
			return nil, fmt.Errorf("gateway.telegram is required for the telegram sink")
		}
		timeout, err := config.ParseDurationField("gateway.telegram.send_timeout", cfg.Telegram.SendTimeout)
		if err != nil {
			return nil, err
		}
		return gateway.NewTelegramSink(gateway.TelegramConfig{
			Token:       cfg.Telegram.Token,
			ChatID:      cfg.Telegram.ChatID,
			SendTimeout: timeout,
		}, log.With(logx.String("comp", "sink")))
	default:
		return nil, fmt.Errorf("unknown gateway sink %q", cfg.Sink)
	}
}

// Reconciler exposes the engine for callers that trigger reconciliation or
// cancel individual reminders (e.g. after deleting a custom one).
func (a *App) Reconciler() *remind.Reconciler { return a.rec }

// Dispatcher exposes the one-shot sender (milestones, goal events).
func (a *App) Dispatcher() *remind.Dispatcher { return a.disp }

// Store exposes the settings persistence boundary.
func (a *App) Store() storage.Store { return a.store }

// Start brings everything up and runs the initial reconciliation.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.gw.Start(runCtx)

	if err := a.Reconcile(ctx); err != nil {
		cancel()
		return err
	}

	// Config hot reload: re-apply logging and reconcile. Gateway sink and
	// permission changes need a restart; the reconcile pass picks up
	// everything settings-driven.
	a.cfgSub = a.cfgm.Subscribe(4)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(runCtx)
	}()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for cfg := range a.cfgSub {
			if cfg == nil {
				continue
			}
			a.logs.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File: logx.FileConfig{
					Enabled: cfg.Logging.File.Enabled,
					Path:    cfg.Logging.File.Path,
				},
			})
			a.log.Info("config reloaded; reconciling reminders")
			if err := a.Reconcile(runCtx); err != nil {
				a.log.Error("reconcile after config reload failed", logx.Err(err))
			}
		}
	}()

	// Surface gateway lifecycle events in the log.
	events, unsub := a.bus.Subscribe(32)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer unsub()
		for {
			select {
			case <-runCtx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Type != eventbus.EventReminderDelivered {
					continue
				}
				if re, ok := ev.Data.(eventbus.ReminderEvent); ok && re.Error == "" {
					a.log.Info("reminder fired",
						logx.String("identifier", re.Identifier),
						logx.String("title", re.Title))
				}
			}
		}
	}()

	a.log.Info("reminder engine started")
	return nil
}

// Reconcile loads the current settings snapshot and applies it wholesale.
func (a *App) Reconcile(ctx context.Context) error {
	settings, err := a.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := a.rec.Reconcile(ctx, settings); err != nil {
		return err
	}
	for _, e := range a.gw.Snapshot() {
		a.log.Debug("live trigger",
			logx.String("identifier", e.Identifier),
			logx.Time("next", e.Next))
	}
	return nil
}

// Stop shuts the daemon down. Safe to call once after Start.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cfgSub != nil {
		a.cfgm.Unsubscribe(a.cfgSub)
		a.cfgSub = nil
	}
	err := a.gw.Stop(ctx)
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	a.wg.Wait()
	_ = a.logs.Close()
	return err
}
