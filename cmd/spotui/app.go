package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/spotui/internal/command"
	"github.com/genricoloni/spotui/internal/config"
	"github.com/genricoloni/spotui/internal/domain"
	"github.com/genricoloni/spotui/internal/engine"
	"github.com/genricoloni/spotui/internal/fetcher"
	"github.com/genricoloni/spotui/internal/processor"
	"github.com/genricoloni/spotui/internal/service/mpris"
	"github.com/genricoloni/spotui/internal/service/webapi"
	"github.com/genricoloni/spotui/internal/tui"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// appOptions is the dependency graph of the dashboard
func appOptions(cfg *config.AppConfig, opts config.Options) fx.Option {
	return fx.Options(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Supply(cfg, opts),

		fx.Provide(
			newLogger,
			newService,
			fx.Annotate(newFetcher, fx.As(new(domain.Fetcher))),
			fx.Annotate(processor.NewGlyphProcessor, fx.As(new(domain.GlyphRenderer))),
			newScheduler,
			newRouter,
			newModel,
			newProgram,
		),

		// Hooks start in this order and stop in reverse
		fx.Invoke(registerService),
		fx.Invoke(registerWatcher),
		fx.Invoke(registerProgram),
	)
}

// newLogger writes JSON logs to the configured file; the terminal belongs to the dashboard
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

// newService picks the playback service for the configured backend
func newService(cfg *config.AppConfig, logger *zap.Logger) (domain.PlaybackService, error) {
	switch cfg.Backend {
	case config.BackendMPRIS:
		return mpris.NewClient(logger.Named("mpris"), cfg.MPRIS.Player), nil
	case config.BackendWebAPI:
		return webapi.NewClient(logger.Named("webapi"), cfg.WebAPI.BaseURL, cfg.WebAPI.AccessToken, 0), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func newFetcher(cfg *config.AppConfig, logger *zap.Logger) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(logger.Named("fetcher"), cfg.FetchTimeout)
}

func newScheduler(
	cfg *config.AppConfig,
	logger *zap.Logger,
	service domain.PlaybackService,
	f domain.Fetcher,
	r domain.GlyphRenderer,
) *engine.Scheduler {
	return engine.NewScheduler(logger.Named("scheduler"), service, f, r, engine.Settings{
		FetchTimeout: cfg.FetchTimeout,
		ArtEnabled:   cfg.Art.Enabled,
	})
}

func newRouter(cfg *config.AppConfig, logger *zap.Logger, service domain.PlaybackService) *command.Router {
	return command.NewRouter(logger.Named("router"), service, command.Settings{SearchLimit: cfg.SearchLimit})
}

func newModel(
	cfg *config.AppConfig,
	logger *zap.Logger,
	service domain.PlaybackService,
	scheduler *engine.Scheduler,
	router *command.Router,
) tui.Model {
	var changes <-chan struct{}
	if n, ok := service.(domain.ChangeNotifier); ok {
		changes = n.Changes()
	}

	out := termenv.NewOutput(os.Stdout)
	helpStyle := "light"
	if out.HasDarkBackground() {
		helpStyle = "dark"
	}

	return tui.New(logger.Named("tui"), scheduler, router, changes, tui.Options{
		Settings:  tui.SettingsFrom(cfg),
		Profile:   out.EnvColorProfile(),
		HelpStyle: helpStyle,
		Backend:   cfg.Backend,
	})
}

func newProgram(model tui.Model) *tea.Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}

// registerService opens and closes services that hold a connection
func registerService(lc fx.Lifecycle, service domain.PlaybackService) {
	l, ok := service.(domain.Lifecycle)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStart: l.Start,
		OnStop:  l.Stop,
	})
}

// registerWatcher forwards config file changes to the dashboard
func registerWatcher(lc fx.Lifecycle, cfg *config.AppConfig, opts config.Options, logger *zap.Logger, program *tea.Program) {
	if cfg.Path() == "" {
		logger.Info("No configuration file, hot reload disabled")
		return
	}

	var watcher *config.Watcher
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w, err := config.Watch(logger.Named("config"), cfg.Path(), opts, func(next *config.AppConfig) {
				program.Send(tui.ConfigReloadedMsg{Settings: tui.SettingsFrom(next)})
			})
			if err != nil {
				// The dashboard works without hot reload
				logger.Warn("Config watcher unavailable", zap.Error(err))
				return nil
			}
			watcher = w
			return nil
		},
		OnStop: func(context.Context) error {
			if watcher == nil {
				return nil
			}
			return watcher.Close()
		},
	})
}

// registerProgram runs the dashboard and shuts the app down when it exits
func registerProgram(lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *zap.Logger, program *tea.Program) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := 0
				if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
					logger.Error("Dashboard failed", zap.Error(err))
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Warn("Shutdown request failed", zap.Error(err))
				}
			}()
			logger.Info("Dashboard started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			program.Quit()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			logger.Info("Shutting down")
			return nil
		},
	})
}
