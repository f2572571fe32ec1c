package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/config"
	"github.com/glebk/sati-bot/internal/domain"
	"github.com/glebk/sati-bot/internal/llm"
	"github.com/glebk/sati-bot/internal/logging"
	"github.com/glebk/sati-bot/internal/reflection"
	"github.com/glebk/sati-bot/internal/repository/filestore"
	"github.com/glebk/sati-bot/internal/repository/sqlite"
	"github.com/glebk/sati-bot/internal/service"
)

// app holds everything the subcommands share.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	events      *filestore.EventRepository
	meditations *filestore.MeditationRepository
	journal     *service.JournalService
	closers     []func() error
}

// newApp loads configuration and wires storage, the generation backend and
// the journal service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	opts := filestore.Options{Logger: logger}
	a.events = filestore.NewEventRepository(cfg.Storage.EventsPath, opts)
	a.meditations = filestore.NewMeditationRepository(cfg.Storage.MeditationsPath, opts)

	subscribers, err := a.openSubscribers()
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		a.Close()
		return nil, err
	}
	if provider == nil {
		logger.Info("No generation backend configured, reflections use the fallback text")
	} else {
		logger.Info("Generation backend ready",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", provider.ModelID()))
	}

	a.journal = service.NewJournalService(service.Deps{
		Events:      a.events,
		Meditations: a.meditations,
		Subscribers: subscribers,
		Reflections: filestore.NewReflectionLog(cfg.Storage.ReflectionsPath),
		Reflector:   reflection.NewGenerator(provider, reflection.WithLogger(logger)),
		Location:    cfg.Location,
		Logger:      logger,
	})
	return a, nil
}

func (a *app) openSubscribers() (domain.SubscriberRepository, error) {
	if a.cfg.Storage.SubscribersBackend != config.SubscribersSQLite {
		return filestore.NewSubscriberRepository(a.cfg.Storage.SubscribersPath, a.logger), nil
	}

	db, err := sqlite.New(a.cfg.Storage.SubscribersDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open subscriber database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Info("Subscriber database initialized", zap.String("path", a.cfg.Storage.SubscribersDBPath))
	return sqlite.NewSubscriberRepository(db), nil
}

// ensureStorage creates or migrates both journal files.
func (a *app) ensureStorage() error {
	if err := a.events.EnsureReady(); err != nil {
		return fmt.Errorf("events log: %w", err)
	}
	if err := a.meditations.EnsureReady(); err != nil {
		return fmt.Errorf("meditation log: %w", err)
	}
	a.logger.Info("Storage ready",
		zap.String("events", a.events.Path()),
		zap.String("meditations", a.meditations.Path()))
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
}
