package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glebk/sati-bot/internal/admin"
	"github.com/glebk/sati-bot/internal/bot"
	"github.com/glebk/sati-bot/internal/dialog"
	"github.com/glebk/sati-bot/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the daily summary scheduler and the admin server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.RequireToken(); err != nil {
		return err
	}
	hour, minute, err := a.cfg.DailyTime()
	if err != nil {
		return err
	}
	if err := a.ensureStorage(); err != nil {
		return err
	}

	api, messenger, err := a.connect()
	if err != nil {
		return err
	}
	controller := dialog.NewController(a.journal, messenger,
		dialog.WithLogger(a.logger),
		dialog.WithDailySummaryTime(a.cfg.DailySummaryAt))

	g, gctx := errgroup.WithContext(ctx)

	if api != nil {
		telegramBot := bot.New(api, controller, a.logger.Named("bot"))
		g.Go(func() error {
			a.logger.Info("Bot started")
			return telegramBot.Start(gctx)
		})
	}

	daily := scheduler.NewDaily(hour, minute, a.cfg.Location,
		pushJob(controller, a.logger),
		scheduler.WithLogger(a.logger.Named("scheduler")))
	g.Go(func() error {
		return daily.Run(gctx)
	})

	if a.cfg.AdminAddr != "" {
		srv := admin.NewServer(a.cfg.AdminAddr, a.journal, a.logger.Named("admin"))
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	err = g.Wait()
	a.logger.Info("Shutting down")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// connect returns the Telegram client and the messenger built on it. With
// SKIP_TELEGRAM set the client is nil and outbound messages are only logged.
func (a *app) connect() (*tgbotapi.BotAPI, dialog.Messenger, error) {
	if a.cfg.SkipTelegram {
		a.logger.Warn("SKIP_TELEGRAM is set, outbound messages are logged only")
		return nil, newLogMessenger(a.logger.Named("messenger")), nil
	}

	api, err := bot.NewAPI(a.cfg.BotToken, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return api, bot.NewMessenger(api), nil
}

func pushJob(controller *dialog.Controller, logger *zap.Logger) scheduler.Job {
	return func(ctx context.Context) error {
		sent, err := controller.PushDailySummaries(ctx)
		logger.Info("Daily summaries pushed", zap.Int("sent", sent))
		if err != nil {
			return fmt.Errorf("daily push: %w", err)
		}
		return nil
	}
}
