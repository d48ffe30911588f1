package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"

	"employee-bot/internal/delivery/telegram"
	"employee-bot/internal/repository/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.Telegram.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			logger.Error("telegram handler failed", zap.Error(err))
		},
	})
	if err != nil {
		return err
	}

	h := telegram.NewHandler(ctx, bot, a.employees, a.async, cfg.Telegram.AllowedUsers, logger)
	h.Register()
	defer h.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		bot.Stop()
		return nil
	})
	if cfg.Storage.Watch {
		w := sqlite.NewWatcher(cfg.Storage.Path, a.employees.Refresh, logger)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	logger.Info("bot started", zap.String("username", bot.Me.Username))
	err = g.Wait()
	logger.Info("bot stopped")
	return err
}
