package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eliseohh/sagebot/internal/bot"
	"github.com/eliseohh/sagebot/internal/config"
	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/log"
	"github.com/eliseohh/sagebot/internal/metrics"
	"github.com/eliseohh/sagebot/internal/scheduler"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Start the bot, the scheduler and the ops server",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		cfg := config.Config()
		ll := log.GetLogger(log.CLIModule).WithField("at", "bot")
		ll.Info("starting bot")

		if cfg.BotConfig.Token == "" {
			return errors.New("BOT_TOKEN is required")
		}

		db, err := buildDB()
		if err != nil {
			return err
		}
		defer db.Close()
		ll.Info("index opened")

		var (
			courses bot.CourseLister
			syncer  scheduler.Syncer
		)
		if cfg.CanvasConfig.Token != "" {
			canvasClient := buildCanvasClient()
			courses = canvasClient
			syncer = index.NewIndexer(db, canvasClient)
		} else {
			ll.Warn("no CANVAS_TOKEN found, index sync disabled")
		}

		b, err := bot.New(bot.Config{
			Token:       cfg.BotConfig.Token,
			Name:        cfg.BotConfig.Name,
			Maintainers: cfg.BotConfig.Maintainers,
			PollTimeout: cfg.BotConfig.PollTimeout,
			FlipDelay:   cfg.BotConfig.FlipDelay,
		}, db, courses)
		if err != nil {
			return err
		}
		ll.Info("bot built")

		sched, err := scheduler.New(scheduler.Config{
			ReminderSchedule: cfg.SchedulerConfig.ReminderSchedule,
			SyncSchedule:     cfg.SchedulerConfig.SyncSchedule,
		}, db, b, syncer)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return metrics.NewServer(cfg.OpsAddr).Run(ctx)
		})
		g.Go(func() error {
			sched.Start(ctx)
			<-ctx.Done()
			sched.Stop()
			return nil
		})
		g.Go(func() error {
			go func() {
				<-ctx.Done()
				b.Stop()
			}()
			ll.Warn("starting listening for messages")
			b.Start()
			return nil
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		ll.Info("bot stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
