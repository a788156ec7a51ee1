package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/adapters/handler/http"
	slackadapter "github.com/vncsmyrnk/votebot/internal/adapters/slack"
	"github.com/vncsmyrnk/votebot/internal/app"
	"github.com/vncsmyrnk/votebot/internal/config"
	"github.com/vncsmyrnk/votebot/internal/logging"
	"github.com/vncsmyrnk/votebot/internal/scheduler"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start")
	}
	defer a.Close()

	handler := http.NewHandler(http.Handlers{
		Index:       http.NewIndexHandler(cfg.Server.Version),
		Slash:       http.NewSlashHandler(a.Users, a.Votes, a.Results, a.Jobs, a.Slack, a.Slack, a.Renderer, a.Periods, log),
		Interactive: http.NewInteractiveHandler(a.Users, a.Votes, a.Slack, a.Renderer, a.Periods, log),
		Events:      http.NewEventsHandler(a.Users, a.Slack, a.Slack, a.Renderer, log),
	}, slackadapter.NewVerifier(cfg.Slack.SigningSecret), log)
	server := &stdhttp.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = newScheduler(cfg.Scheduler, a, log)
		if err != nil {
			log.WithError(err).Fatal("failed to set up scheduler")
		}
		if err := sched.Start(); err != nil {
			log.WithError(err).Fatal("failed to start scheduler")
		}
	}

	go func() {
		log.WithField("addr", server.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
		os.Exit(1)
	}
}

// newScheduler registers the daily jobs: the user sync and the calendar
// messages at 10:00 and the new points digest at 16:00.
func newScheduler(cfg config.SchedulerConfig, a *app.App, log logrus.FieldLogger) (*scheduler.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(log, scheduler.WithPollInterval(cfg.PollInterval))
	sched.Register("sync-users", scheduler.DailyAt(10, 0, loc), a.Jobs.SyncUsers)
	sched.Register("periodic-messages", scheduler.DailyAt(10, 0, loc), a.Jobs.SendPeriodicMessages)
	sched.Register("notify-new-points", scheduler.DailyAt(16, 0, loc), a.Jobs.NotifyAboutNewPoints)
	return sched, nil
}
