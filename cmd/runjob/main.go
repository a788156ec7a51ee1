// Command runjob runs a single recurring job once, e.g. from a cron entry or by
// hand: runjob -job announce-winners
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/app"
	"github.com/vncsmyrnk/votebot/internal/config"
	"github.com/vncsmyrnk/votebot/internal/logging"
)

func main() {
	var jobName string
	flag.StringVar(&jobName, "job", "", "Job to run")
	flag.Parse()

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

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start")
	}
	defer a.Close()

	jobs := a.Jobs.Jobs()
	job, ok := jobs[jobName]
	if !ok {
		names := make([]string, 0, len(jobs))
		for name := range jobs {
			names = append(names, name)
		}
		slices.Sort(names)
		fmt.Fprintf(os.Stderr, "unknown job %q, expected one of: %s\n", jobName, strings.Join(names, ", "))
		os.Exit(2)
	}

	jobLog := log.WithField("job", jobName)
	jobLog.Info("starting job")
	start := time.Now()
	if err := job(ctx); err != nil {
		jobLog.WithError(err).Error("job failed")
		a.Close()
		os.Exit(1)
	}
	jobLog.WithField("elapsed", time.Since(start).String()).Info("job completed successfully")
}
