// Package app wires the adapters and services shared by the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/votebot/internal/adapters/repository/sqlite"
	slackadapter "github.com/vncsmyrnk/votebot/internal/adapters/slack"
	"github.com/vncsmyrnk/votebot/internal/adapters/texts"
	"github.com/vncsmyrnk/votebot/internal/config"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
	"github.com/vncsmyrnk/votebot/internal/core/services"
)

type App struct {
	DB       *sql.DB
	Slack    *slackadapter.Client
	Renderer *texts.Renderer
	Periods  *services.PeriodCalculator
	Users    *services.UserService
	Votes    ports.VoteService
	Results  ports.ResultsService
	Jobs     *services.JobsService
}

// New opens the configured database and builds every service on top of it.
// The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	db, userRepo, voteRepo, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	renderer, err := texts.New()
	if err != nil {
		db.Close()
		return nil, err
	}

	client := slackadapter.NewClient(cfg.Slack.BotToken, log)
	periods := services.NewPeriodCalculator(nil)
	users := services.NewUserService(userRepo, client, cfg.HRSlackIDs, log)
	results := services.NewResultsService(userRepo, voteRepo)

	return &App{
		DB:       db,
		Slack:    client,
		Renderer: renderer,
		Periods:  periods,
		Users:    users,
		Votes:    services.NewVoteService(userRepo, voteRepo, periods, log),
		Results:  results,
		Jobs:     services.NewJobsService(users, results, client, renderer, periods, cfg.TopN, log),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, ports.UserRepository, ports.VoteRepository, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, postgres.NewUserRepository(db), postgres.NewVoteRepository(db), nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, sqlite.NewUserRepository(db), sqlite.NewVoteRepository(db), nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
