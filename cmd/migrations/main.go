// Command migrations executes one SQL file from the postgres migrations
// directory, e.g. `migrations create_votes.up`.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/votebot/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/votebot/internal/config"
)

func main() {
	var basePath string
	flag.StringVar(&basePath, "dir", filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations"), "Migrations directory")
	flag.Parse()

	if flag.NArg() < 1 {
		logrus.Fatal("a migration name is required.")
	}
	migrationName := flag.Arg(0)

	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.Database.Driver != config.DriverPostgres {
		logrus.Fatalf("migrations only apply to postgres, DATABASE_DRIVER is %q", cfg.Database.Driver)
	}

	db, err := postgres.Open(context.Background(), cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect")
	}
	defer db.Close()

	fileContent, err := migrationFileContent(basePath, migrationName)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read migration")
	}

	if _, err := db.Exec(string(fileContent)); err != nil {
		db.Close()
		logrus.WithError(err).Fatal("failed to execute SQL file")
	}

	logrus.WithField("migration", migrationName).Info("migration file executed successfully")
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	filePath, err := migrationFilePath(basePath, migrationName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(basePath, filePath))
}

func migrationFilePath(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file %q not found", migrationName)
}
