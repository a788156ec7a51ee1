package app

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/votebot/internal/config"
	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

func TestNewWithSQLite(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"},
		Slack:    config.SlackConfig{BotToken: "xoxb-test"},
		TopN:     3,
	}

	a, err := New(context.Background(), cfg, log)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Users.Get(context.Background(), "U1")
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
	assert.Len(t, a.Jobs.Jobs(), 6)
}

func TestNewUnsupportedDriver(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}

	_, err := New(context.Background(), cfg, log)
	assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
}
