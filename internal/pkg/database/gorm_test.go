package database

import (
	"context"
	"errors"
	"testing"

	"github.com/UkralStul/threaded-board/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

var testCfg = &config.DBConfig{MaxOpen: 4, MaxIdle: 2, MaxLifetime: 30}

func TestOpen_ConfiguresPool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	mock.ExpectPing()

	db, err := open(context.Background(), postgres.New(postgres.Config{Conn: sqlDB}), testCfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_ClosesPoolWhenPingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	db, err := open(context.Background(), postgres.New(postgres.Config{Conn: sqlDB}), testCfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "connection check failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
