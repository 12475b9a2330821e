package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLite(t *testing.T) {
	db, err := New(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), "postgres", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
