package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jce-assistant/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Exchange{}))
	return db
}

func exchange(id, user string, at time.Time) model.Exchange {
	return model.Exchange{
		ExchangeID: id,
		UserID:     user,
		Utterance:  "¿Cuánto cuesta la cédula?",
		Reply:      "RD$ 400",
		Source:     "keyword",
		CreatedAt:  at,
	}
}

func TestTranscriptRepository_RecordAndList(t *testing.T) {
	repo := NewTranscriptRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, exchange(fmt.Sprintf("ex-%d", i), "u1", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Record(ctx, exchange("ex-other", "u2", base)))

	got, err := repo.ListByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ex-1", got[0].ExchangeID)
	assert.Equal(t, "ex-2", got[1].ExchangeID)
}

func TestTranscriptRepository_DuplicateExchangeIgnored(t *testing.T) {
	repo := NewTranscriptRepository(newTestDB(t))
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, exchange("same", "u1", at)))
	require.NoError(t, repo.Record(ctx, exchange("same", "u1", at)))

	got, err := repo.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
