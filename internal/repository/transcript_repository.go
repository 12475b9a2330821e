package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jce-assistant/internal/model"
)

const (
	defaultTranscriptLimit = 50
	maxTranscriptLimit     = 200
)

type TranscriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create inserts exchange. A redelivered exchange with a known ExchangeID is
// ignored.
func (r *TranscriptRepository) Create(ctx context.Context, exchange *model.Exchange) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "exchange_id"}}, DoNothing: true}).
		Create(exchange).Error
	if err != nil {
		return fmt.Errorf("create exchange failed: %w", err)
	}
	return nil
}

// Record stores exchange synchronously.
func (r *TranscriptRepository) Record(ctx context.Context, exchange model.Exchange) error {
	return r.Create(ctx, &exchange)
}

// ListByUser returns the latest exchanges of userID, oldest first.
func (r *TranscriptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Exchange, error) {
	if limit <= 0 || limit > maxTranscriptLimit {
		limit = defaultTranscriptLimit
	}

	var exchanges []model.Exchange
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&exchanges).Error
	if err != nil {
		return nil, fmt.Errorf("list exchanges failed: %w", err)
	}
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
	return exchanges, nil
}
