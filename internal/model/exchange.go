package model

import "time"

// Exchange is the transcript of one handled utterance.
type Exchange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExchangeID string    `gorm:"size:36;not null;uniqueIndex" json:"exchange_id"`
	UserID     string    `gorm:"size:64;not null;index" json:"user_id"`
	Utterance  string    `gorm:"type:text;not null" json:"utterance"`
	Reply      string    `gorm:"type:text;not null" json:"reply"`
	Source     string    `gorm:"size:16;not null;index" json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
