package models

import "time"

// Recommendation is an advisory message derived from a user's transactions
// and budgets. Rows are replaced wholesale on each analysis run, so the
// table always holds exactly one current set per user.
type Recommendation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
