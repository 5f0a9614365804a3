package domain

import (
	"time"
)

// Referral records the one-time commission paid to a referrer when the
// user they referred signs up under a paid plan.
type Referral struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ReferrerID     string    `json:"referrer_id" gorm:"index"`
	ReferredUserID string    `json:"referred_user_id" gorm:"uniqueIndex"`
	Commission     float64   `json:"commission"`
	IsPaid         bool      `json:"is_paid"`
	CreatedAt      time.Time `json:"created_at"`
}
