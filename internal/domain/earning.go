package domain

import (
	"time"
)

type EarningType string

const (
	EarningTypeTaskCompletion     EarningType = "task_completion"
	EarningTypeReferralCommission EarningType = "referral_commission"
)

// Earning is an append-only ledger entry. Rows are never mutated or
// deleted; a user's TotalEarnings equals the sum of their rows.
type Earning struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"user_id" gorm:"index"`
	Amount      float64     `json:"amount"`
	Type        EarningType `json:"type"`
	Description string      `json:"description"`
	ReferenceID string      `json:"reference_id"` // task id or referred user id
	CreatedAt   time.Time   `json:"created_at"`
}
