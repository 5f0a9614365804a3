package domain

import (
	"time"
)

type WithdrawalType string

const (
	WithdrawalTypeTask     WithdrawalType = "task"
	WithdrawalTypeReferral WithdrawalType = "referral"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// WithdrawalRequest is recorded when a submission passes the window and
// balance checks. Settlement is a back-office process; no balance is
// deducted here.
type WithdrawalRequest struct {
	ID                 string           `json:"id" gorm:"primaryKey"`
	UserID             string           `json:"user_id" gorm:"index"`
	AccountName        string           `json:"account_name"`
	AccountNumber      string           `json:"account_number"`
	BankName           string           `json:"bank_name"`
	WithdrawalType     WithdrawalType   `json:"withdrawal_type"`
	Amount             float64          `json:"amount"`
	Status             WithdrawalStatus `json:"status"`
	RequestDate        time.Time        `json:"request_date"`
	ProcessingDeadline time.Time        `json:"processing_deadline"` // RequestDate + 48h
}
