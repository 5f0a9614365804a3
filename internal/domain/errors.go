package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrTaskAlreadyCompleted = errors.New("you have already completed this task")
	ErrTaskUnavailable      = errors.New("task not found or inactive")
	ErrInvalidCoupon        = errors.New("invalid coupon code")
	ErrCouponUsed           = errors.New("coupon has already been used")
)

// ValidationError marks missing or malformed input. The message is safe
// to surface verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateError marks a uniqueness violation (email or phone already
// registered).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

// CouponPlanError is returned when a coupon exists but belongs to a
// different plan. ValidPlan lets the caller prompt a correction.
type CouponPlanError struct {
	ValidPlan Plan
}

func (e *CouponPlanError) Error() string {
	return fmt.Sprintf("coupon not valid for this plan (valid for %s)", e.ValidPlan)
}

// WindowClosedError is returned when a withdrawal is attempted outside
// the last 7 days of the month.
type WindowClosedError struct {
	DaysUntilOpen int
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("withdrawal window closed, opens in %d days", e.DaysUntilOpen)
}

// InsufficientBalanceError carries the exact shortfall against the
// plan minimum for the requested stream.
type InsufficientBalanceError struct {
	Stream  WithdrawalType
	Minimum float64
	Balance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: minimum %.2f, current %.2f", e.Stream, e.Minimum, e.Balance)
}

// Shortfall is the amount still needed to reach the minimum.
func (e *InsufficientBalanceError) Shortfall() float64 {
	return e.Minimum - e.Balance
}

// PersistenceError wraps a store failure. Money-affecting operations
// fail closed on it; no partial writes survive.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError wraps a failed email or SMS delivery. Callers log
// it and continue; delivery is best effort.
type NotificationError struct {
	Channel string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
