package domain

import (
	"time"
)

type UserType string

const (
	UserTypeAdmin   UserType = "admin"
	UserTypeVendor  UserType = "vendor"
	UserTypeRegular UserType = "regular"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	FullName       string    `json:"fullname"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Phone          string    `json:"phone" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // Hashed password
	Plan           Plan      `json:"plan"`
	UserType       UserType  `json:"user_type"` // Derived from phone allow-lists at signup, immutable
	EmailVerified  bool      `json:"email_verified"`
	PhoneVerified  bool      `json:"phone_verified"`
	TotalEarnings  float64   `json:"total_earnings"`
	CurrentBalance float64   `json:"current_balance"`
	TasksCompleted int       `json:"tasks_completed"`
	ReferralCode   string    `json:"referral_code" gorm:"uniqueIndex"`
	ReferredBy     *string   `json:"referred_by,omitempty" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsPrivileged reports whether the user skips coupon and verification
// requirements.
func (u *User) IsPrivileged() bool {
	return u.UserType == UserTypeAdmin || u.UserType == UserTypeVendor
}
