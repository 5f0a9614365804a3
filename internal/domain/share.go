package domain

import (
	"time"
)

// ShareLink is a per-user, per-platform referral tracking link.
type ShareLink struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_user_platform"`
	Platform     string    `json:"platform" gorm:"uniqueIndex:idx_user_platform"`
	TrackingCode string    `json:"tracking_code" gorm:"uniqueIndex"`
	URL          string    `json:"url"`
	Clicks       int       `json:"clicks"`
	CreatedAt    time.Time `json:"created_at"`
}

// ShareClick records a single visit through a tracking link.
type ShareClick struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	TrackingCode string    `json:"tracking_code" gorm:"index"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
	ClickedAt    time.Time `json:"clicked_at"`
}
