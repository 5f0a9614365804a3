package queue

// MessageQueue is the broker-agnostic interface the services publish
// platform events through (signups, task completions, withdrawals).
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Subjects used across the platform.
const (
	SubjectTaskCompleted    = "earnings.task_completed"
	SubjectReferralCredited = "earnings.referral_credited"
	SubjectWithdrawal       = "withdrawals.requested"
)
