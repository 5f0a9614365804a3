package domain

import (
	"time"
)

type Task struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Reward       float64   `json:"reward"`
	PlanRequired *Plan     `json:"plan_required,omitempty"` // nil means visible to every plan
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedBy    string    `json:"created_by" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VisibleTo reports whether an active task is offered to a user on the
// given plan.
func (t *Task) VisibleTo(plan Plan) bool {
	if !t.IsActive {
		return false
	}
	return t.PlanRequired == nil || *t.PlanRequired == plan
}

// UserTask records a completion. The (UserID, TaskID) pair is unique so
// a task can be completed at most once per user; RewardPaid snapshots
// the task reward at completion time.
type UserTask struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex:idx_user_task"`
	TaskID      string    `json:"task_id" gorm:"uniqueIndex:idx_user_task"`
	RewardPaid  float64   `json:"reward_paid"`
	CompletedAt time.Time `json:"completed_at"`
}
