package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

// Service manages the task catalog. Creation and toggling are admin
// operations; listing filters by the caller's plan and hides tasks
// already completed.
type Service struct {
	tasks  ports.TaskRepository
	ledger ports.LedgerRepository
	users  ports.UserRepository
	log    *zap.Logger
}

func NewService(tasks ports.TaskRepository, ledger ports.LedgerRepository, users ports.UserRepository, log *zap.Logger) *Service {
	return &Service{
		tasks:  tasks,
		ledger: ledger,
		users:  users,
		log:    log,
	}
}

// AvailableTasks returns active tasks visible to the user's plan that
// the user has not yet completed.
func (s *Service) AvailableTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user lookup", Err: err}
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	tasks, err := s.tasks.FindActiveForPlan(ctx, user.Plan)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "task list", Err: err}
	}

	completedIDs, err := s.ledger.CompletedTaskIDs(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "completion list", Err: err}
	}
	completed := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	available := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, done := completed[t.ID]; !done {
			available = append(available, t)
		}
	}
	return available, nil
}

func (s *Service) CreateTask(ctx context.Context, creator *domain.User, task *domain.Task) (*domain.Task, error) {
	if creator == nil || creator.UserType != domain.UserTypeAdmin {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(task.Title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
	}
	if task.Reward <= 0 {
		return nil, &domain.ValidationError{Field: "reward", Message: "reward must be positive"}
	}
	if task.PlanRequired != nil && !domain.ValidPlan(string(*task.PlanRequired)) {
		return nil, &domain.ValidationError{Field: "planRequired", Message: "unknown plan"}
	}

	now := time.Now()
	task.ID = uuid.NewString()
	task.Title = strings.TrimSpace(task.Title)
	task.IsActive = true
	task.CreatedBy = creator.ID
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, &domain.PersistenceError{Op: "task create", Err: err}
	}

	s.log.Info("Task created",
		zap.String("task_id", task.ID),
		zap.String("title", task.Title),
		zap.Float64("reward", task.Reward),
	)
	return task, nil
}

func (s *Service) SetTaskActive(ctx context.Context, actor *domain.User, taskID string, active bool) error {
	if actor == nil || actor.UserType != domain.UserTypeAdmin {
		return domain.ErrUnauthorized
	}
	if err := s.tasks.SetActive(ctx, taskID, active); err != nil {
		if err == domain.ErrNotFound {
			return err
		}
		return &domain.PersistenceError{Op: "task toggle", Err: err}
	}
	s.log.Info("Task active flag changed", zap.String("task_id", taskID), zap.Bool("active", active))
	return nil
}

func (s *Service) ListAll(ctx context.Context, actor *domain.User) ([]domain.Task, error) {
	if actor == nil || actor.UserType != domain.UserTypeAdmin {
		return nil, domain.ErrUnauthorized
	}
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "task list", Err: err}
	}
	return tasks, nil
}
