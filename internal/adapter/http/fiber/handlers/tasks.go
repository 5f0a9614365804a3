package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/adapter/http/fiber/middleware"
	"github.com/paradox-app/paradox/internal/domain"
	"github.com/paradox-app/paradox/internal/ports"
)

type TaskHandler struct {
	tasks    ports.TaskService
	earnings ports.EarningsService
	log      *zap.Logger
}

func NewTaskHandler(tasks ports.TaskService, earnings ports.EarningsService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		earnings: earnings,
		log:      log,
	}
}

func (h *TaskHandler) Available(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	tasks, err := h.tasks.AvailableTasks(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}

func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "task id is required"})
	}

	result, err := h.earnings.CompleteTask(c.Context(), userID, taskID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"reward":          result.Reward,
		"current_balance": result.CurrentBalance,
		"total_earnings":  result.TotalEarnings,
		"tasks_completed": result.TasksCompleted,
	})
}

type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Reward       float64 `json:"reward"`
	PlanRequired string  `json:"planRequired"`
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
	}
	if req.PlanRequired != "" {
		plan := domain.Plan(req.PlanRequired)
		task.PlanRequired = &plan
	}

	created, err := h.tasks.CreateTask(c.Context(), middleware.CurrentUser(c), task)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "task": created})
}

type ToggleTaskRequest struct {
	Active bool `json:"active"`
}

func (h *TaskHandler) Toggle(c *fiber.Ctx) error {
	var req ToggleTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := h.tasks.SetTaskActive(c.Context(), middleware.CurrentUser(c), c.Params("id"), req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TaskHandler) ListAll(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListAll(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}
