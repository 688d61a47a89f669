package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewTaskController(db *gorm.DB, logger *logrus.Entry) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SetPriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// GetUserTasks returns every task the caller created or is assigned to,
// newest first.
func (tc *TaskController) GetUserTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var tasks []models.Task
	if err := tc.DB.
		Where("assigned_to_id = ? OR created_by_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	priority, ok := models.NormalizePriority(req.Priority)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid priority",
		})
	}

	deadline, err := utils.ParseDeadline(req.Deadline)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Status is always "not started" on creation, whatever the client sent.
	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		Status:       models.StatusNotStarted,
		AssignedToID: userID,
		CreatedByID:  userID,
		Deadline:     deadline,
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	tc.Logger.WithFields(logrus.Fields{"task_id": task.ID, "user_id": userID}).Info("task created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTask merges the provided fields into a task the caller created.
// Tasks created by anyone else are reported as not found, not forbidden.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	taskID := utils.ParseUint(c.Params("taskId"))

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND created_by_id = ?", taskID, userID).First(&task).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found or unauthorized",
		})
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Priority != "" {
		priority, ok := models.NormalizePriority(req.Priority)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority",
			})
		}
		task.Priority = priority
	}
	if req.Deadline != "" {
		deadline, err := utils.ParseDeadline(req.Deadline)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		task.Deadline = deadline
	}

	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	taskID := utils.ParseUint(c.Params("taskId"))

	result := tc.DB.Unscoped().
		Where("id = ? AND created_by_id = ?", taskID, userID).
		Delete(&models.Task{})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found or unauthorized",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}

// UpdateTaskStatus persists a new status and returns the refreshed
// status-count graph for the task's creator so the SPA can redraw without a
// second round trip.
func (tc *TaskController) UpdateTaskStatus(c *fiber.Ctx) error {
	taskID := utils.ParseUint(c.Params("taskId"))

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	status, ok := models.NormalizeStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	var task models.Task
	if err := tc.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	task.Status = status
	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task status", err)
	}

	graph, err := tc.taskStatusCounts(task.CreatedByID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute status graph", err)
	}

	return c.JSON(fiber.Map{
		"message": "Task status updated",
		"task":    task,
		"graph":   graph,
	})
}

func (tc *TaskController) SetTaskPriority(c *fiber.Ctx) error {
	taskID := utils.ParseUint(c.Params("taskId"))

	var req SetPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	priority, ok := models.NormalizePriority(req.Priority)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid priority",
		})
	}

	var task models.Task
	if err := tc.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	task.Priority = priority
	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task priority", err)
	}

	return c.JSON(fiber.Map{
		"message": "Task priority updated",
		"task":    task,
	})
}

func (tc *TaskController) GetTaskStatusGraph(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	graph, err := tc.taskStatusCounts(userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute status graph", err)
	}
	return c.JSON(graph)
}

func (tc *TaskController) GetTaskPriorityGraph(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	rows := []struct {
		Priority string
		Count    int64
	}{}
	if err := tc.DB.Model(&models.Task{}).
		Select("LOWER(priority) AS priority, COUNT(*) AS count").
		Where("assigned_to_id = ? OR created_by_id = ?", userID, userID).
		Group("LOWER(priority)").
		Scan(&rows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute priority graph", err)
	}

	// All three keys are always present so the chart never loses a segment.
	graph := map[string]int64{
		models.PriorityLow:    0,
		models.PriorityMedium: 0,
		models.PriorityHigh:   0,
	}
	for _, row := range rows {
		if priority, ok := models.NormalizePriority(row.Priority); ok {
			graph[priority] = row.Count
		}
	}

	return c.JSON(graph)
}

// taskStatusCounts groups the user's visible tasks (created or assigned) by
// status. Counts always sum to the user's total visible task count.
func (tc *TaskController) taskStatusCounts(userID uint) (map[string]int64, error) {
	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := tc.DB.Model(&models.Task{}).
		Select("LOWER(status) AS status, COUNT(*) AS count").
		Where("assigned_to_id = ? OR created_by_id = ?", userID, userID).
		Group("LOWER(status)").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	graph := map[string]int64{
		models.StatusNotStarted: 0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
	}
	for _, row := range rows {
		if _, ok := graph[row.Status]; ok {
			graph[row.Status] = row.Count
		}
	}
	return graph, nil
}
