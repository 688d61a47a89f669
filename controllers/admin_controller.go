package controller

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

type AdminController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewAdminController(db *gorm.DB, logger *logrus.Entry) *AdminController {
	return &AdminController{
		DB:     db,
		Logger: logger,
	}
}

type assignmentBucket struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetTaskAssignmentGraph buckets all tasks by creation date, ascending.
// Grouping happens in memory so the date formatting does not depend on the
// SQL dialect.
func (ac *AdminController) GetTaskAssignmentGraph(c *fiber.Ctx) error {
	var createdAts []time.Time
	if err := ac.DB.Model(&models.Task{}).Pluck("created_at", &createdAts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	counts := make(map[string]int64)
	for _, t := range createdAts {
		counts[t.Format("2006-01-02")]++
	}

	buckets := make([]assignmentBucket, 0, len(counts))
	for date, count := range counts {
		buckets = append(buckets, assignmentBucket{Date: date, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })

	return c.JSON(buckets)
}

// GetTaskProgressGraph groups all tasks by status. All three statuses are
// present in the response even when their count is zero.
func (ac *AdminController) GetTaskProgressGraph(c *fiber.Ctx) error {
	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := ac.DB.Model(&models.Task{}).
		Select("LOWER(status) AS status, COUNT(*) AS count").
		Group("LOWER(status)").
		Scan(&rows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task progress", err)
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

	return c.JSON(graph)
}
