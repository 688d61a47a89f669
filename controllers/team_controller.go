package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewTeamController(db *gorm.DB, logger *logrus.Entry) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

type CreateTeamRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Members     []string `json:"members" validate:"required,min=1"`
	Priority    string   `json:"priority" validate:"required"`
	Deadline    string   `json:"deadline" validate:"required"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type AddMemberRequest struct {
	MemberID uint   `json:"member_id"`
	Email    string `json:"email" validate:"omitempty,email"`

	// Optional task assigned alongside the membership
	TaskName string `json:"task_name" validate:"omitempty,max=200"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline"`
}

type RemoveMemberRequest struct {
	MemberID uint `json:"member_id" validate:"required"`
}

type UpdateRoleRequest struct {
	MemberID uint   `json:"member_id" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	var req CreateTeamRequest
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

	// Reject obviously broken emails before hitting the database
	for _, email := range req.Members {
		if err := checkmail.ValidateFormat(email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid member email: " + email,
			})
		}
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

	var existingTeam models.Team
	if err := tc.DB.Where("name = ?", req.Name).First(&existingTeam).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Team name already exists",
		})
	}

	// Resolve member emails to users. All must exist.
	var members []models.User
	if err := tc.DB.Where("email IN ?", req.Members).Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve members", err)
	}
	if len(members) != len(req.Members) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Some members not found. Ensure all emails are registered",
		})
	}

	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
		Priority:    priority,
		Deadline:    deadline,
		Members:     members,
	}

	if err := tc.DB.Create(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Team name already exists",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	tc.Logger.WithFields(logrus.Fields{"team_id": team.ID, "members": len(members)}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeams lists non-trashed teams. Name search happens in SQL; the
// member-count bounds are applied in memory after preloading, which is fine
// at this dataset size.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	search := c.Query("search")
	minSize := c.QueryInt("minSize", 0)
	maxSize := c.QueryInt("maxSize", 0)

	query := tc.DB.Preload("Members").Where("is_deleted = ?", false)
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	if minSize > 0 || maxSize > 0 {
		filtered := make([]models.Team, 0, len(teams))
		for _, team := range teams {
			size := len(team.Members)
			if minSize > 0 && size < minSize {
				continue
			}
			if maxSize > 0 && size > maxSize {
				continue
			}
			filtered = append(filtered, team)
		}
		teams = filtered
	}

	return c.JSON(fiber.Map{"teams": teams})
}

func (tc *TeamController) GetTeamDetails(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var team models.Team
	if err := tc.DB.Preload("Members").Preload("Tasks").First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	return c.JSON(fiber.Map{"team": team})
}

func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var req UpdateTeamRequest
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

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != "" {
		team.Description = req.Description
	}

	if err := tc.DB.Save(&team).Error; err != nil {
		// Renaming onto another team's name lands on the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Team name already exists",
			})
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update team", err)
	}

	return c.JSON(fiber.Map{
		"message": "Team updated successfully",
		"team":    team,
	})
}

// AddMember adds a user to a team, optionally assigning a fresh task in the
// same breath. Membership and task creation commit atomically so a failure
// halfway cannot leave an orphaned task behind.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	teamID := utils.ParseUint(c.Params("teamId"))

	var req AddMemberRequest
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
	if req.MemberID == 0 && req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "member_id or email is required",
		})
	}

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	var user models.User
	userQuery := tc.DB
	if req.MemberID != 0 {
		userQuery = userQuery.Where("id = ?", req.MemberID)
	} else {
		userQuery = userQuery.Where("email = ?", req.Email)
	}
	if err := userQuery.First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var priority string
	var deadline *time.Time
	if req.TaskName != "" {
		var ok bool
		priority, ok = models.NormalizePriority(req.Priority)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority",
			})
		}
		var err error
		deadline, err = utils.ParseDeadline(req.Deadline)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var task *models.Task
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		// Append is a no-op when the membership row already exists
		if err := tx.Model(&team).Association("Members").Append(&user); err != nil {
			return err
		}

		if req.TaskName != "" {
			task = &models.Task{
				Title:        req.TaskName,
				Priority:     priority,
				Status:       models.StatusNotStarted,
				AssignedToID: user.ID,
				CreatedByID:  adminID,
				TeamID:       &team.ID,
				Deadline:     deadline,
			}
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	response := fiber.Map{"message": "Member added successfully"}
	if task != nil {
		response["message"] = "Member added and task assigned successfully"
		response["task"] = task
	}
	return c.JSON(response)
}

// RemoveMember is idempotent: removing an absent member succeeds.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var req RemoveMemberRequest
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

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	member := models.User{}
	member.ID = req.MemberID
	if err := tc.DB.Model(&team).Association("Members").Delete(&member); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	return c.JSON(fiber.Map{
		"message": "Member removed successfully",
	})
}

func (tc *TeamController) GetTrashedTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := tc.DB.Preload("Members").Where("is_deleted = ?", true).Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch trashed teams", err)
	}
	return c.JSON(fiber.Map{"trashedTeams": teams})
}

func (tc *TeamController) TrashTeam(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	now := time.Now()
	team.IsDeleted = true
	team.DeletedAt = &now
	if err := tc.DB.Save(&team).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to trash team", err)
	}

	return c.JSON(fiber.Map{
		"message": "Team moved to trash",
	})
}

func (tc *TeamController) RestoreTeam(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil || !team.IsDeleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found or not in trash",
		})
	}

	team.IsDeleted = false
	team.DeletedAt = nil
	if err := tc.DB.Save(&team).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to restore team", err)
	}

	return c.JSON(fiber.Map{
		"message": "Team restored successfully",
	})
}

// PermanentlyDeleteTeam hard-deletes a team, but only out of the trash.
func (tc *TeamController) PermanentlyDeleteTeam(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil || !team.IsDeleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found or not in trash",
		})
	}

	if err := tc.DB.Select("Members").Delete(&team).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", err)
	}

	return c.JSON(fiber.Map{
		"message": "Team permanently deleted",
	})
}

func (tc *TeamController) GetAllMembers(c *fiber.Ctx) error {
	search := c.Query("search")
	teamID := c.Query("teamId")

	var members []models.User
	if teamID != "" {
		var team models.Team
		if err := tc.DB.Preload("Members").First(&team, utils.ParseUint(teamID)).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		members = team.Members
	} else {
		query := tc.DB
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		if err := query.Find(&members).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch members", err)
		}
	}

	return c.JSON(members)
}

// UpdateRole promotes or demotes a user.
func (tc *TeamController) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
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

	var user models.User
	if err := tc.DB.First(&user, req.MemberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Role = req.Role
	if err := tc.DB.Save(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role", err)
	}

	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
	})
}

func (tc *TeamController) GetMemberDetails(c *fiber.Ctx) error {
	memberID := utils.ParseUint(c.Params("memberId"))

	var member models.User
	if err := tc.DB.Preload("Teams").First(&member, memberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var tasks []models.Task
	if err := tc.DB.Where("assigned_to_id = ?", member.ID).Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch member tasks", err)
	}

	var completed, pending int
	for _, task := range tasks {
		if task.Status == models.StatusCompleted {
			completed++
		} else {
			pending++
		}
	}

	return c.JSON(fiber.Map{
		"member":         member,
		"completedTasks": completed,
		"pendingTasks":   pending,
		"tasks":          tasks,
	})
}

type memberProgress struct {
	MemberName string `json:"memberName"`
	Completed  int64  `json:"completed"`
	Total      int64  `json:"total"`
}

func (tc *TeamController) GetTeamProgress(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("teamId"))

	var team models.Team
	if err := tc.DB.Preload("Members").First(&team, teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	progress := make([]memberProgress, 0, len(team.Members))
	for _, member := range team.Members {
		var completed, total int64
		tc.DB.Model(&models.Task{}).
			Where("assigned_to_id = ? AND status = ?", member.ID, models.StatusCompleted).
			Count(&completed)
		tc.DB.Model(&models.Task{}).
			Where("assigned_to_id = ?", member.ID).
			Count(&total)

		progress = append(progress, memberProgress{
			MemberName: member.Name,
			Completed:  completed,
			Total:      total,
		})
	}

	return c.JSON(progress)
}

type contributor struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TaskCount int64  `json:"taskCount"`
}

// GetMemberInsights returns the top contributors by completed tasks and the
// members with nothing assigned.
func (tc *TeamController) GetMemberInsights(c *fiber.Ctx) error {
	var topContributors []contributor
	if err := tc.DB.Model(&models.Task{}).
		Select("users.id AS id, users.name AS name, COUNT(tasks.id) AS task_count").
		Joins("JOIN users ON users.id = tasks.assigned_to_id").
		Where("tasks.status = ?", models.StatusCompleted).
		Group("users.id, users.name").
		Order("task_count DESC").
		Limit(5).
		Scan(&topContributors).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch top contributors", err)
	}

	var inactiveMembers []models.User
	assigned := tc.DB.Model(&models.Task{}).Select("assigned_to_id")
	if err := tc.DB.Where("id NOT IN (?)", assigned).Find(&inactiveMembers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch inactive members", err)
	}

	return c.JSON(fiber.Map{
		"topContributors": topContributors,
		"inactiveMembers": inactiveMembers,
	})
}

func (tc *TeamController) GetRecentActivity(c *fiber.Ctx) error {
	var recentTasks []models.Task
	if err := tc.DB.Order("updated_at DESC").Limit(5).Find(&recentTasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recent tasks", err)
	}

	var recentMembers []models.User
	if err := tc.DB.Where("last_activity IS NOT NULL").
		Order("last_activity DESC").
		Limit(5).
		Find(&recentMembers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recent members", err)
	}

	return c.JSON(fiber.Map{
		"tasks":   recentTasks,
		"members": recentMembers,
	})
}

func (tc *TeamController) GetTaskOverview(c *fiber.Ctx) error {
	var total, completed, pending, overdue int64

	tc.DB.Model(&models.Task{}).Count(&total)
	tc.DB.Model(&models.Task{}).Where("status = ?", models.StatusCompleted).Count(&completed)
	tc.DB.Model(&models.Task{}).Where("status = ?", models.StatusInProgress).Count(&pending)
	tc.DB.Model(&models.Task{}).
		Where("deadline IS NOT NULL AND deadline < ? AND status <> ?", time.Now(), models.StatusCompleted).
		Count(&overdue)

	return c.JSON(fiber.Map{
		"totalTasks":     total,
		"completedTasks": completed,
		"pendingTasks":   pending,
		"overdueTasks":   overdue,
	})
}

func (tc *TeamController) GetTeamOverview(c *fiber.Ctx) error {
	var totalTeams, totalMembers int64
	tc.DB.Model(&models.Team{}).Where("is_deleted = ?", false).Count(&totalTeams)
	tc.DB.Model(&models.User{}).Count(&totalMembers)

	var recentTeams []models.Team
	if err := tc.DB.Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(5).
		Find(&recentTeams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recent teams", err)
	}

	return c.JSON(fiber.Map{
		"totalTeams":   totalTeams,
		"totalMembers": totalMembers,
		"recentTeams":  recentTeams,
	})
}
