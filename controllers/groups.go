package controllers

import (
	"strconv"
	"time"

	"attendqr_go/database"
	"attendqr_go/middleware"
	"attendqr_go/models"
	"attendqr_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupController struct{}

type groupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Code        string `json:"code" validate:"required,min=2,max=50"`
	Description string `json:"description"`
	FacultyID   uint   `json:"faculty_id" validate:"required"`
	LocationID  *uint  `json:"location_id"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
}

// GetGroups lists groups. Faculty see their own groups, admins see everything.
func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	query := database.DB.Preload("Faculty").Preload("Location").Preload("WorkSettings")
	if status := c.Query("status", "active"); status != "" {
		query = query.Where("status = ?", status)
	}
	if user.Role == "faculty" {
		query = query.Where("faculty_id = ?", user.ID)
	}

	var groups []models.Group
	if err := query.Order("code").Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch groups",
		})
	}

	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup returns a group with its members
func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var group models.Group
	err = database.DB.
		Preload("Faculty").
		Preload("Location").
		Preload("WorkSettings").
		Preload("Members", "status = ?", "active").
		Preload("Members.User").
		First(&group, uint(id)).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	return c.JSON(fiber.Map{"group": group})
}

// CreateGroup creates a new attendance group
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var faculty models.User
	if err := database.DB.Where("id = ? AND role IN ?", req.FacultyID, []string{"faculty", "admin"}).
		First(&faculty).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Faculty user not found"})
	}

	var existing models.Group
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group code already exists"})
	}

	group := models.Group{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		FacultyID:   req.FacultyID,
		LocationID:  req.LocationID,
		Status:      "active",
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		group.StartDate = &start
	}

	if err := database.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create group"})
	}

	middleware.LogActivity(c, "CREATE", "groups", group.ID, fiber.Map{"code": group.Code})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Group created successfully",
		"group":   group,
	})
}

// UpdateGroup updates group fields including the reporting start date
func (gc *GroupController) UpdateGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		FacultyID   *uint  `json:"faculty_id"`
		LocationID  *uint  `json:"location_id"`
		StartDate   string `json:"start_date"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.FacultyID != nil {
		updates["faculty_id"] = *req.FacultyID
	}
	if req.LocationID != nil {
		updates["location_id"] = *req.LocationID
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		updates["start_date"] = start
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&group).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update group"})
		}
	}

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Group updated successfully",
		"group":   group,
	})
}

// DeleteGroup archives a group (soft delete)
func (gc *GroupController) DeleteGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	if err := database.DB.Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete group"})
	}

	middleware.LogActivity(c, "DELETE", "groups", group.ID, fiber.Map{"code": group.Code})

	return c.JSON(fiber.Map{"message": "Group deleted successfully"})
}

// AddMember enrolls a student into a group
func (gc *GroupController) AddMember(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(groupID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}
	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var member models.GroupMember
	err = database.DB.Where("group_id = ? AND user_id = ?", group.ID, user.ID).First(&member).Error
	switch {
	case err == nil && member.Status == "active":
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User is already a member"})
	case err == nil:
		// re-activate a previously removed member
		now := time.Now().UTC()
		if err := database.DB.Model(&member).
			Updates(map[string]interface{}{"status": "active", "joined_at": &now}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
		}
	case err == gorm.ErrRecordNotFound:
		now := time.Now().UTC()
		member = models.GroupMember{GroupID: group.ID, UserID: user.ID, Status: "active", JoinedAt: &now}
		if err := database.DB.Create(&member).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}

	middleware.LogActivity(c, "CREATE", "group_members", member.ID, fiber.Map{
		"group_id": group.ID,
		"user_id":  user.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member added successfully",
		"member":  member,
	})
}

// RemoveMember marks a membership inactive. Attendance history is preserved.
func (gc *GroupController) RemoveMember(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var member models.GroupMember
	if err := database.DB.
		Where("group_id = ? AND user_id = ? AND status = ?", uint(groupID), uint(userID), "active").
		First(&member).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	if err := database.DB.Model(&member).Update("status", "inactive").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove member"})
	}

	middleware.LogActivity(c, "DELETE", "group_members", member.ID, fiber.Map{
		"group_id": member.GroupID,
		"user_id":  member.UserID,
	})

	return c.JSON(fiber.Map{"message": "Member removed successfully"})
}
