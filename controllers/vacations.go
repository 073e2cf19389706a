package controllers

import (
	"errors"
	"strconv"
	"time"

	"attendqr_go/database"
	"attendqr_go/middleware"
	"attendqr_go/models"
	"attendqr_go/services"
	"attendqr_go/services/attendance"
	"attendqr_go/utils"

	"github.com/gofiber/fiber/v2"
)

type VacationController struct {
	service *services.VacationService
}

func NewVacationController() *VacationController {
	return &VacationController{service: services.NewVacationService()}
}

type vacationRequest struct {
	GroupID   uint   `json:"group_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason"`
}

// CreateVacation submits a vacation request for review
func (vc *VacationController) CreateVacation(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var req vacationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !utils.IsValidVacationType(req.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vacation type"})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
	}

	vacation, err := vc.service.Create(user.ID, req.GroupID, req.Type, start, end, req.Reason)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "CREATE", "vacation_requests", vacation.ID, fiber.Map{
		"group_id": vacation.GroupID,
		"type":     vacation.Type,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Vacation request submitted",
		"vacation": utils.ToVacationRequestDTO(*vacation),
	})
}

// GetVacations lists vacation requests. Students see their own, faculty see
// requests for their groups, admins see everything.
func (vc *VacationController) GetVacations(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	query := database.DB.Preload("User").Preload("Group").Preload("Reviewer").
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	switch user.Role {
	case "student":
		query = query.Where("user_id = ?", user.ID)
	case "faculty":
		query = query.Where("group_id IN (?)",
			database.DB.Model(&models.Group{}).Select("id").Where("faculty_id = ?", user.ID))
	}

	var requests []models.VacationRequest
	if err := query.Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch vacation requests",
		})
	}

	return c.JSON(fiber.Map{"vacations": utils.ToVacationRequestDTOs(requests)})
}

// ReviewVacation approves or rejects a pending request exactly once
func (vc *VacationController) ReviewVacation(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req struct {
		Decision string `json:"decision" validate:"required"` // approve, reject
		Comment  string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Decision must be approve or reject"})
	}

	// faculty can only review requests in their own groups
	if user.Role == "faculty" {
		var vacation models.VacationRequest
		if err := database.DB.Preload("Group").First(&vacation, uint(id)).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vacation request not found"})
		}
		if vacation.Group.FacultyID != user.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your group"})
		}
	}

	vacation, err := vc.service.Review(uint(id), user.ID, req.Decision == "approve", req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrStaleState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request was already reviewed"})
		case errors.Is(err, attendance.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
	}

	middleware.LogActivity(c, "UPDATE", "vacation_requests", vacation.ID, fiber.Map{
		"decision": req.Decision,
	})

	return c.JSON(fiber.Map{
		"message":  "Vacation request " + vacation.Status,
		"vacation": utils.ToVacationRequestDTO(*vacation),
	})
}
