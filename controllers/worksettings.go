package controllers

import (
	"errors"
	"strconv"

	"attendqr_go/database"
	"attendqr_go/middleware"
	"attendqr_go/models"
	"attendqr_go/services"
	"attendqr_go/services/attendance"

	"github.com/gofiber/fiber/v2"
)

type WorkSettingsController struct {
	service *services.WorkSettingsService
}

func NewWorkSettingsController() *WorkSettingsController {
	return &WorkSettingsController{service: services.NewWorkSettingsService()}
}

// GetWorkSettings returns the cutover hours for a group, falling back to the
// configured defaults when no row exists yet.
func (wc *WorkSettingsController) GetWorkSettings(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(groupID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	settings, err := wc.service.GetOrDefault(group.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateWorkSettings sets a group's cutover hours
func (wc *WorkSettingsController) UpdateWorkSettings(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(groupID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}
	if user.Role == "faculty" && group.FacultyID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your group"})
	}

	var req struct {
		CheckinDeadlineHour int `json:"checkin_deadline_hour" validate:"required"`
		CheckoutStartHour   int `json:"checkout_start_hour" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settings, err := wc.service.Upsert(group.ID, req.CheckinDeadlineHour, req.CheckoutStartHour)
	if err != nil {
		if errors.Is(err, attendance.ErrConfiguration) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}

	middleware.LogActivity(c, "UPDATE", "work_settings", settings.ID, fiber.Map{
		"group_id":              group.ID,
		"checkin_deadline_hour": settings.CheckinDeadlineHour,
		"checkout_start_hour":   settings.CheckoutStartHour,
	})

	return c.JSON(fiber.Map{
		"message":  "Work settings updated",
		"settings": settings,
	})
}
