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

type AttendanceController struct {
	service *services.AttendanceService
}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{service: services.NewAttendanceService()}
}

type scanRequest struct {
	GroupID   uint    `json:"group_id" validate:"required"`
	ScanType  string  `json:"scan_type" validate:"required"`
	QRPayload string  `json:"qr_payload" validate:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Scan confirms a check-in or check-out from a scanned location QR code
func (ac *AttendanceController) Scan(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payload, err := utils.ParseLocationQRPayload([]byte(req.QRPayload))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid QR payload"})
	}

	var location models.Location
	if err := database.DB.Where("id = ? AND active = ?", payload.ID, true).First(&location).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown or inactive location"})
	}

	event, err := ac.service.RecordScan(services.ScanInput{
		UserID:     user.ID,
		GroupID:    req.GroupID,
		ScanType:   req.ScanType,
		LocationID: &location.ID,
		Latitude:   &req.Latitude,
		Longitude:  &req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrDuplicateScan):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already scanned for this type today"})
		case errors.Is(err, attendance.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
	}

	middleware.LogActivity(c, "CREATE", "attendance_events", event.ID, fiber.Map{
		"scan_type": event.ScanType,
		"group_id":  event.GroupID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Scan recorded",
		"event":   utils.ToAttendanceEventDTO(*event),
	})
}

// Today returns the caller's outcome for the current day in a group
func (ac *AttendanceController) Today(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	groupID, err := strconv.ParseUint(c.Query("group_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group_id"})
	}

	outcome, err := ac.service.OutcomeFor(user.ID, uint(groupID), time.Now().UTC())
	if err != nil {
		return attendanceError(c, err)
	}

	return c.JSON(fiber.Map{"outcome": outcome})
}

// Day returns one member's outcome for a specific date. Faculty and admins may
// query other users; students only themselves.
func (ac *AttendanceController) Day(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	groupID, err := strconv.ParseUint(c.Query("group_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group_id"})
	}

	targetID := user.ID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_id"})
		}
		if uint(parsed) != user.ID && user.Role == "student" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		targetID = uint(parsed)
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	outcome, err := ac.service.OutcomeFor(targetID, uint(groupID), day)
	if err != nil {
		return attendanceError(c, err)
	}

	return c.JSON(fiber.Map{"outcome": outcome})
}

// Range returns per-day outcomes plus an aggregate summary for a date range
func (ac *AttendanceController) Range(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	groupID, err := strconv.ParseUint(c.Query("group_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group_id"})
	}

	targetID := user.ID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user_id"})
		}
		if uint(parsed) != user.ID && user.Role == "student" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		targetID = uint(parsed)
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date, expected YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date, expected YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must not be before from"})
	}

	outcomes, err := ac.service.RangeOutcomes(targetID, uint(groupID), from, to)
	if err != nil {
		return attendanceError(c, err)
	}

	return c.JSON(fiber.Map{
		"outcomes": outcomes,
		"summary":  attendance.AggregateRange(outcomes),
	})
}

// Weeks returns the group's week windows, most recent first
func (ac *AttendanceController) Weeks(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Query("group_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group_id"})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(groupID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}
	if group.StartDate == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Group has no start date configured"})
	}

	windows, err := attendance.ComputeWeekWindows(*group.StartDate, time.Now().UTC())
	if err != nil {
		return attendanceError(c, err)
	}

	return c.JSON(fiber.Map{"weeks": windows})
}

// GroupToday returns today's outcome for every active member of a group
func (ac *AttendanceController) GroupToday(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}

	outcomes, err := ac.service.GroupTodayOutcomes(uint(groupID))
	if err != nil {
		return attendanceError(c, err)
	}

	return c.JSON(fiber.Map{"outcomes": outcomes})
}

// attendanceError maps classifier sentinel errors onto HTTP statuses.
func attendanceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, attendance.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, attendance.ErrConfiguration):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, attendance.ErrDuplicateScan):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, attendance.ErrStaleState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
