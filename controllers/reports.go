package controllers

import (
	"errors"
	"strconv"

	"attendqr_go/middleware"
	"attendqr_go/services"
	"attendqr_go/services/attendance"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	service *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{service: services.NewReportService()}
}

// GetGroupWeekReport returns per-member outcomes and summaries for one week window
func (rc *ReportController) GetGroupWeekReport(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}
	weekIndex, err := strconv.Atoi(c.Query("week", "1"))
	if err != nil || weekIndex < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week index"})
	}

	report, err := rc.service.BuildGroupWeekReport(uint(groupID), weekIndex)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrConfiguration):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, attendance.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"report": report})
}

// ExportGroupWeekExcel streams the week report as an Excel workbook
func (rc *ReportController) ExportGroupWeekExcel(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group ID"})
	}
	weekIndex, err := strconv.Atoi(c.Query("week", "1"))
	if err != nil || weekIndex < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week index"})
	}

	buf, filename, err := rc.service.ExportGroupWeekExcel(uint(groupID), weekIndex)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrConfiguration):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, attendance.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
	}

	middleware.LogActivity(c, "EXPORT", "reports", uint(groupID), fiber.Map{
		"week": weekIndex,
		"file": filename,
	})

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
