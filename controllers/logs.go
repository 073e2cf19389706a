package controllers

import (
	"strconv"

	"attendqr_go/database"
	"attendqr_go/middleware"
	"attendqr_go/models"
	"attendqr_go/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetLogs returns activity logs with pagination and filters (admin only)
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{})
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	query.Count(&total)

	var logs []models.ActivityLog
	if err := query.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLogStats returns per-action and per-resource counts
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	type countRow struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byAction []countRow
	database.DB.Model(&models.ActivityLog{}).
		Select("action AS `key`, COUNT(*) AS count").
		Group("action").Scan(&byAction)

	var byResource []countRow
	database.DB.Model(&models.ActivityLog{}).
		Select("resource AS `key`, COUNT(*) AS count").
		Group("resource").Scan(&byResource)

	var total int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)

	return c.JSON(fiber.Map{
		"total":       total,
		"by_action":   byAction,
		"by_resource": byResource,
	})
}

// GetArchives lists archived log files stored in S3
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch archives",
		})
	}
	return c.JSON(fiber.Map{"archives": archives})
}

// DownloadArchive streams an archived log zip back from S3
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid archive ID"})
	}

	reader, filename, err := services.NewLogArchiveService().DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "EXPORT", "log_archives", uint(id), fiber.Map{"file": filename})

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.SendStream(reader)
}

// FlushCachedLogs forces the Redis log cache into the database
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	if err := services.NewLogArchiveService().FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Cached logs flushed"})
}
