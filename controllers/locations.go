package controllers

import (
	"strconv"

	"attendqr_go/database"
	"attendqr_go/middleware"
	"attendqr_go/models"
	"attendqr_go/storage"
	"attendqr_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LocationController struct{}

type locationRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=255"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// GetLocations lists all active locations
func (lc *LocationController) GetLocations(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Location{})
	if c.Query("all") != "true" {
		query = query.Where("active = ?", true)
	}

	var locations []models.Location
	if err := query.Order("name").Find(&locations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch locations",
		})
	}

	return c.JSON(fiber.Map{"locations": locations})
}

// GetLocation returns a specific location
func (lc *LocationController) GetLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	return c.JSON(fiber.Map{"location": location})
}

// CreateLocation creates a new QR-bound location
func (lc *LocationController) CreateLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	location := models.Location{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Active:    true,
	}
	if err := database.DB.Create(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create location"})
	}

	middleware.LogActivity(c, "CREATE", "locations", location.ID, fiber.Map{"name": location.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Location created successfully",
		"location": location,
	})
}

// UpdateLocation updates location fields. Changing coordinates invalidates any
// printed poster, so the poster URL is cleared when they move.
func (lc *LocationController) UpdateLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	var req struct {
		Name      string   `json:"name"`
		Address   string   `json:"address"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Active    *bool    `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	moved := false
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Latitude out of range"})
		}
		updates["latitude"] = *req.Latitude
		moved = true
	}
	if req.Longitude != nil {
		if *req.Longitude < -180 || *req.Longitude > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Longitude out of range"})
		}
		updates["longitude"] = *req.Longitude
		moved = true
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if moved {
		updates["poster_url"] = ""
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&location).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
		}
	}

	middleware.LogActivity(c, "UPDATE", "locations", location.ID, updates)

	return c.JSON(fiber.Map{
		"message":  "Location updated successfully",
		"location": location,
	})
}

// DeleteLocation soft-deletes a location
func (lc *LocationController) DeleteLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	if err := database.DB.Delete(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete location"})
	}

	middleware.LogActivity(c, "DELETE", "locations", location.ID, fiber.Map{"name": location.Name})

	return c.JSON(fiber.Map{"message": "Location deleted successfully"})
}

// GetLocationQR returns the JSON payload the frontend encodes into the printed
// QR code for this location.
func (lc *LocationController) GetLocationQR(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	payload, err := utils.BuildLocationQRPayload(&location)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build QR payload"})
	}

	return c.JSON(fiber.Map{
		"payload":    string(payload),
		"poster_url": location.PosterURL,
	})
}

// UploadPoster stores a rendered QR poster image for printing
func (lc *LocationController) UploadPoster(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	file, err := c.FormFile("poster")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}
	if !utils.IsValidFileExtension(file.Filename, []string{"png", "jpg", "jpeg", "pdf"}) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported file type"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Storage service initialization failed"})
	}

	posterURL, err := storageService.UploadFile(file, "qr-posters", user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload poster"})
	}

	if location.PosterURL != "" {
		go storageService.DeleteFile(location.PosterURL)
	}

	if err := database.DB.Model(&location).Update("poster_url", posterURL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
	}

	middleware.LogActivity(c, "UPDATE", "locations", location.ID, fiber.Map{
		"action": "poster_upload",
		"poster": posterURL,
	})

	return c.JSON(fiber.Map{
		"message":    "Poster uploaded successfully",
		"poster_url": posterURL,
	})
}
