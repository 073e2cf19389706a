package seeders

import (
	"log"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/utils"
)

// SeedDemoData populates a minimal demo dataset: an admin, a faculty member,
// two students, one location and one group with work settings. Idempotent.
func SeedDemoData() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedLocations()
	SeedGroups()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the demo accounts
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	password, err := utils.HashPassword("changeme123")
	if err != nil {
		log.Printf("Failed to hash seed password: %v", err)
		return
	}

	users := []models.User{
		{
			Username: "admin",
			Password: password,
			Email:    "admin@attendqr.local",
			Name:     "System Administrator",
			Role:     "admin",
			Status:   "active",
		},
		{
			Username: "prof.kim",
			Password: password,
			Email:    "prof.kim@attendqr.local",
			Name:     "Prof. Kim",
			Role:     "faculty",
			Status:   "active",
		},
		{
			Username: "student1",
			Password: password,
			Email:    "student1@attendqr.local",
			Name:     "Demo Student One",
			Role:     "student",
			Status:   "active",
		},
		{
			Username: "student2",
			Password: password,
			Email:    "student2@attendqr.local",
			Name:     "Demo Student Two",
			Role:     "student",
			Status:   "active",
		},
	}
	if err := database.DB.Create(&users).Error; err != nil {
		log.Printf("Failed to seed users: %v", err)
	}
}

// SeedLocations seeds the demo lab location
func SeedLocations() {
	var count int64
	database.DB.Model(&models.Location{}).Count(&count)
	if count > 0 {
		log.Println("Locations already seeded, skipping...")
		return
	}

	location := models.Location{
		Name:      "Engineering Lab 301",
		Address:   "Engineering Building, Room 301",
		Latitude:  37.5665,
		Longitude: 126.9780,
		Active:    true,
	}
	if err := database.DB.Create(&location).Error; err != nil {
		log.Printf("Failed to seed locations: %v", err)
	}
}

// SeedGroups seeds one demo group anchored to the most recent Monday, with
// default work settings and the demo students enrolled.
func SeedGroups() {
	var count int64
	database.DB.Model(&models.Group{}).Count(&count)
	if count > 0 {
		log.Println("Groups already seeded, skipping...")
		return
	}

	var faculty models.User
	if err := database.DB.Where("role = ?", "faculty").First(&faculty).Error; err != nil {
		log.Printf("Failed to find seed faculty: %v", err)
		return
	}
	var location models.Location
	if err := database.DB.First(&location).Error; err != nil {
		log.Printf("Failed to find seed location: %v", err)
		return
	}

	// most recent Monday, normalized to midnight UTC
	start := time.Now().UTC().Truncate(24 * time.Hour)
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	group := models.Group{
		Name:       "Systems Lab",
		Code:       "SYSLAB",
		FacultyID:  faculty.ID,
		LocationID: &location.ID,
		StartDate:  &start,
		Status:     "active",
	}
	if err := database.DB.Create(&group).Error; err != nil {
		log.Printf("Failed to seed group: %v", err)
		return
	}

	settings := models.WorkSettings{
		GroupID:             group.ID,
		CheckinDeadlineHour: 10,
		CheckoutStartHour:   18,
	}
	if err := database.DB.Create(&settings).Error; err != nil {
		log.Printf("Failed to seed work settings: %v", err)
	}

	var students []models.User
	if err := database.DB.Where("role = ?", "student").Find(&students).Error; err != nil {
		log.Printf("Failed to find seed students: %v", err)
		return
	}
	now := time.Now().UTC()
	for _, s := range students {
		member := models.GroupMember{
			GroupID:  group.ID,
			UserID:   s.ID,
			Status:   "active",
			JoinedAt: &now,
		}
		if err := database.DB.Create(&member).Error; err != nil {
			log.Printf("Failed to enroll seed student %d: %v", s.ID, err)
		}
	}
}
