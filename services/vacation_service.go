package services

import (
	"fmt"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/services/attendance"
	"attendqr_go/services/notifications"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VacationService manages the vacation request lifecycle:
// pending -> approved | rejected, reviewed exactly once.
type VacationService struct {
	db *gorm.DB
}

func NewVacationService() *VacationService {
	return &VacationService{db: database.DB}
}

// Create files a new pending request for a group the user belongs to.
func (s *VacationService) Create(userID, groupID uint, vacType string, startDate, endDate time.Time, reason string) (*models.VacationRequest, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", attendance.ErrInvalidInput)
	}

	var member models.GroupMember
	if err := s.db.Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, "active").
		First(&member).Error; err != nil {
		return nil, fmt.Errorf("user is not an active member of the group")
	}

	// reject requests overlapping an existing pending or approved one
	var overlap int64
	if err := s.db.Model(&models.VacationRequest{}).
		Where("user_id = ? AND group_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			userID, groupID, []string{"pending", "approved"}, endDate, startDate).
		Count(&overlap).Error; err != nil {
		return nil, err
	}
	if overlap > 0 {
		return nil, fmt.Errorf("%w: overlapping vacation request already exists", attendance.ErrInvalidInput)
	}

	req := models.VacationRequest{
		UserID:    userID,
		GroupID:   groupID,
		Type:      vacType,
		StartDate: attendance.DateOf(startDate),
		EndDate:   attendance.DateOf(endDate),
		Reason:    reason,
		Status:    "pending",
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Review applies the single allowed transition out of pending. The update is
// guarded on status still being pending, so when two reviewers race, exactly
// one wins and the other sees ErrStaleState.
func (s *VacationService) Review(requestID, reviewerID uint, approve bool, comment string) (*models.VacationRequest, error) {
	var req models.VacationRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		return nil, err
	}

	status := "rejected"
	if approve {
		status = "approved"
	}
	now := time.Now().UTC()

	result := s.db.Model(&models.VacationRequest{}).
		Where("id = ? AND status = ?", requestID, "pending").
		Updates(map[string]interface{}{
			"status":         status,
			"reviewer_id":    reviewerID,
			"review_comment": comment,
			"reviewed_at":    now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, attendance.ErrStaleState
	}

	if err := s.db.Preload("User").Preload("Group").Preload("Reviewer").First(&req, requestID).Error; err != nil {
		return nil, err
	}

	s.notifyReviewed(&req)
	return &req, nil
}

// notifyReviewed tells the requester the outcome over the normal and LINE channels.
func (s *VacationService) notifyReviewed(req *models.VacationRequest) {
	title := "Vacation request approved"
	notifType := "success"
	if req.Status == "rejected" {
		title = "Vacation request rejected"
		notifType = "warning"
	}
	message := fmt.Sprintf("Your %s vacation request for %s ~ %s was %s.",
		req.Type,
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		req.Status)
	if req.ReviewComment != "" {
		message += " Comment: " + req.ReviewComment
	}

	n := notifications.QueuedWithData(title, message, notifType,
		map[string]interface{}{"vacation_request_id": req.ID, "group_id": req.GroupID},
		"normal", "popup", "line")
	if err := notifications.NewService().EnqueueOrCreate([]uint{req.UserID}, n); err != nil {
		// notification failure never blocks the review itself
		logrus.WithError(err).Errorf("Error notifying vacation review for request %d", req.ID)
	}
}

// ApprovedCovers reports whether an approved request covers the given local date.
func (s *VacationService) ApprovedCovers(userID, groupID uint, date time.Time) (bool, error) {
	day := attendance.DateOf(date)
	var count int64
	err := s.db.Model(&models.VacationRequest{}).
		Where("user_id = ? AND group_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			userID, groupID, "approved", day, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApprovedInRange returns approved requests touching [from, to] for one user,
// so range reports can mark vacation days with a single query.
func (s *VacationService) ApprovedInRange(userID, groupID uint, from, to time.Time) ([]models.VacationRequest, error) {
	var reqs []models.VacationRequest
	err := s.db.
		Where("user_id = ? AND group_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			userID, groupID, "approved", attendance.DateOf(to), attendance.DateOf(from)).
		Find(&reqs).Error
	return reqs, err
}
