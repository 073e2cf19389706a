package utils

import (
	"time"

	"attendqr_go/models"
)

// Compact representations used across APIs
type UserShort struct {
	ID       uint   `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type GroupShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

type Sender struct {
	Type string `json:"type"` // "system" or "user"
	ID   *uint  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type NotificationDTO struct {
	ID        uint        `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	UserID    uint        `json:"user_id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Type      string      `json:"type"`
	Channels  models.JSON `json:"channels,omitempty"`
	Data      models.JSON `json:"data,omitempty"`
	Read      bool        `json:"read"`
	ReadAt    *time.Time  `json:"read_at,omitempty"`
	User      UserShort   `json:"user"`
	Sender    Sender      `json:"sender"`
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
// Caller should have preloaded User when possible.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	us := UserShort{ID: n.UserID}
	if n.User.ID != 0 {
		us = ToUserShort(n.User)
	}

	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Channels:  n.Channels,
		Data:      n.Data,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		User:      us,
		Sender:    Sender{Type: "system", Name: "AttendQR"},
	}
}

func ToUserShort(u models.User) UserShort {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return UserShort{ID: u.ID, Username: u.Username, Name: name, Role: u.Role}
}

func ToGroupShort(g models.Group) GroupShort {
	return GroupShort{ID: g.ID, Name: g.Name, Code: g.Code}
}

type VacationRequestDTO struct {
	ID            uint       `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Type          string     `json:"type"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	ReviewComment string     `json:"review_comment,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	User          UserShort  `json:"user"`
	Group         GroupShort `json:"group"`
	Reviewer      *UserShort `json:"reviewer,omitempty"`
}

func ToVacationRequestDTO(v models.VacationRequest) VacationRequestDTO {
	dto := VacationRequestDTO{
		ID:            v.ID,
		CreatedAt:     v.CreatedAt,
		Type:          v.Type,
		StartDate:     v.StartDate.Format("2006-01-02"),
		EndDate:       v.EndDate.Format("2006-01-02"),
		Reason:        v.Reason,
		Status:        v.Status,
		ReviewComment: v.ReviewComment,
		ReviewedAt:    v.ReviewedAt,
		User:          ToUserShort(v.User),
		Group:         ToGroupShort(v.Group),
	}
	if v.Reviewer != nil {
		r := ToUserShort(*v.Reviewer)
		dto.Reviewer = &r
	}
	return dto
}

func ToVacationRequestDTOs(reqs []models.VacationRequest) []VacationRequestDTO {
	dtos := make([]VacationRequestDTO, 0, len(reqs))
	for _, v := range reqs {
		dtos = append(dtos, ToVacationRequestDTO(v))
	}
	return dtos
}

type AttendanceEventDTO struct {
	ID         uint       `json:"id"`
	ScanType   string     `json:"scan_type"`
	ScannedAt  time.Time  `json:"scanned_at"`
	User       UserShort  `json:"user"`
	Group      GroupShort `json:"group"`
	LocationID *uint      `json:"location_id,omitempty"`
}

func ToAttendanceEventDTO(e models.AttendanceEvent) AttendanceEventDTO {
	return AttendanceEventDTO{
		ID:         e.ID,
		ScanType:   e.ScanType,
		ScannedAt:  e.ScannedAt,
		User:       ToUserShort(e.User),
		Group:      ToGroupShort(e.Group),
		LocationID: e.LocationID,
	}
}
