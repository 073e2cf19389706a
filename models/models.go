package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Name                 string     `json:"name" gorm:"size:200"`
	LineID               string     `json:"line_id" gorm:"size:100"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'student';type:enum('admin','faculty','student')"` // admin, faculty, student
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	Avatar               string     `json:"avatar" gorm:"size:500"`
	LineLinkToken        string     `json:"-" gorm:"size:64;index"` // one-time token for LINE account linking
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`

	// Relationships
	Memberships []GroupMember `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}

// Group is an attendance group (lab, seminar, cohort) anchored to a start date.
// Week windows and reports are computed relative to StartDate.
type Group struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:255;not null"`
	Code        string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"type:text"`
	FacultyID   uint       `json:"faculty_id" gorm:"not null"`
	LocationID  *uint      `json:"location_id"`
	StartDate   *time.Time `json:"start_date"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','archived')"`
	LineGroupID *uint      `json:"line_group_id"`

	// Relationships
	Faculty      User          `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
	Location     *Location     `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Members      []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
	WorkSettings *WorkSettings `json:"work_settings,omitempty" gorm:"foreignKey:GroupID"`
}

type GroupMember struct {
	BaseModel
	GroupID  uint       `json:"group_id" gorm:"not null;uniqueIndex:idx_group_user"`
	UserID   uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_group_user"`
	Status   string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive')"`
	JoinedAt *time.Time `json:"joined_at"`

	// Relationships
	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Location is a physical place bound to a QR code. The QR payload carries the
// location id plus coordinates so the client can verify proximity before confirming.
type Location struct {
	BaseModel
	Name      string  `json:"name" gorm:"size:255;not null"`
	Address   string  `json:"address" gorm:"size:500"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	PosterURL string  `json:"poster_url" gorm:"size:500"` // printable QR poster stored in S3
	Active    bool    `json:"active" gorm:"default:true"`
}

// AttendanceEvent is one scan. Rows are immutable once created; a later scan on
// the same day supersedes an earlier one at read time, it never overwrites it.
// The unique index over (user, group, scan type, scan day) makes the
// one-scan-per-type-per-day rule hold even when two scans race past the
// application-level check.
type AttendanceEvent struct {
	BaseModel
	UserID     uint      `json:"user_id" gorm:"not null;index:idx_att_user_group_time;uniqueIndex:uniq_scan_per_day,priority:1"`
	GroupID    uint      `json:"group_id" gorm:"not null;index:idx_att_user_group_time;uniqueIndex:uniq_scan_per_day,priority:2"`
	ScanType   string    `json:"scan_type" gorm:"size:20;not null;type:enum('checkin','checkout');uniqueIndex:uniq_scan_per_day,priority:3"` // checkin, checkout
	ScanDay    time.Time `json:"scan_day" gorm:"not null;type:date;uniqueIndex:uniq_scan_per_day,priority:4"`                                // campus-local calendar day
	ScannedAt  time.Time `json:"scanned_at" gorm:"not null;index:idx_att_user_group_time"`                                                   // UTC instant
	LocationID *uint     `json:"location_id"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`

	// Relationships
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Group    Group     `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// WorkSettings holds a group's cutover hours. CheckinDeadlineHour must stay
// below CheckoutStartHour; the constraint is enforced when settings are saved,
// classification tolerates whatever is stored.
type WorkSettings struct {
	BaseModel
	GroupID             uint `json:"group_id" gorm:"not null;uniqueIndex"`
	CheckinDeadlineHour int  `json:"checkin_deadline_hour" gorm:"not null;default:10"`
	CheckoutStartHour   int  `json:"checkout_start_hour" gorm:"not null;default:18"`

	// Relationships
	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

// VacationRequest lifecycle: created pending, reviewed exactly once.
type VacationRequest struct {
	BaseModel
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	GroupID       uint       `json:"group_id" gorm:"not null;index"`
	Type          string     `json:"type" gorm:"size:50;not null;type:enum('annual','sick','personal','official')"`
	StartDate     time.Time  `json:"start_date" gorm:"not null"`
	EndDate       time.Time  `json:"end_date" gorm:"not null"`
	Reason        string     `json:"reason" gorm:"type:text"`
	Status        string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','approved','rejected')"`
	ReviewerID    *uint      `json:"reviewer_id"`
	ReviewComment string     `json:"review_comment" gorm:"type:text"`
	ReviewedAt    *time.Time `json:"reviewed_at"`

	// Relationships
	User     User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Group    Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID   uint       `json:"user_id" gorm:"not null"`
	Title    string     `json:"title" gorm:"size:255;not null"`
	Message  string     `json:"message" gorm:"type:text;not null"`
	Type     string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Channels JSON       `json:"channels" gorm:"type:json"`                                                  // normal, popup, line
	Data     JSON       `json:"data" gorm:"type:json"`
	Read     bool       `json:"read" gorm:"default:false"`
	ReadAt   *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}

// LineGroup tracks LINE chat rooms the bot has joined; matched to attendance
// groups by name so absence alerts reach the right faculty chat.
type LineGroup struct {
	BaseModel
	GroupName    string     `json:"group_name" gorm:"size:255;not null"`
	LineGroupID  string     `json:"line_group_id" gorm:"size:100;not null;uniqueIndex"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastJoinedAt time.Time  `json:"last_joined_at"`
	LastLeftAt   *time.Time `json:"last_left_at"`
}
