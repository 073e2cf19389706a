package services

import (
	"bytes"
	"fmt"
	"time"

	"attendqr_go/database"
	"attendqr_go/models"
	"attendqr_go/services/attendance"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService builds attendance reports over week windows.
type ReportService struct {
	db  *gorm.DB
	att *AttendanceService
}

func NewReportService() *ReportService {
	return &ReportService{db: database.DB, att: NewAttendanceService()}
}

// MemberReport is one member's row inside a group report.
type MemberReport struct {
	User     models.User             `json:"-"`
	UserID   uint                    `json:"user_id"`
	Name     string                  `json:"name"`
	Outcomes []attendance.DayOutcome `json:"outcomes"`
	Summary  attendance.Summary      `json:"summary"`
}

// GroupWeekReport aggregates one week window for a whole group.
type GroupWeekReport struct {
	Group   models.Group          `json:"-"`
	GroupID uint                  `json:"group_id"`
	Window  attendance.WeekWindow `json:"window"`
	Members []MemberReport        `json:"members"`
}

// BuildGroupWeekReport classifies every active member over a week window.
func (s *ReportService) BuildGroupWeekReport(groupID uint, weekIndex int) (*GroupWeekReport, error) {
	var group models.Group
	if err := s.db.Preload("Members", "status = ?", "active").Preload("Members.User").
		First(&group, groupID).Error; err != nil {
		return nil, err
	}
	if group.StartDate == nil {
		return nil, fmt.Errorf("%w: group %d has no start date", attendance.ErrConfiguration, groupID)
	}

	windows, err := attendance.ComputeWeekWindows(*group.StartDate, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var window *attendance.WeekWindow
	for i := range windows {
		if windows[i].Index == weekIndex {
			window = &windows[i]
			break
		}
	}
	if window == nil {
		return nil, fmt.Errorf("%w: week %d out of range (have %d weeks)", attendance.ErrInvalidInput, weekIndex, len(windows))
	}

	report := &GroupWeekReport{Group: group, GroupID: groupID, Window: *window}
	for _, m := range group.Members {
		outcomes, err := s.att.RangeOutcomes(m.UserID, groupID, window.StartDate, window.EndDate)
		if err != nil {
			return nil, err
		}
		name := m.User.Name
		if name == "" {
			name = m.User.Username
		}
		report.Members = append(report.Members, MemberReport{
			User:     m.User,
			UserID:   m.UserID,
			Name:     name,
			Outcomes: outcomes,
			Summary:  attendance.AggregateRange(outcomes),
		})
	}
	return report, nil
}

// ExportGroupWeekExcel renders a week report as an .xlsx workbook.
func (s *ReportService) ExportGroupWeekExcel(groupID uint, weekIndex int) (*bytes.Buffer, string, error) {
	report, err := s.BuildGroupWeekReport(groupID, weekIndex)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	title := fmt.Sprintf("%s - %s", report.Group.Name, report.Window.Label)
	f.SetCellValue(sheet, "A1", title)

	headers := []string{"Member"}
	for d := report.Window.StartDate; !d.After(report.Window.EndDate); d = d.AddDate(0, 0, 1) {
		headers = append(headers, d.Format("Mon 01/02"))
	}
	headers = append(headers, "Present", "Late", "Vacation", "Absent", "Rate")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}

	for row, member := range report.Members {
		r := row + 3
		cell, _ := excelize.CoordinatesToCellName(1, r)
		f.SetCellValue(sheet, cell, member.Name)

		for i, outcome := range member.Outcomes {
			cell, _ := excelize.CoordinatesToCellName(i+2, r)
			f.SetCellValue(sheet, cell, statusCell(outcome))
		}

		base := len(member.Outcomes) + 2
		sum := member.Summary
		values := []interface{}{sum.PresentDays, sum.LateDays, sum.VacationDays, sum.AbsentDays,
			fmt.Sprintf("%.1f%%", sum.AttendanceRate*100)}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(base+i, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %v", err)
	}

	fileName := fmt.Sprintf("attendance_%s_wk%d.xlsx", report.Group.Code, weekIndex)
	return buf, fileName, nil
}

// statusCell renders one day for the sheet, including the checkin time for
// present days so late arrivals are visible at a glance.
func statusCell(o attendance.DayOutcome) string {
	switch o.Status {
	case attendance.StatusVacation:
		return "V"
	case attendance.StatusAbsent:
		return "X"
	default:
		mark := "O"
		if o.Late {
			mark = "L"
		}
		if o.CheckinTime != nil {
			mark += " " + attendance.ToLocal(*o.CheckinTime).Format("15:04")
		}
		return mark
	}
}
