package services

import (
	"strings"

	"attendqr_go/models"

	"gorm.io/gorm"
)

// MatchLineGroup links a LINE chat to the attendance group whose name or code
// matches the chat name. Returns the matched group, or nil when nothing fits.
// Already-linked groups are never re-linked to a different chat.
func MatchLineGroup(db *gorm.DB, lg *models.LineGroup) (*models.Group, error) {
	if lg.GroupName == "" {
		return nil, nil
	}
	normalized := normalizeGroupName(lg.GroupName)

	var groups []models.Group
	if err := db.Where("status = ? AND line_group_id IS NULL", "active").Find(&groups).Error; err != nil {
		return nil, err
	}

	for i := range groups {
		g := &groups[i]
		if normalizeGroupName(g.Name) != normalized && !strings.EqualFold(g.Code, strings.TrimSpace(lg.GroupName)) {
			continue
		}
		if err := db.Model(g).Update("line_group_id", lg.ID).Error; err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, nil
}

// normalizeGroupName lowers case and strips spaces, hyphens and underscores so
// "CS-Lab 2026" and "cs lab_2026" compare equal.
func normalizeGroupName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	return replacer.Replace(s)
}
