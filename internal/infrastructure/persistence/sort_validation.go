package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"hired_at":      true,
	"last_login_at": true,
}

// TeamSortFields contains allowed sort fields for teams
var TeamSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// InviteSortFields contains allowed sort fields for invites
var InviteSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"role":       true,
	"status":     true,
	"expires_at": true,
}

// ActivitySortFields contains allowed sort fields for activities
var ActivitySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"activity_date": true,
	"user_id":       true,
	"contacts":      true,
	"appointments":  true,
	"presentations": true,
	"sales":         true,
	"premium":       true,
}

// RecruitSortFields contains allowed sort fields for recruits
var RecruitSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"full_name":    true,
	"stage":        true,
	"source":       true,
	"recruiter_id": true,
}

// InterviewSortFields contains allowed sort fields for interviews
var InterviewSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"scheduled_at": true,
	"recruit_id":   true,
	"status":       true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"file_name":  true,
	"size_bytes": true,
	"min_role":   true,
}
