// Package visibility translates resolved visible-user sets into row
// filters on an owner column. The application layer resolves a
// viewer's scope into a concrete ID set; repositories apply it here
// so the predicate and its column names stay in one place.
//
// A nil set means the viewer is unbounded and no predicate is added;
// an empty set matches nothing.
package visibility

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allowedOwnerFields defines valid owner column names for the filter.
// This whitelist prevents SQL injection via dynamic field names.
var allowedOwnerFields = map[string]bool{
	"user_id":            true,
	"owner_id":           true,
	"interviewer_id":     true,
	"activities.user_id": true,
}

// ownerField validates the column name. Unknown columns fall back to
// user_id.
func ownerField(field string) string {
	if !allowedOwnerFields[field] {
		return "user_id"
	}
	return field
}

// Owner restricts rows to a single owner.
func Owner(db *gorm.DB, field string, ownerID uuid.UUID) *gorm.DB {
	return db.Where(ownerField(field)+" = ?", ownerID)
}

// OwnerIn restricts rows to the visible owner set. Nil means the
// viewer is unbounded; an empty set matches nothing.
func OwnerIn(db *gorm.DB, field string, owners []uuid.UUID) *gorm.DB {
	if owners == nil {
		return db
	}
	if len(owners) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where(ownerField(field)+" IN ?", owners)
}
