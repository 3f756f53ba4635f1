package document

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 25 << 20 // 25 MiB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".csv":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".mp4":  true,
	".txt":  true,
}

// Document is a shared file's metadata. The bytes live in object
// storage under StorageKey; MinRole hides the document from ranks
// below it.
type Document struct {
	shared.TeamAggregateRoot
	Title       string
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	MinRole     identity.Role
	Description string
	Downloads   int64
}

// NewDocument creates document metadata for an uploaded file.
func NewDocument(teamID, uploadedBy uuid.UUID, title, fileName, contentType string, sizeBytes int64, minRole identity.Role) (*Document, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "Document must belong to a team")
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must be 1-200 characters")
	}
	fileName = path.Base(strings.TrimSpace(fileName))
	ext := strings.ToLower(path.Ext(fileName))
	if !allowedExtensions[ext] {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "File type "+ext+" is not allowed")
	}
	if sizeBytes <= 0 || sizeBytes > MaxFileSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be between 1 byte and 25 MiB")
	}
	if !minRole.IsValid() || minRole == identity.RoleSuperAdmin {
		return nil, shared.NewDomainError("INVALID_MIN_ROLE", "Minimum role must be a team role")
	}

	d := &Document{
		TeamAggregateRoot: shared.NewTeamAggregateRootWithCreator(teamID, uploadedBy),
		Title:             title,
		FileName:          fileName,
		ContentType:       contentType,
		SizeBytes:         sizeBytes,
		MinRole:           minRole,
	}
	d.StorageKey = "teams/" + teamID.String() + "/documents/" + d.ID.String() + ext
	return d, nil
}

// VisibleTo reports whether a role ranks high enough to see the
// document. Super admins see everything.
func (d *Document) VisibleTo(role identity.Role) bool {
	return role.AtLeast(d.MinRole)
}

// SetDescription attaches a description.
func (d *Document) SetDescription(description string) error {
	if len(description) > 1000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	d.Description = strings.TrimSpace(description)
	d.Touch()
	d.IncrementVersion()
	return nil
}

// SetMinRole changes who can see the document.
func (d *Document) SetMinRole(minRole identity.Role) error {
	if !minRole.IsValid() || minRole == identity.RoleSuperAdmin {
		return shared.NewDomainError("INVALID_MIN_ROLE", "Minimum role must be a team role")
	}
	d.MinRole = minRole
	d.Touch()
	d.IncrementVersion()
	return nil
}

// RecordDownload bumps the download counter.
func (d *Document) RecordDownload() {
	d.Downloads++
	d.Touch()
}

// Filter narrows document listings.
type Filter struct {
	TeamID   uuid.UUID
	MaxRank  int // highest MinRole rank the viewer may see
	Keyword  string
	Page     int
	PageSize int
}

// NewFilter returns a filter with paging defaults.
func NewFilter(teamID uuid.UUID) Filter {
	return Filter{TeamID: teamID, Page: 1, PageSize: 20}
}

// Offset returns the paging offset.
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the paging limit, capped at 100.
func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// Repository persists document metadata.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	Update(ctx context.Context, d *Document) error
	Delete(ctx context.Context, teamID, id uuid.UUID) error
	FindByID(ctx context.Context, teamID, id uuid.UUID) (*Document, error)
	FindAll(ctx context.Context, filter Filter) ([]*Document, int64, error)
}
