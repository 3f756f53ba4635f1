package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/salespulse/backend/internal/domain/document"
)

// InitiateUploadInput starts a document upload. The file bytes go
// straight to object storage through the returned presigned URL.
type InitiateUploadInput struct {
	Title       string `json:"title" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
	MinRole     string `json:"min_role" binding:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateDocumentInput edits document metadata. Nil fields keep their
// current value.
type UpdateDocumentInput struct {
	Description *string `json:"description,omitempty"`
	MinRole     *string `json:"min_role,omitempty"`
}

// ListInput narrows the document listing. TeamID is honored only for
// super admins.
type ListInput struct {
	TeamID   *uuid.UUID `form:"team_id"`
	Keyword  string     `form:"keyword"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// DocumentDTO is the API representation of a shared document.
type DocumentDTO struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	Title       string     `json:"title"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	MinRole     string     `json:"min_role"`
	Description string     `json:"description,omitempty"`
	Downloads   int64      `json:"downloads"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UploadDTO is the initiate-upload response: the stored metadata plus
// a presigned PUT URL for the bytes.
type UploadDTO struct {
	Document  DocumentDTO `json:"document"`
	UploadURL string      `json:"upload_url"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// DownloadDTO is a presigned GET URL for a document's bytes.
type DownloadDTO struct {
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ListResult is a paged document listing.
type ListResult struct {
	Documents  []DocumentDTO `json:"documents"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func toDocumentDTO(d *document.Document) *DocumentDTO {
	return &DocumentDTO{
		ID:          d.ID,
		TeamID:      d.TeamID,
		UploadedBy:  d.CreatedBy,
		Title:       d.Title,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		MinRole:     d.MinRole.String(),
		Description: d.Description,
		Downloads:   d.Downloads,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
