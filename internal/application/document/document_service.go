package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/document"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// ObjectStorageService is the object storage surface this service
// needs. The infrastructure layer implements it for any S3-compatible
// backend.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL and its expiry.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// DocumentServiceConfig holds URL expiry settings.
type DocumentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultDocumentServiceConfig returns the default configuration.
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// DocumentService shares files within a team. Bytes never pass through
// the API: uploads and downloads run on presigned URLs, and the
// document's MinRole hides it from ranks below it.
type DocumentService struct {
	docRepo document.Repository
	storage ObjectStorageService
	config  DocumentServiceConfig
	logger  *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo document.Repository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		storage: storage,
		config:  DefaultDocumentServiceConfig(),
		logger:  logger,
	}
}

// SetConfig sets the service configuration
func (s *DocumentService) SetConfig(config DocumentServiceConfig) {
	s.config = config
}

// InitiateUpload stores document metadata and returns a presigned PUT
// URL. Only managers share documents.
func (s *DocumentService) InitiateUpload(ctx context.Context, actor *identity.User, input InitiateUploadInput) (*UploadDTO, error) {
	if !actor.Role.IsManager() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only managers can upload documents")
	}
	minRole, err := identity.ParseRole(input.MinRole)
	if err != nil {
		return nil, err
	}

	doc, err := document.NewDocument(actor.TeamID, actor.ID, input.Title, input.FileName, input.ContentType, input.SizeBytes, minRole)
	if err != nil {
		return nil, err
	}
	if err := doc.SetDescription(input.Description); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, doc.StorageKey, doc.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare upload")
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to create document", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create document")
	}

	s.logger.Info("Document upload initiated",
		zap.String("document_id", doc.ID.String()),
		zap.String("uploaded_by", actor.ID.String()),
		zap.String("file_name", doc.FileName))

	return &UploadDTO{
		Document:  *toDocumentDTO(doc),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// Get returns one document the actor's rank may see
func (s *DocumentService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDocumentDTO(doc), nil
}

// List returns the documents the actor's rank may see
func (s *DocumentService) List(ctx context.Context, actor *identity.User, input ListInput) (*ListResult, error) {
	teamID := actor.TeamID
	if input.TeamID != nil {
		if actor.Role != identity.RoleSuperAdmin && *input.TeamID != actor.TeamID {
			return nil, shared.NewDomainError("FORBIDDEN", "Documents are limited to your own team")
		}
		teamID = *input.TeamID
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("TEAM_REQUIRED", "A team must be specified")
	}

	filter := document.NewFilter(teamID)
	filter.Keyword = input.Keyword
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if actor.Role != identity.RoleSuperAdmin {
		filter.MaxRank = actor.Role.Rank()
	}

	docs, total, err := s.docRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list documents", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list documents")
	}

	dtos := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = *toDocumentDTO(d)
	}
	return &ListResult{
		Documents:  dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// Download returns a presigned GET URL and counts the download. A
// document whose bytes never arrived reads as not uploaded.
func (s *DocumentService) Download(ctx context.Context, actor *identity.User, id uuid.UUID) (*DownloadDTO, error) {
	doc, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, doc.StorageKey)
	if err != nil {
		s.logger.Error("Failed to check object existence", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare download")
	}
	if !exists {
		return nil, shared.NewDomainError("FILE_NOT_UPLOADED", "The file was never uploaded")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare download")
	}

	doc.RecordDownload()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		// The download still works; only the counter lagged.
		s.logger.Warn("Failed to record download",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err))
	}

	return &DownloadDTO{
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// Update edits description and visibility. Only managers edit, and
// never above their own rank.
func (s *DocumentService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, input UpdateDocumentInput) (*DocumentDTO, error) {
	if !actor.Role.IsManager() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only managers can edit documents")
	}
	doc, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		if err := doc.SetDescription(*input.Description); err != nil {
			return nil, err
		}
	}
	if input.MinRole != nil {
		minRole, err := identity.ParseRole(*input.MinRole)
		if err != nil {
			return nil, err
		}
		if actor.Role != identity.RoleSuperAdmin && minRole.Outranks(actor.Role) {
			return nil, shared.NewDomainError("FORBIDDEN", "You cannot restrict a document above your own rank")
		}
		if err := doc.SetMinRole(minRole); err != nil {
			return nil, err
		}
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to update document", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update document")
	}
	return toDocumentDTO(doc), nil
}

// Delete removes the metadata and the stored object.
func (s *DocumentService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if !actor.Role.IsManager() {
		return shared.NewDomainError("FORBIDDEN", "Only managers can delete documents")
	}
	doc, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, doc.TeamID, doc.ID); err != nil {
		s.logger.Error("Failed to delete document", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete document")
	}

	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		// The metadata is gone; the orphaned object is only storage cost.
		s.logger.Warn("Failed to delete stored object",
			zap.String("storage_key", doc.StorageKey),
			zap.Error(err))
	}

	s.logger.Info("Document deleted",
		zap.String("document_id", id.String()),
		zap.String("deleted_by", actor.ID.String()))
	return nil
}

// findVisible loads a document, masking those above the actor's rank
// as absent.
func (s *DocumentService) findVisible(ctx context.Context, actor *identity.User, id uuid.UUID) (*document.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, actor.TeamID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find document")
	}
	if !doc.VisibleTo(actor.Role) {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	}
	return doc, nil
}
