package handler

import (
	"github.com/gin-gonic/gin"

	documentapp "github.com/salespulse/backend/internal/application/document"
)

// DocumentHandler serves the shared document library
type DocumentHandler struct {
	BaseHandler
	gate            gin.HandlerFunc
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// SetFeatureGate installs the feature flag gate applied to every
// document route. A nil gate leaves the routes open.
func (h *DocumentHandler) SetFeatureGate(gate gin.HandlerFunc) {
	h.gate = gate
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	if h.gate != nil {
		documents.Use(h.gate)
	}
	{
		documents.POST("", h.InitiateUpload)
		documents.GET("", h.List)
		documents.GET("/:id", h.Get)
		documents.GET("/:id/download", h.Download)
		documents.PUT("/:id", h.Update)
		documents.DELETE("/:id", h.Delete)
	}
}

type initiateUploadRequest struct {
	Title       string `json:"title" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
	MinRole     string `json:"min_role" binding:"required"`
	Description string `json:"description,omitempty"`
}

// InitiateUpload registers a document and returns a presigned upload URL
func (h *DocumentHandler) InitiateUpload(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req initiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	upload, err := h.documentService.InitiateUpload(c.Request.Context(), actor, documentapp.InitiateUploadInput{
		Title:       req.Title,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		MinRole:     req.MinRole,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, upload)
}

// List returns documents visible to the actor
func (h *DocumentHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input documentapp.ListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.documentService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Documents, result.Total, result.Page, result.PageSize)
}

// Get returns one document's metadata
func (h *DocumentHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Download returns a presigned download URL
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	download, err := h.documentService.Download(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, download)
}

type updateDocumentRequest struct {
	Description *string `json:"description,omitempty"`
	MinRole     *string `json:"min_role,omitempty"`
}

// Update edits a document's description or visibility
func (h *DocumentHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), actor, id, documentapp.UpdateDocumentInput{
		Description: req.Description,
		MinRole:     req.MinRole,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete removes a document and its stored object
func (h *DocumentHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
