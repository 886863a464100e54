package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	apperrors "github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/middleware"
)

type DocumentController struct {
	documentService service.DocumentService
}

func NewDocumentController(documentService service.DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

type CreateDocumentRequest struct {
	ApplicantName string   `json:"applicant_name" binding:"required"`
	FileName      string   `json:"file_name" binding:"required"`
	ContentType   string   `json:"content_type" binding:"required"`
	Tags          []string `json:"tags"`
}

// CreateUpload registers a document and returns a presigned upload URL
// POST /api/v1/employer/documents
func (ctrl *DocumentController) CreateUpload(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid document request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Applicant name, file name and content type are required")
		return
	}

	doc, upload, err := ctrl.documentService.CreateUpload(c.Request.Context(), ownerID, service.CreateDocumentInput{
		ApplicantName: req.ApplicantName,
		FileName:      req.FileName,
		ContentType:   req.ContentType,
		Tags:          req.Tags,
	})
	if err != nil {
		respondServiceError(c, err, "create document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"document": doc,
		"upload":   upload,
	})
}

// List returns the caller's documents
// GET /api/v1/employer/documents
func (ctrl *DocumentController) List(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	docs, err := ctrl.documentService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// Delete removes one of the caller's documents
// DELETE /api/v1/employer/documents/:id
func (ctrl *DocumentController) Delete(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.documentService.Delete(c.Request.Context(), session, documentID); err != nil {
		respondServiceError(c, err, "delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
