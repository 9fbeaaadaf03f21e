package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// DocumentController handles document uploads and their completion status
type DocumentController struct {
	documentService services.DocumentService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// Status returns the completion of every required document category
// @Summary Get document status
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.DocumentStatusResponse} "Document status"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /documents/{application_id} [get]
func (c *DocumentController) Status(ctx *gin.Context) {
	resp, err := c.documentService.Status(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Upload stores one document
// @Summary Upload document
// @Description Uploads a PDF, image or Word document of at most 10MB for an application.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document"
// @Param application_id formData string true "Application ID"
// @Param document_type formData string true "Document type" Enums(proof_of_address, id_document, payslip, bank_statement, academic_history, transcript)
// @Success 200 {object} dto.APIResponse{data=dto.FileUploadResponse} "File uploaded"
// @Failure 400 {object} dto.ErrorResponse "Invalid file or document type"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 502 {object} dto.ErrorResponse "Storage error"
// @Router /documents/upload [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	applicationID := ctx.PostForm("application_id")
	documentType := ctx.PostForm("document_type")
	if applicationID == "" || documentType == "" {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Validation failed", map[string]interface{}{
			"application_id": "application_id is required",
			"document_type":  "document_type is required",
		}))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("File is required"))
		return
	}
	if fileHeader.Size > services.MaxUploadSize {
		middleware.HandleAPIError(ctx, apperrors.NewPayloadTooLargeError("File too large. Maximum size is 10MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	// One extra byte so the service can tell an oversized body from an exact fit
	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Failed to read uploaded file"))
		return
	}

	resp, err := c.documentService.Upload(ctx.Request.Context(), middleware.UserID(ctx), applicationID, documentType, dto.UploadFile{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// ListFiles lists the stored files of an application
// @Summary List uploaded files
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UploadedFilesResponse} "Uploaded files"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /documents/{application_id}/files [get]
func (c *DocumentController) ListFiles(ctx *gin.Context) {
	resp, err := c.documentService.ListFiles(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// DeleteFile removes one uploaded file
// @Summary Delete uploaded file
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Param file_id path string true "File ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "File deleted"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /documents/{application_id}/files/{file_id} [delete]
func (c *DocumentController) DeleteFile(ctx *gin.Context) {
	resp, err := c.documentService.DeleteFile(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"), ctx.Param("file_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Complete marks the document step of an application as done
// @Summary Complete document upload
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompleteUploadRequest true "Application"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document upload completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /documents/complete [post]
func (c *DocumentController) Complete(ctx *gin.Context) {
	var req dto.CompleteUploadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.documentService.Complete(ctx.Request.Context(), middleware.UserID(ctx), req.ApplicationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Summary returns the upload rollup of an application
// @Summary Get document upload summary
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UploadSummaryResponse} "Upload summary"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /documents/{application_id}/upload-summary [get]
func (c *DocumentController) Summary(ctx *gin.Context) {
	resp, err := c.documentService.Summary(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// MarkComplete marks the uploads of one document type as complete
// @Summary Mark document type complete
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Param doc_type path string true "Document type"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document type marked as complete"
// @Failure 400 {object} dto.ErrorResponse "Invalid document type"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /documents/{application_id}/mark-complete/{doc_type} [post]
func (c *DocumentController) MarkComplete(ctx *gin.Context) {
	resp, err := c.documentService.MarkComplete(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"), ctx.Param("doc_type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
