package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// EnrollmentController handles enrollment form operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// AutoSave merges partial enrollment sections
// @Summary Auto-save enrollment progress
// @Description Merges any subset of the student, medical, family and fee sections into the caller's application. Always answers 200; failures are reported per section.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AutoSaveRequest true "Partial sections"
// @Success 200 {object} dto.APIResponse{data=dto.AutoSaveResponse} "Progress saved"
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /enrollment/auto-save [post]
func (c *EnrollmentController) AutoSave(ctx *gin.Context) {
	var req dto.AutoSaveRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	resp := c.enrollmentService.AutoSave(ctx.Request.Context(), middleware.UserID(ctx), &req)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Submit saves all core sections and submits the caller's application
// @Summary Submit enrollment
// @Description Validates and writes the student, medical, family and fee sections, then marks the application submitted.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitEnrollmentRequest true "All four core sections"
// @Success 200 {object} dto.APIResponse{data=dto.SubmitResponse} "Enrollment submitted"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid section"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Application has already been processed"
// @Failure 502 {object} dto.ErrorResponse "Database error"
// @Router /enrollment/submit [post]
func (c *EnrollmentController) Submit(ctx *gin.Context) {
	var req dto.SubmitEnrollmentRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.Submit(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// SubmitApplication submits an existing application
// @Summary Submit application
// @Description Writes every section present in the request to an owned application and marks it submitted.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitApplicationRequest true "Application id and sections"
// @Success 200 {object} dto.APIResponse{data=dto.SubmitResponse} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid section"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application has already been processed"
// @Router /enrollment/submit-application [post]
func (c *EnrollmentController) SubmitApplication(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.SubmitApplication(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetApplication returns an application with its core sections
// @Summary Get application
// @Description Returns the application and its student, medical, family and fee sections. Missing sections are empty objects.
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /enrollment/get-application/{application_id} [get]
func (c *EnrollmentController) GetApplication(ctx *gin.Context) {
	resp, err := c.enrollmentService.GetApplication(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// UploadSummary returns the document rollup of an application
// @Summary Get upload summary
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.UploadSummaryResponse} "Upload summary"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /enrollment/{application_id}/upload-summary [get]
func (c *EnrollmentController) UploadSummary(ctx *gin.Context) {
	resp, err := c.enrollmentService.UploadSummary(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// SaveDeclaration stores the signed declaration
// @Summary Save declaration
// @Description Saves the declaration of the given application, or of the caller's application when no id is sent. Status defaults to "completed" and date_signed to today.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeclarationRequest true "Declaration"
// @Success 200 {object} dto.APIResponse{data=dto.DeclarationResponse} "Declaration saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid declaration"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /enrollment/declaration [post]
func (c *EnrollmentController) SaveDeclaration(ctx *gin.Context) {
	var req dto.DeclarationRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.SaveDeclaration(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
