package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// AcademicController handles academic history operations
type AcademicController struct {
	academicService services.AcademicService
}

// NewAcademicController creates a new AcademicController
func NewAcademicController(academicService services.AcademicService) *AcademicController {
	return &AcademicController{
		academicService: academicService,
	}
}

// SaveAcademicHistory creates or updates the academic history
// @Summary Save academic history
// @Tags academic-history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AcademicHistoryCreateRequest true "Academic history"
// @Success 200 {object} dto.APIResponse{data=models.AcademicHistory} "Academic history saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic history"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /enrollment/academic-history [post]
func (c *AcademicController) SaveAcademicHistory(ctx *gin.Context) {
	var req dto.AcademicHistoryCreateRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	history, err := c.academicService.Save(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: history})
}

// GetAcademicHistory returns the academic history, or null data when none exists
// @Summary Get academic history
// @Tags academic-history
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AcademicHistory} "Academic history, data is null when absent"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /enrollment/academic-history/{application_id} [get]
func (c *AcademicController) GetAcademicHistory(ctx *gin.Context) {
	history, err := c.academicService.Get(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if history == nil {
		ctx.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: history})
}

// UpdateAcademicHistory changes the supplied fields
// @Summary Update academic history
// @Tags academic-history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Param request body dto.AcademicHistoryUpdateRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.AcademicHistory} "Academic history updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic history"
// @Failure 404 {object} dto.ErrorResponse "Academic history not found"
// @Router /enrollment/academic-history/{application_id} [put]
func (c *AcademicController) UpdateAcademicHistory(ctx *gin.Context) {
	var req dto.AcademicHistoryUpdateRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	history, err := c.academicService.Update(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: history})
}

// DeleteAcademicHistory removes the academic history
// @Summary Delete academic history
// @Tags academic-history
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Academic history deleted"
// @Failure 404 {object} dto.ErrorResponse "Academic history not found"
// @Router /enrollment/academic-history/{application_id} [delete]
func (c *AcademicController) DeleteAcademicHistory(ctx *gin.Context) {
	if err := c.academicService.Delete(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Academic history deleted successfully"}})
}
