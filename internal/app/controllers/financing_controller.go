package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// FinancingController handles financing plan selection
type FinancingController struct {
	financingService *services.FinancingService
}

// NewFinancingController creates a new FinancingController
func NewFinancingController(financingService *services.FinancingService) *FinancingController {
	return &FinancingController{
		financingService: financingService,
	}
}

// SelectPlan records the chosen financing plan
// @Summary Select financing plan
// @Description Stores the plan selection and updates the payment method label on the fee responsibility record.
// @Tags financing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectPlanRequest true "Plan selection"
// @Success 200 {object} dto.APIResponse{data=models.FinancingSelection} "Plan selected"
// @Failure 400 {object} dto.ErrorResponse "Invalid plan"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /financing/select-plan [post]
func (c *FinancingController) SelectPlan(ctx *gin.Context) {
	var req dto.SelectPlanRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	selection, err := c.financingService.SelectPlan(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: selection})
}

// GetSelection returns the financing selection of an application
// @Summary Get financing selection
// @Tags financing
// @Produce json
// @Security BearerAuth
// @Param application_id path string true "Application ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.FinancingSelection} "Financing selection"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "No financing selection"
// @Router /financing/selection/{application_id} [get]
func (c *FinancingController) GetSelection(ctx *gin.Context) {
	selection, err := c.financingService.GetSelection(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("application_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: selection})
}
