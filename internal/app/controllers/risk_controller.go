package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// RiskController handles guardian bank account risk checks
type RiskController struct {
	riskService *services.RiskService
}

func NewRiskController(riskService *services.RiskService) *RiskController {
	return &RiskController{riskService: riskService}
}

// Check scores the guardian's banking details
// @Summary Run risk check
// @Description Validates the branch code and account number, then asks the risk provider for a score. Falls back to a local score when the provider is unavailable.
// @Tags risk
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RiskCheckRequest true "Guardian details"
// @Success 200 {object} dto.APIResponse{data=dto.RiskReportResponse} "Risk report"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /risk-check [post]
func (c *RiskController) Check(ctx *gin.Context) {
	var req dto.RiskCheckRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	report, err := c.riskService.Check(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report})
}
