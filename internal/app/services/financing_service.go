package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// MsgFinancingNotFound is returned when an application has no plan selected
const MsgFinancingNotFound = "Financing selection not found"

var maxDiscountRate = decimal.NewFromInt(100)

// FinancingService keeps the financing selection and the plan label on the fee
// record in sync. The selection is the source of truth.
type FinancingService struct {
	guard         *auth.OwnershipGuard
	financingRepo *repositories.FinancingRepository
	sectionRepo   *repositories.SectionRepository
}

// NewFinancingService creates a new financing service instance
func NewFinancingService(
	guard *auth.OwnershipGuard,
	financingRepo *repositories.FinancingRepository,
	sectionRepo *repositories.SectionRepository,
) *FinancingService {
	return &FinancingService{
		guard:         guard,
		financingRepo: financingRepo,
		sectionRepo:   sectionRepo,
	}
}

// validateSelection checks the plan and its numeric terms before anything is written
func validateSelection(planType models.PlanType, req *dto.SelectPlanRequest) error {
	details := make(map[string]interface{})

	if !planType.Valid() {
		names := make([]string, 0, len(models.PlanTypes()))
		for _, p := range models.PlanTypes() {
			names = append(names, string(p))
		}
		details["plan_type"] = "plan_type must be one of: " + strings.Join(names, ", ")
	}
	if req.DiscountRate != nil && (req.DiscountRate.IsNegative() || req.DiscountRate.GreaterThan(maxDiscountRate)) {
		details["discount_rate"] = "discount_rate must be between 0 and 100"
	}
	if req.CostOfCredit != nil && req.CostOfCredit.IsNegative() {
		details["cost_of_credit"] = "cost_of_credit must not be negative"
	}
	if req.RepaymentTerm != nil && len(*req.RepaymentTerm) > 50 {
		details["repayment_term"] = "repayment_term must be at most 50"
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("Invalid financing selection", details)
	}
	return nil
}

// SelectPlan saves the plan of an owned application and pushes its display label
// to the fee record. The fee record is never created here.
func (s *FinancingService) SelectPlan(ctx context.Context, identity string, req *dto.SelectPlanRequest) (*models.FinancingSelection, error) {
	applicationID := strings.TrimSpace(req.ApplicationID)
	planType := models.PlanType(strings.TrimSpace(req.PlanType))

	if applicationID == "" {
		return nil, apperrors.NewValidationError("Invalid financing selection", map[string]interface{}{
			"application_id": "application_id is required",
		})
	}
	if err := validateSelection(planType, req); err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}

	selection, err := s.financingRepo.Upsert(ctx, &models.FinancingSelection{
		ApplicationID: applicationID,
		PlanType:      planType,
		DiscountRate:  req.DiscountRate,
		CostOfCredit:  req.CostOfCredit,
		RepaymentTerm: req.RepaymentTerm,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving financing selection: %w", err)
	}

	label, _ := planType.Label()
	updated, err := s.sectionRepo.Update(ctx, models.SectionFee, applicationID, map[string]interface{}{
		"selected_plan": label,
	})
	if err != nil {
		// The selection stands; GetSelection repairs the label later
		logger.Error().Err(err).
			Str("application_id", applicationID).
			Str("plan_type", string(planType)).
			Msg("Failed to update fee plan label")
	} else if updated == nil {
		logger.Debug().Str("application_id", applicationID).Msg("No fee record to label yet")
	}

	logger.Info().
		Str("application_id", applicationID).
		Str("plan_type", string(planType)).
		Msg("Financing plan selected")
	return selection, nil
}

// GetSelection returns the selection of an owned application. A stale plan label
// on the fee record is rewritten from the selection.
func (s *FinancingService) GetSelection(ctx context.Context, identity, applicationID string) (*models.FinancingSelection, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}

	selection, err := s.financingRepo.GetByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, apperrors.NewResourceNotFoundError(MsgFinancingNotFound)
	}

	s.repairLabel(ctx, selection)
	return selection, nil
}

func (s *FinancingService) repairLabel(ctx context.Context, selection *models.FinancingSelection) {
	label, ok := selection.PlanType.Label()
	if !ok {
		return
	}
	fee, err := s.sectionRepo.Get(ctx, models.SectionFee, selection.ApplicationID)
	if err != nil || fee == nil {
		return
	}
	if current := fee.String("selected_plan"); current != label {
		if _, err := s.sectionRepo.Update(ctx, models.SectionFee, selection.ApplicationID, map[string]interface{}{
			"selected_plan": label,
		}); err != nil {
			logger.Warn().Err(err).Str("application_id", selection.ApplicationID).Msg("Failed to repair fee plan label")
			return
		}
		logger.Warn().
			Str("application_id", selection.ApplicationID).
			Str("stale_label", current).
			Str("label", label).
			Msg("Repaired stale fee plan label")
	}
}
