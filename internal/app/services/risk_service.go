package services

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
	"github.com/yigit/enrollment/internal/pkg/netcash"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// Risk sources reported to metrics
const (
	riskSourceValidation = "validation"
	riskSourceRemote     = "remote"
	riskSourceFallback   = "fallback"
)

// RiskReporter fetches a risk report from the provider
type RiskReporter interface {
	GetRiskReport(ctx context.Context, req netcash.RiskRequest) (*netcash.RiskResult, error)
}

// riskAssessment is the scored outcome before it is persisted
type riskAssessment struct {
	score       float64
	status      models.RiskStatus
	flags       []string
	apiResponse map[string]interface{}
	source      string
}

// RiskService scores guardian bank accounts
type RiskService struct {
	guard    *auth.OwnershipGuard
	riskRepo *repositories.RiskReportRepository
	reporter RiskReporter
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewRiskService creates a new risk service. A nil reporter means the provider
// is not configured and every valid account is scored locally.
func NewRiskService(
	guard *auth.OwnershipGuard,
	riskRepo *repositories.RiskReportRepository,
	reporter RiskReporter,
	m *metrics.Metrics,
) *RiskService {
	return &RiskService{
		guard:    guard,
		riskRepo: riskRepo,
		reporter: reporter,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Check scores the guardian's account and stores the report
func (s *RiskService) Check(ctx context.Context, identity string, req *dto.RiskCheckRequest) (*dto.RiskReportResponse, error) {
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return nil, apperrors.NewValidationError("Validation failed", map[string]interface{}{
			"reference": "reference is required",
		})
	}

	var applicationID *string
	if req.ApplicationID != nil && strings.TrimSpace(*req.ApplicationID) != "" {
		app, err := s.guard.Authorize(ctx, strings.TrimSpace(*req.ApplicationID), identity)
		if err != nil {
			return nil, err
		}
		applicationID = &app.ID
	}

	guardian := req.Guardian
	branchCode := strings.TrimSpace(guardian.BranchCode)
	accountNumber := strings.TrimSpace(guardian.AccountNumber)

	assessment := s.assess(ctx, reference, guardian, branchCode, accountNumber)
	s.metrics.RiskCheck(assessment.source, string(assessment.status))

	timestamp := s.now()
	var apiResponse interface{}
	if assessment.apiResponse != nil {
		apiResponse = assessment.apiResponse
	}
	report, err := s.riskRepo.Create(ctx, &models.RiskReport{
		ApplicationID:    applicationID,
		Reference:        reference,
		GuardianEmail:    guardian.Email,
		GuardianName:     guardian.Name,
		GuardianIDNumber: guardian.IDNumber,
		BranchCode:       branchCode,
		AccountNumber:    accountNumber,
		RiskScore:        assessment.score,
		Flags:            assessment.flags,
		Status:           assessment.status,
		RawResponse: map[string]interface{}{
			"branch_code":          branchCode,
			"account_number":       accountNumber,
			"validation_performed": true,
			"api_response":         apiResponse,
		},
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("reference", reference).
		Float64("risk_score", report.RiskScore).
		Str("status", string(report.Status)).
		Str("source", assessment.source).
		Msg("Risk assessment completed")

	return &dto.RiskReportResponse{
		Reference: report.Reference,
		RiskScore: report.RiskScore,
		Status:    string(report.Status),
		Flags:     report.Flags,
		Timestamp: timestamp,
	}, nil
}

// assess runs the format checks, then the provider when configured, then the
// local fallback.
func (s *RiskService) assess(ctx context.Context, reference string, guardian dto.GuardianDetails, branchCode, accountNumber string) riskAssessment {
	patterns := validation.CompiledPatterns
	switch {
	case branchCode == "" || accountNumber == "":
		return riskAssessment{score: 100, status: models.RiskHigh, flags: []string{"Missing banking details"}, source: riskSourceValidation}
	case !patterns.BranchCode.MatchString(branchCode):
		return riskAssessment{score: 85, status: models.RiskHigh, flags: []string{"Invalid branch code format"}, source: riskSourceValidation}
	case !patterns.AccountNumber.MatchString(accountNumber):
		return riskAssessment{score: 85, status: models.RiskHigh, flags: []string{"Invalid account number format"}, source: riskSourceValidation}
	}

	if s.reporter != nil {
		result, err := s.reporter.GetRiskReport(ctx, netcash.RiskRequest{
			Reference: reference,
			Customer: netcash.Customer{
				Name:     guardian.Name,
				Email:    guardian.Email,
				IDNumber: guardian.IDNumber,
				BankAccount: netcash.BankAccount{
					BranchCode:    branchCode,
					AccountNumber: accountNumber,
				},
			},
		})
		if err == nil {
			flags := result.Flags
			if flags == nil {
				flags = []string{}
			}
			return riskAssessment{
				score:       result.RiskScore,
				status:      models.RiskStatusForScore(result.RiskScore),
				flags:       flags,
				apiResponse: result.Raw,
				source:      riskSourceRemote,
			}
		}
		logger.Error().Err(err).Str("reference", reference).Msg("Risk provider call failed, falling back to local assessment")
	}

	if strings.HasPrefix(accountNumber, "123") {
		return riskAssessment{score: 75, status: models.RiskMedium, flags: []string{"Account pattern requires verification"}, source: riskSourceFallback}
	}
	return riskAssessment{score: 15, status: models.RiskLow, flags: []string{"Account verified"}, source: riskSourceFallback}
}
