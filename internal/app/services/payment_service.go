package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
	"github.com/yigit/enrollment/internal/pkg/netcash"
	"github.com/yigit/enrollment/internal/pkg/replay"
)

// Payment messages
const (
	MsgPaymentNotFound      = "Payment not found"
	MsgInvalidSignature     = "Invalid signature"
	msgGatewayNotConfigured = "Payment gateway is not configured"
	gatewayService          = "Netcash"
)

// Webhook outcomes reported to metrics
const (
	webhookApplied   = "applied"
	webhookDuplicate = "duplicate"
	webhookIgnored   = "ignored"
	webhookMalformed = "malformed"
	webhookFailed    = "failed"
	webhookUnknown   = "unknown_reference"
	webhookRejected  = "rejected"
)

// PaymentGateway creates hosted payments
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req netcash.PaymentRequest) (string, error)
	Currency() string
}

// PaymentService starts gateway payments and applies their webhook callbacks
type PaymentService struct {
	guard         *auth.OwnershipGuard
	paymentRepo   *repositories.PaymentRepository
	gateway       PaymentGateway
	replayGuard   replay.Guard
	webhookSecret string
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewPaymentService creates a new payment service. A nil gateway rejects new
// payments; a nil replay guard processes every verified delivery.
func NewPaymentService(
	guard *auth.OwnershipGuard,
	paymentRepo *repositories.PaymentRepository,
	gateway PaymentGateway,
	replayGuard replay.Guard,
	webhookSecret string,
	m *metrics.Metrics,
) *PaymentService {
	if replayGuard == nil {
		replayGuard = replay.NoopGuard{}
	}
	return &PaymentService{
		guard:         guard,
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		replayGuard:   replayGuard,
		webhookSecret: webhookSecret,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreatePayment stores a pending payment and asks the gateway for its redirect.
// A gateway failure marks the payment failed.
func (s *PaymentService) CreatePayment(ctx context.Context, identity string, req *dto.PaymentRequest) (*dto.PaymentResponse, error) {
	reference := strings.TrimSpace(req.Reference)
	details := make(map[string]interface{})
	if reference == "" {
		details["reference"] = "reference is required"
	} else if len(reference) > 100 {
		details["reference"] = "reference must be at most 100"
	}
	if !req.Amount.IsPositive() {
		details["amount"] = "amount must be greater than 0"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("Invalid payment request", details)
	}
	if s.gateway == nil {
		return nil, apperrors.NewConfigurationError(msgGatewayNotConfigured)
	}

	var applicationID *string
	if req.ApplicationID != nil && strings.TrimSpace(*req.ApplicationID) != "" {
		app, err := s.guard.Authorize(ctx, strings.TrimSpace(*req.ApplicationID), identity)
		if err != nil {
			return nil, err
		}
		applicationID = &app.ID
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}
	payment, err := s.paymentRepo.Create(ctx, &models.Payment{
		ApplicationID: applicationID,
		UserID:        identity,
		Reference:     reference,
		Status:        models.PaymentPending,
		Amount:        req.Amount,
		Currency:      s.gateway.Currency(),
		PlanType:      req.PlanType,
		Description:   description,
	})
	if err != nil {
		return nil, err
	}

	redirectURL, err := s.gateway.CreatePayment(ctx, netcash.PaymentRequest{
		Reference:   reference,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		logger.Error().Err(err).Str("reference", reference).Msg("Payment gateway rejected payment")
		if _, uerr := s.paymentRepo.UpdateStatus(ctx, reference, models.PaymentFailed, nil); uerr != nil {
			logger.Error().Err(uerr).Str("reference", reference).Msg("Failed to mark payment failed")
		}
		if errors.Is(err, netcash.ErrMissingRedirect) {
			return nil, apperrors.NewCustomError(apperrors.ErrExternalService, "Missing redirect URL from Netcash").
				WithDetails(map[string]interface{}{"service": gatewayService})
		}
		return nil, apperrors.NewExternalServiceError(gatewayService, "Failed to create payment")
	}

	if err := s.paymentRepo.SetRedirect(ctx, reference, redirectURL); err != nil {
		logger.Warn().Err(err).Str("reference", reference).Msg("Failed to store payment redirect")
	}

	logger.Info().
		Str("reference", reference).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("Payment created")
	return &dto.PaymentResponse{
		PaymentID:   payment.ID,
		Reference:   reference,
		RedirectURL: redirectURL,
		Status:      string(models.PaymentPending),
	}, nil
}

// Status returns a payment of the caller
func (s *PaymentService) Status(ctx context.Context, identity, reference string) (*dto.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperrors.NewResourceNotFoundError(MsgPaymentNotFound)
	}
	if payment.UserID != identity {
		return nil, apperrors.NewForbiddenError(auth.MsgAccessDenied)
	}

	return &dto.PaymentStatusResponse{
		Reference:   payment.Reference,
		Status:      string(payment.Status),
		Amount:      payment.Amount,
		PlanType:    payment.PlanType,
		CreatedAt:   payment.CreatedAt,
		CompletedAt: payment.CompletedAt,
	}, nil
}

// HandleWebhook verifies and applies a gateway callback. Only a bad signature is
// an error; everything after verification is logged and acknowledged so the
// gateway stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !netcash.VerifySignature(s.webhookSecret, body, signature) {
		s.metrics.WebhookEvent(webhookRejected)
		logger.Warn().Msg("Rejected webhook with invalid signature")
		return apperrors.NewCustomError(apperrors.ErrInvalidSignature, MsgInvalidSignature)
	}

	if !gjson.ValidBytes(body) {
		logger.Error().Msg("Malformed webhook payload")
		s.metrics.WebhookEvent(webhookMalformed)
		return nil
	}
	payload := dto.WebhookPayload{
		Reference:         gjson.GetBytes(body, "reference").String(),
		TransactionStatus: gjson.GetBytes(body, "transaction_status").String(),
	}
	if payload.Reference == "" {
		logger.Error().Msg("Webhook payload without reference")
		s.metrics.WebhookEvent(webhookMalformed)
		return nil
	}
	log := logger.WithFields(map[string]interface{}{
		"reference":          payload.Reference,
		"transaction_status": payload.TransactionStatus,
	})
	log.Info().Msg("Webhook received")

	claimed, err := s.replayGuard.Claim(ctx, strings.ToLower(strings.TrimSpace(signature)))
	if err != nil {
		log.Warn().Err(err).Msg("Replay check unavailable, processing delivery")
	} else if !claimed {
		log.Info().Msg("Duplicate webhook delivery ignored")
		s.metrics.WebhookEvent(webhookDuplicate)
		return nil
	}

	status, ok := models.PaymentStatusFromGateway(strings.ToUpper(strings.TrimSpace(payload.TransactionStatus)))
	if !ok {
		log.Info().Msg("Unhandled transaction status")
		s.metrics.WebhookEvent(webhookIgnored)
		return nil
	}

	var completedAt *time.Time
	if status == models.PaymentCompleted {
		now := s.now()
		completedAt = &now
	}
	found, err := s.paymentRepo.UpdateStatus(ctx, payload.Reference, status, completedAt)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("Failed to update payment status")
		s.metrics.WebhookEvent(webhookFailed)
	case !found:
		log.Warn().Msg("Webhook for unknown payment reference")
		s.metrics.WebhookEvent(webhookUnknown)
	default:
		log.Info().Str("status", string(status)).Msg("Payment status updated")
		s.metrics.WebhookEvent(webhookApplied)
	}
	return nil
}
