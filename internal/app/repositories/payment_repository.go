package repositories

import (
	"context"
	"time"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
)

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	store store.Store
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(s store.Store) *PaymentRepository {
	return &PaymentRepository{
		store: s,
	}
}

// Create stores a new payment. A reference that is already taken is a conflict.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	rec, err := r.store.Insert(ctx, store.Payments, store.Record{
		"application_id": p.ApplicationID,
		"user_id":        p.UserID,
		"reference":      p.Reference,
		"status":         string(p.Status),
		"amount":         p.Amount,
		"currency":       p.Currency,
		"plan_type":      p.PlanType,
		"description":    p.Description,
	})
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Payment reference already exists")
		}
		return nil, dbError("Failed to create payment record", err)
	}
	return paymentFromRecord(rec), nil
}

// GetByReference returns the payment with reference or nil
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	rows, err := r.store.Find(ctx, store.Payments, store.Filter{"reference": reference})
	if err != nil {
		return nil, dbError("Failed to fetch payment", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return paymentFromRecord(rows[0]), nil
}

// SetRedirect stores the gateway redirect of a pending payment
func (r *PaymentRepository) SetRedirect(ctx context.Context, reference, redirectURL string) error {
	if _, err := r.store.Update(ctx, store.Payments, store.Filter{"reference": reference}, store.Record{
		"redirect_url": redirectURL,
	}); err != nil {
		return dbError("Failed to update payment", err)
	}
	return nil
}

// UpdateStatus moves the payment to status. completedAt is only written when set.
// It reports whether a payment with reference exists.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, reference string, status models.PaymentStatus, completedAt *time.Time) (bool, error) {
	partial := store.Record{"status": string(status)}
	if completedAt != nil {
		partial["completed_at"] = *completedAt
	}
	rows, err := r.store.Update(ctx, store.Payments, store.Filter{"reference": reference}, partial)
	if err != nil {
		return false, dbError("Failed to update payment status", err)
	}
	return len(rows) > 0, nil
}

func paymentFromRecord(rec store.Record) *models.Payment {
	return &models.Payment{
		ID:            rec.String("id"),
		ApplicationID: rec.StringPtr("application_id"),
		UserID:        rec.String("user_id"),
		Reference:     rec.String("reference"),
		Status:        models.PaymentStatus(rec.String("status")),
		Amount:        rec.Decimal("amount"),
		Currency:      rec.String("currency"),
		PlanType:      rec.StringPtr("plan_type"),
		Description:   rec.StringPtr("description"),
		RedirectURL:   rec.StringPtr("redirect_url"),
		CreatedAt:     rec.Time("created_at"),
		CompletedAt:   rec.TimePtr("completed_at"),
	}
}
