package repositories

import (
	"context"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

// FinancingRepository handles database operations for financing selections
type FinancingRepository struct {
	store store.Store
}

// NewFinancingRepository creates a new financing repository
func NewFinancingRepository(s store.Store) *FinancingRepository {
	return &FinancingRepository{
		store: s,
	}
}

// Upsert stores the selection of its application, replacing an earlier one
func (r *FinancingRepository) Upsert(ctx context.Context, sel *models.FinancingSelection) (*models.FinancingSelection, error) {
	rec := store.Record{
		"application_id": sel.ApplicationID,
		"plan_type":      string(sel.PlanType),
		"discount_rate":  sel.DiscountRate,
		"cost_of_credit": sel.CostOfCredit,
		"repayment_term": sel.RepaymentTerm,
	}
	saved, err := r.store.Upsert(ctx, store.FinancingSelections, rec, "application_id")
	if err != nil {
		return nil, dbError("Failed to save financing selection", err)
	}
	return financingFromRecord(saved), nil
}

// GetByApplication returns the selection of an application or nil
func (r *FinancingRepository) GetByApplication(ctx context.Context, applicationID string) (*models.FinancingSelection, error) {
	rows, err := r.store.Find(ctx, store.FinancingSelections, store.Filter{"application_id": applicationID})
	if err != nil {
		return nil, dbError("Failed to fetch financing selection", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return financingFromRecord(rows[0]), nil
}

func financingFromRecord(rec store.Record) *models.FinancingSelection {
	return &models.FinancingSelection{
		ID:            rec.String("id"),
		ApplicationID: rec.String("application_id"),
		PlanType:      models.PlanType(rec.String("plan_type")),
		DiscountRate:  rec.DecimalPtr("discount_rate"),
		CostOfCredit:  rec.DecimalPtr("cost_of_credit"),
		RepaymentTerm: rec.StringPtr("repayment_term"),
		CreatedAt:     rec.Time("created_at"),
	}
}
