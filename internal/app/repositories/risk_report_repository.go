package repositories

import (
	"context"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

// RiskReportRepository persists risk check outcomes
type RiskReportRepository struct {
	store store.Store
}

// NewRiskReportRepository creates a new risk report repository
func NewRiskReportRepository(s store.Store) *RiskReportRepository {
	return &RiskReportRepository{
		store: s,
	}
}

// Create stores a report
func (r *RiskReportRepository) Create(ctx context.Context, report *models.RiskReport) (*models.RiskReport, error) {
	flags := report.Flags
	if flags == nil {
		flags = []string{}
	}
	rec, err := r.store.Insert(ctx, store.RiskReports, store.Record{
		"application_id":     report.ApplicationID,
		"reference":          report.Reference,
		"guardian_email":     report.GuardianEmail,
		"guardian_name":      report.GuardianName,
		"guardian_id_number": report.GuardianIDNumber,
		"branch_code":        report.BranchCode,
		"account_number":     report.AccountNumber,
		"risk_score":         report.RiskScore,
		"flags":              flags,
		"status":             string(report.Status),
		"raw_response":       report.RawResponse,
		"timestamp":          report.Timestamp,
	})
	if err != nil {
		return nil, dbError("Failed to store risk report", err)
	}

	saved := *report
	saved.ID = rec.String("id")
	saved.Flags = flags
	return &saved, nil
}

// FindByReference returns the reports stored under a reference, oldest first
func (r *RiskReportRepository) FindByReference(ctx context.Context, reference string) ([]*models.RiskReport, error) {
	rows, err := r.store.Find(ctx, store.RiskReports, store.Filter{"reference": reference})
	if err != nil {
		return nil, dbError("Failed to fetch risk reports", err)
	}
	reports := make([]*models.RiskReport, 0, len(rows))
	for _, rec := range rows {
		reports = append(reports, &models.RiskReport{
			ID:               rec.String("id"),
			ApplicationID:    rec.StringPtr("application_id"),
			Reference:        rec.String("reference"),
			GuardianEmail:    rec.String("guardian_email"),
			GuardianName:     rec.String("guardian_name"),
			GuardianIDNumber: rec.String("guardian_id_number"),
			BranchCode:       rec.String("branch_code"),
			AccountNumber:    rec.String("account_number"),
			RiskScore:        rec.Float("risk_score"),
			Flags:            rec.Strings("flags"),
			Status:           models.RiskStatus(rec.String("status")),
			RawResponse:      rec.Map("raw_response"),
			Timestamp:        rec.Time("timestamp"),
		})
	}
	return reports, nil
}
