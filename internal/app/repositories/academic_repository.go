package repositories

import (
	"context"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

// AcademicRepository reads and writes the academic history section as typed records
type AcademicRepository struct {
	sections *SectionRepository
}

// NewAcademicRepository creates a new academic history repository
func NewAcademicRepository(sections *SectionRepository) *AcademicRepository {
	return &AcademicRepository{
		sections: sections,
	}
}

// GetByApplication returns the academic history of an application or nil
func (r *AcademicRepository) GetByApplication(ctx context.Context, applicationID string) (*models.AcademicHistory, error) {
	rec, err := r.sections.Get(ctx, models.SectionAcademic, applicationID)
	if err != nil || rec == nil {
		return nil, err
	}
	return academicFromRecord(rec), nil
}

// Upsert creates or replaces the given fields of the academic history
func (r *AcademicRepository) Upsert(ctx context.Context, applicationID string, fields map[string]interface{}) (*models.AcademicHistory, error) {
	rec, err := r.sections.Upsert(ctx, models.SectionAcademic, applicationID, fields)
	if err != nil {
		return nil, err
	}
	return academicFromRecord(rec), nil
}

// Update changes the given fields and returns nil when no record exists
func (r *AcademicRepository) Update(ctx context.Context, applicationID string, fields map[string]interface{}) (*models.AcademicHistory, error) {
	rec, err := r.sections.Update(ctx, models.SectionAcademic, applicationID, fields)
	if err != nil || rec == nil {
		return nil, err
	}
	return academicFromRecord(rec), nil
}

// Delete removes the academic history and reports whether it existed
func (r *AcademicRepository) Delete(ctx context.Context, applicationID string) (bool, error) {
	return r.sections.Delete(ctx, models.SectionAcademic, applicationID)
}

func academicFromRecord(rec store.Record) *models.AcademicHistory {
	return &models.AcademicHistory{
		ID:                    rec.String("id"),
		ApplicationID:         rec.String("application_id"),
		SchoolName:            rec.String("school_name"),
		SchoolType:            rec.String("school_type"),
		LastGradeCompleted:    rec.String("last_grade_completed"),
		AcademicYearCompleted: rec.String("academic_year_completed"),
		ReasonForLeaving:      rec.StringPtr("reason_for_leaving"),
		PrincipalName:         rec.StringPtr("principal_name"),
		SchoolPhoneNumber:     rec.StringPtr("school_phone_number"),
		SchoolEmail:           rec.StringPtr("school_email"),
		SchoolAddress:         rec.StringPtr("school_address"),
		AdditionalNotes:       rec.StringPtr("additional_notes"),
		ReportCardURL:         rec.StringPtr("report_card_url"),
		CreatedAt:             rec.Time("created_at"),
		UpdatedAt:             rec.Time("updated_at"),
	}
}
