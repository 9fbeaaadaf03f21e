package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// MsgApplicationProcessed is returned when a decided application is resubmitted
const MsgApplicationProcessed = "Application has already been processed"

// SubmissionSections holds the full-schema sections of a submission. Nil
// sections are skipped.
type SubmissionSections struct {
	Student         *dto.StudentInfo
	Medical         *dto.MedicalInfo
	Family          *dto.FamilyInfo
	Fee             *dto.FeeInfo
	AcademicHistory *dto.AcademicHistoryInfo
	Declaration     *dto.DeclarationInfo
}

// SubmissionAssembler validates and writes complete sections, then moves the
// application to submitted. Writes are sequential and are not rolled back when
// a later section fails.
type SubmissionAssembler struct {
	guard   *auth.OwnershipGuard
	merger  *SectionMerger
	appRepo *repositories.ApplicationRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSubmissionAssembler creates a new submission assembler
func NewSubmissionAssembler(
	guard *auth.OwnershipGuard,
	merger *SectionMerger,
	appRepo *repositories.ApplicationRepository,
	m *metrics.Metrics,
) *SubmissionAssembler {
	return &SubmissionAssembler{
		guard:   guard,
		merger:  merger,
		appRepo: appRepo,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit writes every present section in the fixed submission order and stamps
// the application as submitted.
func (a *SubmissionAssembler) Submit(ctx context.Context, applicationID string, sections SubmissionSections, identity string) (*models.Application, error) {
	app, err := a.guard.Authorize(ctx, applicationID, identity)
	if err != nil {
		return nil, err
	}
	if app.Status.IsFinal() {
		return nil, apperrors.NewConflictError(MsgApplicationProcessed)
	}

	submitted, err := a.submit(ctx, applicationID, sections)
	a.metrics.Submission(err == nil)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("application_id", applicationID).
		Str("user_id", identity).
		Msg("Application submitted")
	return submitted, nil
}

func (a *SubmissionAssembler) submit(ctx context.Context, applicationID string, sections SubmissionSections) (*models.Application, error) {
	for _, section := range models.SubmissionSections {
		fields, err := sectionFields(section, sections, a.now())
		if err != nil {
			return nil, err
		}
		if fields == nil {
			continue
		}
		if err := a.merger.WriteSection(ctx, applicationID, section, fields); err != nil {
			return nil, fmt.Errorf("error writing %s section: %w", section, err)
		}
	}

	app, err := a.appRepo.MarkSubmitted(ctx, applicationID, a.now())
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.NewResourceNotFoundError(auth.MsgApplicationNotFound)
	}
	return app, nil
}

// sectionFields validates one section and returns its full column set, or nil
// when the section is absent.
func sectionFields(section models.Section, s SubmissionSections, now time.Time) (map[string]interface{}, error) {
	switch section {
	case models.SectionStudent:
		if s.Student == nil {
			return nil, nil
		}
		if err := validateSection(section, s.Student); err != nil {
			return nil, err
		}
		return helpers.AllFields(s.Student), nil

	case models.SectionMedical:
		if s.Medical == nil {
			return nil, nil
		}
		if err := validateSection(section, s.Medical); err != nil {
			return nil, err
		}
		fields := helpers.AllFields(s.Medical)
		if s.Medical.Conditions == nil {
			fields["conditions"] = []string{}
		}
		return fields, nil

	case models.SectionFamily:
		if s.Family == nil {
			return nil, nil
		}
		if err := validateSection(section, s.Family); err != nil {
			return nil, err
		}
		return helpers.AllFields(s.Family), nil

	case models.SectionFee:
		if s.Fee == nil {
			return nil, nil
		}
		if err := validateSection(section, s.Fee); err != nil {
			return nil, err
		}
		fields := helpers.AllFields(s.Fee)
		// selected_plan is owned by the financing selection unless sent explicitly
		if s.Fee.SelectedPlan == nil {
			delete(fields, "selected_plan")
		}
		return fields, nil

	case models.SectionAcademic:
		if s.AcademicHistory == nil {
			return nil, nil
		}
		if err := validateSection(section, s.AcademicHistory); err != nil {
			return nil, err
		}
		return helpers.AllFields(s.AcademicHistory), nil

	case models.SectionDeclaration:
		if s.Declaration == nil {
			return nil, nil
		}
		decl := *s.Declaration
		decl.FullName = strings.TrimSpace(decl.FullName)
		if err := validateSection(section, &decl); err != nil {
			return nil, err
		}
		return declarationFields(&decl, now), nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// declarationFields returns the allow-listed declaration columns with the
// default status and signing date applied.
func declarationFields(decl *dto.DeclarationInfo, now time.Time) map[string]interface{} {
	fields := helpers.AllFields(decl)
	if decl.Status == nil || strings.TrimSpace(*decl.Status) == "" {
		fields["status"] = models.DeclarationStatusCompleted
	}
	if decl.DateSigned == nil || strings.TrimSpace(*decl.DateSigned) == "" {
		fields["date_signed"] = now.Format("2006-01-02")
	}
	return fields
}

// validateSection validates v and prefixes the failing fields with the section name
func validateSection(section models.Section, v interface{}) error {
	err := validation.ValidateStruct(v)
	if err == nil {
		return nil
	}
	details := make(map[string]interface{})
	for field, msg := range apperrors.DetailsOf(err) {
		details[string(section)+"."+field] = msg
	}
	return apperrors.NewValidationError(fmt.Sprintf("Invalid %s information", section), details)
}
