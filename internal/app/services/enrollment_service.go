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
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
)

// Enrollment response messages
const (
	MsgProgressSaved         = "Progress saved successfully"
	MsgAutoSaveDegraded      = "Auto-save encountered issues but continued"
	MsgEnrollmentSubmitted   = "Enrollment submitted successfully"
	MsgApplicationSubmitted  = "Application submitted successfully"
	MsgDeclarationSaved      = "Declaration saved successfully"
	unknownApplicationID     = "unknown"
	msgProgressSavedPartial  = "Progress saved partially. Sections saved: %s. Failed: %s"
	msgSectionRequiredFormat = "%s information is required"
)

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	AutoSave(ctx context.Context, identity string, req *dto.AutoSaveRequest) *dto.AutoSaveResponse
	Submit(ctx context.Context, identity string, req *dto.SubmitEnrollmentRequest) (*dto.SubmitResponse, error)
	SubmitApplication(ctx context.Context, identity string, req *dto.SubmitApplicationRequest) (*dto.SubmitResponse, error)
	GetApplication(ctx context.Context, identity, applicationID string) (*dto.ApplicationResponse, error)
	UploadSummary(ctx context.Context, identity, applicationID string) (*dto.UploadSummaryResponse, error)
	SaveDeclaration(ctx context.Context, identity string, req *dto.DeclarationRequest) (*dto.DeclarationResponse, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	guard       *auth.OwnershipGuard
	resolver    *ApplicationResolver
	merger      *SectionMerger
	assembler   *SubmissionAssembler
	aggregator  *DocumentAggregator
	sectionRepo *repositories.SectionRepository
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	guard *auth.OwnershipGuard,
	resolver *ApplicationResolver,
	merger *SectionMerger,
	assembler *SubmissionAssembler,
	aggregator *DocumentAggregator,
	sectionRepo *repositories.SectionRepository,
	m *metrics.Metrics,
) EnrollmentService {
	return &enrollmentServiceImpl{
		guard:       guard,
		resolver:    resolver,
		merger:      merger,
		assembler:   assembler,
		aggregator:  aggregator,
		sectionRepo: sectionRepo,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AutoSave merges whatever sections the request carries. It never fails: problems
// are logged and reported through the message and failed_sections.
func (s *enrollmentServiceImpl) AutoSave(ctx context.Context, identity string, req *dto.AutoSaveRequest) *dto.AutoSaveResponse {
	present := autoSaveSections(req)

	applicationID, err := s.autoSaveTarget(ctx, identity, req.ApplicationID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", identity).Msg("Auto-save could not resolve application")
		echo := unknownApplicationID
		if req.ApplicationID != nil && strings.TrimSpace(*req.ApplicationID) != "" {
			echo = *req.ApplicationID
		}
		failed := make([]string, 0, len(present))
		for _, section := range models.AutoSaveSections {
			if _, ok := present[section]; ok {
				failed = append(failed, string(section))
			}
		}
		return &dto.AutoSaveResponse{
			Message:        MsgAutoSaveDegraded,
			ApplicationID:  echo,
			SavedSections:  []string{},
			FailedSections: failed,
		}
	}

	saved := []string{}
	failed := []string{}
	for _, section := range models.AutoSaveSections {
		payload, ok := present[section]
		if !ok {
			continue
		}
		written, err := s.mergePartial(ctx, applicationID, section, payload)
		if err != nil {
			logger.Warn().Err(err).
				Str("application_id", applicationID).
				Str("section", string(section)).
				Msg("Failed to auto-save section")
			failed = append(failed, string(section))
			s.metrics.SectionSaved(string(section), false)
			continue
		}
		// A present but empty section has nothing to write
		if !written {
			continue
		}
		saved = append(saved, string(section))
		s.metrics.SectionSaved(string(section), true)
	}

	message := MsgProgressSaved
	if len(failed) > 0 {
		message = fmt.Sprintf(msgProgressSavedPartial, strings.Join(saved, ", "), strings.Join(failed, ", "))
		logger.Warn().Str("application_id", applicationID).Msg(message)
	}
	return &dto.AutoSaveResponse{
		Message:        message,
		ApplicationID:  applicationID,
		SavedSections:  saved,
		FailedSections: failed,
	}
}

// autoSaveTarget picks the application an auto-save writes to. An owned id is
// used as is; an id that does not exist falls back to the resolver; an id owned
// by someone else is an error.
func (s *enrollmentServiceImpl) autoSaveTarget(ctx context.Context, identity string, requested *string) (string, error) {
	if requested != nil {
		id := strings.TrimSpace(*requested)
		if id != "" {
			app, err := s.guard.Authorize(ctx, id, identity)
			if err == nil {
				return app.ID, nil
			}
			if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return "", err
			}
			logger.Debug().Str("application_id", id).Msg("Requested application does not exist, resolving by user")
		}
	}
	return s.resolver.ResolveOrCreate(ctx, identity)
}

func (s *enrollmentServiceImpl) mergePartial(ctx context.Context, applicationID string, section models.Section, payload interface{}) (bool, error) {
	if err := validateSection(section, payload); err != nil {
		return false, err
	}
	return s.merger.MergeSection(ctx, applicationID, section, helpers.SparseFields(payload))
}

// autoSaveSections returns the sections present in the request
func autoSaveSections(req *dto.AutoSaveRequest) map[models.Section]interface{} {
	present := make(map[models.Section]interface{}, 4)
	if req.Student != nil {
		present[models.SectionStudent] = req.Student
	}
	if req.Medical != nil {
		present[models.SectionMedical] = req.Medical
	}
	if req.Family != nil {
		present[models.SectionFamily] = req.Family
	}
	if req.Fee != nil {
		present[models.SectionFee] = req.Fee
	}
	return present
}

// Submit saves all four core sections of the caller's application and submits it
func (s *enrollmentServiceImpl) Submit(ctx context.Context, identity string, req *dto.SubmitEnrollmentRequest) (*dto.SubmitResponse, error) {
	missing := make(map[string]interface{})
	if req.Student == nil {
		missing[string(models.SectionStudent)] = fmt.Sprintf(msgSectionRequiredFormat, models.SectionStudent)
	}
	if req.Medical == nil {
		missing[string(models.SectionMedical)] = fmt.Sprintf(msgSectionRequiredFormat, models.SectionMedical)
	}
	if req.Family == nil {
		missing[string(models.SectionFamily)] = fmt.Sprintf(msgSectionRequiredFormat, models.SectionFamily)
	}
	if req.Fee == nil {
		missing[string(models.SectionFee)] = fmt.Sprintf(msgSectionRequiredFormat, models.SectionFee)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Incomplete enrollment", missing)
	}

	applicationID, err := s.resolver.ResolveOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	app, err := s.assembler.Submit(ctx, applicationID, SubmissionSections{
		Student: req.Student,
		Medical: req.Medical,
		Family:  req.Family,
		Fee:     req.Fee,
	}, identity)
	if err != nil {
		return nil, err
	}
	return submitResponse(MsgEnrollmentSubmitted, app), nil
}

// SubmitApplication submits the present sections of an existing application
func (s *enrollmentServiceImpl) SubmitApplication(ctx context.Context, identity string, req *dto.SubmitApplicationRequest) (*dto.SubmitResponse, error) {
	applicationID := strings.TrimSpace(req.ApplicationID)
	if applicationID == "" {
		return nil, apperrors.NewValidationError("Validation failed", map[string]interface{}{
			"application_id": "application_id is required",
		})
	}

	app, err := s.assembler.Submit(ctx, applicationID, SubmissionSections{
		Student:         req.Student,
		Medical:         req.Medical,
		Family:          req.Family,
		Fee:             req.Fee,
		AcademicHistory: req.AcademicHistory,
		Declaration:     req.Declaration,
	}, identity)
	if err != nil {
		return nil, err
	}
	return submitResponse(MsgApplicationSubmitted, app), nil
}

func submitResponse(message string, app *models.Application) *dto.SubmitResponse {
	return &dto.SubmitResponse{
		Message:       message,
		ApplicationID: app.ID,
		Status:        string(app.Status),
		SubmittedAt:   app.SubmittedAt,
	}
}

// GetApplication returns the application with its four core sections
func (s *enrollmentServiceImpl) GetApplication(ctx context.Context, identity, applicationID string) (*dto.ApplicationResponse, error) {
	app, err := s.guard.Authorize(ctx, applicationID, identity)
	if err != nil {
		return nil, err
	}

	resp := &dto.ApplicationResponse{
		ID:     app.ID,
		Status: string(app.Status),
	}
	if !app.CreatedAt.IsZero() {
		created := app.CreatedAt
		resp.CreatedAt = &created
	}

	targets := map[models.Section]*map[string]interface{}{
		models.SectionStudent: &resp.Student,
		models.SectionMedical: &resp.Medical,
		models.SectionFamily:  &resp.Family,
		models.SectionFee:     &resp.Fee,
	}
	for _, section := range models.AutoSaveSections {
		rec, err := s.sectionRepo.Get(ctx, section, app.ID)
		if err != nil {
			return nil, err
		}
		*targets[section] = sectionView(rec)
	}
	return resp, nil
}

// sectionView strips bookkeeping columns from a section row. A missing row is {}.
func sectionView(rec store.Record) map[string]interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		switch k {
		case "id", "application_id", "created_at", "updated_at":
			continue
		}
		out[k] = v
	}
	return out
}

// UploadSummary returns the document rollup of an owned application
func (s *enrollmentServiceImpl) UploadSummary(ctx context.Context, identity, applicationID string) (*dto.UploadSummaryResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	return s.aggregator.Summary(ctx, applicationID)
}

// SaveDeclaration stores the declaration of the given application, or of the
// caller's application when no id is supplied.
func (s *enrollmentServiceImpl) SaveDeclaration(ctx context.Context, identity string, req *dto.DeclarationRequest) (*dto.DeclarationResponse, error) {
	decl := req.DeclarationInfo
	decl.FullName = strings.TrimSpace(decl.FullName)
	if err := validateSection(models.SectionDeclaration, &decl); err != nil {
		return nil, err
	}

	var applicationID string
	if req.ApplicationID != nil && strings.TrimSpace(*req.ApplicationID) != "" {
		app, err := s.guard.Authorize(ctx, strings.TrimSpace(*req.ApplicationID), identity)
		if err != nil {
			return nil, err
		}
		applicationID = app.ID
	} else {
		id, err := s.resolver.ResolveOrCreate(ctx, identity)
		if err != nil {
			return nil, err
		}
		applicationID = id
	}

	fields := declarationFields(&decl, s.now())
	if err := s.merger.WriteSection(ctx, applicationID, models.SectionDeclaration, fields); err != nil {
		return nil, err
	}

	logger.Info().Str("application_id", applicationID).Msg("Declaration saved")
	return &dto.DeclarationResponse{
		Message:       MsgDeclarationSaved,
		ApplicationID: applicationID,
		Status:        fields["status"].(string),
	}, nil
}
