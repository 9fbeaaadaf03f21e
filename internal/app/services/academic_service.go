package services

import (
	"context"
	"strings"

	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// MsgAcademicHistoryNotFound is returned when an application has no academic history
const MsgAcademicHistoryNotFound = "Academic history not found"

// AcademicService defines the interface for academic history operations
type AcademicService interface {
	Save(ctx context.Context, identity string, req *dto.AcademicHistoryCreateRequest) (*models.AcademicHistory, error)
	Get(ctx context.Context, identity, applicationID string) (*models.AcademicHistory, error)
	Update(ctx context.Context, identity, applicationID string, req *dto.AcademicHistoryUpdateRequest) (*models.AcademicHistory, error)
	Delete(ctx context.Context, identity, applicationID string) error
}

// academicServiceImpl implements AcademicService
type academicServiceImpl struct {
	guard        *auth.OwnershipGuard
	academicRepo *repositories.AcademicRepository
}

// NewAcademicService creates a new AcademicService
func NewAcademicService(guard *auth.OwnershipGuard, academicRepo *repositories.AcademicRepository) AcademicService {
	return &academicServiceImpl{
		guard:        guard,
		academicRepo: academicRepo,
	}
}

// Save creates the academic history or, when one exists, updates the supplied fields
func (s *academicServiceImpl) Save(ctx context.Context, identity string, req *dto.AcademicHistoryCreateRequest) (*models.AcademicHistory, error) {
	applicationID := strings.TrimSpace(req.ApplicationID)
	if err := validateSection(models.SectionAcademic, &req.AcademicHistoryInfo); err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}

	history, err := s.academicRepo.Upsert(ctx, applicationID, helpers.SparseFields(&req.AcademicHistoryInfo))
	if err != nil {
		return nil, err
	}
	logger.Info().Str("application_id", applicationID).Msg("Academic history saved")
	return history, nil
}

// Get returns the academic history or nil when none was saved
func (s *academicServiceImpl) Get(ctx context.Context, identity, applicationID string) (*models.AcademicHistory, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	return s.academicRepo.GetByApplication(ctx, applicationID)
}

// Update changes the supplied fields of an existing academic history
func (s *academicServiceImpl) Update(ctx context.Context, identity, applicationID string, req *dto.AcademicHistoryUpdateRequest) (*models.AcademicHistory, error) {
	if err := validateSection(models.SectionAcademic, req); err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}

	fields := helpers.SparseFields(req)
	if len(fields) == 0 {
		existing, err := s.academicRepo.GetByApplication(ctx, applicationID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.NewResourceNotFoundError(MsgAcademicHistoryNotFound)
		}
		return existing, nil
	}

	history, err := s.academicRepo.Update(ctx, applicationID, fields)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, apperrors.NewResourceNotFoundError(MsgAcademicHistoryNotFound)
	}
	return history, nil
}

// Delete removes the academic history of an owned application
func (s *academicServiceImpl) Delete(ctx context.Context, identity, applicationID string) error {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return err
	}
	deleted, err := s.academicRepo.Delete(ctx, applicationID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(MsgAcademicHistoryNotFound)
	}
	logger.Info().Str("application_id", applicationID).Msg("Academic history deleted")
	return nil
}
