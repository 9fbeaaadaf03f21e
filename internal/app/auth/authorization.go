package auth

import (
	"context"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// Messages returned by the guard
const (
	MsgApplicationNotFound = "Application not found"
	MsgAccessDenied        = "Access denied"
)

// OwnershipGuard decides whether an identity may act on an application
type OwnershipGuard struct {
	appRepo *repositories.ApplicationRepository
}

// NewOwnershipGuard creates a new OwnershipGuard
func NewOwnershipGuard(appRepo *repositories.ApplicationRepository) *OwnershipGuard {
	return &OwnershipGuard{
		appRepo: appRepo,
	}
}

// Authorize returns the application when identity owns it. An application that
// does not exist is a not-found error; one owned by someone else is forbidden.
// The empty identity owns only applications without an owner.
func (g *OwnershipGuard) Authorize(ctx context.Context, applicationID, identity string) (*models.Application, error) {
	app, err := g.appRepo.GetOwned(ctx, applicationID, identity)
	if err != nil {
		return nil, err
	}
	if app != nil {
		return app, nil
	}

	existing, err := g.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewResourceNotFoundError(MsgApplicationNotFound)
	}

	logger.Warn().
		Str("application_id", applicationID).
		Str("user_id", identity).
		Msg("Denied access to application owned by another user")
	return nil, apperrors.NewForbiddenError(MsgAccessDenied)
}
