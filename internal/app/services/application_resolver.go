package services

import (
	"context"
	"fmt"

	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// ApplicationResolver maps an identity to its one application
type ApplicationResolver struct {
	appRepo *repositories.ApplicationRepository
}

// NewApplicationResolver creates a new application resolver
func NewApplicationResolver(appRepo *repositories.ApplicationRepository) *ApplicationResolver {
	return &ApplicationResolver{
		appRepo: appRepo,
	}
}

// ResolveOrCreate returns the id of the identity's application, creating an
// in-progress one on first use. Any status counts as existing. When several
// applications exist the first in store order wins.
func (r *ApplicationResolver) ResolveOrCreate(ctx context.Context, identity string) (string, error) {
	apps, err := r.appRepo.FindByUser(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("error resolving application: %w", err)
	}

	if len(apps) > 0 {
		if len(apps) > 1 {
			logger.Warn().
				Str("user_id", identity).
				Int("count", len(apps)).
				Str("application_id", apps[0].ID).
				Msg("User has more than one application, using the first")
		}
		return apps[0].ID, nil
	}

	app, err := r.appRepo.Create(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("error creating application: %w", err)
	}
	logger.Info().Str("user_id", identity).Str("application_id", app.ID).Msg("Created application")
	return app.ID, nil
}
