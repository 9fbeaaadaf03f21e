package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	store store.Store
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(s store.Store) *ApplicationRepository {
	return &ApplicationRepository{
		store: s,
	}
}

// GetByID returns the application or nil when it does not exist.
// Ids that are not UUIDs cannot exist and are reported as absent.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	rec, err := r.store.Get(ctx, store.Applications, id)
	if err != nil {
		return nil, dbError("Failed to fetch application", err)
	}
	if rec == nil {
		return nil, nil
	}
	return applicationFromRecord(rec), nil
}

// GetOwned returns the application when it exists and belongs to userID.
// An empty userID only matches applications without an owner.
func (r *ApplicationRepository) GetOwned(ctx context.Context, id, userID string) (*models.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	rows, err := r.store.Find(ctx, store.Applications, store.Filter{"id": id, "user_id": ownerValue(userID)})
	if err != nil {
		return nil, dbError("Failed to verify application ownership", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return applicationFromRecord(rows[0]), nil
}

// FindByUser returns every application of userID in creation order
func (r *ApplicationRepository) FindByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	rows, err := r.store.Find(ctx, store.Applications, store.Filter{"user_id": ownerValue(userID)})
	if err != nil {
		return nil, dbError("Failed to look up applications", err)
	}
	apps := make([]*models.Application, 0, len(rows))
	for _, rec := range rows {
		apps = append(apps, applicationFromRecord(rec))
	}
	return apps, nil
}

// Create inserts a new in-progress application for userID
func (r *ApplicationRepository) Create(ctx context.Context, userID string) (*models.Application, error) {
	rec, err := r.store.Insert(ctx, store.Applications, store.Record{
		"user_id":             ownerValue(userID),
		"status":              string(models.StatusInProgress),
		"documents_completed": false,
	})
	if err != nil {
		return nil, dbError("Failed to create application", err)
	}
	return applicationFromRecord(rec), nil
}

// MarkSubmitted sets the submitted status and timestamp
func (r *ApplicationRepository) MarkSubmitted(ctx context.Context, id string, at time.Time) (*models.Application, error) {
	rows, err := r.store.Update(ctx, store.Applications, store.Filter{"id": id}, store.Record{
		"status":       string(models.StatusSubmitted),
		"submitted_at": at,
	})
	if err != nil {
		return nil, dbError("Failed to update application status", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return applicationFromRecord(rows[0]), nil
}

// MarkDocumentsCompleted flags the document step of the application as done
func (r *ApplicationRepository) MarkDocumentsCompleted(ctx context.Context, id string) (bool, error) {
	rows, err := r.store.Update(ctx, store.Applications, store.Filter{"id": id}, store.Record{
		"documents_completed": true,
	})
	if err != nil {
		return false, dbError("Failed to mark documents complete", err)
	}
	return len(rows) > 0, nil
}

// ownerValue maps the anonymous identity to NULL
func ownerValue(userID string) interface{} {
	if userID == "" {
		return nil
	}
	return userID
}

func applicationFromRecord(rec store.Record) *models.Application {
	return &models.Application{
		ID:                 rec.String("id"),
		UserID:             rec.StringPtr("user_id"),
		Status:             models.ApplicationStatus(rec.String("status")),
		DocumentsCompleted: rec.Bool("documents_completed"),
		CreatedAt:          rec.Time("created_at"),
		UpdatedAt:          rec.Time("updated_at"),
		SubmittedAt:        rec.TimePtr("submitted_at"),
	}
}
