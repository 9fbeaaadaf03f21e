package services

import (
	"context"
	"path"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// DocumentAggregator computes document completion from the progress entries
type DocumentAggregator struct {
	docRepo *repositories.DocumentRepository
}

// NewDocumentAggregator creates a new document aggregator
func NewDocumentAggregator(docRepo *repositories.DocumentRepository) *DocumentAggregator {
	return &DocumentAggregator{
		docRepo: docRepo,
	}
}

// StatusFor groups entries by required category. A category is complete once
// it has at least its required number of uploads.
func StatusFor(entries []models.DocumentProgressEntry) []dto.DocumentStatus {
	statuses := make([]dto.DocumentStatus, 0, len(models.RequiredDocuments))
	for _, docType := range models.RequiredDocumentTypes() {
		files := []dto.DocumentFileRef{}
		for _, e := range entries {
			if e.DocumentType != docType {
				continue
			}
			files = append(files, dto.DocumentFileRef{
				FileURL:  e.FileURL,
				Filename: path.Base(e.FileURL),
			})
		}

		required := models.RequiredDocuments[docType]
		statuses = append(statuses, dto.DocumentStatus{
			DocumentType:  string(docType),
			UploadedCount: len(files),
			RequiredCount: required,
			Completed:     len(files) >= required,
			Files:         files,
		})
	}
	return statuses
}

// Status returns the per-category status of an application
func (a *DocumentAggregator) Status(ctx context.Context, applicationID string) (*dto.DocumentStatusResponse, error) {
	entries, err := a.docRepo.ListProgress(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	summary := StatusFor(entries)
	all := true
	for _, s := range summary {
		all = all && s.Completed
	}
	return &dto.DocumentStatusResponse{
		ApplicationID: applicationID,
		AllCompleted:  all,
		Summary:       summary,
	}, nil
}

// Summary reads the precomputed upload summary and re-derives it from the
// progress entries when the view has no row or cannot be read.
func (a *DocumentAggregator) Summary(ctx context.Context, applicationID string) (*dto.UploadSummaryResponse, error) {
	view, err := a.docRepo.SummaryFromView(ctx, applicationID)
	if err != nil {
		logger.Warn().Err(err).Str("application_id", applicationID).Msg("Upload summary view unavailable, deriving from entries")
	}
	if err == nil && view != nil {
		return &dto.UploadSummaryResponse{
			ApplicationID:       applicationID,
			CompletedCategories: view.CompletedCategories,
			UploadedTypes:       view.UploadedTypes,
		}, nil
	}

	entries, err := a.docRepo.ListProgress(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	derived := models.SummaryFromEntries(entries)
	return &dto.UploadSummaryResponse{
		ApplicationID:       applicationID,
		CompletedCategories: derived.CompletedCategories,
		UploadedTypes:       derived.UploadedTypes,
	}, nil
}
