package repositories

import (
	"context"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

// DocumentRepository handles the two document collections: the stored file rows
// and the progress entries that gate completion.
type DocumentRepository struct {
	store store.Store
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(s store.Store) *DocumentRepository {
	return &DocumentRepository{
		store: s,
	}
}

// CreateFile records a stored file
func (r *DocumentRepository) CreateFile(ctx context.Context, f *models.UploadedFile) (*models.UploadedFile, error) {
	rec, err := r.store.Insert(ctx, store.Documents, store.Record{
		"application_id":    f.ApplicationID,
		"uploaded_by":       f.UploadedBy,
		"filename":          f.Filename,
		"original_filename": f.OriginalFilename,
		"file_size":         f.FileSize,
		"content_type":      f.ContentType,
		"document_type":     string(f.DocumentType),
		"bucket_name":       f.BucketName,
		"file_path":         f.FilePath,
		"download_url":      f.DownloadURL,
	})
	if err != nil {
		return nil, dbError("Failed to save file metadata", err)
	}
	return fileFromRecord(rec), nil
}

// GetFile returns a file of an application or nil
func (r *DocumentRepository) GetFile(ctx context.Context, applicationID, fileID string) (*models.UploadedFile, error) {
	rows, err := r.store.Find(ctx, store.Documents, store.Filter{"id": fileID, "application_id": applicationID})
	if err != nil {
		return nil, dbError("Failed to fetch file", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return fileFromRecord(rows[0]), nil
}

// ListFiles returns the files of an application in upload order
func (r *DocumentRepository) ListFiles(ctx context.Context, applicationID string) ([]*models.UploadedFile, error) {
	rows, err := r.store.Find(ctx, store.Documents, store.Filter{"application_id": applicationID})
	if err != nil {
		return nil, dbError("Failed to list files", err)
	}
	files := make([]*models.UploadedFile, 0, len(rows))
	for _, rec := range rows {
		files = append(files, fileFromRecord(rec))
	}
	return files, nil
}

// DeleteFile removes a file row
func (r *DocumentRepository) DeleteFile(ctx context.Context, fileID string) (bool, error) {
	deleted, err := r.store.Delete(ctx, store.Documents, store.Filter{"id": fileID})
	if err != nil {
		return false, dbError("Failed to delete file metadata", err)
	}
	return deleted, nil
}

// CreateProgress records a progress entry for an uploaded file
func (r *DocumentRepository) CreateProgress(ctx context.Context, e *models.DocumentProgressEntry) (*models.DocumentProgressEntry, error) {
	rec, err := r.store.Insert(ctx, store.ApplicationDocs, store.Record{
		"application_id": e.ApplicationID,
		"user_id":        e.UserID,
		"file_id":        e.FileID,
		"document_type":  string(e.DocumentType),
		"file_url":       e.FileURL,
		"upload_status":  e.UploadStatus,
	})
	if err != nil {
		return nil, dbError("Failed to record document progress", err)
	}
	return progressFromRecord(rec), nil
}

// ListProgress returns the progress entries of an application
func (r *DocumentRepository) ListProgress(ctx context.Context, applicationID string) ([]models.DocumentProgressEntry, error) {
	rows, err := r.store.Find(ctx, store.ApplicationDocs, store.Filter{"application_id": applicationID})
	if err != nil {
		return nil, dbError("Failed to fetch document progress", err)
	}
	entries := make([]models.DocumentProgressEntry, 0, len(rows))
	for _, rec := range rows {
		entries = append(entries, *progressFromRecord(rec))
	}
	return entries, nil
}

// DeleteProgressByFile removes the progress entries of one file
func (r *DocumentRepository) DeleteProgressByFile(ctx context.Context, fileID string) (bool, error) {
	deleted, err := r.store.Delete(ctx, store.ApplicationDocs, store.Filter{"file_id": fileID})
	if err != nil {
		return false, dbError("Failed to delete document progress", err)
	}
	return deleted, nil
}

// SummaryFromView reads the upload summary view. It returns nil when the view has
// no row for the application.
func (r *DocumentRepository) SummaryFromView(ctx context.Context, applicationID string) (*models.UploadSummary, error) {
	rows, err := r.store.Find(ctx, store.UploadSummaryView, store.Filter{"application_id": applicationID})
	if err != nil {
		return nil, dbError("Failed to read upload summary", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	types := rows[0].Strings("uploaded_types")
	if types == nil {
		types = []string{}
	}
	return &models.UploadSummary{
		CompletedCategories: int(rows[0].Int64("completed_categories")),
		UploadedTypes:       types,
	}, nil
}

// MarkUploadComplete runs the server-side completion routine for one type
func (r *DocumentRepository) MarkUploadComplete(ctx context.Context, applicationID string, docType models.DocumentType) (bool, error) {
	result, err := r.store.CallProcedure(ctx, store.ProcMarkUploadComplete, store.Record{
		"app_id":   applicationID,
		"doc_type": string(docType),
	})
	if err != nil {
		return false, dbError("Failed to mark upload complete", err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

func fileFromRecord(rec store.Record) *models.UploadedFile {
	return &models.UploadedFile{
		ID:               rec.String("id"),
		ApplicationID:    rec.String("application_id"),
		UploadedBy:       rec.String("uploaded_by"),
		Filename:         rec.String("filename"),
		OriginalFilename: rec.String("original_filename"),
		DocumentType:     models.DocumentType(rec.String("document_type")),
		BucketName:       rec.String("bucket_name"),
		FilePath:         rec.String("file_path"),
		DownloadURL:      rec.String("download_url"),
		FileSize:         rec.Int64("file_size"),
		ContentType:      rec.String("content_type"),
		CreatedAt:        rec.Time("created_at"),
	}
}

func progressFromRecord(rec store.Record) *models.DocumentProgressEntry {
	return &models.DocumentProgressEntry{
		ID:            rec.String("id"),
		ApplicationID: rec.String("application_id"),
		UserID:        rec.String("user_id"),
		FileID:        rec.String("file_id"),
		DocumentType:  models.DocumentType(rec.String("document_type")),
		FileURL:       rec.String("file_url"),
		UploadStatus:  rec.String("upload_status"),
		CreatedAt:     rec.Time("created_at"),
	}
}
