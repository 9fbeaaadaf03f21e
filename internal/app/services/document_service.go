package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
)

// MaxUploadSize is the largest accepted document in bytes
const MaxUploadSize = 10 * 1024 * 1024

// Document messages
const (
	MsgFileUploaded      = "File uploaded successfully"
	MsgFileDeleted       = "File deleted successfully"
	MsgUploadCompleted   = "Document upload completed"
	MsgFileNotFound      = "File not found"
	msgDocTypeCompleted  = "Document type %s marked as complete"
	msgInvalidDocType    = "Invalid document type"
	msgFileTooLarge      = "File too large. Maximum size is 10MB"
	msgFileEmpty         = "File cannot be empty"
	msgInvalidFileType   = "Invalid file type. Only PDF, images, and Word documents are allowed"
	msgInvalidFileSuffix = "Invalid file extension"
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/jpeg":         {},
	"image/jpg":          {},
	"image/png":          {},
	"image/gif":          {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

var allowedExtensions = map[string]struct{}{
	"pdf": {}, "jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "doc": {}, "docx": {},
}

// DocumentService defines the interface for document operations
type DocumentService interface {
	Upload(ctx context.Context, identity, applicationID, documentType string, file dto.UploadFile) (*dto.FileUploadResponse, error)
	ListFiles(ctx context.Context, identity, applicationID string) (*dto.UploadedFilesResponse, error)
	DeleteFile(ctx context.Context, identity, applicationID, fileID string) (*dto.SuccessResponse, error)
	Status(ctx context.Context, identity, applicationID string) (*dto.DocumentStatusResponse, error)
	Summary(ctx context.Context, identity, applicationID string) (*dto.UploadSummaryResponse, error)
	Complete(ctx context.Context, identity, applicationID string) (*dto.SuccessResponse, error)
	MarkComplete(ctx context.Context, identity, applicationID, documentType string) (*dto.SuccessResponse, error)
}

// documentServiceImpl implements DocumentService
type documentServiceImpl struct {
	guard      *auth.OwnershipGuard
	appRepo    *repositories.ApplicationRepository
	docRepo    *repositories.DocumentRepository
	aggregator *DocumentAggregator
	storage    filestorage.FileStorage
	metrics    *metrics.Metrics
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	guard *auth.OwnershipGuard,
	appRepo *repositories.ApplicationRepository,
	docRepo *repositories.DocumentRepository,
	aggregator *DocumentAggregator,
	storage filestorage.FileStorage,
	m *metrics.Metrics,
) DocumentService {
	return &documentServiceImpl{
		guard:      guard,
		appRepo:    appRepo,
		docRepo:    docRepo,
		aggregator: aggregator,
		storage:    storage,
		metrics:    m,
	}
}

// checkUpload validates the document type and file and returns the target bucket
// and the lower-cased extension.
func checkUpload(documentType string, file dto.UploadFile) (string, string, error) {
	bucket, ok := models.DocumentType(documentType).Bucket()
	if !ok {
		return "", "", apperrors.NewBadRequestError(msgInvalidDocType)
	}
	if len(file.Data) > MaxUploadSize {
		return "", "", apperrors.NewPayloadTooLargeError(msgFileTooLarge)
	}
	if len(file.Data) == 0 {
		return "", "", apperrors.NewBadRequestError(msgFileEmpty)
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", "", apperrors.NewBadRequestError(msgInvalidFileType)
	}

	ext := ""
	if i := strings.LastIndex(file.Filename, "."); i >= 0 {
		ext = strings.ToLower(file.Filename[i+1:])
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return "", "", apperrors.NewBadRequestError(msgInvalidFileSuffix)
	}
	return bucket, ext, nil
}

// Upload stores the file and records it in both document collections
func (s *documentServiceImpl) Upload(ctx context.Context, identity, applicationID, documentType string, file dto.UploadFile) (*dto.FileUploadResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	bucket, ext, err := checkUpload(documentType, file)
	if err != nil {
		return nil, err
	}

	objectID := uuid.New().String()
	objectPath := fmt.Sprintf("%s/%s/%s_%s.%s", identity, applicationID, documentType, objectID, ext)
	if err := s.storage.Upload(ctx, bucket, objectPath, file.Data, file.ContentType); err != nil {
		logger.Error().Err(err).Str("bucket", bucket).Str("path", objectPath).Msg("Failed to upload file to storage")
		return nil, apperrors.NewExternalServiceError("Storage", "Failed to upload file to storage")
	}
	downloadURL := s.storage.PublicURL(bucket, objectPath)

	stored, err := s.docRepo.CreateFile(ctx, &models.UploadedFile{
		ApplicationID:    applicationID,
		UploadedBy:       identity,
		Filename:         fmt.Sprintf("%s_%s.%s", documentType, objectID[:8], ext),
		OriginalFilename: file.Filename,
		DocumentType:     models.DocumentType(documentType),
		BucketName:       bucket,
		FilePath:         objectPath,
		DownloadURL:      downloadURL,
		FileSize:         int64(len(file.Data)),
		ContentType:      file.ContentType,
	})
	if err != nil {
		s.removeObject(ctx, bucket, objectPath)
		return nil, err
	}

	if _, err := s.docRepo.CreateProgress(ctx, &models.DocumentProgressEntry{
		ApplicationID: applicationID,
		UserID:        identity,
		FileID:        stored.ID,
		DocumentType:  models.DocumentType(documentType),
		FileURL:       downloadURL,
		UploadStatus:  models.UploadStatusCompleted,
	}); err != nil {
		if _, delErr := s.docRepo.DeleteFile(ctx, stored.ID); delErr != nil {
			logger.Error().Err(delErr).Str("file_id", stored.ID).Msg("Failed to remove file record after progress write failed")
		}
		s.removeObject(ctx, bucket, objectPath)
		return nil, err
	}

	s.metrics.Upload(documentType)
	logger.Info().
		Str("application_id", applicationID).
		Str("document_type", documentType).
		Str("file_id", stored.ID).
		Int64("size", stored.FileSize).
		Msg("Document uploaded")

	return &dto.FileUploadResponse{
		Success: true,
		Message: MsgFileUploaded,
		File:    uploadedFileResponse(stored),
	}, nil
}

// ListFiles returns the stored files of an application
func (s *documentServiceImpl) ListFiles(ctx context.Context, identity, applicationID string) (*dto.UploadedFilesResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	files, err := s.docRepo.ListFiles(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	resp := &dto.UploadedFilesResponse{Files: make([]dto.UploadedFileResponse, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, uploadedFileResponse(f))
	}
	return resp, nil
}

// DeleteFile removes both records of a file, then the stored object. A storage
// failure is logged only.
func (s *documentServiceImpl) DeleteFile(ctx context.Context, identity, applicationID, fileID string) (*dto.SuccessResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, apperrors.NewResourceNotFoundError(MsgFileNotFound)
	}

	file, err := s.docRepo.GetFile(ctx, applicationID, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperrors.NewResourceNotFoundError(MsgFileNotFound)
	}

	if _, err := s.docRepo.DeleteProgressByFile(ctx, file.ID); err != nil {
		return nil, err
	}
	if _, err := s.docRepo.DeleteFile(ctx, file.ID); err != nil {
		return nil, err
	}
	s.removeObject(ctx, file.BucketName, file.FilePath)

	logger.Info().Str("application_id", applicationID).Str("file_id", fileID).Msg("Document deleted")
	return &dto.SuccessResponse{Message: MsgFileDeleted}, nil
}

func (s *documentServiceImpl) removeObject(ctx context.Context, bucket, objectPath string) {
	if err := s.storage.Remove(ctx, bucket, []string{objectPath}); err != nil {
		logger.Warn().Err(err).Str("bucket", bucket).Str("path", objectPath).Msg("Failed to delete from storage")
	}
}

// Status returns the per-category completion of an application
func (s *documentServiceImpl) Status(ctx context.Context, identity, applicationID string) (*dto.DocumentStatusResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	return s.aggregator.Status(ctx, applicationID)
}

// Summary returns the upload rollup of an application
func (s *documentServiceImpl) Summary(ctx context.Context, identity, applicationID string) (*dto.UploadSummaryResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	return s.aggregator.Summary(ctx, applicationID)
}

// Complete flags the document step of the application as done
func (s *documentServiceImpl) Complete(ctx context.Context, identity, applicationID string) (*dto.SuccessResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	if _, err := s.appRepo.MarkDocumentsCompleted(ctx, applicationID); err != nil {
		return nil, err
	}
	logger.Info().Str("application_id", applicationID).Msg("Document upload completed")
	return &dto.SuccessResponse{Message: MsgUploadCompleted}, nil
}

// MarkComplete marks every progress entry of one document type as completed
func (s *documentServiceImpl) MarkComplete(ctx context.Context, identity, applicationID, documentType string) (*dto.SuccessResponse, error) {
	if _, err := s.guard.Authorize(ctx, applicationID, identity); err != nil {
		return nil, err
	}
	docType := models.DocumentType(documentType)
	if _, ok := docType.Bucket(); !ok {
		return nil, apperrors.NewBadRequestError(msgInvalidDocType)
	}

	updated, err := s.docRepo.MarkUploadComplete(ctx, applicationID, docType)
	if err != nil {
		return nil, err
	}
	if !updated {
		logger.Debug().Str("application_id", applicationID).Str("document_type", documentType).Msg("No uploads to mark complete")
	}
	return &dto.SuccessResponse{Message: fmt.Sprintf(msgDocTypeCompleted, documentType)}, nil
}

func uploadedFileResponse(f *models.UploadedFile) dto.UploadedFileResponse {
	return dto.UploadedFileResponse{
		ID:               f.ID,
		Filename:         path.Base(f.Filename),
		OriginalFilename: f.OriginalFilename,
		FileSize:         f.FileSize,
		ContentType:      f.ContentType,
		DocumentType:     string(f.DocumentType),
		DownloadURL:      f.DownloadURL,
		CreatedAt:        f.CreatedAt,
	}
}
