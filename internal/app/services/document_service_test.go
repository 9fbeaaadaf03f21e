package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func pdfFile(name string) dto.UploadFile {
	return dto.UploadFile{Filename: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 test")}
}

func TestUploadStoresFileAndProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	resp, err := f.documents.Upload(ctx, "user-a", id, "payslip", pdfFile("March Payslip.PDF"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, MsgFileUploaded, resp.Message)
	assert.Equal(t, "March Payslip.PDF", resp.File.OriginalFilename)
	assert.True(t, strings.HasPrefix(resp.File.Filename, "payslip_"))
	assert.True(t, strings.HasSuffix(resp.File.Filename, ".pdf"))
	assert.Contains(t, resp.File.DownloadURL, "payslips/user-a/"+id+"/payslip_")
	assert.Equal(t, 1, f.storage.count())

	entries, err := f.repos.DocumentRepository.ListProgress(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, resp.File.ID, entries[0].FileID)
	assert.Equal(t, models.UploadStatusCompleted, entries[0].UploadStatus)

	status, err := f.documents.Status(ctx, "user-a", id)
	require.NoError(t, err)
	assert.False(t, status.AllCompleted)
	for _, s := range status.Summary {
		assert.Equal(t, s.DocumentType == "payslip", s.Completed, s.DocumentType)
	}

	listed, err := f.documents.ListFiles(ctx, "user-a", id)
	require.NoError(t, err)
	require.Len(t, listed.Files, 1)
	assert.Equal(t, resp.File.ID, listed.Files[0].ID)
}

func TestUploadAllRequiredCompletesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	for _, docType := range models.RequiredDocumentTypes() {
		_, err := f.documents.Upload(ctx, "user-a", id, string(docType), pdfFile("doc.pdf"))
		require.NoError(t, err)
	}

	status, err := f.documents.Status(ctx, "user-a", id)
	require.NoError(t, err)
	assert.True(t, status.AllCompleted)

	summary, err := f.documents.Summary(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CompletedCategories)
}

func TestUploadRejectsBadFiles(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	cases := []struct {
		name    string
		docType string
		file    dto.UploadFile
		target  error
		message string
	}{
		{"unknown type", "passport", pdfFile("a.pdf"), apperrors.ErrBadRequest, msgInvalidDocType},
		{"empty", "payslip", dto.UploadFile{Filename: "a.pdf", ContentType: "application/pdf"}, apperrors.ErrBadRequest, msgFileEmpty},
		{"too large", "payslip", dto.UploadFile{Filename: "a.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("x"), MaxUploadSize+1)}, apperrors.ErrPayloadTooLarge, msgFileTooLarge},
		{"content type", "payslip", dto.UploadFile{Filename: "a.pdf", ContentType: "text/plain", Data: []byte("x")}, apperrors.ErrBadRequest, msgInvalidFileType},
		{"extension", "payslip", dto.UploadFile{Filename: "a.exe", ContentType: "application/pdf", Data: []byte("x")}, apperrors.ErrBadRequest, msgInvalidFileSuffix},
		{"no extension", "payslip", dto.UploadFile{Filename: "scan", ContentType: "image/png", Data: []byte("x")}, apperrors.ErrBadRequest, msgInvalidFileSuffix},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.documents.Upload(context.Background(), "user-a", id, tc.docType, tc.file)
			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, tc.message, apperrors.MessageOf(err))
		})
	}
	assert.Equal(t, 0, f.storage.count())
}

func TestUploadAcceptsContentTypeParameters(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	_, err := f.documents.Upload(context.Background(), "user-a", id, "id_document", dto.UploadFile{
		Filename:    "id.jpeg",
		ContentType: "image/jpeg; charset=binary",
		Data:        []byte{0xff, 0xd8},
	})
	require.NoError(t, err)
}

func TestUploadStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")
	f.storage.failUpload = errors.New("bucket unavailable")

	_, err := f.documents.Upload(ctx, "user-a", id, "payslip", pdfFile("a.pdf"))
	require.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, "Storage error: Failed to upload file to storage", apperrors.MessageOf(err))

	files, err := f.repos.DocumentRepository.ListFiles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadRemovesObjectWhenRecordFails(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")
	f.mem.FailNext("insert", store.Documents, errors.New("disk full"))

	_, err := f.documents.Upload(context.Background(), "user-a", id, "payslip", pdfFile("a.pdf"))
	require.Error(t, err)
	assert.Equal(t, 0, f.storage.count())
}

func TestUploadRollsBackWhenProgressFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")
	f.mem.FailNext("insert", store.ApplicationDocs, errors.New("disk full"))

	_, err := f.documents.Upload(ctx, "user-a", id, "payslip", pdfFile("a.pdf"))
	require.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, 0, f.storage.count())

	files, err := f.documents.ListFiles(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Empty(t, files.Files)
}

func TestUploadForeignApplication(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-b")

	_, err := f.documents.Upload(context.Background(), "user-a", id, "payslip", pdfFile("a.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, 0, f.storage.count())
}

func TestDeleteFileRemovesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	uploaded, err := f.documents.Upload(ctx, "user-a", id, "bank_statement", pdfFile("stmt.pdf"))
	require.NoError(t, err)

	resp, err := f.documents.DeleteFile(ctx, "user-a", id, uploaded.File.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgFileDeleted, resp.Message)
	assert.Equal(t, 0, f.storage.count())

	entries, err := f.repos.DocumentRepository.ListProgress(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, entries)
	files, err := f.repos.DocumentRepository.ListFiles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = f.documents.DeleteFile(ctx, "user-a", id, uploaded.File.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeleteFileToleratesStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	uploaded, err := f.documents.Upload(ctx, "user-a", id, "payslip", pdfFile("a.pdf"))
	require.NoError(t, err)
	f.storage.failRemove = errors.New("access denied")

	_, err = f.documents.DeleteFile(ctx, "user-a", id, uploaded.File.ID)
	require.NoError(t, err)
	files, err := f.repos.DocumentRepository.ListFiles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDeleteFileUnknownIDs(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	_, err := f.documents.DeleteFile(context.Background(), "user-a", id, "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.documents.DeleteFile(context.Background(), "user-a", id, uuid.New().String())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCompleteAndMarkComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	resp, err := f.documents.Complete(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Equal(t, MsgUploadCompleted, resp.Message)
	app, err := f.repos.ApplicationRepository.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, app.DocumentsCompleted)

	_, err = f.repos.DocumentRepository.CreateProgress(ctx, &models.DocumentProgressEntry{
		ApplicationID: id,
		DocumentType:  models.DocPayslip,
		UploadStatus:  "pending",
	})
	require.NoError(t, err)

	resp, err = f.documents.MarkComplete(ctx, "user-a", id, "payslip")
	require.NoError(t, err)
	assert.Equal(t, "Document type payslip marked as complete", resp.Message)
	entries, err := f.repos.DocumentRepository.ListProgress(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.UploadStatusCompleted, entries[0].UploadStatus)

	_, err = f.documents.MarkComplete(ctx, "user-a", id, "passport")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
