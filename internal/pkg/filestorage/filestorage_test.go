package filestorage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageLifecycle(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ls.Upload(ctx, "payslips", "user-1/app-1/payslip_x.pdf", []byte("%PDF"), "application/pdf"))

	data, err := os.ReadFile(filepath.Join(dir, "payslips", "user-1", "app-1", "payslip_x.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "http://localhost:8080/uploads/payslips/user-1/app-1/payslip_x.pdf",
		ls.PublicURL("payslips", "user-1/app-1/payslip_x.pdf"))

	require.NoError(t, ls.Remove(ctx, "payslips", []string{"user-1/app-1/payslip_x.pdf", "missing.pdf"}))
	_, err = os.Stat(filepath.Join(dir, "payslips", "user-1", "app-1", "payslip_x.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	err = ls.Upload(context.Background(), "payslips", "../../etc/passwd", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Equal(t, "", ls.PublicURL("payslips", "../x"))
}

type fakeS3 struct {
	s3iface.S3API
	putKey     string
	putBody    []byte
	deleteKeys []string
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.putKey = aws.StringValue(in.Key)
	f.putBody, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectsWithContext(_ aws.Context, in *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	for _, o := range in.Delete.Objects {
		f.deleteKeys = append(f.deleteKeys, aws.StringValue(o.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestS3StorageUsesPrefixedKeys(t *testing.T) {
	client := &fakeS3{}
	st := newS3Storage(client, S3Config{Endpoint: "storage.example", Bucket: "enrollment", UseSSL: true})

	ctx := context.Background()
	require.NoError(t, st.Upload(ctx, "id_documents", "u/a/id_document_1.png", []byte("img"), "image/png"))
	assert.Equal(t, "id_documents/u/a/id_document_1.png", client.putKey)
	assert.Equal(t, "img", string(client.putBody))
	assert.Equal(t, "https://storage.example/enrollment/id_documents/u/a/id_document_1.png",
		st.PublicURL("id_documents", "u/a/id_document_1.png"))

	require.NoError(t, st.Remove(ctx, "id_documents", []string{"u/a/id_document_1.png"}))
	assert.Equal(t, []string{"id_documents/u/a/id_document_1.png"}, client.deleteKeys)
}
