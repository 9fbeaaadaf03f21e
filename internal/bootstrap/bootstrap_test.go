package bootstrap

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/pkg/netcash"
)

const testWebhookSecret = "whsec-http"

type testServer struct {
	router *gin.Engine
	deps   *Dependencies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.Audience = "authenticated"
	cfg.Storage.Driver = "local"
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Storage.PublicBaseURL = "http://localhost:8080/uploads"
	cfg.Risk.Timeout = "30s"
	cfg.Payment.Timeout = "10s"
	cfg.Payment.WebhookSecret = testWebhookSecret
	cfg.Redis.ReplayTTL = "24h"
	cfg.Metrics.Enabled = true

	deps, err := BuildDependencies(cfg, store.NewMemoryStore(), zerolog.Nop())
	require.NoError(t, err)

	return &testServer{router: SetupRouter(cfg, deps, zerolog.Nop()), deps: deps}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.deps.JWTService.GenerateToken(userID, "parent@example.com", "authenticated")
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, method, path, token, []byte(body), "application/json")
}

func pdfUpload(t *testing.T, applicationID, documentType string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("application_id", applicationID))
	require.NoError(t, w.WriteField("document_type", documentType))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="payslip.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes(), w.FormDataContentType()
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", gjson.Get(rec.Body.String(), "status").String())

	rec = s.do(t, http.MethodGet, "/metrics", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "enrollment_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", "not-a-jwt", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnrollmentOverHTTP(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(t, uuid.NewString())

	rec := s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", owner, `{"student":{"first_name":"Thandi"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, "Progress saved successfully", gjson.Get(body, "data.message").String())
	assert.Equal(t, `["student"]`, gjson.Get(body, "data.saved_sections").Raw)
	applicationID := gjson.Get(body, "data.application_id").String()
	require.NotEmpty(t, applicationID)

	rec = s.do(t, http.MethodGet, "/api/v1/enrollment/get-application/"+applicationID, owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.Equal(t, "Thandi", gjson.Get(body, "data.student.first_name").String())
	assert.Equal(t, "{}", gjson.Get(body, "data.medical").Raw)

	stranger := s.token(t, uuid.NewString())
	rec = s.do(t, http.MethodGet, "/api/v1/enrollment/get-application/"+applicationID, stranger, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/enrollment/submit", owner, `{"student":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", owner, `{"student":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcademicHistoryOverHTTP(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(t, uuid.NewString())

	rec := s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", owner, `{"student":{"first_name":"Thandi"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	applicationID := gjson.Get(rec.Body.String(), "data.application_id").String()

	rec = s.do(t, http.MethodGet, "/api/v1/enrollment/academic-history/"+applicationID, owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := gjson.Get(rec.Body.String(), "data")
	assert.True(t, data.Exists())
	assert.Equal(t, gjson.Null, data.Type)

	rec = s.do(t, http.MethodDelete, "/api/v1/enrollment/academic-history/"+applicationID, owner, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentUploadOverHTTP(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.NewString()
	owner := s.token(t, userID)

	rec := s.json(t, http.MethodPost, "/api/v1/enrollment/auto-save", owner, `{"student":{"first_name":"Thandi"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	applicationID := gjson.Get(rec.Body.String(), "data.application_id").String()

	payload, contentType := pdfUpload(t, applicationID, "payslip")
	rec = s.do(t, http.MethodPost, "/api/v1/documents/upload", owner, payload, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "data.success").Bool())
	assert.Contains(t, gjson.Get(body, "data.file.download_url").String(), "payslips/"+userID+"/"+applicationID+"/payslip_")

	rec = s.do(t, http.MethodGet, "/api/v1/documents/"+applicationID+"/files", owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, gjson.Get(rec.Body.String(), "data.files").Array(), 1)

	payload, contentType = pdfUpload(t, applicationID, "passport")
	rec = s.do(t, http.MethodPost, "/api/v1/documents/upload", owner, payload, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentRoutesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(t, uuid.NewString())

	rec := s.json(t, http.MethodPost, "/api/v1/payment/create-payment", owner, `{"amount":"100.00","reference":"PAY-1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payment/payment-status/PAY-404", owner, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := []byte(`{"reference":"PAY-404","transaction_status":"COMPLETE"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", bytes.NewReader(body))
	req.Header.Set(netcash.SignatureHeader, "deadbeef")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", bytes.NewReader(body))
	req.Header.Set(netcash.SignatureHeader, netcash.Sign(testWebhookSecret, body))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
