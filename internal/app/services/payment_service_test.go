package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/netcash"
)

const testWebhookSecret = "whsec-test"

type fakeGateway struct {
	redirect string
	err      error
	requests []netcash.PaymentRequest
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req netcash.PaymentRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.redirect, nil
}

func (g *fakeGateway) Currency() string { return "ZAR" }

// seenGuard claims each key once
type seenGuard struct {
	seen map[string]bool
	err  error
}

func (g *seenGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func newPaymentService(f *fixture, gateway PaymentGateway, guard *seenGuard) *PaymentService {
	if guard == nil {
		return NewPaymentService(f.guard, f.repos.PaymentRepository, gateway, nil, testWebhookSecret, f.metrics)
	}
	return NewPaymentService(f.guard, f.repos.PaymentRepository, gateway, guard, testWebhookSecret, f.metrics)
}

func paymentRequest(reference string) *dto.PaymentRequest {
	return &dto.PaymentRequest{
		Amount:      decimal.RequireFromString("1500.00"),
		Reference:   reference,
		Description: "Term 1 fees",
	}
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gateway := &fakeGateway{redirect: "https://paynow.example.test/pay/abc"}
	svc := newPaymentService(f, gateway, nil)

	resp, err := svc.CreatePayment(ctx, "user-a", paymentRequest(" PAY-1 "))
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", resp.Reference)
	assert.Equal(t, gateway.redirect, resp.RedirectURL)
	assert.Equal(t, string(models.PaymentPending), resp.Status)
	assert.NotEmpty(t, resp.PaymentID)

	require.Len(t, gateway.requests, 1)
	assert.Equal(t, "PAY-1", gateway.requests[0].Reference)

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, "ZAR", payment.Currency)
	require.NotNil(t, payment.RedirectURL)
	assert.Equal(t, gateway.redirect, *payment.RedirectURL)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newFixture(t)
	gateway := &fakeGateway{redirect: "https://paynow.example.test/pay"}
	svc := newPaymentService(f, gateway, nil)

	req := paymentRequest("")
	req.Amount = decimal.Zero
	_, err := svc.CreatePayment(context.Background(), "user-a", req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	details := apperrors.DetailsOf(err)
	assert.Contains(t, details, "reference")
	assert.Contains(t, details, "amount")

	_, err = svc.CreatePayment(context.Background(), "user-a", paymentRequest(strings.Repeat("R", 101)))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, gateway.requests)
}

func TestCreatePaymentWithoutGateway(t *testing.T) {
	f := newFixture(t)
	svc := NewPaymentService(f.guard, f.repos.PaymentRepository, nil, nil, testWebhookSecret, f.metrics)

	_, err := svc.CreatePayment(context.Background(), "user-a", paymentRequest("PAY-1"))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestCreatePaymentGatewayFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	svc := newPaymentService(f, &fakeGateway{err: netcash.ErrMissingRedirect}, nil)
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, "Missing redirect URL from Netcash", apperrors.MessageOf(err))

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)

	svc = newPaymentService(f, &fakeGateway{err: errors.New("HTTP 500")}, nil)
	_, err = svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-2"))
	require.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, "Netcash error: Failed to create payment", apperrors.MessageOf(err))
}

func TestCreatePaymentForeignApplication(t *testing.T) {
	f := newFixture(t)
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, nil)

	req := paymentRequest("PAY-1")
	req.ApplicationID = strPtr(f.newApplication(t, "user-b"))
	_, err := svc.CreatePayment(context.Background(), "user-a", req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, nil)
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	status, err := svc.Status(ctx, "user-a", "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)
	assert.True(t, decimal.RequireFromString("1500").Equal(status.Amount))
	assert.Nil(t, status.CompletedAt)

	_, err = svc.Status(ctx, "user-b", "PAY-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Status(ctx, "user-a", "PAY-404")
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, MsgPaymentNotFound, apperrors.MessageOf(err))
}

func TestWebhookAppliesVerifiedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, &seenGuard{seen: map[string]bool{}})
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	body := []byte(`{"reference":"PAY-1","transaction_status":"complete","transaction_id":"tx-9"}`)
	require.NoError(t, svc.HandleWebhook(ctx, body, netcash.Sign(testWebhookSecret, body)))

	status, err := svc.Status(ctx, "user-a", "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", status.Status)
	require.NotNil(t, status.CompletedAt)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, nil)
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	body := []byte(`{"reference":"PAY-1","transaction_status":"COMPLETE"}`)
	for _, sig := range []string{"", "deadbeef", netcash.Sign("other-secret", body)} {
		err := svc.HandleWebhook(ctx, body, sig)
		require.ErrorIs(t, err, apperrors.ErrInvalidSignature)
		assert.Equal(t, MsgInvalidSignature, apperrors.MessageOf(err))
	}

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
}

func TestWebhookWithoutSecretFailsClosed(t *testing.T) {
	f := newFixture(t)
	svc := NewPaymentService(f.guard, f.repos.PaymentRepository, nil, nil, "", f.metrics)

	body := []byte(`{"reference":"PAY-1","transaction_status":"COMPLETE"}`)
	err := svc.HandleWebhook(context.Background(), body, netcash.Sign("", body))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestWebhookDuplicateDeliveryIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, &seenGuard{seen: map[string]bool{}})
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	completed := []byte(`{"reference":"PAY-1","transaction_status":"COMPLETE"}`)
	sig := netcash.Sign(testWebhookSecret, completed)
	require.NoError(t, svc.HandleWebhook(ctx, completed, sig))

	// Reset the status, then replay the same delivery
	_, err = f.repos.PaymentRepository.UpdateStatus(ctx, "PAY-1", models.PaymentPending, nil)
	require.NoError(t, err)
	require.NoError(t, svc.HandleWebhook(ctx, completed, strings.ToUpper(sig)))

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
}

func TestWebhookProcessesWhenReplayCheckUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, &seenGuard{err: errors.New("redis down")})
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	body := []byte(`{"reference":"PAY-1","transaction_status":"CANCELLED"}`)
	require.NoError(t, svc.HandleWebhook(ctx, body, netcash.Sign(testWebhookSecret, body)))

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCancelled, payment.Status)
}

func TestWebhookAcknowledgesUnusableDeliveries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newPaymentService(f, &fakeGateway{redirect: "https://x"}, nil)
	_, err := svc.CreatePayment(ctx, "user-a", paymentRequest("PAY-1"))
	require.NoError(t, err)

	bodies := [][]byte{
		[]byte(`not json`),
		[]byte(`{"transaction_status":"COMPLETE"}`),
		[]byte(`{"reference":"PAY-1","transaction_status":"PROCESSING"}`),
		[]byte(`{"reference":"PAY-404","transaction_status":"COMPLETE"}`),
	}
	for _, body := range bodies {
		assert.NoError(t, svc.HandleWebhook(ctx, body, netcash.Sign(testWebhookSecret, body)), string(body))
	}

	payment, err := f.repos.PaymentRepository.GetByReference(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
}
