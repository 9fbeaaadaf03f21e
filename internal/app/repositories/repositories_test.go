package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func newRepos() (*Repositories, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	return NewRepositories(mem), mem
}

func TestApplicationOwnership(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()

	app, err := repos.ApplicationRepository.Create(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, app.Status)
	require.NotNil(t, app.UserID)
	assert.Equal(t, "user-a", *app.UserID)

	owned, err := repos.ApplicationRepository.GetOwned(ctx, app.ID, "user-a")
	require.NoError(t, err)
	require.NotNil(t, owned)

	other, err := repos.ApplicationRepository.GetOwned(ctx, app.ID, "user-b")
	require.NoError(t, err)
	assert.Nil(t, other)

	anonymous, err := repos.ApplicationRepository.GetOwned(ctx, app.ID, "")
	require.NoError(t, err)
	assert.Nil(t, anonymous)
}

func TestAnonymousApplications(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()

	app, err := repos.ApplicationRepository.Create(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, app.UserID)

	found, err := repos.ApplicationRepository.FindByUser(ctx, "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, app.ID, found[0].ID)

	owned, err := repos.ApplicationRepository.GetOwned(ctx, app.ID, "")
	require.NoError(t, err)
	assert.NotNil(t, owned)
}

func TestGetByIDRejectsMalformedIDs(t *testing.T) {
	repos, _ := newRepos()
	app, err := repos.ApplicationRepository.GetByID(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestMarkSubmitted(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()
	app, err := repos.ApplicationRepository.Create(ctx, "user-a")
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	updated, err := repos.ApplicationRepository.MarkSubmitted(ctx, app.ID, at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)
	require.NotNil(t, updated.SubmittedAt)
	assert.True(t, at.Equal(*updated.SubmittedAt))
}

func TestSectionUpsertMergesFields(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()

	_, err := repos.SectionRepository.Upsert(ctx, models.SectionStudent, "app-1", map[string]interface{}{
		"first_name": "Thandi",
		"surname":    "Nkosi",
	})
	require.NoError(t, err)
	_, err = repos.SectionRepository.Upsert(ctx, models.SectionStudent, "app-1", map[string]interface{}{
		"gender": "female",
	})
	require.NoError(t, err)

	rec, err := repos.SectionRepository.Get(ctx, models.SectionStudent, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Thandi", rec.String("first_name"))
	assert.Equal(t, "Nkosi", rec.String("surname"))
	assert.Equal(t, "female", rec.String("gender"))
}

func TestSectionUpdateNeverCreates(t *testing.T) {
	repos, _ := newRepos()
	rec, err := repos.SectionRepository.Update(context.Background(), models.SectionFee, "app-1",
		map[string]interface{}{"selected_plan": "Pay Per Term"})
	require.NoError(t, err)
	assert.Nil(t, rec)

	existing, err := repos.SectionRepository.Get(context.Background(), models.SectionFee, "app-1")
	require.NoError(t, err)
	assert.Nil(t, existing)
}

func TestStoreFailuresBecomeDatabaseErrors(t *testing.T) {
	repos, mem := newRepos()
	mem.FailNext("find", store.Students, errors.New("connection reset"))

	_, err := repos.SectionRepository.Get(context.Background(), models.SectionStudent, "app-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, "Database", apperrors.DetailsOf(err)["service"])
	assert.Equal(t, "Database error: Failed to fetch student information", err.Error())
}

func TestFinancingRoundTrip(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()
	rate := decimal.RequireFromString("5.5")

	_, err := repos.FinancingRepository.Upsert(ctx, &models.FinancingSelection{
		ApplicationID: "app-1", PlanType: models.PlanTermlyDiscount, DiscountRate: &rate,
	})
	require.NoError(t, err)
	_, err = repos.FinancingRepository.Upsert(ctx, &models.FinancingSelection{
		ApplicationID: "app-1", PlanType: models.PlanMonthlyFlat,
	})
	require.NoError(t, err)

	sel, err := repos.FinancingRepository.GetByApplication(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanMonthlyFlat, sel.PlanType)
	assert.Nil(t, sel.DiscountRate)
}

func TestDocumentProgressAndProcedure(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()

	file, err := repos.DocumentRepository.CreateFile(ctx, &models.UploadedFile{
		ApplicationID: "app-1", UploadedBy: "user-a", Filename: "payslip_1.pdf",
		DocumentType: models.DocPayslip, FileSize: 10,
	})
	require.NoError(t, err)
	_, err = repos.DocumentRepository.CreateProgress(ctx, &models.DocumentProgressEntry{
		ApplicationID: "app-1", UserID: "user-a", FileID: file.ID,
		DocumentType: models.DocPayslip, UploadStatus: "pending",
	})
	require.NoError(t, err)

	ok, err := repos.DocumentRepository.MarkUploadComplete(ctx, "app-1", models.DocPayslip)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := repos.DocumentRepository.ListProgress(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.UploadStatusCompleted, entries[0].UploadStatus)

	summary, err := repos.DocumentRepository.SummaryFromView(ctx, "app-1")
	require.NoError(t, err)
	assert.Nil(t, summary)

	deleted, err := repos.DocumentRepository.DeleteProgressByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPaymentLifecycle(t *testing.T) {
	repos, _ := newRepos()
	ctx := context.Background()

	_, err := repos.PaymentRepository.Create(ctx, &models.Payment{
		UserID: "user-a", Reference: "REF-1", Status: models.PaymentPending,
		Amount: decimal.RequireFromString("1500.00"), Currency: "ZAR",
	})
	require.NoError(t, err)

	at := time.Now().UTC()
	found, err := repos.PaymentRepository.UpdateStatus(ctx, "REF-1", models.PaymentCompleted, &at)
	require.NoError(t, err)
	assert.True(t, found)

	p, err := repos.PaymentRepository.GetByReference(ctx, "REF-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("1500")))
	assert.NotNil(t, p.CompletedAt)

	missing, err := repos.PaymentRepository.UpdateStatus(ctx, "REF-404", models.PaymentFailed, nil)
	require.NoError(t, err)
	assert.False(t, missing)
}
