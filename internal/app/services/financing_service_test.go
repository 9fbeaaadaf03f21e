package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSelectPlanWritesSelectionAndLabel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")
	require.NoError(t, f.merger.WriteSection(ctx, id, models.SectionFee, map[string]interface{}{
		"fee_person":   "Jane Doe",
		"relationship": "mother",
	}))

	selection, err := f.financing.SelectPlan(ctx, "user-a", &dto.SelectPlanRequest{
		ApplicationID: id,
		PlanType:      " monthly_flat ",
		DiscountRate:  decimalPtr("5.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanMonthlyFlat, selection.PlanType)
	require.NotNil(t, selection.DiscountRate)
	assert.True(t, decimal.RequireFromString("5.5").Equal(*selection.DiscountRate))

	fee := f.section(t, models.SectionFee, id)
	assert.Equal(t, "Pay Monthly Debit", fee.String("selected_plan"))
	assert.Equal(t, "Jane Doe", fee.String("fee_person"))

	// A second selection replaces the first
	_, err = f.financing.SelectPlan(ctx, "user-a", &dto.SelectPlanRequest{ApplicationID: id, PlanType: "arrears-bnpl"})
	require.NoError(t, err)
	got, err := f.financing.GetSelection(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Equal(t, models.PlanArrearsBNPL, got.PlanType)
	assert.Equal(t, "Buy Now, Pay Later", f.section(t, models.SectionFee, id).String("selected_plan"))
}

func TestSelectPlanNeverCreatesFeeRecord(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	_, err := f.financing.SelectPlan(context.Background(), "user-a", &dto.SelectPlanRequest{ApplicationID: id, PlanType: "bnpl"})
	require.NoError(t, err)
	assert.Nil(t, f.section(t, models.SectionFee, id))
}

func TestSelectPlanRejectsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")
	require.NoError(t, f.merger.WriteSection(ctx, id, models.SectionFee, map[string]interface{}{"fee_person": "Jane"}))

	cases := map[string]*dto.SelectPlanRequest{
		"plan_type":      {ApplicationID: id, PlanType: "weekly"},
		"discount_rate":  {ApplicationID: id, PlanType: "bnpl", DiscountRate: decimalPtr("100.5")},
		"cost_of_credit": {ApplicationID: id, PlanType: "bnpl", CostOfCredit: decimalPtr("-1")},
		"application_id": {ApplicationID: "  ", PlanType: "bnpl"},
	}
	for field, req := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := f.financing.SelectPlan(ctx, "user-a", req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Contains(t, apperrors.DetailsOf(err), field)
		})
	}

	rows, err := f.mem.Find(ctx, store.FinancingSelections, store.Filter{"application_id": id})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Nil(t, f.section(t, models.SectionFee, id)["selected_plan"])
}

func TestSelectPlanForeignApplication(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-b")

	_, err := f.financing.SelectPlan(context.Background(), "user-a", &dto.SelectPlanRequest{ApplicationID: id, PlanType: "bnpl"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSelectPlanSurvivesLabelFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")
	require.NoError(t, f.merger.WriteSection(ctx, id, models.SectionFee, map[string]interface{}{"fee_person": "Jane"}))

	f.mem.FailNext("update", store.FeeResponsibility, errors.New("statement timeout"))
	_, err := f.financing.SelectPlan(ctx, "user-a", &dto.SelectPlanRequest{ApplicationID: id, PlanType: "termly_discount"})
	require.NoError(t, err)
	assert.Nil(t, f.section(t, models.SectionFee, id)["selected_plan"])

	// Reading the selection repairs the label
	_, err = f.financing.GetSelection(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Equal(t, "Pay Per Term", f.section(t, models.SectionFee, id).String("selected_plan"))
}

func TestGetSelectionNotFound(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	_, err := f.financing.GetSelection(context.Background(), "user-a", id)
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, MsgFinancingNotFound, apperrors.MessageOf(err))
}
