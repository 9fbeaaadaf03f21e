package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/netcash"
)

type fakeReporter struct {
	result *netcash.RiskResult
	err    error
	calls  []netcash.RiskRequest
}

func (f *fakeReporter) GetRiskReport(ctx context.Context, req netcash.RiskRequest) (*netcash.RiskResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func riskRequest(branch, account string) *dto.RiskCheckRequest {
	return &dto.RiskCheckRequest{
		Reference: "REF-001",
		Guardian: dto.GuardianDetails{
			Name:          "Jane Doe",
			Email:         "jane@example.com",
			IDNumber:      "8001015009087",
			BranchCode:    branch,
			AccountNumber: account,
		},
	}
}

func TestRiskCheckFormatFailures(t *testing.T) {
	f := newFixture(t)
	reporter := &fakeReporter{}
	svc := NewRiskService(f.guard, f.repos.RiskReportRepository, reporter, f.metrics)

	cases := []struct {
		name, branch, account, flag string
		score                       float64
	}{
		{"missing", "", "1234567890", "Missing banking details", 100},
		{"branch", "25065", "1234567890", "Invalid branch code format", 85},
		{"account", "250655", "12345", "Invalid account number format", 85},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Check(context.Background(), "user-a", riskRequest(tc.branch, tc.account))
			require.NoError(t, err)
			assert.Equal(t, tc.score, resp.RiskScore)
			assert.Equal(t, "high", resp.Status)
			assert.Equal(t, []string{tc.flag}, resp.Flags)
		})
	}
	assert.Empty(t, reporter.calls)
}

func TestRiskCheckUsesProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := &fakeReporter{result: &netcash.RiskResult{
		RiskScore: 42,
		Raw:       map[string]interface{}{"RiskScore": 42.0},
	}}
	svc := NewRiskService(f.guard, f.repos.RiskReportRepository, reporter, f.metrics)

	resp, err := svc.Check(ctx, "user-a", riskRequest(" 250655 ", "62000000001"))
	require.NoError(t, err)
	assert.Equal(t, 42.0, resp.RiskScore)
	assert.Equal(t, "medium", resp.Status)
	assert.Equal(t, []string{}, resp.Flags)

	require.Len(t, reporter.calls, 1)
	assert.Equal(t, "250655", reporter.calls[0].Customer.BankAccount.BranchCode)

	reports, err := f.repos.RiskReportRepository.FindByReference(ctx, "REF-001")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	raw := reports[0].RawResponse
	assert.Equal(t, true, raw["validation_performed"])
	assert.Equal(t, "250655", raw["branch_code"])
	assert.NotNil(t, raw["api_response"])
	assert.Nil(t, reports[0].ApplicationID)
}

func TestRiskCheckFallsBackWhenProviderFails(t *testing.T) {
	f := newFixture(t)
	reporter := &fakeReporter{err: errors.New("timeout")}
	svc := NewRiskService(f.guard, f.repos.RiskReportRepository, reporter, f.metrics)

	resp, err := svc.Check(context.Background(), "user-a", riskRequest("250655", "1234567890"))
	require.NoError(t, err)
	assert.Equal(t, 75.0, resp.RiskScore)
	assert.Equal(t, "medium", resp.Status)
	assert.Equal(t, []string{"Account pattern requires verification"}, resp.Flags)

	resp, err = svc.Check(context.Background(), "user-a", riskRequest("250655", "9876543210"))
	require.NoError(t, err)
	assert.Equal(t, 15.0, resp.RiskScore)
	assert.Equal(t, "low", resp.Status)
	assert.Len(t, reporter.calls, 2)
}

func TestRiskCheckWithoutProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRiskService(f.guard, f.repos.RiskReportRepository, nil, f.metrics)
	id := f.newApplication(t, "user-a")

	req := riskRequest("250655", "9876543210")
	req.ApplicationID = strPtr(id)
	resp, err := svc.Check(ctx, "user-a", req)
	require.NoError(t, err)
	assert.Equal(t, "low", resp.Status)

	reports, err := f.repos.RiskReportRepository.FindByReference(ctx, "REF-001")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].ApplicationID)
	assert.Equal(t, id, *reports[0].ApplicationID)
	assert.Nil(t, reports[0].RawResponse["api_response"])
}

func TestRiskCheckRequiresReferenceAndOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewRiskService(f.guard, f.repos.RiskReportRepository, nil, f.metrics)

	req := riskRequest("250655", "9876543210")
	req.Reference = " "
	_, err := svc.Check(context.Background(), "user-a", req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req = riskRequest("250655", "9876543210")
	req.ApplicationID = strPtr(f.newApplication(t, "user-b"))
	_, err = svc.Check(context.Background(), "user-a", req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
