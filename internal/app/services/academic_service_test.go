package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func academicRequest(appID string) *dto.AcademicHistoryCreateRequest {
	return &dto.AcademicHistoryCreateRequest{
		ApplicationID: appID,
		AcademicHistoryInfo: dto.AcademicHistoryInfo{
			SchoolName:            "Greenside Primary",
			SchoolType:            "public",
			LastGradeCompleted:    "Grade 3",
			AcademicYearCompleted: "2025",
			PrincipalName:         strPtr("Mr Smith"),
		},
	}
}

func TestAcademicLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	none, err := f.academic.Get(ctx, "user-a", id)
	require.NoError(t, err)
	assert.Nil(t, none)

	saved, err := f.academic.Save(ctx, "user-a", academicRequest(id))
	require.NoError(t, err)
	assert.Equal(t, "Greenside Primary", saved.SchoolName)
	require.NotNil(t, saved.PrincipalName)

	// Saving again keeps fields the second request leaves out
	second := academicRequest(id)
	second.PrincipalName = nil
	second.SchoolName = "Parkview Primary"
	saved, err = f.academic.Save(ctx, "user-a", second)
	require.NoError(t, err)
	assert.Equal(t, "Parkview Primary", saved.SchoolName)
	require.NotNil(t, saved.PrincipalName)
	assert.Equal(t, "Mr Smith", *saved.PrincipalName)

	updated, err := f.academic.Update(ctx, "user-a", id, &dto.AcademicHistoryUpdateRequest{
		ReasonForLeaving: strPtr("Relocation"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ReasonForLeaving)
	assert.Equal(t, "Relocation", *updated.ReasonForLeaving)
	assert.Equal(t, "Parkview Primary", updated.SchoolName)

	unchanged, err := f.academic.Update(ctx, "user-a", id, &dto.AcademicHistoryUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, updated.SchoolName, unchanged.SchoolName)

	require.NoError(t, f.academic.Delete(ctx, "user-a", id))
	err = f.academic.Delete(ctx, "user-a", id)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAcademicUpdateWithoutRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newApplication(t, "user-a")

	_, err := f.academic.Update(ctx, "user-a", id, &dto.AcademicHistoryUpdateRequest{SchoolName: strPtr("X")})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, MsgAcademicHistoryNotFound, apperrors.MessageOf(err))

	_, err = f.academic.Update(ctx, "user-a", id, &dto.AcademicHistoryUpdateRequest{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAcademicValidation(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-a")

	req := academicRequest(id)
	req.AcademicYearCompleted = "25"
	_, err := f.academic.Save(context.Background(), "user-a", req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, apperrors.DetailsOf(err), "academic_history.academic_year_completed")
}

func TestAcademicForeignApplication(t *testing.T) {
	f := newFixture(t)
	id := f.newApplication(t, "user-b")

	_, err := f.academic.Save(context.Background(), "user-a", academicRequest(id))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = f.academic.Get(context.Background(), "user-a", id)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
