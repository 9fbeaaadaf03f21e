package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func setup(t *testing.T) (*OwnershipGuard, *repositories.Repositories, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	repos := repositories.NewRepositories(mem)
	return NewOwnershipGuard(repos.ApplicationRepository), repos, mem
}

func TestAuthorizeOwner(t *testing.T) {
	guard, repos, _ := setup(t)
	app, err := repos.ApplicationRepository.Create(context.Background(), "user-a")
	require.NoError(t, err)

	got, err := guard.Authorize(context.Background(), app.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
}

func TestAuthorizeOtherUserIsForbidden(t *testing.T) {
	guard, repos, _ := setup(t)
	app, err := repos.ApplicationRepository.Create(context.Background(), "user-a")
	require.NoError(t, err)

	_, err = guard.Authorize(context.Background(), app.ID, "user-b")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, MsgAccessDenied, apperrors.MessageOf(err))
}

func TestAuthorizeMissingIsNotFound(t *testing.T) {
	guard, _, _ := setup(t)

	_, err := guard.Authorize(context.Background(), uuid.New().String(), "user-a")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, MsgApplicationNotFound, apperrors.MessageOf(err))

	_, err = guard.Authorize(context.Background(), "garbage", "user-a")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAuthorizeAnonymous(t *testing.T) {
	guard, repos, _ := setup(t)
	ctx := context.Background()
	anon, err := repos.ApplicationRepository.Create(ctx, "")
	require.NoError(t, err)
	owned, err := repos.ApplicationRepository.Create(ctx, "user-a")
	require.NoError(t, err)

	_, err = guard.Authorize(ctx, anon.ID, "")
	assert.NoError(t, err)

	_, err = guard.Authorize(ctx, owned.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = guard.Authorize(ctx, anon.ID, "user-a")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeStoreFailure(t *testing.T) {
	guard, repos, mem := setup(t)
	app, err := repos.ApplicationRepository.Create(context.Background(), "user-a")
	require.NoError(t, err)

	mem.FailNext("find", store.Applications, errors.New("timeout"))
	_, err = guard.Authorize(context.Background(), app.ID, "user-a")
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}
