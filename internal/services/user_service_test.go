package services

import (
	"context"
	"testing"

	"badgeflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, users *fakeUserRepo, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)
	user := &models.User{
		ID:       "user-1",
		Name:     "Kim MinJi",
		Email:    "minji@example.com",
		Password: string(hash),
		Role:     "user",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUpdateSettingsName(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "s3cure-password")
	service := NewUserService(users, testAuthConfig(), zap.NewNop())

	newName := "Kim MinSeo"
	updated, err := service.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Kim MinSeo", updated.Name)

	stored, err := users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Kim MinSeo", stored.Name)
}

func TestUpdateSettingsPassword(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "s3cure-password")
	service := NewUserService(users, testAuthConfig(), zap.NewNop())

	current := "s3cure-password"
	next := "even-more-s3cure"
	_, err := service.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{
		CurrentPassword: &current,
		NewPassword:     &next,
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(next)))
}

func TestUpdateSettingsPasswordRequiresCurrent(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "s3cure-password")
	service := NewUserService(users, testAuthConfig(), zap.NewNop())

	next := "even-more-s3cure"
	_, err := service.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{NewPassword: &next})
	assert.True(t, IsValidationError(err))

	wrong := "not-the-password"
	_, err = service.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{
		CurrentPassword: &wrong,
		NewPassword:     &next,
	})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestListWithBadgeCountsClampsLimit(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "s3cure-password")
	service := NewUserService(users, testAuthConfig(), zap.NewNop())

	page, err := service.ListWithBadgeCounts(context.Background(), models.PaginationParams{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)

	page, err = service.ListWithBadgeCounts(context.Background(), models.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit, "zero limit falls back to the default window")
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "s3cure-password")
	service := NewUserService(users, testAuthConfig(), zap.NewNop())

	require.NoError(t, service.Delete(context.Background(), "user-1"))
	assert.True(t, IsNotFoundError(service.Delete(context.Background(), "user-1")))
}
