package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/db"
)

func setupUserTest(t *testing.T) UserRepository {
	return NewUserRepository(db.SetupTestDB(t))
}

func TestUserRepository_Create(t *testing.T) {
	repo := setupUserTest(t)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Test User",
				Role:         model.RoleUser,
				LoginMethod:  model.LoginLocal,
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Another User",
				Role:         model.RoleUser,
				LoginMethod:  model.LoginLocal,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:       "find@example.com",
		Name:        "Find Me",
		Role:        model.RoleUser,
		LoginMethod: model.LoginLocal,
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("find@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.Error(t, err)
}

func TestUserRepository_FindByGoogleID(t *testing.T) {
	repo := setupUserTest(t)

	googleID := "google-abc"
	user := &model.User{
		Email:       "social@example.com",
		Name:        "Social",
		Role:        model.RoleUser,
		LoginMethod: model.LoginGoogle,
		GoogleID:    &googleID,
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByGoogleID("google-abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByGoogleID("missing")
	assert.Error(t, err)
}

func TestUserRepository_List(t *testing.T) {
	repo := setupUserTest(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&model.User{
			Email:       fmt.Sprintf("user%d@example.com", i),
			Name:        "User",
			Role:        model.RoleUser,
			LoginMethod: model.LoginLocal,
		}))
	}

	users, total, err := repo.List(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, users, 3)

	users, total, err = repo.List(3, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, users, 2)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:       "delete@example.com",
		Name:        "Delete Me",
		Role:        model.RoleUser,
		LoginMethod: model.LoginLocal,
	}
	require.NoError(t, repo.Create(user))
	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.Error(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
