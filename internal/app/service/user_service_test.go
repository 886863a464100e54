package service

import (
	"context"
	"testing"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserService_UpdateRole(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	super := env.createUser(t, "root@example.com", "password123", model.RoleSuperadmin)
	target := env.createUser(t, "emp@example.com", "password123", model.RoleEmployer)

	tests := []struct {
		name     string
		actorID  uint
		targetID uint
		role     model.UserRole
		wantErr  error
	}{
		{name: "Promote employer to admin", actorID: super.ID, targetID: target.ID, role: model.RoleAdmin},
		{name: "Unknown role", actorID: super.ID, targetID: target.ID, role: "owner", wantErr: ErrInvalidRole},
		{name: "Own account", actorID: super.ID, targetID: super.ID, role: model.RoleAdmin, wantErr: ErrSelfChange},
		{name: "Missing target", actorID: super.ID, targetID: 999, role: model.RoleAdmin, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.users.UpdateRole(ctx, tt.actorID, tt.targetID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
		})
	}
}

func TestUserService_DeactivateInvalidatesResetTokens(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	super := env.createUser(t, "root@example.com", "password123", model.RoleSuperadmin)
	target := env.createUser(t, "emp@example.com", "password123", model.RoleEmployer)

	_, _, err := env.resets.Issue(ctx, target.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.users.Deactivate(ctx, super.ID, super.ID), ErrSelfChange)
	assert.ErrorIs(t, env.users.Deactivate(ctx, super.ID, 999), ErrUserNotFound)
	require.NoError(t, env.users.Deactivate(ctx, super.ID, target.ID))

	user, err := env.userRepo.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, user.Active)

	_, err = env.resetRepo.FindLatestByUser(ctx, target.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserService_List(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	env.createUser(t, "a@example.com", "password123", model.RoleEmployer)
	env.createUser(t, "b@example.com", "password123", model.RoleJobSeeker)

	users, total, err := env.users.List(ctx, repository.UserFilter{Role: model.RoleEmployer})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	_, _, err = env.users.List(ctx, repository.UserFilter{Role: "nobody"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
