package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/models"
	"github.com/oyilmaz/ratehub/internal/repository/memory"
)

func newUserFixture(t *testing.T) (*UserService, memory.Repositories, authz.Actor) {
	t.Helper()
	repos := memory.NewRepositories()
	svc := NewUserService(repos.Users, testCfg())
	admin := authz.Actor{ID: "admin-1", Role: models.RoleAdmin}
	return svc, repos, admin
}

func TestUserAdminCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _, admin := newUserFixture(t)

	u, err := svc.Create(ctx, admin, models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role, "role defaults to user")

	mod, err := svc.Create(ctx, admin, models.User{Username: "mal", Email: "mal@example.com", Role: models.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, mod.Role)

	_, err = svc.Create(ctx, admin, models.User{Username: "eve", Email: "eve@example.com", Role: "superuser"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	got, err := svc.Get(ctx, admin, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	role := models.RoleModerator
	promoted, err := svc.Update(ctx, admin, "alice", UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, promoted.Role)

	_, total, err := svc.List(ctx, admin, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, svc.Delete(ctx, admin, "mal"))
	_, err = svc.Get(ctx, admin, "mal")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newUserFixture(t)

	u, err := repos.Users.Create(ctx, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	actor := authz.Actor{ID: u.ID, Role: models.RoleUser}

	_, _, err = svc.List(ctx, actor, 10, 0)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	_, err = svc.Get(ctx, actor, "alice")
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	_, err = svc.Create(ctx, actor, models.User{Username: "eve", Email: "eve@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	err = svc.Delete(ctx, actor, "alice")
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// moderators do not manage users either
	mod := authz.Actor{ID: u.ID, Role: models.RoleModerator}
	_, _, err = svc.List(ctx, mod, 10, 0)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestMeAndUpdateMe(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newUserFixture(t)

	u, err := repos.Users.Create(ctx, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	actor := authz.Actor{ID: u.ID, Role: models.RoleUser}

	me, err := svc.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = svc.Me(ctx, authz.Actor{})
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	bio := "reader of long books"
	role := models.RoleAdmin
	updated, err := svc.UpdateMe(ctx, actor, UserPatch{Bio: &bio, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "reader of long books", updated.Bio)
	// the role field on the self-service path is ignored, not applied
	assert.Equal(t, models.RoleUser, updated.Role)

	reserved := "me"
	_, err = svc.UpdateMe(ctx, actor, UserPatch{Username: &reserved})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
