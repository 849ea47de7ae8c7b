package service

import (
	"testing"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeRoleRules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	promoted, err := env.user.ChangeRole(owner, student.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	// An admin cannot promote to admin; that is the owner's call.
	other := env.signup(t, "other")
	_, err = env.user.ChangeRole(promoted, other.ID, model.RoleAdmin)
	assert.ErrorIs(t, err, policy.ErrAdminPromotion)

	// The owner role never changes through this path.
	_, err = env.user.ChangeRole(promoted, owner.ID, model.RoleStudent)
	assert.ErrorIs(t, err, policy.ErrOwnerRoleImmutable)

	_, err = env.user.ChangeRole(owner, student.ID, model.RoleOwner)
	assert.ErrorIs(t, err, policy.ErrRoleInvalid)
}

func TestTransferOwnershipIsAtomicSwap(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	target := env.signup(t, "target")

	_, err := env.user.TransferOwnership(owner, target.ID)
	require.NoError(t, err)

	prev, err := env.user.GetUser(owner.ID)
	require.NoError(t, err)
	next, err := env.user.GetUser(target.ID)
	require.NoError(t, err)

	assert.Equal(t, model.RoleAdmin, prev.Role)
	assert.Equal(t, model.RoleOwner, next.Role)

	var owners int64
	require.NoError(t, env.db.Model(&model.User{}).Where("role = ?", model.RoleOwner).Count(&owners).Error)
	assert.Equal(t, int64(1), owners)
}

func TestTransferOwnershipToSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")

	_, err := env.user.TransferOwnership(owner, owner.ID)
	assert.ErrorIs(t, err, policy.ErrTransferToSelf)
}

func TestDeleteUserRules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")
	admin, err := env.user.ChangeRole(owner, env.signup(t, "admin").ID, model.RoleAdmin)
	require.NoError(t, err)

	assert.ErrorIs(t, env.user.DeleteUser(admin, owner.ID), policy.ErrDeleteOwner)
	assert.ErrorIs(t, env.user.DeleteUser(admin, admin.ID), policy.ErrDeleteSelf)

	admin2, err := env.user.ChangeRole(owner, env.signup(t, "admin2").ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.ErrorIs(t, env.user.DeleteUser(admin, admin2.ID), policy.ErrDeleteAdmin)
	require.NoError(t, env.user.DeleteUser(owner, admin2.ID))

	require.NoError(t, env.user.DeleteUser(admin, student.ID))
	_, err = env.user.GetUser(student.ID)
	assert.Error(t, err)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	_, session, err := env.auth.Login(LoginInput{Username: "student", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, env.user.DeleteUser(owner, student.ID))

	_, err = env.auth.Authenticate(session.Token)
	assert.Error(t, err)
}

func TestInstructorLockForcesDisable(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	enabled, err := env.user.SetInstructorEnabled(student, true)
	require.NoError(t, err)
	assert.True(t, enabled.InstructorEnabled)

	locked, err := env.user.SetInstructorLock(owner, student.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.InstructorLocked)
	assert.False(t, locked.InstructorEnabled)

	// A locked user cannot re-enable themselves.
	_, err = env.user.SetInstructorEnabled(locked, true)
	assert.ErrorIs(t, err, policy.ErrInstructorLocked)

	unlocked, err := env.user.SetInstructorLock(owner, student.ID, false)
	require.NoError(t, err)
	assert.False(t, unlocked.InstructorLocked)

	again, err := env.user.SetInstructorEnabled(unlocked, true)
	require.NoError(t, err)
	assert.True(t, again.InstructorEnabled)
}

func TestInstructorLockRejectsPrivilegedTargets(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	admin, err := env.user.ChangeRole(owner, env.signup(t, "admin").ID, model.RoleAdmin)
	require.NoError(t, err)

	_, err = env.user.SetInstructorLock(admin, owner.ID, true)
	assert.ErrorIs(t, err, policy.ErrLockPrivileged)
	_, err = env.user.SetInstructorLock(owner, admin.ID, true)
	assert.ErrorIs(t, err, policy.ErrLockPrivileged)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "alice")

	name := "Alice Liddell"
	updated, err := env.user.UpdateProfile(user, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)

	empty := "   "
	_, err = env.user.UpdateProfile(user, &empty, nil)
	assert.Error(t, err)
}
