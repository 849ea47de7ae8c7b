package policy

import (
	"testing"

	"codingclass_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func user(id string, role model.UserRole) *model.User {
	u := &model.User{Role: role}
	u.ID = id
	return u
}

func TestIsInstructorCapable(t *testing.T) {
	assert.True(t, IsInstructorCapable(user("o", model.RoleOwner)))
	assert.True(t, IsInstructorCapable(user("a", model.RoleAdmin)))
	assert.False(t, IsInstructorCapable(user("s", model.RoleStudent)))
	assert.False(t, IsInstructorCapable(nil))

	enabled := user("s", model.RoleStudent)
	enabled.InstructorEnabled = true
	assert.True(t, IsInstructorCapable(enabled))

	enabled.InstructorLocked = true
	assert.False(t, IsInstructorCapable(enabled))
}

func TestCanEditCourse(t *testing.T) {
	course := &model.Course{InstructorID: "i1"}

	assert.True(t, CanEditCourse(user("i1", model.RoleStudent), course))
	assert.False(t, CanEditCourse(user("i2", model.RoleStudent), course))
	assert.True(t, CanEditCourse(user("x", model.RoleAdmin), course))
	assert.True(t, CanEditCourse(user("x", model.RoleOwner), course))
	assert.False(t, CanEditCourse(nil, course))
}

func TestCanChangeRole(t *testing.T) {
	owner := user("o", model.RoleOwner)
	admin := user("a", model.RoleAdmin)
	student := user("s", model.RoleStudent)

	assert.ErrorIs(t, CanChangeRole(admin, owner, model.RoleStudent), ErrOwnerRoleImmutable)
	assert.ErrorIs(t, CanChangeRole(admin, student, model.RoleAdmin), ErrAdminPromotion)
	assert.NoError(t, CanChangeRole(owner, student, model.RoleAdmin))
	assert.NoError(t, CanChangeRole(admin, student, model.RoleStudent))
}

func TestCanTransferOwnership(t *testing.T) {
	owner := user("o", model.RoleOwner)
	admin := user("a", model.RoleAdmin)

	assert.ErrorIs(t, CanTransferOwnership(admin, owner), ErrTransferNotOwner)
	assert.ErrorIs(t, CanTransferOwnership(owner, owner), ErrTransferToSelf)
	assert.NoError(t, CanTransferOwnership(owner, admin))
}

func TestCanDeleteUser(t *testing.T) {
	owner := user("o", model.RoleOwner)
	admin := user("a", model.RoleAdmin)
	admin2 := user("a2", model.RoleAdmin)
	student := user("s", model.RoleStudent)

	assert.ErrorIs(t, CanDeleteUser(admin, owner), ErrDeleteOwner)
	assert.ErrorIs(t, CanDeleteUser(admin, admin), ErrDeleteSelf)
	assert.ErrorIs(t, CanDeleteUser(admin, admin2), ErrDeleteAdmin)
	assert.NoError(t, CanDeleteUser(owner, admin))
	assert.NoError(t, CanDeleteUser(admin, student))
}

func TestCanLockInstructor(t *testing.T) {
	owner := user("o", model.RoleOwner)
	admin := user("a", model.RoleAdmin)
	student := user("s", model.RoleStudent)

	assert.ErrorIs(t, CanLockInstructor(admin, owner), ErrLockPrivileged)
	assert.ErrorIs(t, CanLockInstructor(owner, admin), ErrLockPrivileged)
	assert.NoError(t, CanLockInstructor(admin, student))
}

func TestCanEnableInstructor(t *testing.T) {
	free := user("s", model.RoleStudent)
	assert.NoError(t, CanEnableInstructor(free))

	locked := user("s2", model.RoleStudent)
	locked.InstructorLocked = true
	assert.ErrorIs(t, CanEnableInstructor(locked), ErrInstructorLocked)
}
