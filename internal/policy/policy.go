// Package policy holds the pure authorization decisions for the platform.
// Nothing here touches the store; every mutation entry point evaluates the
// relevant predicate before performing any write.
package policy

import (
	"errors"

	"codingclass_backend/internal/model"
)

var (
	ErrOwnerRoleImmutable = errors.New("cannot change owner role, use transfer ownership instead")
	ErrAdminPromotion     = errors.New("only owner can promote users to admin")
	ErrDeleteOwner        = errors.New("cannot delete owner account")
	ErrDeleteSelf         = errors.New("cannot delete your own account")
	ErrDeleteAdmin        = errors.New("only owner can delete admin accounts")
	ErrLockPrivileged     = errors.New("cannot lock owner or admin accounts")
	ErrTransferNotOwner   = errors.New("only owner can transfer ownership")
	ErrTransferToSelf     = errors.New("you are already the owner")
	ErrInstructorLocked   = errors.New("instructor access is locked for this account")
	ErrRoleInvalid        = errors.New("invalid role")
)

// IsInstructorCapable reports whether a user may author or edit courses.
// Owner and admin always can; a student only when self-enabled and not locked.
func IsInstructorCapable(u *model.User) bool {
	if u == nil {
		return false
	}
	if u.Role == model.RoleOwner || u.Role == model.RoleAdmin {
		return true
	}
	return u.InstructorEnabled && !u.InstructorLocked
}

// IsAdmin reports whether a user holds admin-level privilege (admin or owner).
func IsAdmin(u *model.User) bool {
	return u != nil && (u.Role == model.RoleAdmin || u.Role == model.RoleOwner)
}

// CanEditCourse reports whether a user may mutate a course: its owning
// instructor, or any admin/owner.
func CanEditCourse(u *model.User, c *model.Course) bool {
	if u == nil || c == nil {
		return false
	}
	return u.ID == c.InstructorID || IsAdmin(u)
}

// CanChangeRole decides whether actor may set target's role to newRole.
// The owner role never changes here; ownership moves only via transfer.
func CanChangeRole(actor, target *model.User, newRole model.UserRole) error {
	if target.Role == model.RoleOwner {
		return ErrOwnerRoleImmutable
	}
	if newRole == model.RoleAdmin && actor.Role != model.RoleOwner {
		return ErrAdminPromotion
	}
	return nil
}

// CanTransferOwnership decides whether actor may make target the owner.
func CanTransferOwnership(actor, target *model.User) error {
	if actor.Role != model.RoleOwner {
		return ErrTransferNotOwner
	}
	if actor.ID == target.ID {
		return ErrTransferToSelf
	}
	return nil
}

// CanDeleteUser decides whether actor may delete target.
func CanDeleteUser(actor, target *model.User) error {
	if target.Role == model.RoleOwner {
		return ErrDeleteOwner
	}
	if target.ID == actor.ID {
		return ErrDeleteSelf
	}
	if target.Role == model.RoleAdmin && actor.Role != model.RoleOwner {
		return ErrDeleteAdmin
	}
	return nil
}

// CanLockInstructor decides whether target's instructor access may be locked.
func CanLockInstructor(actor, target *model.User) error {
	if target.Role == model.RoleOwner || target.Role == model.RoleAdmin {
		return ErrLockPrivileged
	}
	return nil
}

// CanEnableInstructor decides whether a user may self-enable instructor mode.
func CanEnableInstructor(u *model.User) error {
	if u.InstructorLocked {
		return ErrInstructorLocked
	}
	return nil
}
