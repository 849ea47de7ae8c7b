package service

import (
	"errors"
	"strings"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/policy"
	"codingclass_backend/internal/repository"
	"codingclass_backend/internal/util"
	"codingclass_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	Users    *repository.UserRepository
	Sessions *repository.SessionRepository
}

func NewUserService(users *repository.UserRepository, sessions *repository.SessionRepository) *UserService {
	return &UserService{Users: users, Sessions: sessions}
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.Users.List()
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangeRole sets a user's role between student and admin. The owner role is
// out of reach here; it only moves through TransferOwnership.
func (s *UserService) ChangeRole(actor *model.User, targetID string, newRole model.UserRole) (*model.User, error) {
	if !newRole.Valid() || newRole == model.RoleOwner {
		return nil, policy.ErrRoleInvalid
	}
	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanChangeRole(actor, target, newRole); err != nil {
		return nil, err
	}
	target.Role = newRole
	if err := s.Users.Update(target); err != nil {
		return nil, err
	}
	logger.Log.Info("user role changed",
		zap.String("actorID", actor.ID),
		zap.String("targetID", target.ID),
		zap.String("role", string(newRole)))
	return target, nil
}

// TransferOwnership makes target the owner and demotes the current owner to
// admin, atomically.
func (s *UserService) TransferOwnership(actor *model.User, targetID string) (*model.User, error) {
	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanTransferOwnership(actor, target); err != nil {
		return nil, err
	}
	if err := s.Users.TransferOwnership(actor.ID, target.ID); err != nil {
		return nil, err
	}
	logger.Log.Info("ownership transferred",
		zap.String("from", actor.ID),
		zap.String("to", target.ID))
	return s.GetUser(target.ID)
}

// DeleteUser removes an account and revokes all of its sessions.
func (s *UserService) DeleteUser(actor *model.User, targetID string) error {
	target, err := s.GetUser(targetID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteUser(actor, target); err != nil {
		return err
	}
	if err := s.Sessions.DeleteByUser(target.ID); err != nil {
		return err
	}
	if err := s.Users.Delete(target.ID); err != nil {
		return err
	}
	logger.Log.Info("user deleted",
		zap.String("actorID", actor.ID),
		zap.String("targetID", target.ID))
	return nil
}

// SetInstructorEnabled toggles a user's own instructor mode, subject to the
// lock.
func (s *UserService) SetInstructorEnabled(user *model.User, enabled bool) (*model.User, error) {
	if enabled {
		if err := policy.CanEnableInstructor(user); err != nil {
			return nil, err
		}
	}
	user.InstructorEnabled = enabled
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetInstructorLock locks or unlocks a student's instructor access. Locking
// also forces instructor mode off so the lock takes effect immediately.
func (s *UserService) SetInstructorLock(actor *model.User, targetID string, locked bool) (*model.User, error) {
	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanLockInstructor(actor, target); err != nil {
		return nil, err
	}
	target.InstructorLocked = locked
	if locked {
		target.InstructorEnabled = false
	}
	if err := s.Users.Update(target); err != nil {
		return nil, err
	}
	logger.Log.Info("instructor lock updated",
		zap.String("actorID", actor.ID),
		zap.String("targetID", target.ID),
		zap.Bool("locked", locked))
	return target, nil
}

// UpdateProfile edits a user's own display name and avatar.
func (s *UserService) UpdateProfile(user *model.User, name, avatar *string) (*model.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, util.Validation("name cannot be empty")
		}
		user.Name = trimmed
	}
	if avatar != nil {
		user.Avatar = *avatar
	}
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
