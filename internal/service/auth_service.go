package service

import (
	"errors"
	"strings"
	"time"

	"codingclass_backend/internal/config"
	"codingclass_backend/internal/model"
	"codingclass_backend/internal/repository"
	"codingclass_backend/internal/util"
	"codingclass_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Users      *repository.UserRepository
	Sessions   *repository.SessionRepository
	SessionTTL time.Duration
}

func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, cfg *config.SessionConfig) *AuthService {
	return &AuthService{
		Users:      users,
		Sessions:   sessions,
		SessionTTL: cfg.TTL,
	}
}

type SignupInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new account. The very first account becomes the owner
// with instructor mode enabled; everyone after starts as a plain student.
func (s *AuthService) Signup(input SignupInput) (*model.User, *model.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, nil, errors.New("username is required")
	}

	if _, err := s.Users.FindByUsername(username); err == nil {
		return nil, nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	count, err := s.Users.Count()
	if err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Role:         model.RoleStudent,
	}
	if count == 0 {
		user.Role = model.RoleOwner
		user.InstructorEnabled = true
	}
	if err := s.Users.Create(user); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.Info("user signed up",
		zap.String("userID", user.ID),
		zap.String("role", string(user.Role)))
	return user, session, nil
}

// Login checks credentials. Unknown usernames and wrong passwords produce the
// same error so the response never reveals which part failed.
func (s *AuthService) Login(input LoginInput) (*model.User, *model.Session, error) {
	user, err := s.Users.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Sessions.Delete(token)
}

// Authenticate resolves a session token to its user. Expired or unknown
// tokens fail identically.
func (s *AuthService) Authenticate(token string) (*model.User, error) {
	session, err := s.Sessions.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	user, err := s.Users.FindByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) createSession(userID string) (*model.Session, error) {
	session := &model.Session{
		Token:     model.GenerateUUID(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.SessionTTL),
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SweepExpiredSessions runs the periodic cleanup until the stop channel
// closes.
func (s *AuthService) SweepExpiredSessions(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.Sessions.DeleteExpired()
			if err != nil {
				logger.Log.Error("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("expired sessions removed", zap.Int64("count", n))
			}
		case <-stop:
			return
		}
	}
}
