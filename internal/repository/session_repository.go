package repository

import (
	"time"

	"codingclass_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.DB.Create(session).Error
}

// FindByToken resolves a live session; expired tokens behave as absent.
func (r *SessionRepository) FindByToken(token string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Where("token = ? AND expires_at > ?", token, time.Now()).First(&session).Error
	return &session, err
}

func (r *SessionRepository) Delete(token string) error {
	return r.DB.Delete(&model.Session{}, "token = ?", token).Error
}

func (r *SessionRepository) DeleteByUser(userID string) error {
	return r.DB.Delete(&model.Session{}, "user_id = ?", userID).Error
}

// DeleteExpired sweeps dead sessions. Run from the background ticker; safe to
// interleave with request serving.
func (r *SessionRepository) DeleteExpired() (int64, error) {
	res := r.DB.Delete(&model.Session{}, "expires_at <= ?", time.Now())
	return res.RowsAffected, res.Error
}
