package model

import "time"

// Session maps an opaque token to a user id. Expired rows are swept by a
// background ticker; deleting an already-expired row is always safe to
// interleave with request serving.
type Session struct {
	Token     string    `gorm:"primaryKey;type:varchar(36)" json:"-"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}
