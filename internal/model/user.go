package model

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
	RoleOwner   UserRole = "owner"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// User is an account on the platform. Exactly one user holds RoleOwner at any
// time; ownership moves only through the atomic transfer operation.
// swagger:model User
type User struct {
	UUIDBase
	Username          string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash      string   `gorm:"size:100;not null" json:"-"`
	Name              string   `gorm:"size:100;not null" json:"name"`
	Role              UserRole `gorm:"size:20;not null;default:'student'" json:"role"`
	Avatar            string   `gorm:"size:255" json:"avatar,omitempty"`
	InstructorEnabled bool     `gorm:"not null;default:false" json:"instructorEnabled"`
	InstructorLocked  bool     `gorm:"not null;default:false" json:"instructorLocked"`
}

func (User) TableName() string {
	return "users"
}
