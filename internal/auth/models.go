package auth

import (
	"time"

	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
)

// Role is the canonical role enumeration. The persisted store uses these
// string values; tokens use the numeric codes in the token package. RoleCode
// and RoleFromCode are the only two places the mapping exists.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// RoleCode converts the canonical role to its token wire encoding.
func RoleCode(r Role) int {
	switch r {
	case RoleAdmin:
		return token.RoleCodeAdmin
	case RoleInstructor:
		return token.RoleCodeInstructor
	default:
		return token.RoleCodeStudent
	}
}

// RoleFromCode converts the token wire encoding back to the canonical role.
// Unknown codes fall back to student, the least privileged role.
func RoleFromCode(code int) Role {
	switch code {
	case token.RoleCodeAdmin:
		return RoleAdmin
	case token.RoleCodeInstructor:
		return RoleInstructor
	default:
		return RoleStudent
	}
}

type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"-" json:"password,omitempty"`
	HashedPassword string    `json:"-"`
	Role           Role      `gorm:"type:varchar(16);default:'STUDENT'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "app_auth.users" }

// UserDirectory is the session resolver's view of the user table. A refresh
// re-reads the row so role and email changes propagate into the new tokens.
type UserDirectory struct{}

func (UserDirectory) FindUserByID(id string) (session.RefreshUser, error) {
	var user User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		return session.RefreshUser{}, err
	}
	return session.RefreshUser{
		ID:       user.ID,
		RoleCode: RoleCode(user.Role),
		Email:    user.Email,
		Name:     user.Name,
	}, nil
}
