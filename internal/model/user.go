package model

import "time"

// UserRole distinguishes reviewers from regular authors and learners.
type UserRole string

const (
	UserRoleMember   UserRole = "member"
	UserRoleReviewer UserRole = "reviewer"
)

// User represents a user profile in the system
type User struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsReviewer reports whether the user may act on review tasks.
func (u *User) IsReviewer() bool {
	return u != nil && u.Role == UserRoleReviewer
}
