package models

import "time"

// Column widths of users.username and users.email on every backend.
const (
	MaxUsernameLen = 80
	MaxEmailLen    = 120
)

// User is a registered account. Username and email are unique across users.
type User struct {
	ID        int64     `json:"id"         gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:15;not null"`
	LastName  string    `json:"last_name"  gorm:"size:15;not null"`
	Username  string    `json:"username"   gorm:"size:80;uniqueIndex;not null"`
	Email     string    `json:"email"      gorm:"size:120;uniqueIndex;not null"`
	Password  string    `json:"-"          gorm:"size:80;not null"` // bcrypt hash, never serialize
	CreatedAt time.Time `json:"created_at"`
}

// SignupForm carries the raw fields of a signup submission.
type SignupForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// SigninForm carries the raw fields of a signin submission.
type SigninForm struct {
	Username string
	Password string
}
