package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleGuest   = "guest"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already registered")
var ErrNotRegistered = errors.New("user not registered")
var ErrBadSecret = errors.New("invalid admin secret")

// User models a registered manager identified by a stable Telegram id.
// The role is tracked separately (see roles collection): an identity may hold
// the admin role without ever completing registration.
type User struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	TelegramID int64     `json:"tg_id" bson:"tg_id"`
	FirstName  string    `json:"first_name" bson:"first_name"`
	LastName   string    `json:"last_name" bson:"last_name"`
	Age        int       `json:"age,omitempty" bson:"age,omitempty"`
	Contact    string    `json:"contact" bson:"contact"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// FullName joins the profile names, falling back to a dash when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "—"
	}
	return name
}
