package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is a shop account. Passwords are stored as bcrypt hashes and
// never serialised. A user's orders are not embedded; they are looked
// up by email against the orders collection.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	Role            string             `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	LastLogin       *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	PasswordResetAt *time.Time         `bson:"passwordResetAt,omitempty" json:"passwordResetAt,omitempty"`
}

// Normalize lowercases and trims the email and trims the name.
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRE.MatchString(strings.ToLower(strings.TrimSpace(s)))
}
