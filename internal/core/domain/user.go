package domain

import "time"

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 4

// User is a registered user. The id is assigned monotonically on
// registration and never changes; the username is unique across all users.
// The password is stored as a salted one-way hash.
type User struct {
	UserID           int       `json:"user_id"`
	Username         string    `json:"username"`
	HashedPassword   string    `json:"hashed_password"`
	Salt             string    `json:"salt"`
	RegistrationDate time.Time `json:"registration_date"`
}
