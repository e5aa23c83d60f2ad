// Package models contains the persistent row types shared by repositories
// and services.
package models

import "time"

// User is a registered account. Username and Email are unique across all
// users and immutable after creation; PwHash holds the bcrypt digest of the
// registration password, never the plaintext.
type User struct {
	ID        int64
	Username  string
	Email     string
	PwHash    string
	CreatedAt time.Time
}
