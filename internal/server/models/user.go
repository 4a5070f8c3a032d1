// Package models defines server-side data models persisted in the database.
package models

// User is a row of the usuarios table. PasswordHash is the lowercase hex
// SHA-256 digest of the password.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"senha"`
}
