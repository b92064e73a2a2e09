package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password is stored only as a bcrypt hash.  The Role field
// holds either CUSTOMER or STAFF; staff accounts may trigger check-out.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (CUSTOMER or STAFF).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
