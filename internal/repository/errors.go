// Package repository provides MySQL-backed persistence for hotels,
// rooms, reservations, users and feedback.  Repositories expose plain
// query methods; every mutation of rooms or reservations goes through
// the booking engine's transactional store (see store.go) so that the
// availability cache and the reservation set change together.
package repository

import "errors"

// ErrNotFound is returned by lookup methods when no row matches.
// Handlers translate it into an HTTP 404 response.  The booking store
// maps it onto the engine's typed sentinels instead.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when registering a user whose username
// is already taken.  Handlers should translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")
