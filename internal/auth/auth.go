// Package auth is the authentication collaborator for the request
// layer.  It bundles the four capabilities handlers need — find a user,
// encode a password, issue a token, verify a token — behind one plain
// struct so nothing else touches hashing or signing details.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// Roles recognized by the service.  STAFF may trigger room check-out;
// everything else is customer-facing.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

// ErrBadCredentials is returned by Authenticate when the username is
// unknown or the password does not match.  The two cases are folded
// together on purpose.
var ErrBadCredentials = errors.New("incorrect username or password")

// Authenticator implements the auth capabilities over the user
// repository, bcrypt and HS256 JWTs.
type Authenticator struct {
	users      *repository.UserRepo
	secret     string
	ttlMin     int
	bcryptCost int
}

// New builds an Authenticator.
func New(users *repository.UserRepo, secret string, ttlMin, bcryptCost int) *Authenticator {
	return &Authenticator{users: users, secret: secret, ttlMin: ttlMin, bcryptCost: bcryptCost}
}

// FindByUsername loads a user record by login name.
func (a *Authenticator) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return a.users.GetByUsername(ctx, username)
}

// EncodePassword hashes a plaintext password for storage.
func (a *Authenticator) EncodePassword(plain string) (string, error) {
	return utils.HashPassword(plain, a.bcryptCost)
}

// IssueToken signs a fresh access token for the user.
func (a *Authenticator) IssueToken(u model.User) (utils.AccessToken, error) {
	return utils.NewAccessToken(a.secret, u.ID, u.Role, a.ttlMin)
}

// VerifyToken validates a raw token string and returns its claims.
func (a *Authenticator) VerifyToken(raw string) (utils.TokenClaims, error) {
	return utils.VerifyAccessToken(a.secret, raw)
}

// Register creates a user with an encoded password and returns the new
// record.  Unknown roles default to CUSTOMER.
func (a *Authenticator) Register(ctx context.Context, username, password, role string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != RoleStaff {
		role = RoleCustomer
	}
	hash, err := a.EncodePassword(password)
	if err != nil {
		return model.User{}, err
	}
	id, err := a.users.Create(ctx, username, hash, role)
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Username: username, Role: role}, nil
}

// Authenticate verifies a username/password pair and returns the user
// on success, ErrBadCredentials otherwise.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := a.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrBadCredentials
	}
	return u, nil
}
