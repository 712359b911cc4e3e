package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Principal is the identity attached to a session.
type Principal struct {
	Username string `json:"username"`
}

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
}

// StaticAuthenticator accepts exactly one configured credential. The password is
// kept only as a bcrypt hash.
type StaticAuthenticator struct {
	username string
	hash     []byte
}

func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &StaticAuthenticator{username: username, hash: hash}, nil
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (*Principal, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &Principal{Username: a.username}, nil
}

// Service ties credential checks to session tokens. Callers only see tokens and
// principals, so the credential source can change without touching them.
type Service struct {
	Authenticator Authenticator
	Sessions      SessionStore
}

// Login verifies the credentials and opens a session, returning its token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Principal, error) {
	p, err := s.Authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Sessions.Create(ctx, *p)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return token, p, nil
}

// Resolve returns the principal of an open session.
func (s *Service) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return s.Sessions.Lookup(ctx, token)
}

// Logout closes the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.Destroy(ctx, token)
}
