package store

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/acquagyn/swimeval/internal/model"
)

const authSessionTTL = 24 * time.Hour

// ErrInvalidCredentials is the normal negative result of a login attempt.
// It is not an exceptional condition: the instructor may retry at once.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash absorbs a bcrypt comparison when the username is wrong, so a
// wrong username costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("swimeval-dummy"), bcrypt.DefaultCost)

// SeedInstructor installs the single instructor account. The password is
// bcrypt-hashed here so the plaintext never leaves startup.
func (s *Store) SeedInstructor(username, displayName, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &model.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	slog.Info("seeded instructor account", "username", username)
	return nil
}

// Login checks the credential pair against the fixed instructor account
// and, on success, opens an auth session with a fresh evaluation session
// behind it. Returns the session token.
func (s *Store) Login(username, password string) (string, error) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil || user.Username != username {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := newToken()
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authSessions[token] = model.AuthSession{
		Token:     token,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(authSessionTTL),
	}
	s.evals[token] = &model.EvaluationSession{}
	return token, nil
}

// Authenticate resolves a session token to the instructor account, or nil
// if the token is unknown or expired. Expired sessions are removed on read
// together with their evaluation state.
func (s *Store) Authenticate(token string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.authSessions[token]
	if !ok {
		return nil
	}
	if time.Now().After(sess.ExpiresAt) {
		s.dropLocked(token)
		return nil
	}
	u := *s.user
	return &u
}

// Logout drops the auth session and destroys its evaluation state.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(token)
}

func (s *Store) dropLocked(token string) {
	delete(s.authSessions, token)
	delete(s.evals, token)
	delete(s.exporting, token)
}

// CleanupExpiredSessions removes all expired auth sessions and their
// evaluation state.
func (s *Store) CleanupExpiredSessions() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.authSessions {
		if now.After(sess.ExpiresAt) {
			s.dropLocked(token)
		}
	}
}

func newToken() string {
	// Two UUIDs give 256 bits of randomness in an opaque cookie value.
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
