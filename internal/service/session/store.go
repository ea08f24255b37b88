package session

import (
	"context"
	"errors"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/pkg/cache"
)

// Keys within the store. The cache backend adds its own deployment prefix.
const (
	keyCredentials = "exchange:credentials"
	keyEmployees   = "team:employees"
	keyProfile     = "profile:"
	keySession     = "session:"
)

// Store persists session state as JSON blobs in a key-value backend. Writes
// are last-write-wins; concurrent savers race and the final write survives,
// which is acceptable for a single-operator deployment.
type Store struct {
	kv cache.Service
}

// NewStore creates a session store over the given key-value backend.
func NewStore(kv cache.Service) *Store {
	return &Store{kv: kv}
}

var _ drepo.SessionStore = (*Store)(nil)

// Credentials returns the stored exchange credentials, or ErrNotConfigured
// when none were ever saved.
func (s *Store) Credentials(ctx context.Context) (*models.ExchangeCredentials, error) {
	var creds models.ExchangeCredentials
	if err := s.kv.Get(ctx, keyCredentials, &creds); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrNotConfigured
		}
		return nil, err
	}
	if !creds.Configured() {
		return nil, models.ErrNotConfigured
	}
	return &creds, nil
}

// SaveCredentials stores exchange credentials without expiry.
func (s *Store) SaveCredentials(ctx context.Context, creds *models.ExchangeCredentials) error {
	creds.LastUpdated = time.Now().UTC()
	return s.kv.Set(ctx, keyCredentials, creds, 0)
}

// Employees returns the employee roster. A missing key is an empty roster.
func (s *Store) Employees(ctx context.Context) ([]models.User, error) {
	var employees []models.User
	if err := s.kv.Get(ctx, keyEmployees, &employees); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return []models.User{}, nil
		}
		return nil, err
	}
	return employees, nil
}

// SaveEmployees replaces the whole roster.
func (s *Store) SaveEmployees(ctx context.Context, employees []models.User) error {
	return s.kv.Set(ctx, keyEmployees, employees, 0)
}

// Profile returns a stored user profile, or nil when none exists.
func (s *Store) Profile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.kv.Get(ctx, keyProfile+userID, &user); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SaveProfile stores a user profile keyed by user ID.
func (s *Store) SaveProfile(ctx context.Context, user *models.User) error {
	return s.kv.Set(ctx, keyProfile+user.ID, user, 0)
}

// Session resolves a bearer token, or ErrUnauthenticated when the token is
// unknown or expired.
func (s *Store) Session(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	if err := s.kv.Get(ctx, keySession+token, &sess); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}
	return &sess, nil
}

// SaveSession stores a bearer session with the given TTL.
func (s *Store) SaveSession(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	return s.kv.Set(ctx, keySession+sess.Token, sess, ttl)
}

// DeleteSession invalidates a bearer token. Deleting an unknown token is not
// an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	return s.kv.Delete(ctx, keySession+token)
}
