package repository

import (
	"context"
	"time"

	"baratcx/internal/domain/models"
)

// MarketDataSource is the unauthenticated public market API.
type MarketDataSource interface {
	// GlobalSnapshot returns global market aggregates.
	GlobalSnapshot(ctx context.Context) (*models.MarketSnapshot, error)
	// TopAssets returns the top assets by market cap, in source order.
	TopAssets(ctx context.Context, limit int) ([]models.Asset, error)
}

// ExchangeAccount is the authenticated exchange API. Credentials are passed in
// per call; implementations never store them.
type ExchangeAccount interface {
	// Verify performs a signed account call to check the credentials.
	Verify(ctx context.Context, creds *models.ExchangeCredentials) error
	// OpenOrders returns the account's open orders.
	OpenOrders(ctx context.Context, creds *models.ExchangeCredentials) ([]models.OrderRecord, error)
	// Raw signs and forwards an arbitrary read-only endpoint call, returning
	// the raw JSON body and HTTP status. Backs the signing proxy.
	Raw(ctx context.Context, creds *models.ExchangeCredentials, endpoint string, params map[string]string) ([]byte, int, error)
}

// SessionStore is the persistent key-value session state: credentials, roster,
// profiles and bearer sessions. Last-write-wins, no transactions.
type SessionStore interface {
	Credentials(ctx context.Context) (*models.ExchangeCredentials, error)
	SaveCredentials(ctx context.Context, creds *models.ExchangeCredentials) error

	Employees(ctx context.Context) ([]models.User, error)
	SaveEmployees(ctx context.Context, employees []models.User) error

	Profile(ctx context.Context, userID string) (*models.User, error)
	SaveProfile(ctx context.Context, user *models.User) error

	Session(ctx context.Context, token string) (*models.Session, error)
	SaveSession(ctx context.Context, s *models.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error
}

// EventPublisher receives every fresh activity batch.
type EventPublisher interface {
	PublishActivity(ctx context.Context, batch []models.ActivityEvent) error
	Close() error
}

// Metrics records poll pipeline observations.
type Metrics interface {
	RecordPoll(kind, source string)
	RecordPollError(kind, reason string)
	RecordFallback(kind string)
	RecordPollDuration(kind string, seconds float64)
	RecordProxyRequest(status int)
}
