package models

import "time"

// Role gates which operations and poll streams a session may reach.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is a CRM account: the default admin or a roster employee.
// PasswordHash round-trips through the session store but is stripped from API
// responses by Sanitized.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	IsTemporary  bool       `json:"isTemporary"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// Sanitized returns a copy safe to serialize into an API response.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Session is an authenticated bearer-token session.
type Session struct {
	Token       string    `json:"token"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	IsTemporary bool      `json:"isTemporary"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// ExchangeCredentials is the locally stored exchange API configuration.
// Owned exclusively by the session store; fetch code only reads it.
type ExchangeCredentials struct {
	APIKey              string    `json:"apiKey"`
	SecretKey           string    `json:"secretKey"`
	UseTestnet          bool      `json:"useTestnet"`
	IsVerifiedConnected bool      `json:"isVerifiedConnected"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// Configured reports whether both key halves are present.
func (c *ExchangeCredentials) Configured() bool {
	return c != nil && c.APIKey != "" && c.SecretKey != ""
}
