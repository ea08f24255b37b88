package models

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AddEmployeeRequest is the body of PUT /api/team.
type AddEmployeeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest is the body of PUT /api/profile. Setting a new
// password clears the temporary flag.
type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	NewPassword string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// CredentialsRequest is the body of PUT /api/exchange/credentials.
// UseTestnet is a pointer so an explicit false survives defaulting.
type CredentialsRequest struct {
	APIKey     string `json:"apiKey" validate:"required,min=16"`
	SecretKey  string `json:"secretKey" validate:"required,min=16"`
	UseTestnet *bool  `json:"useTestnet" default:"true"`
}

// ProxyRequest is the body of POST /api/exchange/proxy. The endpoint is
// restricted to a read-only allowlist by the handler.
type ProxyRequest struct {
	Endpoint string            `json:"endpoint" validate:"required,startswith=/"`
	Params   map[string]string `json:"params"`
}
