package usecase

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/pkg/config"
	"baratcx/pkg/logger"
)

const adminUserID = "admin"

// Auth implements login, session resolution and roster management. The admin
// account comes from configuration; employees live in the session store and
// sign in with the shared temporary password until they set their own.
type Auth struct {
	store    drepo.SessionStore
	tokenTTL time.Duration

	adminEmail    string
	adminPassword string
	tempPassword  string

	log *logger.Logger
	now func() time.Time
}

// NewAuth creates the auth use case.
func NewAuth(cfg *config.Config, store drepo.SessionStore, log *logger.Logger) *Auth {
	return &Auth{
		store:         store,
		tokenTTL:      cfg.Session.TokenTTL,
		adminEmail:    strings.ToLower(cfg.Auth.AdminEmail),
		adminPassword: cfg.Auth.AdminPassword,
		tempPassword:  cfg.Auth.TempPassword,
		log:           log,
		now:           time.Now,
	}
}

// Login validates credentials and issues a bearer session.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == a.adminEmail {
		if subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) != 1 {
			return nil, models.ErrUnauthenticated
		}
		return a.issue(ctx, &models.User{
			ID:    adminUserID,
			Email: a.adminEmail,
			Name:  "Admin",
			Role:  models.RoleAdmin,
		})
	}

	employees, err := a.store.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	for i := range employees {
		emp := &employees[i]
		if strings.ToLower(emp.Email) != email {
			continue
		}
		if HashPassword(password) != emp.PasswordHash {
			return nil, models.ErrUnauthenticated
		}

		at := a.now().UTC()
		emp.LastLogin = &at
		if err := a.store.SaveEmployees(ctx, employees); err != nil {
			a.log.Warn("could not record last login", logger.Error(err))
		}
		return a.issue(ctx, emp)
	}
	return nil, models.ErrUnauthenticated
}

func (a *Auth) issue(ctx context.Context, user *models.User) (*models.Session, error) {
	sess := &models.Session{
		Token:       uuid.NewString(),
		UserID:      user.ID,
		DisplayName: user.Name,
		Role:        user.Role,
		IsTemporary: user.IsTemporary,
		IssuedAt:    a.now().UTC(),
	}
	if err := a.store.SaveSession(ctx, sess, a.tokenTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.log.Info("session issued",
		logger.String("user", user.ID),
		logger.String("role", string(user.Role)))
	return sess, nil
}

// Logout invalidates a bearer token.
func (a *Auth) Logout(ctx context.Context, token string) error {
	return a.store.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its session.
func (a *Auth) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthenticated
	}
	return a.store.Session(ctx, token)
}

// Employees returns the roster.
func (a *Auth) Employees(ctx context.Context) ([]models.User, error) {
	return a.store.Employees(ctx)
}

// AddEmployee appends a new employee with the shared temporary password.
// Duplicate emails are rejected.
func (a *Auth) AddEmployee(ctx context.Context, req *models.AddEmployeeRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == a.adminEmail {
		return nil, fmt.Errorf("email %q is reserved", email)
	}

	employees, err := a.store.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	for _, emp := range employees {
		if strings.ToLower(emp.Email) == email {
			return nil, fmt.Errorf("employee %q already exists", email)
		}
	}

	user := models.User{
		ID:           "emp-" + uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Role:         models.RoleEmployee,
		IsTemporary:  true,
		PasswordHash: HashPassword(a.tempPassword),
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.SaveEmployees(ctx, append(employees, user)); err != nil {
		return nil, fmt.Errorf("save roster: %w", err)
	}
	a.log.Info("employee added", logger.String("user", user.ID))
	return &user, nil
}

// RemoveEmployee drops an employee from the roster.
func (a *Auth) RemoveEmployee(ctx context.Context, id string) error {
	employees, err := a.store.Employees(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	kept := employees[:0]
	for _, emp := range employees {
		if emp.ID != id {
			kept = append(kept, emp)
		}
	}
	if len(kept) == len(employees) {
		return fmt.Errorf("employee %q not found", id)
	}
	return a.store.SaveEmployees(ctx, kept)
}

// Profile returns the profile for a session's user.
func (a *Auth) Profile(ctx context.Context, sess *models.Session) (*models.User, error) {
	if sess.UserID == adminUserID {
		return &models.User{
			ID:    adminUserID,
			Email: a.adminEmail,
			Name:  sess.DisplayName,
			Role:  models.RoleAdmin,
		}, nil
	}

	employees, err := a.store.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	for _, emp := range employees {
		if emp.ID == sess.UserID {
			return &emp, nil
		}
	}
	return nil, models.ErrUnauthenticated
}

// UpdateProfile renames the user and, when a new password is supplied, clears
// the temporary flag. The admin display name is session-scoped only.
func (a *Auth) UpdateProfile(ctx context.Context, sess *models.Session, req *models.UpdateProfileRequest) (*models.User, error) {
	if sess.UserID == adminUserID {
		sess.DisplayName = req.Name
		if err := a.store.SaveSession(ctx, sess, a.tokenTTL); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &models.User{ID: adminUserID, Email: a.adminEmail, Name: req.Name, Role: models.RoleAdmin}, nil
	}

	employees, err := a.store.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	for i := range employees {
		emp := &employees[i]
		if emp.ID != sess.UserID {
			continue
		}
		emp.Name = req.Name
		if req.NewPassword != "" {
			emp.PasswordHash = HashPassword(req.NewPassword)
			emp.IsTemporary = false
		}
		if err := a.store.SaveEmployees(ctx, employees); err != nil {
			return nil, fmt.Errorf("save roster: %w", err)
		}

		sess.DisplayName = emp.Name
		sess.IsTemporary = emp.IsTemporary
		if err := a.store.SaveSession(ctx, sess, a.tokenTTL); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		out := *emp
		return &out, nil
	}
	return nil, models.ErrUnauthenticated
}

// HashPassword returns the hex SHA-256 digest used for roster passwords.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
