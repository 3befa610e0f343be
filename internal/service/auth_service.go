package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/H0M10/NovaGuardianBackend/internal/auth"
	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
)

// AuthService handles admin login and current-admin lookup.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CurrentAdmin(ctx context.Context, adminID int64) (*domain.Admin, error)
}

type authService struct {
	adminsRepo repository.AdminsRepository
	tokens     *auth.TokenService
	logger     *zap.Logger
}

func NewAuthService(adminsRepo repository.AdminsRepository, tokens *auth.TokenService, logger *zap.Logger) AuthService {
	return &authService{
		adminsRepo: adminsRepo,
		tokens:     tokens,
		logger:     logger,
	}
}

// LoginRequest admin credential submission. Unknown body fields are ignored.
type LoginRequest struct {
	Email     string
	Password  string
	IPAddress string // client IP, for logging only
	UserAgent string // client User-Agent, for logging only
}

// LoginResponse successful login payload.
type LoginResponse struct {
	Token string         `json:"token"`
	Admin map[string]any `json:"admin"`
}

// Login verifies credentials, issues a session token and records the login
// time. Credential failures are reported uniformly so callers cannot probe
// which part was wrong.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. Validate input
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		fields := map[string]string{}
		if email == "" {
			fields["email"] = "email is required"
		}
		if req.Password == "" {
			fields["password"] = "password is required"
		}
		return nil, domain.NewValidation("validation error", fields)
	}

	// 2. Look up the admin account
	admin, err := s.adminsRepo.GetAdminByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.Warn("Admin login failed: unknown email",
				zap.String("ip_address", req.IPAddress),
				zap.String("user_agent", req.UserAgent),
				zap.String("reason", "unknown_email"),
			)
			return nil, domain.NewUnauthenticated("invalid credentials")
		}
		return nil, domain.NewPersistence("failed to look up admin", err)
	}

	// 3. Verify the password
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Admin login failed: wrong password",
			zap.Int64("admin_id", admin.ID),
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
			zap.String("reason", "wrong_password"),
		)
		return nil, domain.NewUnauthenticated("invalid credentials")
	}

	// 4. Issue the session token
	token, err := s.tokens.Issue(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, domain.NewPersistence("failed to issue token", err)
	}

	// Record last session; a failure here must not fail the login.
	if err := s.adminsRepo.UpdateLastSession(ctx, admin.ID); err != nil {
		s.logger.Warn("Failed to update last_session",
			zap.Int64("admin_id", admin.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Admin login successful",
		zap.Int64("admin_id", admin.ID),
		zap.String("role", admin.Role),
		zap.String("ip_address", req.IPAddress),
		zap.String("user_agent", req.UserAgent),
		zap.Time("login_time", time.Now()),
	)

	return &LoginResponse{
		Token: token,
		Admin: admin.ToJSON(),
	}, nil
}

// CurrentAdmin resolves the admin behind a verified token.
func (s *authService) CurrentAdmin(ctx context.Context, adminID int64) (*domain.Admin, error) {
	admin, err := s.adminsRepo.GetAdmin(ctx, adminID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("admin not found")
		}
		return nil, domain.NewPersistence("failed to look up admin", err)
	}
	return admin, nil
}

// HashPassword hashes an admin password for storage (seed scripts, future
// admin management endpoints).
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
