// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/principal"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/jwt"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"github.com/HeltonFraga01/cortexx-sub008/internal/repository/postgres"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string
	SessionID string
	Principal *principal.Principal
}

// Service handles login/logout. A successful login produces both credential
// forms the admission chain accepts: a bearer token and a server-side
// session behind a cookie.
type Service struct {
	repo     *postgres.AuthRepository
	jwt      *jwt.Manager
	sessions *session.Manager
	logger   *zap.Logger
}

func NewService(repo *postgres.AuthRepository, jwtManager *jwt.Manager, sessions *session.Manager, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwtManager,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, req *LoginRequest, ip, userAgent string) (*LoginResult, error) {
	ident, err := s.repo.FindIdentityByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	if ident.Status != "active" {
		return nil, xerrors.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	tenantID := ident.TenantID.Int64
	accountID := ident.AccountID.Int64

	token, _, err := s.jwt.Generator.Generate(ident.ID, ident.Role, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	sessionID, err := s.sessions.Create(ctx, &session.Data{
		UserID:    ident.ID,
		Role:      ident.Role,
		TenantID:  tenantID,
		AccountID: accountID,
		IPAddress: ip,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("login",
		zap.Int64("user_id", ident.ID),
		zap.Int64("tenant_id", tenantID),
		zap.String("ip", ip),
	)

	return &LoginResult{
		Token:     token,
		SessionID: sessionID,
		Principal: &principal.Principal{
			ID:        ident.ID,
			Kind:      principal.KindForRole(ident.Role),
			Role:      ident.Role,
			TenantID:  tenantID,
			AccountID: accountID,
		},
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// SessionTTL exposes the session lifetime for cookie Max-Age.
func (s *Service) SessionTTL() int {
	return int(s.sessions.TTL().Seconds())
}
