// Package auth ties signed session tokens to staff accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	pkgauth "github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/sessionstore"
)

// Session is an issued session token
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionManager issues, resolves and revokes sessions
type SessionManager struct {
	jwtService *pkgauth.JWTService
	store      sessionstore.Store
	userRepo   repositories.IUserRepository
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(jwtService *pkgauth.JWTService, store sessionstore.Store, userRepo repositories.IUserRepository) *SessionManager {
	return &SessionManager{
		jwtService: jwtService,
		store:      store,
		userRepo:   userRepo,
	}
}

// Login issues a session for an authenticated user
func (m *SessionManager) Login(_ context.Context, user *models.User) (*Session, error) {
	token, expiresAt, err := m.jwtService.GenerateSessionToken(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing session: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Current resolves a session token to its active user.
// Token problems are reported as ErrTokenInvalid, ErrTokenExpired, ErrTokenRevoked or
// ErrAccountDisabled. Lookup failures wrap ErrServiceUnavailable and say nothing about the token.
func (m *SessionManager) Current(ctx context.Context, token string) (*models.User, error) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrServiceUnavailable, err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	user, err := m.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrServiceUnavailable, err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}

// Logout revokes the session so the token is rejected until it would have expired
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		// nothing to revoke
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return m.store.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
