package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Account messages
const (
	MsgUsernameExists  = "A user with that username already exists."
	MsgInvalidLogin    = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	MsgInactiveAccount = "This account is inactive."
)

// AuthService defines the interface for account operations
type AuthService interface {
	Register(ctx context.Context, form *dto.RegisterForm) (*models.User, error)
	Authenticate(ctx context.Context, form *dto.LoginForm) (*models.User, error)
	// EnsureUser creates the account unless the username is taken; used for seeding
	EnsureUser(ctx context.Context, username, email, password string) (*models.User, bool, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, bcryptCost int, logger zerolog.Logger) AuthService {
	if bcryptCost <= 0 {
		bcryptCost = auth.BcryptCost
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// validateRegisterForm checks every registration rule and collects the failures
func (s *authServiceImpl) validateRegisterForm(ctx context.Context, form *dto.RegisterForm) (apperrors.FieldErrors, error) {
	form.Normalize()
	errs := validation.Struct(form)

	if !errs.Has("username") {
		if !validation.IsValidUsername(form.Username) {
			errs.Add("username", validation.MsgUsernameInvalid)
		} else {
			exists, err := s.userRepo.UsernameExists(ctx, form.Username)
			if err != nil {
				return nil, err
			}
			if exists {
				errs.Add("username", MsgUsernameExists)
			}
		}
	}

	if form.Password1 != "" && form.Password2 != "" {
		if form.Password1 != form.Password2 {
			errs.Add("password2", validation.MsgPasswordsMismatch)
		} else {
			for _, problem := range validation.PasswordProblems(form.Password2, form.Username) {
				errs.Add("password2", problem)
			}
		}
	}

	return errs, nil
}

// Register validates the form and creates an active account
func (s *authServiceImpl) Register(ctx context.Context, form *dto.RegisterForm) (*models.User, error) {
	errs, err := s.validateRegisterForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("error validating registration: %w", err)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, form.Username, form.Email, form.Password1)
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			errs.Add("username", MsgUsernameExists)
			return nil, errs
		}
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("Account registered")
	return user, nil
}

func (s *authServiceImpl) createUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPasswordWithCost(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and records the login
func (s *authServiceImpl) Authenticate(ctx context.Context, form *dto.LoginForm) (*models.User, error) {
	form.Normalize()
	errs := validation.Struct(form)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			errs.Add(apperrors.NonFieldErrors, MsgInvalidLogin)
			return nil, errs
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.Password, form.Password) {
		s.logger.Debug().Str("username", form.Username).Msg("Login rejected")
		errs.Add(apperrors.NonFieldErrors, MsgInvalidLogin)
		return nil, errs
	}
	if !user.IsActive {
		errs.Add(apperrors.NonFieldErrors, MsgInactiveAccount)
		return nil, errs
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record last login")
	}
	return user, nil
}

// EnsureUser creates the account unless the username is taken.
// The boolean reports whether a new account was created.
func (s *authServiceImpl) EnsureUser(ctx context.Context, username, email, password string) (*models.User, bool, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("error retrieving user: %w", err)
	}

	user, err := s.createUser(ctx, username, email, password)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
