package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// PasswordService verifies and hashes account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
}

// TokenService issues and validates access tokens for authenticated users.
type TokenService interface {
	GenerateAccessToken(p domain.Principal) (string, error)
	ValidateAccessToken(token string) (domain.Principal, error)
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// LoginUseCase authenticates a user and issues an access token.
type LoginUseCase struct {
	users     ports.UserRepository
	passwords PasswordService
	tokens    TokenService
	log       *logrus.Logger
}

func NewLoginUseCase(users ports.UserRepository, passwords PasswordService, tokens TokenService, log *logrus.Logger) *LoginUseCase {
	return &LoginUseCase{users: users, passwords: passwords, tokens: tokens, log: log}
}

// Login checks the credentials and returns a token carrying the user's id
// and roles. The same message is returned for unknown emails and wrong
// passwords so account existence is not leaked.
func (uc *LoginUseCase) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.NewValidation("email", "email is required")
	}
	if password == "" {
		return nil, apperror.NewValidation("password", "password is required")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	if err := uc.passwords.VerifyPassword(user.Password, password); err != nil {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := uc.tokens.GenerateAccessToken(user.Principal())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	// Last-login tracking is informational; a failed update never blocks login.
	if err := uc.users.UpdateLastLogin(ctx, user.ID); err != nil {
		uc.log.WithError(err).WithField("user_id", user.ID).Warn("last login update failed")
	}

	return &LoginResponse{AccessToken: token, User: user}, nil
}
