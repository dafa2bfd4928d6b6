package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

func newLoginFixture() (*LoginUseCase, *MockUserRepository, *MockPasswordService, *MockTokenService) {
	users := new(MockUserRepository)
	passwords := new(MockPasswordService)
	tokens := new(MockTokenService)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewLoginUseCase(users, passwords, tokens, log), users, passwords, tokens
}

func TestLogin(t *testing.T) {
	uc, users, passwords, tokens := newLoginFixture()

	user := &domain.User{
		ID:       "user-1",
		Email:    "ada@example.com",
		Password: "hashed",
		Roles:    []string{domain.RoleEmployee},
	}
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	passwords.On("VerifyPassword", "hashed", "secret").Return(nil)
	tokens.On("GenerateAccessToken", user.Principal()).Return("token-abc", nil)
	users.On("UpdateLastLogin", mock.Anything, "user-1").Return(nil)

	resp, err := uc.Login(context.Background(), "  Ada@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", resp.AccessToken)
	assert.Equal(t, user, resp.User)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, users, passwords, _ := newLoginFixture()

	user := &domain.User{ID: "user-1", Email: "ada@example.com", Password: "hashed"}
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	passwords.On("VerifyPassword", "hashed", "wrong").Return(errors.New("mismatch"))

	_, err := uc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", apperror.MapError(err).Message)
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	uc, users, _, _ := newLoginFixture()
	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	_, err := uc.Login(context.Background(), "nobody@example.com", "secret")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", apperror.MapError(err).Message)
}

func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	uc, users, passwords, tokens := newLoginFixture()

	user := &domain.User{ID: "user-1", Email: "ada@example.com", Password: "hashed"}
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	passwords.On("VerifyPassword", "hashed", "secret").Return(nil)
	tokens.On("GenerateAccessToken", user.Principal()).Return("token-abc", nil)
	users.On("UpdateLastLogin", mock.Anything, "user-1").Return(errors.New("db down"))

	resp, err := uc.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", resp.AccessToken)
}

func TestLoginRequiresCredentials(t *testing.T) {
	uc, _, _, _ := newLoginFixture()

	_, err := uc.Login(context.Background(), "", "secret")
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Login(context.Background(), "ada@example.com", "")
	assert.True(t, apperror.IsValidation(err))
}
