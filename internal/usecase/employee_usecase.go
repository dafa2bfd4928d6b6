package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// DefaultInitialPassword is assigned when an admin creates an employee
// without choosing a temporary password.
const DefaultInitialPassword = "ChangeMe@123"

// CreateEmployeeInput carries the fields for an admin-created account.
type CreateEmployeeInput struct {
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	EmployeeNo      string   `json:"employee_no"`
	BankAccountNo   string   `json:"bank_account_no"`
	Roles           []string `json:"roles"`
	InitialPassword string   `json:"initial_password"`
}

// EmployeeUseCase implements admin-side account management.
type EmployeeUseCase struct {
	users     ports.UserRepository
	passwords PasswordService
}

func NewEmployeeUseCase(users ports.UserRepository, passwords PasswordService) *EmployeeUseCase {
	return &EmployeeUseCase{users: users, passwords: passwords}
}

// List returns every account, for the admin employee directory.
func (uc *EmployeeUseCase) List(ctx context.Context) ([]*domain.User, error) {
	return uc.users.List(ctx)
}

// Get returns one account by id.
func (uc *EmployeeUseCase) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("employee not found")
	}
	return user, nil
}

// Create provisions a new account with a temporary password. Unknown role
// names are rejected rather than silently dropped.
func (uc *EmployeeUseCase) Create(ctx context.Context, in CreateEmployeeInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.NewValidation("email", "a valid email is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.NewValidation("full_name", "full name is required")
	}

	known := make(map[string]bool)
	for _, r := range domain.Roles() {
		known[r] = true
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleEmployee}
	}
	for _, r := range roles {
		if !known[r] {
			return nil, apperror.NewValidation("roles", fmt.Sprintf("unknown role %q", r))
		}
	}

	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, apperror.NewValidation("email", "an account with this email already exists")
	}

	password := in.InitialPassword
	if strings.TrimSpace(password) == "" {
		password = DefaultInitialPassword
	}
	hash, err := uc.passwords.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		Password:      hash,
		FullName:      in.FullName,
		EmployeeNo:    in.EmployeeNo,
		BankAccountNo: in.BankAccountNo,
		Roles:         roles,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return user, nil
}
