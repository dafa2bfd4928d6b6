// Package seed performs the one-time startup initialization: the role
// catalog and a default admin account. Every step is check-then-create so
// running it repeatedly is safe. Failures are reported but expected to be
// non-fatal; the process continues without the seeded data.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/internal/usecase"
)

// AdminAccount describes the default administrator seeded at first start.
type AdminAccount struct {
	Email      string
	Password   string
	FullName   string
	EmployeeNo string
}

// DefaultAdmin returns the stock admin account used when config does not
// override it.
func DefaultAdmin() AdminAccount {
	return AdminAccount{
		Email:      "admin@claimdesk.local",
		Password:   "Admin@1234",
		FullName:   "CPD Admin",
		EmployeeNo: "ADMIN001",
	}
}

// Seeder provisions roles and the admin account.
type Seeder struct {
	users     ports.UserRepository
	passwords usecase.PasswordService
	log       *logrus.Logger
}

func NewSeeder(users ports.UserRepository, passwords usecase.PasswordService, log *logrus.Logger) *Seeder {
	return &Seeder{users: users, passwords: passwords, log: log}
}

// Run seeds the role catalog and the admin account. It returns the first
// error encountered; callers treat it as a warning, not a startup failure.
func (s *Seeder) Run(ctx context.Context, admin AdminAccount) error {
	for _, role := range domain.Roles() {
		if err := s.users.EnsureRole(ctx, role); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}
	s.log.WithField("roles", domain.Roles()).Info("role catalog seeded")

	existing, err := s.users.FindByEmail(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if existing != nil {
		s.log.WithField("email", admin.Email).Debug("admin account already present")
		return nil
	}

	hash, err := s.passwords.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:         uuid.NewString(),
		Email:      admin.Email,
		Password:   hash,
		FullName:   admin.FullName,
		EmployeeNo: admin.EmployeeNo,
		Roles:      []string{domain.RoleCpdAdmin},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.log.WithField("email", admin.Email).Info("admin account seeded")
	return nil
}
