package domain

import "time"

// Role names. Keep these stable; they are stored in the users table and
// embedded in access tokens.
const (
	RoleEmployee = "Employee"
	RoleCpdAdmin = "CpdAdmin"
	RoleFinance  = "Finance"
)

// Roles returns the full role catalog seeded at startup.
func Roles() []string {
	return []string{RoleEmployee, RoleCpdAdmin, RoleFinance}
}

// User is an authenticated account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	FullName      string     `json:"full_name"`
	EmployeeNo    string     `json:"employee_no"`
	BankAccountNo string     `json:"bank_account_no,omitempty"`
	Roles         []string   `json:"roles"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Principal is the acting identity extracted from an access token. Only the
// id and role membership are read by the authorization logic.
type Principal struct {
	ID    string
	Roles []string
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal derives the acting identity from a stored user.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Roles: u.Roles}
}
