package identity

import (
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents an account's role within its organization
type Role string

const (
	RoleRootAdmin Role = "ROOT_ADMIN"
	RoleAdmin     Role = "ADMIN"
	RoleMember    Role = "MEMBER"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleRootAdmin, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Account belongs to exactly one organization
type Account struct {
	shared.OrgEntity
	Email        string
	Name         string
	Role         Role
	PasswordHash string
}

// NewAccount creates a new account within an organization
func NewAccount(organizationID uuid.UUID, email, name string, role Role) (*Account, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown account role")
	}
	return &Account{
		OrgEntity: shared.NewOrgEntity(organizationID),
		Email:     email,
		Name:      name,
		Role:      role,
	}, nil
}

// SetPassword hashes and stores the account credential
func (a *Account) SetPassword(plain string) error {
	if len(plain) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.UpdatedAt = time.Now()
	return nil
}

// CheckPassword verifies a plaintext credential against the stored hash
func (a *Account) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

// IsAdmin returns true for roles allowed to trigger administrative operations
func (a *Account) IsAdmin() bool {
	return a.Role == RoleRootAdmin || a.Role == RoleAdmin
}
