package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/config"
	"github.com/jonathan/staffdesk/internal/types"
)

// EmployeeStore is the persistence used for authentication.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*types.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*types.Employee, error)
	UpdateEmployeePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// EmployeeService provides business logic for employee authentication
type EmployeeService struct {
	store          EmployeeStore
	passwordConfig *config.PasswordConfig
}

// NewEmployeeService creates a new EmployeeService with the given dependencies
func NewEmployeeService(store EmployeeStore, passwordConfig *config.PasswordConfig) *EmployeeService {
	return &EmployeeService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// publicEmployee strips the password hash before a record leaves the service.
func publicEmployee(e *types.Employee) *types.Employee {
	if e == nil {
		return nil
	}
	out := *e
	out.Password = ""
	out.PasswordHash = ""
	return &out
}

// Login authenticates an active employee. Unknown emails, wrong passwords, inactive
// accounts and accounts without a password all fail the same way.
func (s *EmployeeService) Login(ctx context.Context, req *types.LoginRequest) (*types.Employee, error) {
	employee, err := s.store.GetEmployeeByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if employee == nil || employee.Status != types.StatusActive {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, employee.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return publicEmployee(employee), nil
}

// Get returns the employee without credentials.
func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*types.Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return nil, &ErrEmployeeNotFound{EmployeeID: id}
	}
	return publicEmployee(employee), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *EmployeeService) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return &ErrEmployeeNotFound{EmployeeID: id}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, employee.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdateEmployeePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// HashPassword hashes a new employee password.
func (s *EmployeeService) HashPassword(pw string) (string, error) {
	hash, err := s.passwordConfig.HashPassword(pw)
	if err != nil {
		return "", &ErrValidation{Field: "password", Message: err.Error()}
	}
	return hash, nil
}

// PrepareEmployee moves a submitted plain password into the hash field. Records without
// a password keep their stored hash.
func (s *EmployeeService) PrepareEmployee(_ context.Context, e *types.Employee) error {
	if e.Password == "" {
		return nil
	}
	hash, err := s.HashPassword(e.Password)
	if err != nil {
		return err
	}
	e.PasswordHash = hash
	e.Password = ""
	return nil
}
