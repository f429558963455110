package types

import (
	"time"

	"github.com/google/uuid"
)

// Employee roles
const (
	RoleAdmin          = "admin"
	RoleRecruiter      = "recruiter"
	RoleAccountManager = "account-manager"
	RoleLead           = "lead"
)

// Employee is an agency staff member. Password is accepted on create/update only and is
// never returned.
type Employee struct {
	ID           uuid.UUID  `json:"id" csv:"id"`
	Name         string     `json:"name" csv:"name" validate:"required,min=2,max=120"`
	Email        string     `json:"email" csv:"email" validate:"required,email_tld"`
	Phone        string     `json:"phone" csv:"phone" validate:"required,phone10"`
	Roles        StringList `json:"roles" csv:"roles" validate:"required,min=1,dive,oneof=admin recruiter account-manager lead"`
	Status       string     `json:"status" csv:"status" validate:"required,oneof=active inactive"`
	Password     string     `json:"password,omitempty" csv:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash string     `json:"-" csv:"-"`
	CreatedAt    time.Time  `json:"created_at" csv:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" csv:"updated_at"`
}

func (e *Employee) GetID() uuid.UUID   { return e.ID }
func (e *Employee) SetID(id uuid.UUID) { e.ID = id }

// HasRole reports whether the employee holds any of roles.
func (e *Employee) HasRole(roles ...string) bool {
	for _, have := range e.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
