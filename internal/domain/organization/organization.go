// Package organization defines the seller organization whose identity and FBR
// credential accompany every submission.
package organization

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organization represents a seller profile registered with the tax authority
type Organization struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	NTN                  string    `json:"ntn"`
	Address              string    `json:"address,omitempty"`
	Province             string    `json:"province,omitempty"`
	RegistrationCategory string    `json:"registration_category,omitempty"`

	// FBRToken is the bearer credential for the authority's API. Empty means
	// the organization has not completed FBR onboarding yet.
	FBRToken string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCredential reports whether the organization can submit to FBR at all
func (o *Organization) HasCredential() bool {
	return o.FBRToken != ""
}

// Repository defines organization lookup operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
}

// ErrOrganizationNotFound indicates missing organization
type ErrOrganizationNotFound struct {
	OrgID uuid.UUID
}

func (e ErrOrganizationNotFound) Error() string {
	return "organization not found: " + e.OrgID.String()
}

// Is implements the errors.Is interface for ErrOrganizationNotFound
func (e ErrOrganizationNotFound) Is(target error) bool {
	t, ok := target.(ErrOrganizationNotFound)
	if !ok {
		return false
	}
	if t.OrgID == uuid.Nil {
		return true
	}
	return e.OrgID == t.OrgID
}
