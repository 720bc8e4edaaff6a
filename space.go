package spacedock

import (
	"context"

	"github.com/spacedock/spacedock/kit/platform"
)

// Space is a tenant scoped container owned by exactly one user, holding zero
// or more documents. The OwnerID never changes after creation.
type Space struct {
	ID      platform.ID `json:"id,omitempty"`
	OwnerID platform.ID `json:"ownerID,omitempty"`
	Name    string      `json:"name"`

	CRUDLog
}

// SpaceService represents a service for managing space data.
type SpaceService interface {
	// FindSpaceByID returns a single space by ID.
	FindSpaceByID(ctx context.Context, id platform.ID) (*Space, error)

	// FindSpaces returns a page of the spaces owned by ownerID.
	// Pages past the end of the data are empty, not an error.
	FindSpaces(ctx context.Context, ownerID platform.ID, opt ...FindOptions) ([]*Space, error)

	// CreateSpace creates a new space and sets s.ID with the new identifier.
	CreateSpace(ctx context.Context, s *Space) error

	// UpdateSpace updates a single space with changeset.
	// Returns the new space state after update.
	UpdateSpace(ctx context.Context, id platform.ID, upd SpaceUpdate) (*Space, error)

	// DeleteSpace removes a space by ID together with the documents it holds.
	DeleteSpace(ctx context.Context, id platform.ID) error
}

// SpaceUpdate represents updates to a space.
// Only fields which are set are updated.
type SpaceUpdate struct {
	Name *string `json:"name,omitempty"`
}
