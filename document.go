package spacedock

import (
	"context"

	"github.com/spacedock/spacedock/kit/platform"
)

// Document is a record belonging to one space, identified within that space by
// a slug that is unique among the space's documents. Fields carries whatever
// schema conformant data the caller supplied; field level validation is the
// schema service's concern.
type Document struct {
	ID      platform.ID            `json:"id,omitempty"`
	SpaceID platform.ID            `json:"spaceID,omitempty"`
	Slug    string                 `json:"slug"`
	Fields  map[string]interface{} `json:"fields,omitempty"`

	CRUDLog
}

// DocumentService represents a service for managing document data. Every
// operation is scoped to the document's owning space.
type DocumentService interface {
	// FindDocumentByID returns a single document by ID within spaceID.
	FindDocumentByID(ctx context.Context, spaceID, id platform.ID) (*Document, error)

	// FindDocumentBySlug returns the document carrying slug within spaceID.
	FindDocumentBySlug(ctx context.Context, spaceID platform.ID, slug string) (*Document, error)

	// FindDocuments returns a page of the documents held by spaceID.
	// Pages past the end of the data are empty, not an error.
	FindDocuments(ctx context.Context, spaceID platform.ID, opt ...FindOptions) ([]*Document, error)

	// CreateDocument creates a new document and sets d.ID with the new identifier.
	// Errors with a conflict if the slug is already taken within the space.
	CreateDocument(ctx context.Context, d *Document) error

	// UpdateDocument updates a single document with changeset.
	// Returns the new document state after update.
	UpdateDocument(ctx context.Context, spaceID, id platform.ID, upd DocumentUpdate) (*Document, error)

	// DeleteDocument removes a document by ID within spaceID.
	DeleteDocument(ctx context.Context, spaceID, id platform.ID) error
}

// DocumentUpdate represents updates to a document.
// Only fields which are set are updated.
type DocumentUpdate struct {
	Slug   *string                `json:"slug,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}
