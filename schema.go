package spacedock

import (
	"context"

	"github.com/spacedock/spacedock/kit/platform"
)

// SchemaField describes one field a document in a space may carry.
type SchemaField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Schema is the set of field definitions governing a space's documents.
// Validation of document fields against the schema is not implemented yet.
type Schema struct {
	SpaceID platform.ID   `json:"spaceID,omitempty"`
	Fields  []SchemaField `json:"fields"`
}

// SchemaService represents a service for reading the schema attached to a space.
type SchemaService interface {
	// FindSchemaBySpaceID returns the schema for spaceID. Spaces without a
	// stored schema get an empty one, not an error.
	FindSchemaBySpaceID(ctx context.Context, spaceID platform.ID) (*Schema, error)
}
