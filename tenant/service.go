package tenant

import (
	"github.com/spacedock/spacedock"
)

// Service implements the space, document, schema, user and authorization
// services on top of the tenant Store.
type Service struct {
	store *Store
}

var (
	_ spacedock.SpaceService         = (*Service)(nil)
	_ spacedock.DocumentService      = (*Service)(nil)
	_ spacedock.SchemaService        = (*Service)(nil)
	_ spacedock.UserService          = (*Service)(nil)
	_ spacedock.AuthorizationService = (*Service)(nil)
)

// NewService constructs a tenant service.
func NewService(st *Store) *Service {
	return &Service{store: st}
}
