package tenant

import (
	"context"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
)

// FindSpaceByID returns a single space by ID.
func (s *Service) FindSpaceByID(ctx context.Context, id platform.ID) (*spacedock.Space, error) {
	var space *spacedock.Space
	err := s.store.View(ctx, func(tx kv.Tx) error {
		sp, err := s.store.GetSpace(ctx, tx, id)
		if err != nil {
			return err
		}
		space = sp
		return nil
	})

	if err != nil {
		return nil, err
	}

	return space, nil
}

// FindSpaces returns a page of the spaces owned by ownerID.
func (s *Service) FindSpaces(ctx context.Context, ownerID platform.ID, opt ...spacedock.FindOptions) ([]*spacedock.Space, error) {
	var spaces []*spacedock.Space
	err := s.store.View(ctx, func(tx kv.Tx) error {
		sps, err := s.store.ListSpaces(ctx, tx, ownerID, opt...)
		if err != nil {
			return err
		}
		spaces = sps
		return nil
	})

	if err != nil {
		return nil, err
	}

	return spaces, nil
}

// CreateSpace creates a new space and sets sp.ID with the new identifier.
func (s *Service) CreateSpace(ctx context.Context, sp *spacedock.Space) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateSpace(ctx, tx, sp)
	})
}

// UpdateSpace updates a single space with changeset.
// Returns the new space state after update.
func (s *Service) UpdateSpace(ctx context.Context, id platform.ID, upd spacedock.SpaceUpdate) (*spacedock.Space, error) {
	var space *spacedock.Space
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		sp, err := s.store.UpdateSpace(ctx, tx, id, upd)
		if err != nil {
			return err
		}
		space = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

// DeleteSpace removes a space by ID together with the documents it holds. The
// cascade happens in the same update transaction as the space removal.
func (s *Service) DeleteSpace(ctx context.Context, id platform.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteSpace(ctx, tx, id)
	})
}

// FindSchemaBySpaceID returns the schema for spaceID.
func (s *Service) FindSchemaBySpaceID(ctx context.Context, spaceID platform.ID) (*spacedock.Schema, error) {
	var schema *spacedock.Schema
	err := s.store.View(ctx, func(tx kv.Tx) error {
		sc, err := s.store.GetSchema(ctx, tx, spaceID)
		if err != nil {
			return err
		}
		schema = sc
		return nil
	})

	if err != nil {
		return nil, err
	}

	return schema, nil
}
