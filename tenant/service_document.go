package tenant

import (
	"context"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
)

// FindDocumentByID returns a single document by ID within spaceID.
func (s *Service) FindDocumentByID(ctx context.Context, spaceID, id platform.ID) (*spacedock.Document, error) {
	var doc *spacedock.Document
	err := s.store.View(ctx, func(tx kv.Tx) error {
		d, err := s.store.GetDocument(ctx, tx, spaceID, id)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FindDocumentBySlug returns the document carrying slug within spaceID.
func (s *Service) FindDocumentBySlug(ctx context.Context, spaceID platform.ID, slug string) (*spacedock.Document, error) {
	var doc *spacedock.Document
	err := s.store.View(ctx, func(tx kv.Tx) error {
		d, err := s.store.GetDocumentBySlug(ctx, tx, spaceID, slug)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FindDocuments returns a page of the documents held by spaceID.
func (s *Service) FindDocuments(ctx context.Context, spaceID platform.ID, opt ...spacedock.FindOptions) ([]*spacedock.Document, error) {
	var docs []*spacedock.Document
	err := s.store.View(ctx, func(tx kv.Tx) error {
		ds, err := s.store.ListDocuments(ctx, tx, spaceID, opt...)
		if err != nil {
			return err
		}
		docs = ds
		return nil
	})

	if err != nil {
		return nil, err
	}

	return docs, nil
}

// CreateDocument creates a new document and sets d.ID with the new
// identifier. The slug uniqueness check and the writes share one update
// transaction, so concurrent creations of the same slug cannot both succeed.
func (s *Service) CreateDocument(ctx context.Context, d *spacedock.Document) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateDocument(ctx, tx, d)
	})
}

// UpdateDocument updates a single document with changeset.
// Returns the new document state after update.
func (s *Service) UpdateDocument(ctx context.Context, spaceID, id platform.ID, upd spacedock.DocumentUpdate) (*spacedock.Document, error) {
	var doc *spacedock.Document
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		d, err := s.store.UpdateDocument(ctx, tx, spaceID, id, upd)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document by ID within spaceID.
func (s *Service) DeleteDocument(ctx context.Context, spaceID, id platform.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteDocument(ctx, tx, spaceID, id)
	})
}
