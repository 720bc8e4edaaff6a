package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
)

var (
	documentBucket    = []byte("documentsv1")
	documentSlugIndex = []byte("documentslugindexv1")
)

// documentKey nests the document under its space so that per space listings
// are a single prefix bounded scan.
func documentKey(spaceID, docID platform.ID) ([]byte, error) {
	encodedSpace, err := spaceID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}
	encodedDoc, err := docID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	key := make([]byte, 0, platform.IDLength*2)
	key = append(key, encodedSpace...)
	key = append(key, encodedDoc...)
	return key, nil
}

func documentSlugIndexKey(spaceID platform.ID, slug string) ([]byte, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugisEmpty
	}

	encodedSpace, err := spaceID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	key := make([]byte, 0, platform.IDLength+len(slug))
	key = append(key, encodedSpace...)
	key = append(key, slug...)
	return key, nil
}

// uniqueDocumentSlug is the insert-if-absent check backing the per space slug
// invariant. It runs inside the same update transaction as the index put, so
// two concurrent creations of the same slug cannot both pass it.
func (s *Store) uniqueDocumentSlug(ctx context.Context, tx kv.Tx, spaceID platform.ID, slug string) error {
	key, err := documentSlugIndexKey(spaceID, slug)
	if err != nil {
		return err
	}

	idx, err := tx.Bucket(documentSlugIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	_, err = idx.Get(key)
	// if not found then this is  _unique_.
	if kv.IsNotFound(err) {
		return nil
	}

	// no error means this is not unique
	if err == nil {
		return DocumentAlreadyExistsError(strings.TrimSpace(slug))
	}

	// any other error is some sort of internal server error
	return ErrInternalServiceError(err)
}

func unmarshalDocument(v []byte) (*spacedock.Document, error) {
	d := &spacedock.Document{}
	if err := json.Unmarshal(v, d); err != nil {
		return nil, ErrCorruptDocument(err)
	}

	return d, nil
}

func marshalDocument(d *spacedock.Document) ([]byte, error) {
	v, err := json.Marshal(d)
	if err != nil {
		return nil, ErrUnprocessableDocument(err)
	}

	return v, nil
}

// GetDocument returns the document record for id within spaceID.
func (s *Store) GetDocument(ctx context.Context, tx kv.Tx, spaceID, id platform.ID) (*spacedock.Document, error) {
	key, err := documentKey(spaceID, id)
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	b, err := tx.Bucket(documentBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := b.Get(key)
	if kv.IsNotFound(err) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalDocument(v)
}

// GetDocumentBySlug resolves slug through the slug index within spaceID.
func (s *Store) GetDocumentBySlug(ctx context.Context, tx kv.Tx, spaceID platform.ID, slug string) (*spacedock.Document, error) {
	key, err := documentSlugIndexKey(spaceID, slug)
	if err != nil {
		return nil, err
	}

	idx, err := tx.Bucket(documentSlugIndex)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := idx.Get(key)
	if kv.IsNotFound(err) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	var id platform.ID
	if err := id.Decode(v); err != nil {
		return nil, platform.ErrCorruptID(err)
	}

	return s.GetDocument(ctx, tx, spaceID, id)
}

// ListDocuments returns a page of the documents held by spaceID in insertion
// (id) order. Pages past the end of the data are empty.
func (s *Store) ListDocuments(ctx context.Context, tx kv.Tx, spaceID platform.ID, opt ...spacedock.FindOptions) ([]*spacedock.Document, error) {
	if len(opt) == 0 {
		opt = append(opt, spacedock.DefaultFindOptions())
	}
	o := opt[0]

	prefix, err := spaceID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	b, err := tx.Bucket(documentBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	count := 0
	offset := o.Page * o.Limit
	docs := []*spacedock.Document{}
	for k, v := cursor.Seek(prefix); k != nil; k, v = cursor.Next() {
		if !bytes.HasPrefix(k, prefix) {
			break
		}

		if count < offset {
			count++
			continue
		}

		d, err := unmarshalDocument(v)
		if err != nil {
			continue
		}

		docs = append(docs, d)

		if o.Limit != 0 && len(docs) >= o.Limit {
			break
		}
	}

	return docs, nil
}

// CreateDocument assigns a fresh id to d and persists it together with its
// slug index entry. The slug index put doubles as the conditional write that
// keeps slugs unique within the space.
func (s *Store) CreateDocument(ctx context.Context, tx kv.Tx, d *spacedock.Document) (err error) {
	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		return ErrSlugisEmpty
	}

	if !d.SpaceID.Valid() {
		return platform.ErrInvalidID
	}

	d.ID, err = s.generateSafeID(ctx, tx, documentBucket, s.DocumentIDGen)
	if err != nil {
		return err
	}

	encodedID, err := d.ID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	if err := s.uniqueDocumentSlug(ctx, tx, d.SpaceID, d.Slug); err != nil {
		return err
	}

	d.SetCreatedAt(s.now())
	d.SetUpdatedAt(s.now())

	idx, err := tx.Bucket(documentSlugIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(documentBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	v, err := marshalDocument(d)
	if err != nil {
		return err
	}

	ik, err := documentSlugIndexKey(d.SpaceID, d.Slug)
	if err != nil {
		return err
	}

	key, err := documentKey(d.SpaceID, d.ID)
	if err != nil {
		return err
	}

	if err := idx.Put(ik, encodedID); err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Put(key, v); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}

// UpdateDocument merges upd into the stored document and rewrites it under
// the same id. A slug change re-indexes the document atomically; fields not
// present in upd are preserved unchanged.
func (s *Store) UpdateDocument(ctx context.Context, tx kv.Tx, spaceID, id platform.ID, upd spacedock.DocumentUpdate) (*spacedock.Document, error) {
	d, err := s.GetDocument(ctx, tx, spaceID, id)
	if err != nil {
		return nil, err
	}

	if upd.Slug != nil {
		slug := strings.TrimSpace(*upd.Slug)
		if slug == "" {
			return nil, ErrSlugisEmpty
		}

		if slug != d.Slug {
			if err := s.uniqueDocumentSlug(ctx, tx, spaceID, slug); err != nil {
				return nil, err
			}

			idx, err := tx.Bucket(documentSlugIndex)
			if err != nil {
				return nil, ErrInternalServiceError(err)
			}

			oldIK, err := documentSlugIndexKey(spaceID, d.Slug)
			if err != nil {
				return nil, err
			}

			if err := idx.Delete(oldIK); err != nil {
				return nil, ErrInternalServiceError(err)
			}

			d.Slug = slug

			newIK, err := documentSlugIndexKey(spaceID, slug)
			if err != nil {
				return nil, err
			}

			encodedID, err := d.ID.Encode()
			if err != nil {
				return nil, platform.ErrInvalidID
			}

			if err := idx.Put(newIK, encodedID); err != nil {
				return nil, ErrInternalServiceError(err)
			}
		}
	}

	if upd.Fields != nil {
		if d.Fields == nil {
			d.Fields = map[string]interface{}{}
		}
		for k, v := range upd.Fields {
			d.Fields[k] = v
		}
	}

	d.SetUpdatedAt(s.now())

	v, err := marshalDocument(d)
	if err != nil {
		return nil, err
	}

	key, err := documentKey(spaceID, id)
	if err != nil {
		return nil, err
	}

	b, err := tx.Bucket(documentBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}
	if err := b.Put(key, v); err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return d, nil
}

// DeleteDocument removes the document record and its slug index entry.
func (s *Store) DeleteDocument(ctx context.Context, tx kv.Tx, spaceID, id platform.ID) error {
	d, err := s.GetDocument(ctx, tx, spaceID, id)
	if err != nil {
		return err
	}

	idx, err := tx.Bucket(documentSlugIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	ik, err := documentSlugIndexKey(spaceID, d.Slug)
	if err != nil {
		return err
	}

	if err := idx.Delete(ik); err != nil {
		return ErrInternalServiceError(err)
	}

	key, err := documentKey(spaceID, id)
	if err != nil {
		return err
	}

	b, err := tx.Bucket(documentBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Delete(key); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}

// deleteDocumentsBySpace removes every document held by spaceID together with
// the slug index entries. Used by the space cascade delete.
func (s *Store) deleteDocumentsBySpace(ctx context.Context, tx kv.Tx, spaceID platform.ID) error {
	docs, err := s.ListDocuments(ctx, tx, spaceID, spacedock.FindOptions{})
	if err != nil {
		return err
	}

	for _, d := range docs {
		if err := s.DeleteDocument(ctx, tx, spaceID, d.ID); err != nil {
			return err
		}
	}

	return nil
}
