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
	spaceBucket     = []byte("spacesv1")
	spaceOwnerIndex = []byte("spaceownerindexv1")
)

// spaceOwnerIndexKey scopes a space to its owner so that per owner listings
// are a single prefix bounded scan.
func spaceOwnerIndexKey(ownerID, spaceID platform.ID) ([]byte, error) {
	encodedOwner, err := ownerID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}
	encodedSpace, err := spaceID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	key := make([]byte, 0, platform.IDLength*2)
	key = append(key, encodedOwner...)
	key = append(key, encodedSpace...)
	return key, nil
}

func unmarshalSpace(v []byte) (*spacedock.Space, error) {
	sp := &spacedock.Space{}
	if err := json.Unmarshal(v, sp); err != nil {
		return nil, ErrCorruptSpace(err)
	}

	return sp, nil
}

func marshalSpace(sp *spacedock.Space) ([]byte, error) {
	v, err := json.Marshal(sp)
	if err != nil {
		return nil, ErrUnprocessableSpace(err)
	}

	return v, nil
}

// GetSpace returns the space record for id.
func (s *Store) GetSpace(ctx context.Context, tx kv.Tx, id platform.ID) (*spacedock.Space, error) {
	encodedID, err := id.Encode()
	if err != nil {
		return nil, ErrSpaceNotFound
	}

	b, err := tx.Bucket(spaceBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil, ErrSpaceNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalSpace(v)
}

// ListSpaces returns a page of the spaces owned by ownerID in insertion
// (id) order. Pages past the end of the data are empty.
func (s *Store) ListSpaces(ctx context.Context, tx kv.Tx, ownerID platform.ID, opt ...spacedock.FindOptions) ([]*spacedock.Space, error) {
	if len(opt) == 0 {
		opt = append(opt, spacedock.DefaultFindOptions())
	}
	o := opt[0]

	prefix, err := ownerID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	idx, err := tx.Bucket(spaceOwnerIndex)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	cursor, err := idx.Cursor()
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	count := 0
	offset := o.Page * o.Limit
	spaces := []*spacedock.Space{}
	for k, v := cursor.Seek(prefix); k != nil; k, v = cursor.Next() {
		if !bytes.HasPrefix(k, prefix) {
			break
		}

		if count < offset {
			count++
			continue
		}

		var id platform.ID
		if err := id.Decode(v); err != nil {
			continue
		}

		sp, err := s.GetSpace(ctx, tx, id)
		if err != nil {
			continue
		}

		spaces = append(spaces, sp)

		if o.Limit != 0 && len(spaces) >= o.Limit {
			break
		}
	}

	return spaces, nil
}

// CreateSpace assigns a fresh id to sp and persists it together with its
// owner index entry.
func (s *Store) CreateSpace(ctx context.Context, tx kv.Tx, sp *spacedock.Space) (err error) {
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return ErrNameisEmpty
	}

	if !sp.OwnerID.Valid() {
		return platform.ErrInvalidID
	}

	sp.ID, err = s.generateSafeID(ctx, tx, spaceBucket, s.SpaceIDGen)
	if err != nil {
		return err
	}

	encodedID, err := sp.ID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	sp.SetCreatedAt(s.now())
	sp.SetUpdatedAt(s.now())

	idx, err := tx.Bucket(spaceOwnerIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(spaceBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	v, err := marshalSpace(sp)
	if err != nil {
		return err
	}

	ik, err := spaceOwnerIndexKey(sp.OwnerID, sp.ID)
	if err != nil {
		return err
	}

	if err := idx.Put(ik, encodedID); err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Put(encodedID, v); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}

// UpdateSpace merges upd into the stored space and rewrites it under the same
// id. Fields not present in upd are preserved unchanged.
func (s *Store) UpdateSpace(ctx context.Context, tx kv.Tx, id platform.ID, upd spacedock.SpaceUpdate) (*spacedock.Space, error) {
	encodedID, err := id.Encode()
	if err != nil {
		return nil, ErrSpaceNotFound
	}

	sp, err := s.GetSpace(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, ErrNameisEmpty
		}
		sp.Name = name
	}

	sp.SetUpdatedAt(s.now())

	v, err := marshalSpace(sp)
	if err != nil {
		return nil, err
	}

	b, err := tx.Bucket(spaceBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}
	if err := b.Put(encodedID, v); err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return sp, nil
}

// DeleteSpace removes the space record, its owner index entry, its schema and
// every document it holds. All of it happens in the one update transaction,
// so a deleted space never leaves orphaned documents behind.
func (s *Store) DeleteSpace(ctx context.Context, tx kv.Tx, id platform.ID) error {
	sp, err := s.GetSpace(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := s.deleteDocumentsBySpace(ctx, tx, id); err != nil {
		return err
	}

	if err := s.deleteSchema(ctx, tx, id); err != nil {
		return err
	}

	encodedID, err := id.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	idx, err := tx.Bucket(spaceOwnerIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	ik, err := spaceOwnerIndexKey(sp.OwnerID, sp.ID)
	if err != nil {
		return err
	}

	if err := idx.Delete(ik); err != nil {
		return ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(spaceBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Delete(encodedID); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}
