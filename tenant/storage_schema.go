package tenant

import (
	"context"
	"encoding/json"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kit/platform/errors"
	"github.com/spacedock/spacedock/kv"
)

var schemaBucket = []byte("schemasv1")

// GetSchema returns the schema stored for spaceID. A space without a stored
// schema gets an empty one, not an error.
func (s *Store) GetSchema(ctx context.Context, tx kv.Tx, spaceID platform.ID) (*spacedock.Schema, error) {
	encodedID, err := spaceID.Encode()
	if err != nil {
		return nil, platform.ErrInvalidID
	}

	b, err := tx.Bucket(schemaBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return &spacedock.Schema{SpaceID: spaceID}, nil
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	sc := &spacedock.Schema{}
	if err := json.Unmarshal(v, sc); err != nil {
		return nil, &errors.Error{
			Code: errors.EInternal,
			Msg:  "schema could not be unmarshalled",
			Err:  err,
			Op:   "tenant.GetSchema",
		}
	}

	return sc, nil
}

// PutSchema stores the schema for its space, replacing any previous one.
func (s *Store) PutSchema(ctx context.Context, tx kv.Tx, sc *spacedock.Schema) error {
	encodedID, err := sc.SpaceID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	v, err := json.Marshal(sc)
	if err != nil {
		return &errors.Error{
			Code: errors.EUnprocessableEntity,
			Msg:  "schema could not be marshalled",
			Err:  err,
			Op:   "tenant.PutSchema",
		}
	}

	b, err := tx.Bucket(schemaBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	return b.Put(encodedID, v)
}

// deleteSchema removes the schema stored for spaceID, if any.
func (s *Store) deleteSchema(ctx context.Context, tx kv.Tx, spaceID platform.ID) error {
	encodedID, err := spaceID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	b, err := tx.Bucket(schemaBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	return b.Delete(encodedID)
}
