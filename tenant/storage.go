package tenant

import (
	"context"
	"time"

	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
	"github.com/spacedock/spacedock/snowflake"
)

// MaxIDGenerationN is the maximum number of times an ID generation is done
// before failing.
const MaxIDGenerationN = 100

// Store is the tenant storage layer. It owns the bucket layout in the backing
// kv store and the marshalling of records in and out of it.
type Store struct {
	kvStore kv.Store

	SpaceIDGen    platform.IDGenerator
	DocumentIDGen platform.IDGenerator
	UserIDGen     platform.IDGenerator
	AuthIDGen     platform.IDGenerator

	now func() time.Time
}

// NewStore creates a tenant store and ensures the buckets it relies on exist.
func NewStore(kvStore kv.Store) (*Store, error) {
	st := &Store{
		kvStore:       kvStore,
		SpaceIDGen:    snowflake.NewIDGenerator(),
		DocumentIDGen: snowflake.NewIDGenerator(),
		UserIDGen:     snowflake.NewIDGenerator(),
		AuthIDGen:     snowflake.NewIDGenerator(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	return st, st.setup()
}

// setup touches every bucket once so that read only transactions never
// observe a missing bucket.
func (s *Store) setup() error {
	return s.Update(context.Background(), func(tx kv.Tx) error {
		for _, b := range [][]byte{
			spaceBucket,
			spaceOwnerIndex,
			documentBucket,
			documentSlugIndex,
			schemaBucket,
			userBucket,
			userIndex,
			authBucket,
			authIndex,
		} {
			if _, err := tx.Bucket(b); err != nil {
				return err
			}
		}
		return nil
	})
}

// View opens up a transaction that will not write to any data. Implementing interfaces
// should take care to ensure that all view transactions do not mutate any data.
func (s *Store) View(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.View(ctx, fn)
}

// Update opens up a transaction that will mutate data.
func (s *Store) Update(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.Update(ctx, fn)
}

// generateSafeID attempts to create an id that does not already exist
// within the provided bucket.
func (s *Store) generateSafeID(ctx context.Context, tx kv.Tx, bucket []byte, gen platform.IDGenerator) (platform.ID, error) {
	for i := 0; i < MaxIDGenerationN; i++ {
		id := gen.ID()

		err := s.uniqueID(ctx, tx, bucket, id)
		if err == nil {
			return id, nil
		}

		if err == NotUniqueIDError {
			continue
		}

		return platform.InvalidID(), err
	}
	return platform.InvalidID(), ErrFailureGeneratingID
}

func (s *Store) uniqueID(ctx context.Context, tx kv.Tx, bucket []byte, id platform.ID) error {
	encodedID, err := id.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	b, err := tx.Bucket(bucket)
	if err != nil {
		return err
	}

	_, err = b.Get(encodedID)
	// if not found then this is  _unique_.
	if kv.IsNotFound(err) {
		return nil
	}

	// no error means this is not unique
	if err == nil {
		return NotUniqueIDError
	}

	// any other error is some sort of internal server error
	return ErrInternalServiceError(err)
}
