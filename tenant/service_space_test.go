package tenant_test

import (
	"context"
	"testing"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/inmem"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kit/platform/errors"
	"github.com/spacedock/spacedock/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initService(t *testing.T) *tenant.Service {
	t.Helper()

	st, err := tenant.NewStore(inmem.NewKVStore())
	require.NoError(t, err)
	return tenant.NewService(st)
}

func TestSpaceService_CreateSpace(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	sp := &spacedock.Space{
		Name:    "  my space  ",
		OwnerID: platform.ID(1),
	}
	require.NoError(t, svc.CreateSpace(ctx, sp))

	assert.True(t, sp.ID.Valid())
	assert.Equal(t, "my space", sp.Name)
	assert.False(t, sp.CreatedAt.IsZero())
	assert.False(t, sp.UpdatedAt.IsZero())

	got, err := svc.FindSpaceByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, sp.Name, got.Name)
	assert.Equal(t, sp.OwnerID, got.OwnerID)
}

func TestSpaceService_CreateSpace_BlankName(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	err := svc.CreateSpace(ctx, &spacedock.Space{
		Name:    "   ",
		OwnerID: platform.ID(1),
	})
	require.Error(t, err)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(err))
}

func TestSpaceService_FindSpaceByID_NotFound(t *testing.T) {
	svc := initService(t)

	_, err := svc.FindSpaceByID(context.Background(), platform.ID(42))
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestSpaceService_FindSpaces(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	owner := platform.ID(1)
	other := platform.ID(2)

	for _, name := range []string{"one", "two", "three", "four", "five"} {
		require.NoError(t, svc.CreateSpace(ctx, &spacedock.Space{Name: name, OwnerID: owner}))
	}
	require.NoError(t, svc.CreateSpace(ctx, &spacedock.Space{Name: "not yours", OwnerID: other}))

	sps, err := svc.FindSpaces(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, sps, 5)
	for _, sp := range sps {
		assert.Equal(t, owner, sp.OwnerID)
	}

	// pages are limit sized windows in id order
	page0, err := svc.FindSpaces(ctx, owner, spacedock.FindOptions{Limit: 2, Page: 0})
	require.NoError(t, err)
	require.Len(t, page0, 2)

	page1, err := svc.FindSpaces(ctx, owner, spacedock.FindOptions{Limit: 2, Page: 1})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.NotEqual(t, page0[0].ID, page1[0].ID)

	page2, err := svc.FindSpaces(ctx, owner, spacedock.FindOptions{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	// a page past the end of the data is empty, not an error
	page9, err := svc.FindSpaces(ctx, owner, spacedock.FindOptions{Limit: 2, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page9)
}

func TestSpaceService_UpdateSpace(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	sp := &spacedock.Space{Name: "before", OwnerID: platform.ID(1)}
	require.NoError(t, svc.CreateSpace(ctx, sp))

	name := "  after  "
	got, err := svc.UpdateSpace(ctx, sp.ID, spacedock.SpaceUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, sp.CreatedAt, got.CreatedAt)

	blank := "   "
	_, err = svc.UpdateSpace(ctx, sp.ID, spacedock.SpaceUpdate{Name: &blank})
	require.Error(t, err)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(err))

	// the failed update must not have touched the record
	got, err = svc.FindSpaceByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	_, err = svc.UpdateSpace(ctx, platform.ID(42), spacedock.SpaceUpdate{Name: &name})
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestSpaceService_DeleteSpace(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	sp := &spacedock.Space{Name: "doomed", OwnerID: platform.ID(1)}
	require.NoError(t, svc.CreateSpace(ctx, sp))

	keep := &spacedock.Space{Name: "keep", OwnerID: platform.ID(1)}
	require.NoError(t, svc.CreateSpace(ctx, keep))

	d := &spacedock.Document{SpaceID: sp.ID, Slug: "orphan-to-be"}
	require.NoError(t, svc.CreateDocument(ctx, d))

	require.NoError(t, svc.DeleteSpace(ctx, sp.ID))

	_, err := svc.FindSpaceByID(ctx, sp.ID)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	// documents go with the space
	_, err = svc.FindDocumentByID(ctx, sp.ID, d.ID)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	// unrelated spaces survive
	_, err = svc.FindSpaceByID(ctx, keep.ID)
	assert.NoError(t, err)

	err = svc.DeleteSpace(ctx, sp.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestSpaceService_FindSchemaBySpaceID(t *testing.T) {
	svc := initService(t)
	ctx := context.Background()

	sp := &spacedock.Space{Name: "schemaless", OwnerID: platform.ID(1)}
	require.NoError(t, svc.CreateSpace(ctx, sp))

	// a space without a stored schema resolves to an empty one
	sc, err := svc.FindSchemaBySpaceID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, sp.ID, sc.SpaceID)
	assert.Empty(t, sc.Fields)
}
