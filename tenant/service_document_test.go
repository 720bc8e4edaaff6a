package tenant_test

import (
	"context"
	"testing"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kit/platform/errors"
	"github.com/spacedock/spacedock/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentServiceTest struct {
	svc *tenant.Service
	ctx context.Context
}

func initDocumentService(t *testing.T) *documentServiceTest {
	t.Helper()
	return &documentServiceTest{svc: initService(t), ctx: context.Background()}
}

func createTestSpace(t *testing.T, s *documentServiceTest, name string) *spacedock.Space {
	t.Helper()

	sp := &spacedock.Space{Name: name, OwnerID: platform.ID(1)}
	require.NoError(t, s.svc.CreateSpace(s.ctx, sp))
	return sp
}

func TestDocumentService_CreateDocument(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")

	d := &spacedock.Document{
		SpaceID: sp.ID,
		Slug:    "  hello-world  ",
		Fields:  map[string]interface{}{"title": "Hello"},
	}
	require.NoError(t, s.svc.CreateDocument(s.ctx, d))

	assert.True(t, d.ID.Valid())
	assert.Equal(t, "hello-world", d.Slug)
	assert.False(t, d.CreatedAt.IsZero())

	got, err := s.svc.FindDocumentBySlug(s.ctx, sp.ID, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, "Hello", got.Fields["title"])
}

func TestDocumentService_CreateDocument_BlankSlug(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")

	err := s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "   "})
	require.Error(t, err)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(err))
}

func TestDocumentService_CreateDocument_DuplicateSlug(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")

	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "taken"}))

	// the second identical creation must conflict, not double insert
	err := s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "taken"})
	require.Error(t, err)
	assert.Equal(t, errors.EConflict, errors.ErrorCode(err))

	// a trimmed equivalent of an existing slug conflicts too
	err = s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "  taken "})
	require.Error(t, err)
	assert.Equal(t, errors.EConflict, errors.ErrorCode(err))

	docs, err := s.svc.FindDocuments(s.ctx, sp.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentService_SlugScopedToSpace(t *testing.T) {
	s := initDocumentService(t)
	sp1 := createTestSpace(t, s, "one")
	sp2 := createTestSpace(t, s, "two")

	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp1.ID, Slug: "shared"}))
	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp2.ID, Slug: "shared"}))

	d1, err := s.svc.FindDocumentBySlug(s.ctx, sp1.ID, "shared")
	require.NoError(t, err)
	d2, err := s.svc.FindDocumentBySlug(s.ctx, sp2.ID, "shared")
	require.NoError(t, err)
	assert.NotEqual(t, d1.ID, d2.ID)
}

func TestDocumentService_FindDocuments(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")
	other := createTestSpace(t, s, "other")

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: slug}))
	}
	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: other.ID, Slug: "elsewhere"}))

	docs, err := s.svc.FindDocuments(s.ctx, sp.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 5)
	for _, d := range docs {
		assert.Equal(t, sp.ID, d.SpaceID)
	}

	page0, err := s.svc.FindDocuments(s.ctx, sp.ID, spacedock.FindOptions{Limit: 3, Page: 0})
	require.NoError(t, err)
	assert.Len(t, page0, 3)

	page1, err := s.svc.FindDocuments(s.ctx, sp.ID, spacedock.FindOptions{Limit: 3, Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page5, err := s.svc.FindDocuments(s.ctx, sp.ID, spacedock.FindOptions{Limit: 3, Page: 5})
	require.NoError(t, err)
	assert.Empty(t, page5)
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")

	d := &spacedock.Document{
		SpaceID: sp.ID,
		Slug:    "draft",
		Fields:  map[string]interface{}{"title": "Draft", "state": "open"},
	}
	require.NoError(t, s.svc.CreateDocument(s.ctx, d))

	// field updates merge per key
	got, err := s.svc.UpdateDocument(s.ctx, sp.ID, d.ID, spacedock.DocumentUpdate{
		Fields: map[string]interface{}{"state": "closed"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Fields["title"])
	assert.Equal(t, "closed", got.Fields["state"])

	// applying the same patch again yields the same state
	again, err := s.svc.UpdateDocument(s.ctx, sp.ID, d.ID, spacedock.DocumentUpdate{
		Fields: map[string]interface{}{"state": "closed"},
	})
	require.NoError(t, err)
	assert.Equal(t, got.Fields, again.Fields)

	// a slug change re-indexes the document and frees the old slug
	slug := "final"
	got, err = s.svc.UpdateDocument(s.ctx, sp.ID, d.ID, spacedock.DocumentUpdate{Slug: &slug})
	require.NoError(t, err)
	assert.Equal(t, "final", got.Slug)

	_, err = s.svc.FindDocumentBySlug(s.ctx, sp.ID, "final")
	assert.NoError(t, err)
	_, err = s.svc.FindDocumentBySlug(s.ctx, sp.ID, "draft")
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "draft"}))

	// moving onto a taken slug conflicts
	taken := "draft"
	_, err = s.svc.UpdateDocument(s.ctx, sp.ID, d.ID, spacedock.DocumentUpdate{Slug: &taken})
	require.Error(t, err)
	assert.Equal(t, errors.EConflict, errors.ErrorCode(err))

	blank := "  "
	_, err = s.svc.UpdateDocument(s.ctx, sp.ID, d.ID, spacedock.DocumentUpdate{Slug: &blank})
	require.Error(t, err)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(err))

	_, err = s.svc.UpdateDocument(s.ctx, sp.ID, platform.ID(42), spacedock.DocumentUpdate{Slug: &slug})
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	s := initDocumentService(t)
	sp := createTestSpace(t, s, "notes")

	d := &spacedock.Document{SpaceID: sp.ID, Slug: "short-lived"}
	require.NoError(t, s.svc.CreateDocument(s.ctx, d))

	require.NoError(t, s.svc.DeleteDocument(s.ctx, sp.ID, d.ID))

	_, err := s.svc.FindDocumentByID(s.ctx, sp.ID, d.ID)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	// a delete frees the slug for reuse
	require.NoError(t, s.svc.CreateDocument(s.ctx, &spacedock.Document{SpaceID: sp.ID, Slug: "short-lived"}))

	err = s.svc.DeleteDocument(s.ctx, sp.ID, d.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestDocumentService_FindDocumentByID_WrongSpace(t *testing.T) {
	s := initDocumentService(t)
	sp1 := createTestSpace(t, s, "one")
	sp2 := createTestSpace(t, s, "two")

	d := &spacedock.Document{SpaceID: sp1.ID, Slug: "mine"}
	require.NoError(t, s.svc.CreateDocument(s.ctx, d))

	// a document is only addressable through its own space
	_, err := s.svc.FindDocumentByID(s.ctx, sp2.ID, d.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}
