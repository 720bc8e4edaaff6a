package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/spacedock/spacedock"
	spacehttp "github.com/spacedock/spacedock/http"
	"github.com/spacedock/spacedock/inmem"
	"github.com/spacedock/spacedock/jsonweb"
	"github.com/spacedock/spacedock/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	*httptest.Server
	svc *tenant.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zaptest.NewLogger(t)

	st, err := tenant.NewStore(inmem.NewKVStore())
	require.NoError(t, err)
	svc := tenant.NewService(st)

	handler := spacehttp.NewSpaceHandler(log, svc, svc, svc)

	r := chi.NewRouter()
	r.Get("/health", spacehttp.HealthHandler)
	r.Mount(handler.Prefix(), handler)

	ah := spacehttp.NewAuthenticationHandler(log, svc, svc, jsonweb.NewTokenParser(jsonweb.EmptyKeyStore))
	ah.RegisterNoAuthRoute("GET", "/health")
	ah.Handler = r

	ts := httptest.NewServer(ah)
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, svc: svc}
}

// seedUser creates a user together with an opaque token credential for it.
func (s *testServer) seedUser(t *testing.T, name, token string) *spacedock.User {
	t.Helper()

	ctx := context.Background()
	u := &spacedock.User{Name: name, Status: "active"}
	require.NoError(t, s.svc.CreateUser(ctx, u))
	require.NoError(t, s.svc.CreateAuthorization(ctx, &spacedock.Authorization{Token: token, UserID: u.ID}))
	return u
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *nethttp.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := nethttp.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]interface{} {
	t.Helper()

	var v map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSpaceHandler_Authentication(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "lisa", "lisas-token")

	// health needs no credential
	resp := s.do(t, "GET", "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	// everything under the api prefix does
	resp = s.do(t, "GET", "/api/v1/spaces", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/spaces", "wrong-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/spaces", "lisas-token", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestSpaceHandler_InactiveUser(t *testing.T) {
	s := newTestServer(t)

	ctx := context.Background()
	u := &spacedock.User{Name: "gone", Status: "inactive"}
	require.NoError(t, s.svc.CreateUser(ctx, u))
	require.NoError(t, s.svc.CreateAuthorization(ctx, &spacedock.Authorization{Token: "stale-token", UserID: u.ID}))

	resp := s.do(t, "GET", "/api/v1/spaces", "stale-token", nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}

func TestSpaceHandler_SpaceCRUD(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "lisa", "lisas-token")

	resp := s.do(t, "POST", "/api/v1/spaces", "lisas-token", map[string]string{"name": "  Blog  "})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	sp := decodeBody(t, resp)
	assert.Equal(t, "Blog", sp["name"])
	assert.NotEmpty(t, sp["id"])
	// the owner id is internal and never serialized
	assert.NotContains(t, sp, "ownerID")

	spaceID := sp["id"].(string)

	resp = s.do(t, "POST", "/api/v1/spaces", "lisas-token", map[string]string{"name": "   "})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/spaces/"+spaceID, "lisas-token", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Blog", decodeBody(t, resp)["name"])

	resp = s.do(t, "PUT", "/api/v1/spaces/"+spaceID, "lisas-token", map[string]string{"name": "Journal"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Journal", decodeBody(t, resp)["name"])

	resp = s.do(t, "GET", "/api/v1/spaces", "lisas-token", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	list := decodeBody(t, resp)
	assert.Len(t, list["spaces"], 1)

	resp = s.do(t, "DELETE", "/api/v1/spaces/"+spaceID, "lisas-token", nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/spaces/"+spaceID, "lisas-token", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestSpaceHandler_SpaceIsolation(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "lisa", "lisas-token")
	s.seedUser(t, "bart", "barts-token")

	resp := s.do(t, "POST", "/api/v1/spaces", "lisas-token", map[string]string{"name": "Private"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	spaceID := decodeBody(t, resp)["id"].(string)

	// someone else's space is forbidden
	resp = s.do(t, "GET", "/api/v1/spaces/"+spaceID, "barts-token", nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp = s.do(t, "DELETE", "/api/v1/spaces/"+spaceID, "barts-token", nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	// a space that does not exist is not found, malformed ids included
	resp = s.do(t, "GET", "/api/v1/spaces/00000000000000ff", "barts-token", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/spaces/not-an-id", "barts-token", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	// listings never leak foreign spaces
	resp = s.do(t, "GET", "/api/v1/spaces", "barts-token", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["spaces"])
}

func TestSpaceHandler_DocumentCRUD(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "lisa", "lisas-token")

	resp := s.do(t, "POST", "/api/v1/spaces", "lisas-token", map[string]string{"name": "Blog"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	spaceID := decodeBody(t, resp)["id"].(string)
	docs := fmt.Sprintf("/api/v1/spaces/%s/documents", spaceID)

	resp = s.do(t, "POST", docs, "lisas-token", map[string]interface{}{
		"slug":   "  first-post  ",
		"fields": map[string]interface{}{"title": "First Post"},
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	d := decodeBody(t, resp)
	assert.Equal(t, "first-post", d["slug"])
	docID := d["id"].(string)

	// duplicate slugs within the space are unprocessable
	resp = s.do(t, "POST", docs, "lisas-token", map[string]interface{}{"slug": "first-post"})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "conflict", resp.Header.Get("X-Platform-Error-Code"))

	resp = s.do(t, "POST", docs, "lisas-token", map[string]interface{}{"slug": "   "})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, "GET", docs+"/"+docID, "lisas-token", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "first-post", got["slug"])

	resp = s.do(t, "PUT", docs+"/"+docID, "lisas-token", map[string]interface{}{
		"fields": map[string]interface{}{"title": "Revised"},
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	got = decodeBody(t, resp)
	assert.Equal(t, "Revised", got["fields"].(map[string]interface{})["title"])

	resp = s.do(t, "GET", docs, "lisas-token", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody(t, resp)["documents"], 1)

	resp = s.do(t, "DELETE", docs+"/"+docID, "lisas-token", nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp = s.do(t, "GET", docs+"/"+docID, "lisas-token", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestSpaceHandler_DocumentsInheritSpaceGuard(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t, "lisa", "lisas-token")
	s.seedUser(t, "bart", "barts-token")

	resp := s.do(t, "POST", "/api/v1/spaces", "lisas-token", map[string]string{"name": "Blog"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	spaceID := decodeBody(t, resp)["id"].(string)
	docs := fmt.Sprintf("/api/v1/spaces/%s/documents", spaceID)

	resp = s.do(t, "POST", docs, "lisas-token", map[string]interface{}{"slug": "mine"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	docID := decodeBody(t, resp)["id"].(string)

	// every document route sits behind the space ownership guard
	resp = s.do(t, "GET", docs, "barts-token", nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp = s.do(t, "GET", docs+"/"+docID, "barts-token", nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	resp = s.do(t, "POST", docs, "barts-token", map[string]interface{}{"slug": "not-yours"})
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}
