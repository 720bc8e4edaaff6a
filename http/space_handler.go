package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/spacedock/spacedock"
	platcontext "github.com/spacedock/spacedock/context"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kit/platform/errors"
	kithttp "github.com/spacedock/spacedock/kit/transport/http"
	"github.com/spacedock/spacedock/tenant"
	"go.uber.org/zap"
)

// PrefixSpaces is the mount point of the space handler.
const PrefixSpaces = "/api/v1/spaces"

// SpaceHandler serves the space routes and the document routes nested under
// them. The pipeline for every route is declared by the router: the
// authentication handler upstream, then requireSpaceAccess, then
// requireDocument, then the terminal handler. Each stage halts the request by
// writing a response and not calling further into the chain.
type SpaceHandler struct {
	chi.Router
	api *kithttp.API
	log *zap.Logger

	spaceService    spacedock.SpaceService
	documentService spacedock.DocumentService
	schemaService   spacedock.SchemaService
}

// NewSpaceHandler constructs a new http handler for spaces and their documents.
func NewSpaceHandler(log *zap.Logger, spaceSvc spacedock.SpaceService, docSvc spacedock.DocumentService, schemaSvc spacedock.SchemaService) *SpaceHandler {
	h := &SpaceHandler{
		api:             kithttp.NewAPI(kithttp.WithLog(log)),
		log:             log,
		spaceService:    spaceSvc,
		documentService: docSvc,
		schemaService:   schemaSvc,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		middleware.StripSlashes,
	)

	r.Route("/", func(r chi.Router) {
		r.Get("/", h.handleGetSpaces)
		r.Post("/", h.handlePostSpace)

		r.Route("/{spaceid}", func(r chi.Router) {
			r.Use(h.requireSpaceAccess)
			r.Get("/", h.handleGetSpace)
			r.Put("/", h.handlePutSpace)
			r.Delete("/", h.handleDeleteSpace)

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.handleGetDocuments)
				r.Post("/", h.handlePostDocument)

				r.Route("/{docid}", func(r chi.Router) {
					r.Use(h.requireDocument)
					r.Get("/", h.handleGetDocument)
					r.Put("/", h.handlePutDocument)
					r.Delete("/", h.handleDeleteDocument)
				})
			})
		})
	})

	h.Router = r
	return h
}

// Prefix returns the mount point of the handler.
func (h *SpaceHandler) Prefix() string {
	return PrefixSpaces
}

var errSpaceAccessForbidden = &errors.Error{
	Code: errors.EForbidden,
	Msg:  "space access forbidden",
}

// requireSpaceAccess loads the space named in the URL together with its
// schema and verifies the authenticated caller owns it. Resolution failures
// surface as not found before the ownership guard runs, so cross tenant ids
// are indistinguishable from nonexistent ones.
func (h *SpaceHandler) requireSpaceAccess(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := platcontext.GetUserID(ctx)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}

		id, err := platform.IDFromString(chi.URLParam(r, "spaceid"))
		if err != nil {
			h.api.Err(w, r, tenant.ErrSpaceNotFound)
			return
		}

		sp, err := h.spaceService.FindSpaceByID(ctx, *id)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}

		if sp.OwnerID != userID {
			h.api.Err(w, r, errSpaceAccessForbidden)
			return
		}

		sc, err := h.schemaService.FindSchemaBySpaceID(ctx, sp.ID)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}

		ctx = platcontext.SetSpace(ctx, sp)
		ctx = platcontext.SetSchema(ctx, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

// requireDocument loads the document named in the URL from the already
// authorized space on context.
func (h *SpaceHandler) requireDocument(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sp, err := platcontext.GetSpace(ctx)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}

		id, err := platform.IDFromString(chi.URLParam(r, "docid"))
		if err != nil {
			h.api.Err(w, r, tenant.ErrDocumentNotFound)
			return
		}

		d, err := h.documentService.FindDocumentByID(ctx, sp.ID, *id)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}

		ctx = platcontext.SetDocument(ctx, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

// spaceResponse is the caller visible representation of a space. The owner id
// is internal bookkeeping and stripped.
type spaceResponse struct {
	ID        platform.ID `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func newSpaceResponse(sp *spacedock.Space) spaceResponse {
	return spaceResponse{
		ID:        sp.ID,
		Name:      sp.Name,
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
}

type spacesResponse struct {
	Spaces []spaceResponse `json:"spaces"`
}

func newSpacesResponse(sps []*spacedock.Space) spacesResponse {
	rs := spacesResponse{
		Spaces: make([]spaceResponse, 0, len(sps)),
	}
	for _, sp := range sps {
		rs.Spaces = append(rs.Spaces, newSpaceResponse(sp))
	}
	return rs
}

// documentResponse is the caller visible representation of a document. The
// space id is implied by the route and stripped.
type documentResponse struct {
	ID        platform.ID            `json:"id"`
	Slug      string                 `json:"slug"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func newDocumentResponse(d *spacedock.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Slug:      d.Slug,
		Fields:    d.Fields,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type documentsResponse struct {
	Documents []documentResponse `json:"documents"`
}

func newDocumentsResponse(docs []*spacedock.Document) documentsResponse {
	rs := documentsResponse{
		Documents: make([]documentResponse, 0, len(docs)),
	}
	for _, d := range docs {
		rs.Documents = append(rs.Documents, newDocumentResponse(d))
	}
	return rs
}

func (h *SpaceHandler) handleGetSpaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := platcontext.GetUserID(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	opts := decodeFindOptions(r)
	sps, err := h.spaceService.FindSpaces(ctx, userID, opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newSpacesResponse(sps))
}

type postSpaceRequest struct {
	Name string `json:"name"`
}

func (h *SpaceHandler) handlePostSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := platcontext.GetUserID(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var req postSpaceRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	sp := &spacedock.Space{
		Name:    req.Name,
		OwnerID: userID,
	}
	if err := h.spaceService.CreateSpace(ctx, sp); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, newSpaceResponse(sp))
}

func (h *SpaceHandler) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	sp, err := platcontext.GetSpace(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newSpaceResponse(sp))
}

type putSpaceRequest struct {
	Name *string `json:"name"`
}

func (h *SpaceHandler) handlePutSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var req putSpaceRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	if req.Name == nil {
		h.api.Err(w, r, tenant.ErrNameisEmpty)
		return
	}

	updated, err := h.spaceService.UpdateSpace(ctx, sp.ID, spacedock.SpaceUpdate{Name: req.Name})
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newSpaceResponse(updated))
}

func (h *SpaceHandler) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.spaceService.DeleteSpace(ctx, sp.ID); err != nil {
		h.api.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SpaceHandler) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	opts := decodeFindOptions(r)
	docs, err := h.documentService.FindDocuments(ctx, sp.ID, opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newDocumentsResponse(docs))
}

type postDocumentRequest struct {
	Slug   string                 `json:"slug"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

func (h *SpaceHandler) handlePostDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var req postDocumentRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	// Fast path for the common duplicate; the create below re-checks inside
	// its update transaction, so a concurrent winner still surfaces as a
	// conflict rather than a double insert.
	if _, err := h.documentService.FindDocumentBySlug(ctx, sp.ID, req.Slug); err == nil {
		h.api.Err(w, r, tenant.DocumentAlreadyExistsError(req.Slug))
		return
	}

	// TODO: validate req.Fields against the schema on context once field
	// validation lands.

	d := &spacedock.Document{
		SpaceID: sp.ID,
		Slug:    req.Slug,
		Fields:  req.Fields,
	}
	if err := h.documentService.CreateDocument(ctx, d); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, newDocumentResponse(d))
}

func (h *SpaceHandler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := platcontext.GetDocument(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newDocumentResponse(d))
}

type putDocumentRequest struct {
	Slug   *string                `json:"slug"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

func (h *SpaceHandler) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	d, err := platcontext.GetDocument(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var req putDocumentRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	if req.Slug == nil && req.Fields == nil {
		h.api.Err(w, r, tenant.ErrSlugisEmpty)
		return
	}

	updated, err := h.documentService.UpdateDocument(ctx, sp.ID, d.ID, spacedock.DocumentUpdate{
		Slug:   req.Slug,
		Fields: req.Fields,
	})
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, newDocumentResponse(updated))
}

func (h *SpaceHandler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := platcontext.GetSpace(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	d, err := platcontext.GetDocument(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.documentService.DeleteDocument(ctx, sp.ID, d.ID); err != nil {
		h.api.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
