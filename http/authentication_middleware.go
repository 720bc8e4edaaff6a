package http

import (
	"net/http"

	"github.com/spacedock/spacedock"
	platcontext "github.com/spacedock/spacedock/context"
	"github.com/spacedock/spacedock/jsonweb"
	"github.com/spacedock/spacedock/kit/platform/errors"
	kithttp "github.com/spacedock/spacedock/kit/transport/http"
	"go.uber.org/zap"
)

// AuthenticationHandler is a middleware for authenticating incoming requests.
// It resolves the caller's credential to a user and places the resulting
// authorizer on the request context; nothing downstream of it runs for an
// unauthenticated request.
type AuthenticationHandler struct {
	api *kithttp.API
	log *zap.Logger

	AuthorizationService spacedock.AuthorizationService
	UserService          spacedock.UserService
	TokenParser          *jsonweb.TokenParser

	// This is only really used for its lookup method; requests matching a
	// registered method and path skip authentication entirely.
	noAuthRoutes map[string]map[string]bool

	Handler http.Handler
}

// NewAuthenticationHandler creates an authentication handler.
func NewAuthenticationHandler(log *zap.Logger, authSvc spacedock.AuthorizationService, userSvc spacedock.UserService, parser *jsonweb.TokenParser) *AuthenticationHandler {
	return &AuthenticationHandler{
		api:                  kithttp.NewAPI(kithttp.WithLog(log)),
		log:                  log,
		AuthorizationService: authSvc,
		UserService:          userSvc,
		TokenParser:          parser,
		noAuthRoutes:         map[string]map[string]bool{},
		Handler:              http.DefaultServeMux,
	}
}

// RegisterNoAuthRoute excludes routes from needing authentication.
func (h *AuthenticationHandler) RegisterNoAuthRoute(method, path string) {
	if h.noAuthRoutes[method] == nil {
		h.noAuthRoutes[method] = map[string]bool{}
	}
	h.noAuthRoutes[method][path] = true
}

var errUnauthorized = &errors.Error{
	Code: errors.EUnauthorized,
	Msg:  "unauthorized access",
}

// ServeHTTP extracts the token from the http request, resolves it to a user
// and places the resulting authorizer on the request context.
func (h *AuthenticationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.noAuthRoutes[r.Method][r.URL.Path] {
		h.Handler.ServeHTTP(w, r)
		return
	}

	ctx := r.Context()

	t, err := GetToken(r)
	if err != nil {
		h.api.Err(w, r, errUnauthorized)
		return
	}

	var auth spacedock.Authorizer

	if isBearer(r) && h.TokenParser != nil {
		token, err := h.TokenParser.Parse(t)
		if err != nil {
			h.api.Err(w, r, errUnauthorized)
			return
		}
		auth = token
	} else {
		a, err := h.AuthorizationService.FindAuthorizationByToken(ctx, t)
		if err != nil {
			h.api.Err(w, r, errUnauthorized)
			return
		}
		auth = a
	}

	// the credential must resolve to a live user
	if err := h.isUserActive(r, auth); err != nil {
		h.api.Err(w, r, err)
		return
	}

	ctx = platcontext.SetAuthorizer(ctx, auth)

	r = r.WithContext(ctx)
	h.Handler.ServeHTTP(w, r)
}

func (h *AuthenticationHandler) isUserActive(r *http.Request, auth spacedock.Authorizer) error {
	u, err := h.UserService.FindUserByID(r.Context(), auth.GetUserID())
	if err != nil {
		return errUnauthorized
	}

	if u.Status == "inactive" {
		return &errors.Error{Code: errors.EForbidden, Msg: "user is inactive"}
	}

	return nil
}
