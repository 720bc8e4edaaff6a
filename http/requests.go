package http

import (
	"net/http"
	"strings"

	"github.com/spacedock/spacedock/kit/platform/errors"
)

const (
	tokenScheme  = "Token "
	bearerScheme = "Bearer "
)

// ErrAuthHeaderMissing is returned when the Authorization header is not present.
var ErrAuthHeaderMissing = &errors.Error{
	Code: errors.EUnauthorized,
	Msg:  "authorization header missing",
}

// GetToken returns the opaque token from the Authorization header. It accepts
// both the Token and Bearer schemes; scheme differentiation is the
// authentication handler's concern.
func GetToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrAuthHeaderMissing
	}
	if len(header) >= len(tokenScheme) && strings.EqualFold(header[:len(tokenScheme)], tokenScheme) {
		return header[len(tokenScheme):], nil
	}
	if len(header) >= len(bearerScheme) && strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return header[len(bearerScheme):], nil
	}
	return "", &errors.Error{
		Code: errors.EUnauthorized,
		Msg:  "unsupported authorization scheme",
	}
}

// isBearer reports whether the Authorization header carries a Bearer token.
func isBearer(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	return len(header) >= len(bearerScheme) && strings.EqualFold(header[:len(bearerScheme)], bearerScheme)
}
