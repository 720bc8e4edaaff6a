package jsonweb

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spacedock/spacedock/kit/platform"
	platerrors "github.com/spacedock/spacedock/kit/platform/errors"
)

const kind = "jwt"

var (
	// ErrKeyNotFound should be returned by a KeyStore when
	// a key cannot be located for the provided key ID
	ErrKeyNotFound = errors.New("key not found")

	// EmptyKeyStore is a KeyStore implementation which contains no keys
	EmptyKeyStore = KeyStoreFunc(func(string) ([]byte, error) {
		return nil, ErrKeyNotFound
	})
)

// KeyStore is a type which holds a set of keys accessed
// via an id
type KeyStore interface {
	Key(string) ([]byte, error)
}

// KeyStoreFunc is a function which can be used as a KeyStore
type KeyStoreFunc func(string) ([]byte, error)

// Key delegates to the receiver function
func (k KeyStoreFunc) Key(v string) ([]byte, error) { return k(v) }

// TokenParser is a type which can parse and validate tokens
type TokenParser struct {
	keyStore KeyStore
	parser   *jwt.Parser
}

// NewTokenParser returns a configured token parser used to
// parse Token types from strings
func NewTokenParser(keyStore KeyStore) *TokenParser {
	return &TokenParser{
		keyStore: keyStore,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS512"}),
		),
	}
}

// Parse returns a token given a signed jwt string
func (t *TokenParser) Parse(v string) (*Token, error) {
	jwt, err := t.parser.ParseWithClaims(v, &Token{}, func(jwt *jwt.Token) (interface{}, error) {
		kid, ok := jwt.Header["kid"].(string)
		if !ok {
			return nil, errors.New("missing kid in token header")
		}

		return t.keyStore.Key(kid)
	})
	if err != nil {
		return nil, &platerrors.Error{
			Code: platerrors.EUnauthorized,
			Msg:  "unauthorized access",
			Err:  err,
		}
	}

	token, ok := jwt.Claims.(*Token)
	if !ok {
		return nil, errors.New("token is unexpected type")
	}

	return token, nil
}

// IsMalformedError returns true if the error returned represents
// a jwt malformed token error
func IsMalformedError(err error) bool {
	var verr *jwt.ValidationError
	return errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorMalformed > 0
}

// Token is a structure which is serialized as a json web token
// It contains the user the token is bound to.
type Token struct {
	jwt.RegisteredClaims

	// KID is the identifier of the key used to sign the token
	KID string `json:"kid"`
	// UserID is the hex encoded ID of the user the token acts on behalf of
	UserID string `json:"userID"`
}

// Kind returns the kind of the authorizer.
func (t *Token) Kind() string { return kind }

// GetUserID returns the user ID of the token, zero when the
// claim is missing or corrupt.
func (t *Token) GetUserID() platform.ID {
	id, err := platform.IDFromString(t.UserID)
	if err != nil {
		return platform.InvalidID()
	}
	return *id
}
