package context

import (
	"context"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kit/platform/errors"
)

type contextKey string

const (
	authorizerCtxKey contextKey = "spacedock/authorizer/v1"
	spaceCtxKey      contextKey = "spacedock/space/v1"
	schemaCtxKey     contextKey = "spacedock/schema/v1"
	documentCtxKey   contextKey = "spacedock/document/v1"
)

// SetAuthorizer sets an authorizer on context.
func SetAuthorizer(ctx context.Context, a spacedock.Authorizer) context.Context {
	return context.WithValue(ctx, authorizerCtxKey, a)
}

// GetAuthorizer retrieves an authorizer from context. Access before the
// authentication stage has run is a checked failure, not a nil dereference.
func GetAuthorizer(ctx context.Context) (spacedock.Authorizer, error) {
	a, ok := ctx.Value(authorizerCtxKey).(spacedock.Authorizer)
	if !ok {
		return nil, &errors.Error{
			Msg:  "authorizer not found on context",
			Code: errors.EInternal,
		}
	}

	return a, nil
}

// GetUserID retrieves the user ID from the authorizer on context.
func GetUserID(ctx context.Context) (platform.ID, error) {
	a, err := GetAuthorizer(ctx)
	if err != nil {
		return 0, err
	}
	return a.GetUserID(), nil
}

// SetSpace sets the loaded space on context.
func SetSpace(ctx context.Context, sp *spacedock.Space) context.Context {
	return context.WithValue(ctx, spaceCtxKey, sp)
}

// GetSpace retrieves the loaded space from context. It errs when the space
// loading stage has not run.
func GetSpace(ctx context.Context) (*spacedock.Space, error) {
	sp, ok := ctx.Value(spaceCtxKey).(*spacedock.Space)
	if !ok {
		return nil, &errors.Error{
			Msg:  "space not found on context",
			Code: errors.EInternal,
		}
	}

	return sp, nil
}

// SetSchema sets the loaded schema on context.
func SetSchema(ctx context.Context, sc *spacedock.Schema) context.Context {
	return context.WithValue(ctx, schemaCtxKey, sc)
}

// GetSchema retrieves the loaded schema from context.
func GetSchema(ctx context.Context) (*spacedock.Schema, error) {
	sc, ok := ctx.Value(schemaCtxKey).(*spacedock.Schema)
	if !ok {
		return nil, &errors.Error{
			Msg:  "schema not found on context",
			Code: errors.EInternal,
		}
	}

	return sc, nil
}

// SetDocument sets the loaded document on context.
func SetDocument(ctx context.Context, d *spacedock.Document) context.Context {
	return context.WithValue(ctx, documentCtxKey, d)
}

// GetDocument retrieves the loaded document from context. It errs when the
// document loading stage has not run.
func GetDocument(ctx context.Context) (*spacedock.Document, error) {
	d, ok := ctx.Value(documentCtxKey).(*spacedock.Document)
	if !ok {
		return nil, &errors.Error{
			Msg:  "document not found on context",
			Code: errors.EInternal,
		}
	}

	return d, nil
}
