package tenant

import (
	"fmt"

	"github.com/spacedock/spacedock/kit/platform/errors"
)

var (
	// ErrNameisEmpty is when a name is empty after trimming.
	ErrNameisEmpty = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "name is empty",
	}

	// ErrSlugisEmpty is when a slug is empty after trimming.
	ErrSlugisEmpty = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "slug is empty",
	}

	// ErrTokenisEmpty is when an authorization token is empty.
	ErrTokenisEmpty = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "token is empty",
	}

	// ErrSpaceNotFound is used when the space is not found.
	ErrSpaceNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "space not found",
	}

	// ErrDocumentNotFound is used when the document is not found.
	ErrDocumentNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "document not found",
	}

	// ErrUserNotFound is used when the user is not found.
	ErrUserNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "user not found",
	}

	// ErrAuthNotFound is used when the authorization is not found.
	ErrAuthNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "authorization not found",
	}

	// NotUniqueIDError is used when attempting to create a resource under an
	// ID that already exists.
	NotUniqueIDError = &errors.Error{
		Code: errors.EConflict,
		Msg:  "ID already exists",
	}

	// ErrFailureGeneratingID occurs only when the random number generator
	// cannot generate an ID in MaxIDGenerationN times.
	ErrFailureGeneratingID = &errors.Error{
		Code: errors.EInternal,
		Msg:  "unable to generate valid id",
	}
)

// DocumentAlreadyExistsError is used when creating a document with a slug that
// is already taken within the space.
func DocumentAlreadyExistsError(slug string) error {
	return &errors.Error{
		Code: errors.EConflict,
		Msg:  fmt.Sprintf("document with slug %q already exists", slug),
	}
}

// UserAlreadyExistsError is used when creating a user with a name
// that already exists.
func UserAlreadyExistsError(n string) error {
	return &errors.Error{
		Code: errors.EConflict,
		Msg:  fmt.Sprintf("user with name %s already exists", n),
	}
}

// UnexpectedSpaceError is used when the error comes from an internal system.
func UnexpectedSpaceError(err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "unexpected error retrieving space",
		Err:  err,
	}
}

// ErrCorruptSpace is used when the space cannot be unmarshalled from the bytes
// stored in the kv.
func ErrCorruptSpace(err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "space could not be unmarshalled",
		Err:  err,
		Op:   "tenant.unmarshalSpace",
	}
}

// ErrUnprocessableSpace is used when a space is not able to be processed.
func ErrUnprocessableSpace(err error) error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  "space could not be marshalled",
		Err:  err,
		Op:   "tenant.marshalSpace",
	}
}

// ErrCorruptDocument is used when the document cannot be unmarshalled from the
// bytes stored in the kv.
func ErrCorruptDocument(err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "document could not be unmarshalled",
		Err:  err,
		Op:   "tenant.unmarshalDocument",
	}
}

// ErrUnprocessableDocument is used when a document is not able to be processed.
func ErrUnprocessableDocument(err error) error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  "document could not be marshalled",
		Err:  err,
		Op:   "tenant.marshalDocument",
	}
}

// ErrCorruptUser is used when the user cannot be unmarshalled from the bytes
// stored in the kv.
func ErrCorruptUser(err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "user could not be unmarshalled",
		Err:  err,
		Op:   "tenant.unmarshalUser",
	}
}

// ErrInternalServiceError is used when the error comes from an internal system.
func ErrInternalServiceError(err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Err:  err,
	}
}
