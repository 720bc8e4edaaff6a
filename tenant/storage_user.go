package tenant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
)

var (
	userBucket = []byte("usersv1")
	userIndex  = []byte("userindexv1")

	authBucket = []byte("authorizationsv1")
	authIndex  = []byte("authorizationindexv1")
)

func userIndexKey(n string) ([]byte, error) {
	n = strings.TrimSpace(n)
	if n == "" {
		return nil, ErrNameisEmpty
	}
	return []byte(n), nil
}

func unmarshalUser(v []byte) (*spacedock.User, error) {
	u := &spacedock.User{}
	if err := json.Unmarshal(v, u); err != nil {
		return nil, ErrCorruptUser(err)
	}

	return u, nil
}

func marshalUser(u *spacedock.User) ([]byte, error) {
	v, err := json.Marshal(u)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return v, nil
}

func (s *Store) uniqueUserName(ctx context.Context, tx kv.Tx, uname string) error {
	key, err := userIndexKey(uname)
	if err != nil {
		return err
	}

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	_, err = idx.Get(key)
	// if not found then this is  _unique_.
	if kv.IsNotFound(err) {
		return nil
	}

	// no error means this is not unique
	if err == nil {
		return UserAlreadyExistsError(uname)
	}

	// any other error is some sort of internal server error
	return ErrInternalServiceError(err)
}

// GetUser returns the user record for id.
func (s *Store) GetUser(ctx context.Context, tx kv.Tx, id platform.ID) (*spacedock.User, error) {
	encodedID, err := id.Encode()
	if err != nil {
		return nil, ErrUserNotFound
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalUser(v)
}

// GetUserByName resolves name through the user index.
func (s *Store) GetUserByName(ctx context.Context, tx kv.Tx, n string) (*spacedock.User, error) {
	key, err := userIndexKey(n)
	if err != nil {
		return nil, err
	}

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	uid, err := idx.Get(key)
	if kv.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	var id platform.ID
	if err := id.Decode(uid); err != nil {
		return nil, platform.ErrCorruptID(err)
	}
	return s.GetUser(ctx, tx, id)
}

// CreateUser assigns a fresh id to u and persists it together with its name
// index entry. Names are unique across users.
func (s *Store) CreateUser(ctx context.Context, tx kv.Tx, u *spacedock.User) (err error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return ErrNameisEmpty
	}

	u.ID, err = s.generateSafeID(ctx, tx, userBucket, s.UserIDGen)
	if err != nil {
		return err
	}

	encodedID, err := u.ID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	if err := s.uniqueUserName(ctx, tx, u.Name); err != nil {
		return err
	}

	u.SetCreatedAt(s.now())
	u.SetUpdatedAt(s.now())

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	v, err := marshalUser(u)
	if err != nil {
		return err
	}

	ik, err := userIndexKey(u.Name)
	if err != nil {
		return err
	}

	if err := idx.Put(ik, encodedID); err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Put(encodedID, v); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}

// GetAuthorizationByToken resolves the opaque token through the token index.
func (s *Store) GetAuthorizationByToken(ctx context.Context, tx kv.Tx, token string) (*spacedock.Authorization, error) {
	if token == "" {
		return nil, ErrAuthNotFound
	}

	idx, err := tx.Bucket(authIndex)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	aid, err := idx.Get([]byte(token))
	if kv.IsNotFound(err) {
		return nil, ErrAuthNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(authBucket)
	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	v, err := b.Get(aid)
	if kv.IsNotFound(err) {
		return nil, ErrAuthNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	a := &spacedock.Authorization{}
	if err := json.Unmarshal(v, a); err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return a, nil
}

// CreateAuthorization assigns a fresh id to a and persists it together with
// its token index entry.
func (s *Store) CreateAuthorization(ctx context.Context, tx kv.Tx, a *spacedock.Authorization) (err error) {
	if a.Token == "" {
		return ErrTokenisEmpty
	}

	if !a.UserID.Valid() {
		return platform.ErrInvalidID
	}

	a.ID, err = s.generateSafeID(ctx, tx, authBucket, s.AuthIDGen)
	if err != nil {
		return err
	}

	encodedID, err := a.ID.Encode()
	if err != nil {
		return platform.ErrInvalidID
	}

	a.SetCreatedAt(s.now())
	a.SetUpdatedAt(s.now())

	v, err := json.Marshal(a)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	idx, err := tx.Bucket(authIndex)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	b, err := tx.Bucket(authBucket)
	if err != nil {
		return ErrInternalServiceError(err)
	}

	if err := idx.Put([]byte(a.Token), encodedID); err != nil {
		return ErrInternalServiceError(err)
	}

	if err := b.Put(encodedID, v); err != nil {
		return ErrInternalServiceError(err)
	}

	return nil
}
