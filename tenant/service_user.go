package tenant

import (
	"context"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"github.com/spacedock/spacedock/kv"
)

// FindUserByID returns a single user by ID.
func (s *Service) FindUserByID(ctx context.Context, id platform.ID) (*spacedock.User, error) {
	var user *spacedock.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		u, err := s.store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}
		user = u
		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindUser returns the user matching the name.
func (s *Service) FindUser(ctx context.Context, name string) (*spacedock.User, error) {
	var user *spacedock.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		u, err := s.store.GetUserByName(ctx, tx, name)
		if err != nil {
			return err
		}
		user = u
		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUser creates a new user and sets u.ID with the new identifier.
func (s *Service) CreateUser(ctx context.Context, u *spacedock.User) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateUser(ctx, tx, u)
	})
}

// FindAuthorizationByToken returns a single authorization by Token.
func (s *Service) FindAuthorizationByToken(ctx context.Context, t string) (*spacedock.Authorization, error) {
	var auth *spacedock.Authorization
	err := s.store.View(ctx, func(tx kv.Tx) error {
		a, err := s.store.GetAuthorizationByToken(ctx, tx, t)
		if err != nil {
			return err
		}
		auth = a
		return nil
	})

	if err != nil {
		return nil, err
	}

	return auth, nil
}

// CreateAuthorization creates a new authorization and sets a.ID with the new identifier.
func (s *Service) CreateAuthorization(ctx context.Context, a *spacedock.Authorization) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateAuthorization(ctx, tx, a)
	})
}
