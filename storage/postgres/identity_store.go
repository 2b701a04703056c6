package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyphalab/authkit/pkg/auth"
	"github.com/hyphalab/authkit/pkg/pg"
)

// IdentityStore implements auth.IdentityStore over PostgreSQL. Email
// uniqueness is enforced by the schema, so concurrent creations for the
// same email surface as auth.ErrEmailAlreadyExists.
type IdentityStore struct {
	pool *pgxpool.Pool
}

// NewIdentityStore creates an identity store on the given pool. The pool
// is owned by the caller.
func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

const getIdentityByEmailQuery = `
SELECT id, email, name, avatar, password_hash, linked_methods, created_at
FROM identities
WHERE email = $1`

func (s *IdentityStore) GetIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	var identity auth.Identity
	err := s.pool.QueryRow(ctx, getIdentityByEmailQuery, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.Avatar,
		&identity.PasswordHash,
		&identity.LinkedMethods,
		&identity.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("get identity by email: %w", err)
	}
	return &identity, nil
}

const createIdentityQuery = `
INSERT INTO identities (id, email, name, avatar, password_hash, linked_methods, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *IdentityStore) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	_, err := s.pool.Exec(ctx, createIdentityQuery,
		identity.ID,
		identity.Email,
		identity.Name,
		identity.Avatar,
		identity.PasswordHash,
		identity.LinkedMethods,
		identity.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

// updatePasswordHashQuery links the credentials method in the same UPDATE
// that writes the hash, so the hash/method invariant holds even under
// concurrent writers.
const updatePasswordHashQuery = `
UPDATE identities
SET password_hash = $2,
    linked_methods = CASE
        WHEN $3 = ANY(linked_methods) THEN linked_methods
        ELSE array_append(linked_methods, $3)
    END
WHERE email = $1`

func (s *IdentityStore) UpdatePasswordHash(ctx context.Context, email string, hash []byte) error {
	tag, err := s.pool.Exec(ctx, updatePasswordHashQuery, email, hash, auth.MethodCredentials)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}

const linkMethodQuery = `
UPDATE identities
SET linked_methods = CASE
        WHEN $2 = ANY(linked_methods) THEN linked_methods
        ELSE array_append(linked_methods, $2)
    END
WHERE email = $1`

func (s *IdentityStore) LinkMethod(ctx context.Context, email, method string) error {
	tag, err := s.pool.Exec(ctx, linkMethodQuery, email, method)
	if err != nil {
		return fmt.Errorf("link method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}

var _ auth.IdentityStore = (*IdentityStore)(nil)
