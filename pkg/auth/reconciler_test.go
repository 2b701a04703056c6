package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyphalab/authkit/pkg/validator"
)

func fastReconciler(store IdentityStore, opts ...ReconcilerOption) *Reconciler {
	opts = append([]ReconcilerOption{WithSignupHasher(NewHasher(bcrypt.MinCost))}, opts...)
	return NewReconciler(store, opts...)
}

func TestReconcilerRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates credentials identity", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(nil, ErrIdentityNotFound)
		store.On("CreateIdentity", ctx, mock.AnythingOfType("*auth.Identity")).Return(nil)

		r := fastReconciler(store)
		identity, err := r.Register(ctx, "  User@Example.COM ", "SuperSecret1", "Ada")
		require.NoError(t, err)

		assert.Equal(t, "user@example.com", identity.Email)
		assert.Equal(t, "Ada", identity.Name)
		assert.Equal(t, []string{MethodCredentials}, identity.LinkedMethods)
		assert.NotEqual(t, uuid.Nil, identity.ID)
		assert.True(t, NewHasher(bcrypt.MinCost).Verify("SuperSecret1", identity.PasswordHash))
		store.AssertExpectations(t)
	})

	t.Run("taken email", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").
			Return(&Identity{Email: "user@example.com"}, nil)

		r := fastReconciler(store)
		_, err := r.Register(ctx, "user@example.com", "SuperSecret1", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		store.AssertExpectations(t)
	})

	t.Run("lost creation race", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(nil, ErrIdentityNotFound)
		store.On("CreateIdentity", ctx, mock.AnythingOfType("*auth.Identity")).Return(ErrEmailAlreadyExists)

		r := fastReconciler(store)
		_, err := r.Register(ctx, "user@example.com", "SuperSecret1", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		store.AssertExpectations(t)
	})

	t.Run("rejects malformed input before touching the store", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		r := fastReconciler(store)

		_, err := r.Register(ctx, "not-an-email", "SuperSecret1", "")
		assert.True(t, validator.IsValidationError(err))

		_, err = r.Register(ctx, "user@example.com", "short", "")
		assert.True(t, validator.IsValidationError(err))

		_, err = r.Register(ctx, "user@example.com", "password123", "")
		assert.True(t, validator.IsValidationError(err))

		store.AssertExpectations(t)
	})
}

func TestReconcilerAuthenticatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hasher := NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("SuperSecret1")
	require.NoError(t, err)

	t.Run("unknown email denies", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "ghost@example.com").Return(nil, ErrIdentityNotFound)

		r := fastReconciler(store)
		result, err := r.AuthenticatePassword(ctx, "ghost@example.com", "whatever")
		require.NoError(t, err)
		assert.True(t, result.Denied())
		store.AssertExpectations(t)
	})

	t.Run("wrong password denies identically", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			PasswordHash:  hash,
			LinkedMethods: []string{MethodCredentials},
		}, nil)

		r := fastReconciler(store)
		result, err := r.AuthenticatePassword(ctx, "user@example.com", "WrongSecret1")
		require.NoError(t, err)
		assert.Equal(t, Deny(), result)
		store.AssertExpectations(t)
	})

	t.Run("passwordless identity conflicts naming its providers", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			LinkedMethods: []string{MethodGoogle},
		}, nil)

		r := fastReconciler(store)
		result, err := r.AuthenticatePassword(ctx, "user@example.com", "SuperSecret1")
		require.NoError(t, err)
		assert.True(t, result.Conflicted())
		assert.Equal(t, []string{MethodGoogle}, result.OwningMethods())
		store.AssertExpectations(t)
	})

	t.Run("correct password allows", func(t *testing.T) {
		t.Parallel()

		identity := &Identity{
			ID:            uuid.New(),
			Email:         "user@example.com",
			PasswordHash:  hash,
			LinkedMethods: []string{MethodCredentials},
		}
		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(identity, nil)

		r := fastReconciler(store)
		result, err := r.AuthenticatePassword(ctx, "  User@example.com ", "SuperSecret1")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
		assert.Same(t, identity, result.Identity())
		store.AssertExpectations(t)
	})

	t.Run("store failure surfaces as error with deny", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(nil, errors.New("connection refused"))

		r := fastReconciler(store)
		result, err := r.AuthenticatePassword(ctx, "user@example.com", "SuperSecret1")
		require.Error(t, err)
		assert.True(t, result.Denied())
		store.AssertExpectations(t)
	})
}

func TestReconcilerAuthenticateOAuth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	profile := ProviderProfile{
		ProviderUserID: "12345",
		Email:          "user@example.com",
		EmailVerified:  true,
		Name:           "Ada",
		AvatarURL:      "https://example.com/a.png",
	}

	t.Run("rejects unusable provider labels", func(t *testing.T) {
		t.Parallel()

		r := fastReconciler(new(MockIdentityStore))

		result, err := r.AuthenticateOAuth(ctx, "", profile)
		assert.ErrorIs(t, err, ErrUnknownProvider)
		assert.True(t, result.Denied())

		result, err = r.AuthenticateOAuth(ctx, MethodCredentials, profile)
		assert.ErrorIs(t, err, ErrUnknownProvider)
		assert.True(t, result.Denied())
	})

	t.Run("unseen email creates identity and allows", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(nil, ErrIdentityNotFound)
		store.On("CreateIdentity", ctx, mock.MatchedBy(func(i *Identity) bool {
			return i.Email == "user@example.com" &&
				i.PasswordHash == nil &&
				len(i.LinkedMethods) == 1 && i.LinkedMethods[0] == MethodGoogle
		})).Return(nil)

		r := fastReconciler(store)
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Allowed())
		assert.Equal(t, "Ada", result.Identity().Name)
		store.AssertExpectations(t)
	})

	t.Run("credentials-owned identity conflicts", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			PasswordHash:  []byte("hash"),
			LinkedMethods: []string{MethodCredentials},
		}, nil)

		r := fastReconciler(store)
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Conflicted())
		assert.Equal(t, []string{MethodCredentials}, result.OwningMethods())
		store.AssertExpectations(t)
	})

	t.Run("already-linked provider allows", func(t *testing.T) {
		t.Parallel()

		identity := &Identity{
			Email:         "user@example.com",
			LinkedMethods: []string{MethodGoogle},
		}
		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(identity, nil)

		r := fastReconciler(store)
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Allowed())
		assert.Same(t, identity, result.Identity())
		store.AssertExpectations(t)
	})

	t.Run("new provider auto-links to passwordless identity", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			LinkedMethods: []string{MethodGithub},
		}, nil)
		store.On("LinkMethod", ctx, "user@example.com", MethodGoogle).Return(nil)

		r := fastReconciler(store)
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Allowed())
		assert.Equal(t, []string{MethodGithub, MethodGoogle}, result.Identity().LinkedMethods)
		store.AssertExpectations(t)
	})

	t.Run("auto-link disabled conflicts with linked methods", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			LinkedMethods: []string{MethodGithub},
		}, nil)

		r := fastReconciler(store, WithoutAutoLink())
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Conflicted())
		assert.Equal(t, []string{MethodGithub}, result.OwningMethods())
		store.AssertExpectations(t)
	})

	t.Run("lost creation race reconciles against winner", func(t *testing.T) {
		t.Parallel()

		store := new(MockIdentityStore)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(nil, ErrIdentityNotFound).Once()
		store.On("CreateIdentity", ctx, mock.AnythingOfType("*auth.Identity")).Return(ErrEmailAlreadyExists)
		store.On("GetIdentityByEmail", ctx, "user@example.com").Return(&Identity{
			Email:         "user@example.com",
			PasswordHash:  []byte("hash"),
			LinkedMethods: []string{MethodCredentials},
		}, nil).Once()

		r := fastReconciler(store)
		result, err := r.AuthenticateOAuth(ctx, MethodGoogle, profile)
		require.NoError(t, err)
		assert.True(t, result.Conflicted())
		assert.Equal(t, []string{MethodCredentials}, result.OwningMethods())
		store.AssertExpectations(t)
	})
}
