package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hyphalab/authkit/pkg/logger"
	"github.com/hyphalab/authkit/pkg/sanitizer"
	"github.com/hyphalab/authkit/pkg/validator"
)

// IdentityStore defines the storage operations required for identity
// reconciliation. Email is the unique key; the store enforces uniqueness.
type IdentityStore interface {
	// GetIdentityByEmail returns ErrIdentityNotFound for unknown emails.
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	// CreateIdentity returns ErrEmailAlreadyExists when the email is taken.
	CreateIdentity(ctx context.Context, identity *Identity) error
	// UpdatePasswordHash replaces the password hash and links
	// MethodCredentials in the same write, preserving the hash/method
	// invariant under concurrent updates.
	UpdatePasswordHash(ctx context.Context, email string, hash []byte) error
	// LinkMethod adds a method label to the identity; linking an
	// already-linked method is a no-op.
	LinkMethod(ctx context.Context, email, method string) error
}

// Reconciler is the authoritative decision point for whether an
// authentication attempt may proceed, and the only place where a
// credential sign-in and a federated sign-in for the same email are
// reconciled against each other.
type Reconciler struct {
	store            IdentityStore
	hasher           Hasher
	logger           *slog.Logger
	autoLink         bool
	passwordStrength validator.PasswordStrengthConfig
}

// ReconcilerOption configures a Reconciler during construction.
type ReconcilerOption func(*Reconciler)

// WithReconcilerLogger sets a custom logger for the reconciler.
func WithReconcilerLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithSignupHasher sets the hasher used when a password is first set.
func WithSignupHasher(h Hasher) ReconcilerOption {
	return func(r *Reconciler) {
		r.hasher = h
	}
}

// WithPasswordStrength sets custom password strength requirements.
func WithPasswordStrength(config validator.PasswordStrengthConfig) ReconcilerOption {
	return func(r *Reconciler) {
		r.passwordStrength = config
	}
}

// WithoutAutoLink disables silently attaching a new OAuth provider to an
// existing passwordless identity. With auto-linking off, such attempts
// return a Conflict naming the methods already linked.
//
// Auto-linking is convenient but lets anyone who controls the email at a
// provider attach that provider to the identity; tighten it here when that
// trade-off is not acceptable.
func WithoutAutoLink() ReconcilerOption {
	return func(r *Reconciler) {
		r.autoLink = false
	}
}

// NewReconciler creates an identity reconciler backed by the given store.
func NewReconciler(store IdentityStore, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:            store,
		hasher:           NewHasher(SignupCost),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		autoLink:         true,
		passwordStrength: validator.DefaultPasswordStrength(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register creates a new credentials-owned identity for a previously-unseen
// email. Returns ErrEmailAlreadyExists when the email is taken by any
// method, validator.ValidationErrors for malformed input.
func (r *Reconciler) Register(ctx context.Context, email, password, name string) (*Identity, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.StrongPassword("password", password, r.passwordStrength),
		validator.NotCommonPassword("password", password),
		validator.MaxLen("name", name, 128),
	); err != nil {
		return nil, err
	}

	_, err := r.store.GetIdentityByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return nil, fmt.Errorf("failed to check existing identity: %w", err)
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		LinkedMethods: []string{MethodCredentials},
		CreatedAt:     time.Now(),
	}

	if err := r.store.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			// Lost the race against a concurrent registration.
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	r.logger.InfoContext(ctx, "identity registered",
		logger.IdentityID(identity.ID.String()),
		logger.Component("reconciler"),
	)

	return identity, nil
}

// AuthenticatePassword decides a credential sign-in attempt.
//
// Unknown email and wrong password both produce Deny so the caller cannot
// tell them apart. An identity owned only by OAuth methods produces
// Conflict naming those methods: the attempt already proved knowledge of
// the email, so pointing at the right sign-in path is actionable rather
// than a leak. Only infrastructure faults return a non-nil error.
func (r *Reconciler) AuthenticatePassword(ctx context.Context, email, password string) (AuthResult, error) {
	email = sanitizer.NormalizeEmail(email)

	identity, err := r.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return Deny(), nil
		}
		return Deny(), fmt.Errorf("failed to look up identity: %w", err)
	}

	if identity.PasswordHash == nil {
		return Conflict(identity.OAuthMethods()...), nil
	}

	if !r.hasher.Verify(password, identity.PasswordHash) {
		return Deny(), nil
	}

	return Allow(identity), nil
}

// AuthenticateOAuth decides a federated sign-in attempt for a profile the
// provider has already authenticated.
//
// A previously-unseen email creates a new identity owned by the provider.
// An identity that owns a password produces Conflict{credentials}: the
// mirror image of the credential-side conflict, surfaced as the same typed
// outcome. An identity owned only by other OAuth methods links the new
// provider and allows, unless auto-linking is disabled.
func (r *Reconciler) AuthenticateOAuth(ctx context.Context, provider string, profile ProviderProfile) (AuthResult, error) {
	if provider == "" || provider == MethodCredentials {
		return Deny(), fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	email := sanitizer.NormalizeEmail(profile.Email)
	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return Deny(), err
	}

	identity, err := r.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			return Deny(), fmt.Errorf("failed to look up identity: %w", err)
		}

		identity = &Identity{
			ID:            uuid.New(),
			Email:         email,
			Name:          profile.Name,
			Avatar:        profile.AvatarURL,
			LinkedMethods: []string{provider},
			CreatedAt:     time.Now(),
		}

		if err := r.store.CreateIdentity(ctx, identity); err != nil {
			if errors.Is(err, ErrEmailAlreadyExists) {
				// A concurrent attempt created the identity first; re-read
				// and reconcile against what actually exists.
				existing, err := r.store.GetIdentityByEmail(ctx, email)
				if err != nil {
					return Deny(), fmt.Errorf("failed to look up identity: %w", err)
				}
				return r.reconcileExisting(ctx, existing, provider)
			}
			return Deny(), fmt.Errorf("failed to create identity: %w", err)
		}

		r.logger.InfoContext(ctx, "identity created via oauth",
			logger.IdentityID(identity.ID.String()),
			logger.Provider(provider),
			logger.Component("reconciler"),
		)

		return Allow(identity), nil
	}

	return r.reconcileExisting(ctx, identity, provider)
}

func (r *Reconciler) reconcileExisting(ctx context.Context, identity *Identity, provider string) (AuthResult, error) {
	if identity.HasMethod(MethodCredentials) {
		return Conflict(MethodCredentials), nil
	}

	if identity.HasMethod(provider) {
		return Allow(identity), nil
	}

	if !r.autoLink {
		return Conflict(identity.LinkedMethods...), nil
	}

	if err := r.store.LinkMethod(ctx, identity.Email, provider); err != nil {
		return Deny(), fmt.Errorf("failed to link method: %w", err)
	}
	identity.LinkedMethods = append(identity.LinkedMethods, provider)

	r.logger.InfoContext(ctx, "oauth method linked",
		logger.IdentityID(identity.ID.String()),
		logger.Provider(provider),
		logger.Component("reconciler"),
	)

	return Allow(identity), nil
}
