package auth

import (
	"context"

	"github.com/hyphalab/authkit/pkg/token"
)

// ProviderAdapter abstracts one OAuth provider behind the two operations
// the auth flow needs: building the authorization URL and turning a
// callback code into a normalized profile. Everything provider-specific
// (endpoints, profile APIs, email verification quirks) stays behind this
// interface.
type ProviderAdapter interface {
	// Provider returns the method label the adapter authenticates,
	// e.g. MethodGithub.
	Provider() string
	// AuthURL builds the provider authorization URL carrying the CSRF
	// state token.
	AuthURL(state string) string
	// ResolveProfile exchanges the authorization code and fetches the
	// provider profile. Exchange failures surface as ErrInvalidCode.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// GenerateState returns a fresh CSRF state token for an OAuth round-trip.
func GenerateState() (string, error) {
	return token.Generate()
}
