package auth

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Method labels recording how an identity may authenticate. The label set of
// an identity is the authoritative answer to "which sign-in paths own this
// email".
const (
	MethodCredentials = "credentials"
	MethodGithub      = "github"
	MethodGoogle      = "google"
)

// Identity is the durable record joining an email address to its
// authentication methods.
//
// Invariant: PasswordHash is non-nil exactly when MethodCredentials is among
// LinkedMethods. Stores enforce this by linking the method inside
// UpdatePasswordHash rather than trusting callers to do both writes.
type Identity struct {
	ID            uuid.UUID
	Email         string
	Name          string
	Avatar        string
	PasswordHash  []byte // nil when the identity has no credentials method
	LinkedMethods []string
	CreatedAt     time.Time
}

// HasMethod reports whether the method label is linked to this identity.
func (i *Identity) HasMethod(method string) bool {
	return slices.Contains(i.LinkedMethods, method)
}

// OAuthMethods returns the linked method labels excluding credentials,
// preserving the stored order.
func (i *Identity) OAuthMethods() []string {
	methods := make([]string, 0, len(i.LinkedMethods))
	for _, m := range i.LinkedMethods {
		if m != MethodCredentials {
			methods = append(methods, m)
		}
	}
	return methods
}

// ProviderProfile is the normalized user profile returned by an OAuth
// provider adapter after a successful code exchange.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}
