package account

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hyphalab/authkit/pkg/auth"
)

// MockAuthenticator is a mock implementation of Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Register(ctx context.Context, email, password, name string) (*auth.Identity, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

func (m *MockAuthenticator) AuthenticatePassword(ctx context.Context, email, password string) (auth.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.AuthResult), args.Error(1)
}

func (m *MockAuthenticator) AuthenticateOAuth(ctx context.Context, provider string, profile auth.ProviderProfile) (auth.AuthResult, error) {
	args := m.Called(ctx, provider, profile)
	return args.Get(0).(auth.AuthResult), args.Error(1)
}

// MockResetter is a mock implementation of PasswordResetter.
type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) RequestReset(ctx context.Context, email string) (*auth.PasswordResetRequest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.PasswordResetRequest), args.Error(1)
}

func (m *MockResetter) ConfirmReset(ctx context.Context, token, newPassword string) (*auth.Identity, error) {
	args := m.Called(ctx, token, newPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

// MockSessionMinter is a mock implementation of SessionMinter.
type MockSessionMinter struct {
	mock.Mock
}

func (m *MockSessionMinter) Issue(result auth.AuthResult) (string, error) {
	args := m.Called(result)
	return args.String(0), args.Error(1)
}

// fakeAdapter is a deterministic ProviderAdapter for callback tests.
type fakeAdapter struct {
	provider string
	profile  auth.ProviderProfile
	err      error
}

func (f *fakeAdapter) Provider() string { return f.provider }

func (f *fakeAdapter) AuthURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (f *fakeAdapter) ResolveProfile(ctx context.Context, code string) (auth.ProviderProfile, error) {
	if f.err != nil {
		return auth.ProviderProfile{}, f.err
	}
	return f.profile, nil
}
