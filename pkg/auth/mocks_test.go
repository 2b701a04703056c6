package auth

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hyphalab/authkit/pkg/email"
)

// MockIdentityStore is a mock implementation of IdentityStore.
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) GetIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

func (m *MockIdentityStore) CreateIdentity(ctx context.Context, identity *Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityStore) UpdatePasswordHash(ctx context.Context, email string, hash []byte) error {
	args := m.Called(ctx, email, hash)
	return args.Error(0)
}

func (m *MockIdentityStore) LinkMethod(ctx context.Context, email, method string) error {
	args := m.Called(ctx, email, method)
	return args.Error(0)
}

// MockResetTokenStore is a mock implementation of ResetTokenStore.
type MockResetTokenStore struct {
	mock.Mock
}

func (m *MockResetTokenStore) FindResetToken(ctx context.Context, tok string) (*ResetToken, error) {
	args := m.Called(ctx, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResetToken), args.Error(1)
}

func (m *MockResetTokenStore) InsertResetToken(ctx context.Context, rt *ResetToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *MockResetTokenStore) DeleteResetTokensForEmail(ctx context.Context, emailAddr string) error {
	args := m.Called(ctx, emailAddr)
	return args.Error(0)
}

func (m *MockResetTokenStore) DeleteResetToken(ctx context.Context, tok string) error {
	args := m.Called(ctx, tok)
	return args.Error(0)
}

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
