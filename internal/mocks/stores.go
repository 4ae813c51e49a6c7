// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/avdeev/vidtube-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

var _ model.UserStore = (*UserStore)(nil)

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email string) (model.User, error) {
	args := m.Called(ctx, id, fullName, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *UserStore) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *UserStore) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) (model.User, error) {
	args := m.Called(ctx, id, url)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdateCoverImageURL(ctx context.Context, id uuid.UUID, url string) (model.User, error) {
	args := m.Called(ctx, id, url)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (model.ChannelProfile, error) {
	args := m.Called(ctx, username, requesterID)
	return args.Get(0).(model.ChannelProfile), args.Error(1)
}

type SubscriptionStore struct {
	mock.Mock
}

var _ model.SubscriptionStore = (*SubscriptionStore)(nil)

func (m *SubscriptionStore) Create(ctx context.Context, sub model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubscriptionStore) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Error(0)
}

func (m *SubscriptionStore) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

type VideoStore struct {
	mock.Mock
}

var _ model.VideoStore = (*VideoStore)(nil)

func (m *VideoStore) GetByID(ctx context.Context, id uuid.UUID) (model.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Video), args.Error(1)
}

type WatchHistoryStore struct {
	mock.Mock
}

var _ model.WatchHistoryStore = (*WatchHistoryStore)(nil)

func (m *WatchHistoryStore) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *WatchHistoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchHistoryEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.WatchHistoryEntry), args.Error(1)
}

type MediaStore struct {
	mock.Mock
}

var _ model.MediaStore = (*MediaStore)(nil)

func (m *MediaStore) UploadFile(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

type TokenManager struct {
	mock.Mock
}

var _ model.TokenManager = (*TokenManager)(nil)

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
