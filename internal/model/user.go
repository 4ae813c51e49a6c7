package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) (User, error)
	UpdateCoverImageURL(ctx context.Context, id uuid.UUID, url string) (User, error)
	ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (ChannelProfile, error)
}

// User represents a stored user with authentication material.
// Username is stored lowercase; RefreshToken holds the single live
// refresh token value, nil after logout.
type User struct {
	ID            uuid.UUID
	Username      string
	Email         string
	FullName      string
	PasswordHash  []byte
	AvatarURL     string
	CoverImageURL string
	RefreshToken  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the outward projection of a user: no password hash,
// no refresh token.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public strips credentials and session state from a stored user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// ChannelProfile is the aggregation result for a channel page: the user
// fields joined with subscription counts and the requester's edge.
type ChannelProfile struct {
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatarUrl"`
	CoverImageURL     string `json:"coverImageUrl"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
