package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoStore defines read operations for video records.
type VideoStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Video, error)
}

// WatchHistoryStore persists the insertion-ordered sequence of watch
// events per user. Duplicates are permitted.
type WatchHistoryStore interface {
	Append(ctx context.Context, userID, videoID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]WatchHistoryEntry, error)
}

// Video represents a stored video record.
type Video struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VideoOwner is the narrow owner projection attached to history entries.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// WatchHistoryEntry is one resolved history element: the video plus its
// owner projection, in stored order.
type WatchHistoryEntry struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
