package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore persists directed subscriber-to-channel edges.
type SubscriptionStore interface {
	Create(ctx context.Context, sub Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}

// Subscription records that one user follows another user's channel.
type Subscription struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
	CreatedAt    time.Time
}
