package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/model"
)

// Channel computes the relationship read model: channel profiles with
// subscriber counts and resolved watch history.
type Channel struct {
	users         model.UserStore
	subscriptions model.SubscriptionStore
	videos        model.VideoStore
	history       model.WatchHistoryStore
	logger        *logger.Logger
}

func NewChannel(
	users model.UserStore,
	subscriptions model.SubscriptionStore,
	videos model.VideoStore,
	history model.WatchHistoryStore,
	logger *logger.Logger,
) *Channel {
	return &Channel{
		users:         users,
		subscriptions: subscriptions,
		videos:        videos,
		history:       history,
		logger:        logger,
	}
}

// Profile returns the channel page aggregate. requesterID is uuid.Nil
// for anonymous requests; isSubscribed is then false, never an error.
func (c *Channel) Profile(ctx context.Context, channelUsername string, requesterID uuid.UUID) (model.ChannelProfile, error) {
	channelUsername = strings.ToLower(strings.TrimSpace(channelUsername))
	if channelUsername == "" {
		return model.ChannelProfile{}, apierror.NewValidation("username is required")
	}

	profile, err := c.users.ChannelProfile(ctx, channelUsername, requesterID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ChannelProfile{}, apierror.NewNotFound("channel does not exist")
	}
	if err != nil {
		return model.ChannelProfile{}, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return profile, nil
}

// WatchHistory resolves the caller's history into video records with the
// owner projection, in stored order. An empty history is a valid result.
func (c *Channel) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchHistoryEntry, error) {
	entries, err := c.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}
	return entries, nil
}

// RecordWatch appends a watch event. Re-watching adds another entry.
func (c *Channel) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	if _, err := c.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewNotFound("video does not exist")
		}
		return fmt.Errorf("failed to get video by id: %w", err)
	}

	if err := c.history.Append(ctx, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// ToggleSubscription subscribes the caller to the channel, or removes
// the existing edge. Subscribing to oneself is rejected.
func (c *Channel) ToggleSubscription(ctx context.Context, subscriberID uuid.UUID, channelUsername string) (bool, error) {
	channelUsername = strings.ToLower(strings.TrimSpace(channelUsername))
	if channelUsername == "" {
		return false, apierror.NewValidation("username is required")
	}

	channel, err := c.users.GetByUsername(ctx, channelUsername)
	if errors.Is(err, model.ErrNotFound) {
		return false, apierror.NewNotFound("channel does not exist")
	}
	if err != nil {
		return false, fmt.Errorf("failed to get channel by username: %w", err)
	}

	if channel.ID == subscriberID {
		return false, apierror.NewValidation("cannot subscribe to your own channel")
	}

	exists, err := c.subscriptions.Exists(ctx, subscriberID, channel.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	if exists {
		if err := c.subscriptions.Delete(ctx, subscriberID, channel.ID); err != nil {
			return false, fmt.Errorf("failed to delete subscription: %w", err)
		}
		c.logger.Info("Channel service: unsubscribed",
			"subscriber_id", subscriberID,
			"channel", channel.Username)
		return false, nil
	}

	err = c.subscriptions.Create(ctx, model.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channel.ID,
	})
	if err != nil && !errors.Is(err, model.ErrDuplicate) {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	c.logger.Info("Channel service: subscribed",
		"subscriber_id", subscriberID,
		"channel", channel.Username)
	return true, nil
}
