package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avdeev/vidtube-server/internal/model"
)

var _ model.SubscriptionStore = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	db *Connection
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub model.Subscription) error {
	const query = `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, NOW())
    `

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicate
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	const query = `
        DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `
	tag, err := r.db.Exec(ctx, query, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	const query = `
        SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}
