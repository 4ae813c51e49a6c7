package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avdeev/vidtube-server/internal/model"
)

var _ model.WatchHistoryStore = (*WatchHistoryRepository)(nil)

type WatchHistoryRepository struct {
	db *Connection
}

func NewWatchHistoryRepository(db *Connection) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Append records a watch event. There is no uniqueness constraint:
// re-watching a video adds another entry.
func (r *WatchHistoryRepository) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	const query = `
        INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, NOW())
    `
	if _, err := r.db.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// ListByUser resolves the user's history into video records with the
// owner projection. position is a bigserial, so ordering by it
// descending returns entries most-recently-watched first. No other sort
// key is applied.
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchHistoryEntry, error) {
	const query = `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration, v.views, v.created_at,
               o.full_name, o.username, o.avatar_url,
               wh.watched_at
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        JOIN users o  ON o.id = v.owner_id
        WHERE wh.user_id = $1
        ORDER BY wh.position DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.WatchHistoryEntry, 0)
	for rows.Next() {
		var e model.WatchHistoryEntry
		err := rows.Scan(
			&e.Video.ID, &e.Video.OwnerID, &e.Video.Title, &e.Video.Description,
			&e.Video.VideoURL, &e.Video.ThumbnailURL, &e.Video.Duration,
			&e.Video.Views, &e.Video.CreatedAt,
			&e.Owner.FullName, &e.Owner.Username, &e.Owner.AvatarURL,
			&e.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history rows: %w", err)
	}

	return entries, nil
}
