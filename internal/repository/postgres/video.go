package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avdeev/vidtube-server/internal/model"
)

var _ model.VideoStore = (*VideoRepository)(nil)

type VideoRepository struct {
	db *Connection
}

func NewVideoRepository(db *Connection) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Video, error) {
	const query = `
        SELECT id, owner_id, title, description, video_url, thumbnail_url, duration, views, created_at
        FROM videos WHERE id = $1
    `
	var v model.Video
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL,
		&v.ThumbnailURL, &v.Duration, &v.Views, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Video{}, model.ErrNotFound
		}
		return model.Video{}, fmt.Errorf("failed to get video by id: %w", err)
	}
	return v, nil
}
