package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avdeev/vidtube-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash,
		&user.AvatarURL, &user.CoverImageURL, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1)`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1) OR email = $2`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to find user by username or email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_image_url, created_at, updated_at)
			  VALUES ($1, lower($2), $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING ` + userColumns

	savedUser, err := r.scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return savedUser, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email string) (model.User, error) {
	query := `UPDATE users SET full_name = $2, email = $3, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id, fullName, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

// UpdatePasswordHash is a single-field update, intentionally bypassing
// the full record round-trip.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken stores the single live refresh token value for the
// user. A nil token clears it (logout).
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) (model.User, error) {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id, url))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update avatar url: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateCoverImageURL(ctx context.Context, id uuid.UUID, url string) (model.User, error) {
	query := `UPDATE users SET cover_image_url = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id, url))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update cover image url: %w", err)
	}
	return user, nil
}

// ChannelProfile aggregates a channel's user fields with its subscriber
// counts and the requester's own edge. Pass uuid.Nil as requesterID for
// an anonymous request; is_subscribed then evaluates to false.
func (r *UserRepository) ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (model.ChannelProfile, error) {
	query := `
		SELECT u.full_name, u.username, u.email, u.avatar_url, u.cover_image_url,
			   (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscribers_count,
			   (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
			   EXISTS(SELECT 1 FROM subscriptions s
					  WHERE s.channel_id = u.id AND s.subscriber_id = $2)          AS is_subscribed
		FROM users u
		WHERE u.username = lower($1)`

	var profile model.ChannelProfile
	err := r.db.QueryRow(ctx, query, username, requesterID).Scan(
		&profile.FullName, &profile.Username, &profile.Email,
		&profile.AvatarURL, &profile.CoverImageURL,
		&profile.SubscribersCount, &profile.SubscribedToCount, &profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ChannelProfile{}, model.ErrNotFound
		}
		return model.ChannelProfile{}, fmt.Errorf("failed to get channel profile: %w", err)
	}
	return profile, nil
}
