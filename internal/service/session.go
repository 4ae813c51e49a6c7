package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/model"
)

// Session orchestrates registration, login, logout and refresh-token
// rotation. At most one live refresh token exists per user; presenting
// any other value is rejected even when its signature verifies.
type Session struct {
	users  model.UserStore
	media  model.MediaStore
	tokens model.TokenManager
	logger *logger.Logger
}

func NewSession(users model.UserStore, media model.MediaStore, tokens model.TokenManager, logger *logger.Logger) *Session {
	return &Session{
		users:  users,
		media:  media,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput carries the registration form. AvatarPath and
// CoverImagePath are local temp-file paths; the media store removes them
// after the upload attempt.
type RegisterInput struct {
	FullName       string
	Username       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// TokenPair is an access/refresh token couple.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the login response payload.
type LoginResult struct {
	User model.PublicUser
	TokenPair
}

func (s *Session) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return model.PublicUser{}, apierror.NewValidation("please fill in all fields")
	}
	if in.AvatarPath == "" {
		return model.PublicUser{}, apierror.NewValidation("please upload an avatar")
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Session service: failed to check existing user",
			"username", in.Username,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing.ID != uuid.Nil {
		s.logger.Info("Session service: user already exists",
			"username", in.Username)
		return model.PublicUser{}, apierror.NewConflict("user with this username or email already exists")
	}

	avatarURL, err := s.media.UploadFile(ctx, in.AvatarPath)
	if err != nil {
		s.logger.Error("Session service: avatar upload failed",
			"username", in.Username,
			"error", err.Error())
		return model.PublicUser{}, apierror.NewUpload("error uploading avatar")
	}

	coverImageURL := ""
	if in.CoverImagePath != "" {
		coverImageURL, err = s.media.UploadFile(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.Error("Session service: cover image upload failed",
				"username", in.Username,
				"error", err.Error())
			return model.PublicUser{}, apierror.NewUpload("error uploading cover image")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:            uuid.New(),
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.PublicUser{}, apierror.NewConflict("user with this username or email already exists")
		}
		s.logger.Error("Session service: failed to create user",
			"username", in.Username,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Session service: user registered",
		"username", created.Username,
		"user_id", created.ID)

	return created.Public(), nil
}

func (s *Session) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, apierror.NewNotFound("user not found")
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return LoginResult{}, apierror.NewUnauthorized("password is incorrect")
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info("Session service: user logged in",
		"username", user.Username,
		"user_id", user.ID)

	return LoginResult{User: user.Public(), TokenPair: pair}, nil
}

// Logout unconditionally clears the stored refresh token so a later
// reuse check fails closed.
func (s *Session) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.Info("Session service: user logged out", "user_id", userID)
	return nil
}

// Refresh rotates the refresh token: the presented value must match the
// stored one, and on success the old value is permanently dead even
// before its expiry. Every failure collapses into one opaque
// authentication error so callers cannot tell which check rejected.
func (s *Session) Refresh(ctx context.Context, incomingRefreshToken string) (TokenPair, error) {
	if incomingRefreshToken == "" {
		return TokenPair{}, apierror.NewValidation("refresh token is required")
	}

	userID, err := s.tokens.ParseRefreshToken(incomingRefreshToken)
	if err != nil {
		return TokenPair{}, apierror.NewInvalidRefreshToken()
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return TokenPair{}, apierror.NewInvalidRefreshToken()
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	// Value comparison, not just signature verification: a verified
	// token that is not the stored one is a reuse-after-rotation signal.
	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(incomingRefreshToken)) != 1 {
		s.logger.Info("Session service: refresh token reuse detected",
			"user_id", userID)
		return TokenPair{}, apierror.NewInvalidRefreshToken()
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	s.logger.Info("Session service: refresh token rotated", "user_id", userID)
	return pair, nil
}

func (s *Session) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(oldPassword)) != nil {
		return apierror.NewUnauthorized("old password is incorrect")
	}

	if strings.TrimSpace(newPassword) == "" {
		return apierror.NewValidation("new password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	s.logger.Info("Session service: password changed", "user_id", userID)
	return nil
}

// UpdateProfile overwrites the caller's own full name and email.
func (s *Session) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, email string) (model.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return model.PublicUser{}, apierror.NewValidation("full name and email are required")
	}

	user, err := s.users.UpdateProfile(ctx, userID, fullName, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierror.NewNotFound("user not found")
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return user.Public(), nil
}

// UpdateAvatar uploads a new avatar and stores its URL. The previous
// media object is not retired.
func (s *Session) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	if localPath == "" {
		return model.PublicUser{}, apierror.NewValidation("please upload an avatar")
	}

	url, err := s.media.UploadFile(ctx, localPath)
	if err != nil {
		s.logger.Error("Session service: avatar upload failed",
			"user_id", userID,
			"error", err.Error())
		return model.PublicUser{}, apierror.NewUpload("error uploading avatar")
	}

	user, err := s.users.UpdateAvatarURL(ctx, userID, url)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierror.NewNotFound("user not found")
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to update avatar url: %w", err)
	}

	return user.Public(), nil
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (s *Session) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	if localPath == "" {
		return model.PublicUser{}, apierror.NewValidation("please upload a cover image")
	}

	url, err := s.media.UploadFile(ctx, localPath)
	if err != nil {
		s.logger.Error("Session service: cover image upload failed",
			"user_id", userID,
			"error", err.Error())
		return model.PublicUser{}, apierror.NewUpload("error uploading cover image")
	}

	user, err := s.users.UpdateCoverImageURL(ctx, userID, url)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierror.NewNotFound("user not found")
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to update cover image url: %w", err)
	}

	return user.Public(), nil
}

// CurrentUser returns the authenticated caller's public record.
func (s *Session) CurrentUser(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierror.NewNotFound("user not found")
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user.Public(), nil
}

// issueTokens mints a fresh pair and persists the refresh token as the
// user's single live value. The read and write are not atomic: two
// concurrent calls race, the last write wins, and the loser's token dies
// on its next use. That is intended; it surfaces concurrent reuse.
func (s *Session) issueTokens(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, &refresh); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
