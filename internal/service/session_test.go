package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/mocks"
	"github.com/avdeev/vidtube-server/internal/model"
	"github.com/avdeev/vidtube-server/internal/testutil"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:   "Ada Lovelace",
		Username:   "Ada",
		Email:      "ada@example.com",
		Password:   "s3cret",
		AvatarPath: "/tmp/avatar.png",
	}
}

func hashOf(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func newSessionWithMocks() (*Session, *mocks.UserStore, *mocks.MediaStore, *mocks.TokenManager) {
	users := &mocks.UserStore{}
	media := &mocks.MediaStore{}
	tokens := &mocks.TokenManager{}
	return NewSession(users, media, tokens, testutil.MakeNoopLogger()), users, media, tokens
}

func TestSession_Register_Success(t *testing.T) {
	ctx := context.Background()
	s, users, media, _ := newSessionWithMocks()

	users.On("FindByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").
		Return(model.User{}, model.ErrNotFound)
	media.On("UploadFile", mock.Anything, "/tmp/avatar.png").
		Return("http://cdn/media/avatar.png", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Username == "ada" && u.AvatarURL == "http://cdn/media/avatar.png" && u.CoverImageURL == ""
	})).Return(model.User{
		ID:        uuid.New(),
		Username:  "ada",
		Email:     "ada@example.com",
		FullName:  "Ada Lovelace",
		AvatarURL: "http://cdn/media/avatar.png",
	}, nil)

	got, err := s.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, "", got.CoverImageURL)
}

func TestSession_Register_BlankFields(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newSessionWithMocks()

	in := validRegisterInput()
	in.Email = "   "

	_, err := s.Register(ctx, in)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSession_Register_MissingAvatar(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newSessionWithMocks()

	in := validRegisterInput()
	in.AvatarPath = ""

	_, err := s.Register(ctx, in)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Message, "avatar")
}

func TestSession_Register_DuplicateUser(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()

	users.On("FindByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").
		Return(model.User{ID: uuid.New()}, nil)

	_, err := s.Register(ctx, validRegisterInput())
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestSession_Register_AvatarUploadFailure(t *testing.T) {
	ctx := context.Background()
	s, users, media, _ := newSessionWithMocks()

	users.On("FindByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").
		Return(model.User{}, model.ErrNotFound)
	media.On("UploadFile", mock.Anything, "/tmp/avatar.png").
		Return("", errors.New("cdn unreachable"))

	_, err := s.Register(ctx, validRegisterInput())
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSession_Register_SuppliedCoverFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	s, users, media, _ := newSessionWithMocks()

	users.On("FindByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").
		Return(model.User{}, model.ErrNotFound)
	media.On("UploadFile", mock.Anything, "/tmp/avatar.png").
		Return("http://cdn/media/avatar.png", nil)
	media.On("UploadFile", mock.Anything, "/tmp/cover.png").
		Return("", errors.New("cdn unreachable"))

	in := validRegisterInput()
	in.CoverImagePath = "/tmp/cover.png"

	_, err := s.Register(ctx, in)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSession_Login_Success(t *testing.T) {
	ctx := context.Background()
	s, users, _, tokens := newSessionWithMocks()
	userID := uuid.New()

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		ID:           userID,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hashOf(t, "s3cret"),
	}, nil)
	tokens.On("GenerateAccessToken", userID).Return("access-token", nil)
	tokens.On("GenerateRefreshToken", userID).Return("refresh-token", nil)
	users.On("UpdateRefreshToken", mock.Anything, userID, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "refresh-token"
	})).Return(nil)

	got, err := s.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", got.AccessToken)
	assert.Equal(t, "refresh-token", got.RefreshToken)
	assert.Equal(t, "ada", got.User.Username)
}

func TestSession_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()

	users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(model.User{}, model.ErrNotFound)

	_, err := s.Login(ctx, "nobody@example.com", "whatever")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestSession_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		ID:           uuid.New(),
		PasswordHash: hashOf(t, "s3cret"),
	}, nil)

	_, err := s.Login(ctx, "ada@example.com", "wrong")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestSession_Logout_ClearsRefreshToken(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()
	userID := uuid.New()

	users.On("UpdateRefreshToken", mock.Anything, userID, (*string)(nil)).Return(nil)

	require.NoError(t, s.Logout(ctx, userID))
	users.AssertExpectations(t)
}

func TestSession_Refresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	s, users, _, tokens := newSessionWithMocks()
	userID := uuid.New()
	stored := "old-refresh"

	tokens.On("ParseRefreshToken", "old-refresh").Return(userID, nil)
	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		RefreshToken: &stored,
	}, nil)
	tokens.On("GenerateAccessToken", userID).Return("new-access", nil)
	tokens.On("GenerateRefreshToken", userID).Return("new-refresh", nil)
	users.On("UpdateRefreshToken", mock.Anything, userID, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "new-refresh"
	})).Return(nil)

	pair, err := s.Refresh(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)
}

func TestSession_Refresh_ReplayAfterRotationRejected(t *testing.T) {
	ctx := context.Background()
	s, users, _, tokens := newSessionWithMocks()
	userID := uuid.New()
	rotated := "new-refresh"

	// Signature still verifies, but the stored value has moved on.
	tokens.On("ParseRefreshToken", "old-refresh").Return(userID, nil)
	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		RefreshToken: &rotated,
	}, nil)

	_, err := s.Refresh(ctx, "old-refresh")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "invalid refresh token", apiErr.Message)
}

func TestSession_Refresh_AfterLogoutRejected(t *testing.T) {
	ctx := context.Background()
	s, users, _, tokens := newSessionWithMocks()
	userID := uuid.New()

	tokens.On("ParseRefreshToken", "old-refresh").Return(userID, nil)
	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		RefreshToken: nil,
	}, nil)

	_, err := s.Refresh(ctx, "old-refresh")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestSession_Refresh_BadSignatureSameSurface(t *testing.T) {
	ctx := context.Background()
	s, _, _, tokens := newSessionWithMocks()

	tokens.On("ParseRefreshToken", "garbage").Return(uuid.Nil, errors.New("bad signature"))

	_, err := s.Refresh(ctx, "garbage")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	// Same message as a stored-value mismatch: no hint which check failed.
	assert.Equal(t, "invalid refresh token", apiErr.Message)
}

func TestSession_Refresh_MissingToken(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newSessionWithMocks()

	_, err := s.Refresh(ctx, "")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSession_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()
	userID := uuid.New()

	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		PasswordHash: hashOf(t, "correct"),
	}, nil)

	err := s.ChangePassword(ctx, userID, "wrong", "next")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_ChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()
	userID := uuid.New()

	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		PasswordHash: hashOf(t, "correct"),
	}, nil)
	users.On("UpdatePasswordHash", mock.Anything, userID, mock.MatchedBy(func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, []byte("next")) == nil
	})).Return(nil)

	require.NoError(t, s.ChangePassword(ctx, userID, "correct", "next"))
	users.AssertExpectations(t)
}

func TestSession_UpdateProfile_MissingField(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newSessionWithMocks()

	_, err := s.UpdateProfile(ctx, uuid.New(), "Ada Lovelace", " ")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSession_UpdateProfile_Success(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()
	userID := uuid.New()

	users.On("UpdateProfile", mock.Anything, userID, "Ada King", "ada@lovelace.dev").
		Return(model.User{ID: userID, FullName: "Ada King", Email: "ada@lovelace.dev"}, nil)

	got, err := s.UpdateProfile(ctx, userID, "Ada King", "ada@lovelace.dev")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", got.FullName)
}

func TestSession_UpdateAvatar_UploadError(t *testing.T) {
	ctx := context.Background()
	s, _, media, _ := newSessionWithMocks()

	media.On("UploadFile", mock.Anything, "/tmp/avatar.png").
		Return("", errors.New("no usable url"))

	_, err := s.UpdateAvatar(ctx, uuid.New(), "/tmp/avatar.png")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSession_UpdateCoverImage_Success(t *testing.T) {
	ctx := context.Background()
	s, users, media, _ := newSessionWithMocks()
	userID := uuid.New()

	media.On("UploadFile", mock.Anything, "/tmp/cover.png").
		Return("http://cdn/media/cover.png", nil)
	users.On("UpdateCoverImageURL", mock.Anything, userID, "http://cdn/media/cover.png").
		Return(model.User{ID: userID, CoverImageURL: "http://cdn/media/cover.png"}, nil)

	got, err := s.UpdateCoverImage(ctx, userID, "/tmp/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/media/cover.png", got.CoverImageURL)
}

func TestSession_CurrentUser_StripsCredentials(t *testing.T) {
	ctx := context.Background()
	s, users, _, _ := newSessionWithMocks()
	userID := uuid.New()
	stored := "refresh"

	users.On("GetByID", mock.Anything, userID).Return(model.User{
		ID:           userID,
		Username:     "ada",
		PasswordHash: []byte("hash"),
		RefreshToken: &stored,
	}, nil)

	got, err := s.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
}
