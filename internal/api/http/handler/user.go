package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avdeev/vidtube-server/internal/api/http/httpctx"
	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/model"
	"github.com/avdeev/vidtube-server/internal/service"
)

const (
	cookieAccessToken  = "accessToken"
	cookieRefreshToken = "refreshToken"
)

// CookieConfig controls the auth cookies set on login and refresh.
type CookieConfig struct {
	Secure        bool
	AccessMaxAge  int
	RefreshMaxAge int
}

// UserHandler exposes registration, session and profile endpoints.
type UserHandler struct {
	sessions *service.Session
	logger   *logger.Logger
	tmpDir   string
	cookies  CookieConfig
}

func NewUserHandler(sessions *service.Session, logger *logger.Logger, tmpDir string, cookies CookieConfig) *UserHandler {
	return &UserHandler{
		sessions: sessions,
		logger:   logger,
		tmpDir:   tmpDir,
		cookies:  cookies,
	}
}

// spoolUpload saves a multipart part into the temp dir and returns its
// local path. The caller is responsible for the file's removal.
func (h *UserHandler) spoolUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.tmpDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.tmpDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// Register handles POST /users/register: multipart form with text
// fields plus an `avatar` part (required) and `coverImage` part
// (optional). Spooled temp files never outlive the request.
func (h *UserHandler) Register(c *gin.Context) {
	in := service.RegisterInput{
		FullName: c.PostForm("fullName"),
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if file, err := c.FormFile("avatar"); err == nil {
		path, err := h.spoolUpload(c, file)
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		defer os.Remove(path)
		in.AvatarPath = path
	}

	if file, err := c.FormFile("coverImage"); err == nil {
		path, err := h.spoolUpload(c, file)
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		defer os.Remove(path)
		in.CoverImagePath = path
	}

	user, err := h.sessions.Register(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /users/login. Tokens travel both in the body and
// as secure http-only cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierror.NewValidation("invalid request body"))
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	respond(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, "user logged in successfully")
}

// Logout handles POST /users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), userID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /users/refresh-token. The token comes from the
// cookie or the body.
func (h *UserHandler) Refresh(c *gin.Context) {
	incoming, _ := c.Cookie(cookieRefreshToken)
	if incoming == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), incoming)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, pair, "access token refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /users/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierror.NewValidation("invalid request body"))
		return
	}

	if err := h.sessions.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

// CurrentUser handles GET /users/current-user.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	user, err := h.sessions.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, user, "current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateAccount handles PATCH /users/update-account.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierror.NewValidation("invalid request body"))
		return
	}

	user, err := h.sessions.UpdateProfile(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, user, "account details updated successfully")
}

// UpdateAvatar handles PATCH /users/avatar with a single `avatar` part.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateMedia(c, "avatar", h.sessions.UpdateAvatar, "avatar updated successfully")
}

// UpdateCoverImage handles PATCH /users/cover-image with a single
// `coverImage` part.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateMedia(c, "coverImage", h.sessions.UpdateCoverImage, "cover image updated successfully")
}

func (h *UserHandler) updateMedia(
	c *gin.Context,
	field string,
	update func(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error),
	message string,
) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		handleError(c, h.logger, apierror.NewValidation("please upload a file"))
		return
	}

	path, err := h.spoolUpload(c, file)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	defer os.Remove(path)

	user, err := update(c.Request.Context(), userID, path)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, user, message)
}

func (h *UserHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieAccessToken, accessToken, h.cookies.AccessMaxAge, "/", "", h.cookies.Secure, true)
	c.SetCookie(cookieRefreshToken, refreshToken, h.cookies.RefreshMaxAge, "/", "", h.cookies.Secure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieAccessToken, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(cookieRefreshToken, "", -1, "/", "", h.cookies.Secure, true)
}
