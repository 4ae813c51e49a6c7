package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avdeev/vidtube-server/internal/api/http/httpctx"
	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/service"
)

// ChannelHandler exposes the relationship read model: channel profiles,
// subscriptions and watch history.
type ChannelHandler struct {
	channels *service.Channel
	logger   *logger.Logger
}

func NewChannelHandler(channels *service.Channel, logger *logger.Logger) *ChannelHandler {
	return &ChannelHandler{channels: channels, logger: logger}
}

// Profile handles GET /users/c/:username. Authentication is optional;
// anonymous requests get isSubscribed=false.
func (h *ChannelHandler) Profile(c *gin.Context) {
	requesterID, _ := httpctx.UserID(c)

	profile, err := h.channels.Profile(c.Request.Context(), c.Param("username"), requesterID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

// WatchHistory handles GET /users/history.
func (h *ChannelHandler) WatchHistory(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	entries, err := h.channels.WatchHistory(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, entries, "watch history fetched successfully")
}

// RecordWatch handles POST /users/history/:videoId.
func (h *ChannelHandler) RecordWatch(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		handleError(c, h.logger, apierror.NewValidation("invalid video id"))
		return
	}

	if err := h.channels.RecordWatch(c.Request.Context(), userID, videoID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "watch recorded successfully")
}

// ToggleSubscription handles POST /subscriptions/c/:username.
func (h *ChannelHandler) ToggleSubscription(c *gin.Context) {
	userID, ok := httpctx.UserID(c)
	if !ok {
		handleError(c, h.logger, apierror.NewUnauthorized("unauthorized request"))
		return
	}

	subscribed, err := h.channels.ToggleSubscription(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, message)
}
