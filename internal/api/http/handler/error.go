package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/logger"
	"github.com/avdeev/vidtube-server/internal/model"
)

// handleError converts a failure into the JSON envelope. Business
// failures carry their own status; anything else is a 500 with a
// generic message so internals never leak.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		respond(c, apiErr.Status, nil, apiErr.Message)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		respond(c, http.StatusNotFound, nil, "not found")
		return
	}

	log.Error("request failed",
		"path", c.FullPath(),
		"error", err.Error())
	respond(c, http.StatusInternalServerError, nil, "internal server error")
}
