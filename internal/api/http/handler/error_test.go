package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeev/vidtube-server/internal/apierror"
	"github.com/avdeev/vidtube-server/internal/model"
	"github.com/avdeev/vidtube-server/internal/testutil"
)

func performWithError(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/probe", nil)

	handleError(c, testutil.MakeNoopLogger(), err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHandleError_APIError(t *testing.T) {
	rec, envelope := performWithError(t, apierror.NewConflict("user already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusConflict, envelope.StatusCode)
	assert.Equal(t, "user already exists", envelope.Message)
	assert.False(t, envelope.Success)
}

func TestHandleError_WrappedAPIError(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), apierror.NewNotFound("channel does not exist"))
	rec, envelope := performWithError(t, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "channel does not exist", envelope.Message)
}

func TestHandleError_ModelNotFound(t *testing.T) {
	rec, _ := performWithError(t, model.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleError_UnexpectedHidesDetail(t *testing.T) {
	rec, envelope := performWithError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", envelope.Message)
	assert.NotContains(t, envelope.Message, "pq:")
}
