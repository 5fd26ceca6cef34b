package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessWithMeta(t *testing.T) {
	c, w := newContext()
	SuccessWithMeta(c, []string{"a"}, ListMeta{Total: 1, Status: "minting"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"total": 1.0, "status": "minting"}, resp.Meta)
}

func TestInternalError(t *testing.T) {
	c, w := newContext()
	InternalError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Details)
}

func TestConflictKeepsCode(t *testing.T) {
	c, w := newContext()
	Conflict(c, ErrCodeNotMintable, "Event is not open for minting")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ErrCodeNotMintable, decode(t, w).Error.Code)
}

func TestAbortUnauthorized(t *testing.T) {
	c, w := newContext()
	AbortUnauthorized(c, "Wallet session required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ErrCodeUnauthorized, decode(t, w).Error.Code)
}
