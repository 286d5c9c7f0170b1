package pkg

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

func TestStatusText(t *testing.T) {
	assert.Equal(t, "success", StatusText(200))
	assert.Equal(t, "success", StatusText(201))
	assert.Equal(t, "fail", StatusText(400))
	assert.Equal(t, "fail", StatusText(404))
	assert.Equal(t, "error", StatusText(500))
	assert.Equal(t, "error", StatusText(503))
}

func performResponse(fn func(c *gin.Context)) (*httptest.ResponseRecorder, StandardBody) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body StandardBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondEnvelope(t *testing.T) {
	w, body := performResponse(func(c *gin.Context) {
		Respond(c, http.StatusCreated, "User created successfully!", gin.H{"id": 1})
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, http.StatusCreated, body.StatusCode)
	assert.Equal(t, "User created successfully!", body.Message)
	assert.NotNil(t, body.Data)
}

func TestRespondOmitsEmptyData(t *testing.T) {
	w, _ := performResponse(func(c *gin.Context) {
		Respond(c, http.StatusOK, "ok", nil)
	})
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestWriteErrorAppError(t *testing.T) {
	w, body := performResponse(func(c *gin.Context) {
		WriteError(c, NotFound("Post not found"))
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "Post not found", body.Message)
}

func TestWriteErrorUnauthorizedCarriesCode(t *testing.T) {
	w, _ := performResponse(func(c *gin.Context) {
		WriteError(c, Unauthorized("TOKEN_EXPIRED", CodeTokenExpired))
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), CodeTokenExpired)
}

func TestWriteErrorUnexpected(t *testing.T) {
	w, body := performResponse(func(c *gin.Context) {
		WriteError(c, errors.New("boom"))
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Internal Server Error", body.Message)
	// 原始错误不下发
	assert.NotContains(t, w.Body.String(), "boom")
}
