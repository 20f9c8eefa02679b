package xhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestOkJson(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) { OkJson(c, map[string]int{"n": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp.Msg)
	assert.Equal(t, map[string]interface{}{"n": float64(1)}, resp.Data)
}

func TestErrorUsesKindStatus(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) { Error(c, errs.ErrPaused.WithMessage("offer desk")) })
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Paused", resp.Reason)
	assert.Equal(t, "Paused: offer desk", resp.Msg)

	w, resp = serve(t, func(c *gin.Context) { Error(c, errcode.NewCustomErr("bad account")) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errcode.ErrInvalidParams.Code, resp.Code)
}
