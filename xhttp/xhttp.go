// Package xhttp 统一的 JSON 响应
package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
)

// Response 响应体
type Response struct {
	Code   int         `json:"code"`
	Reason string      `json:"reason,omitempty"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

// OkJson 成功响应
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Msg: "ok", Data: data})
}

// Error 错误响应, HTTP 状态码由错误类别决定
func Error(c *gin.Context, err error) {
	e := errcode.FromError(err)
	if e == nil {
		e = errcode.ErrUnexpected
	}
	if e.HTTPCode >= http.StatusInternalServerError {
		xzap.WithContext(c.Request.Context()).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(e.HTTPCode, Response{Code: e.Code, Reason: e.Reason, Msg: e.Msg})
}
