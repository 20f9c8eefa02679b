// Package middleware gin 中间件
package middleware

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderAccount   = "X-Account" // 调用方地址

	accountKey = "account"
)

// RecoverMiddleware 捕获 handler 中的 panic, 返回 500
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c.Request.Context()).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))
				xhttp.Error(c, errcode.ErrUnexpected)
			}
		}()
		c.Next()
	}
}

// RequestID 为每个请求分配 id, 写入 context 和响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(xzap.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RLog 请求日志
func RLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		xzap.WithContext(c.Request.Context()).Info("api access",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.String("account", c.GetHeader(HeaderAccount)),
			zap.Duration("latency", time.Since(start)))
	}
}

// Account 校验调用方地址, 通过后可用 AccountFrom 读取
func Account() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := c.GetHeader(HeaderAccount)
		if !common.IsHexAddress(account) {
			xhttp.Error(c, errcode.ErrUnauthorized)
			return
		}
		c.Set(accountKey, common.HexToAddress(account).Hex())
		c.Next()
	}
}

// AccountFrom 经过 Account 中间件后的调用方地址
func AccountFrom(c *gin.Context) string {
	return c.GetString(accountKey)
}
