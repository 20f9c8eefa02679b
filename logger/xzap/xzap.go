// Package xzap 基于 zap 的日志
// SetUp 替换 zap 全局 logger, WithContext 从 context 中提取 trace 信息和请求 id
package xzap

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ProjectsTask/EasySwapMarket/logger"
)

type requestIDKey struct{}

// SetUp 根据配置初始化日志, file 模式同时输出到滚动文件和控制台
func SetUp(c logger.LogConf) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, errors.Wrapf(err, "failed on parse log level %q", c.Level)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "time"

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stdout), level),
	}

	if c.Mode == logger.ModeFile {
		name := c.ServiceName
		if name == "" {
			name = "easyswap-market"
		}
		// 1. 按大小和天数滚动
		writer := &lumberjack.Logger{
			Filename: filepath.Join(c.Path, name+".log"),
			MaxSize:  c.MaxSize,
			MaxAge:   c.KeepDays,
			Compress: c.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if c.ServiceName != "" {
		l = l.With(zap.String("service", c.ServiceName))
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

// WithRequestID 把请求 id 放入 context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 从 context 读取请求 id
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext 返回附带 trace_id, span_id 和 request_id 的 logger
func WithContext(ctx context.Context) *zap.Logger {
	l := zap.L()
	if ctx == nil {
		return l
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(zap.String("trace_id", sc.TraceID().String()), zap.String("span_id", sc.SpanID().String()))
	}
	if id := RequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	return l
}
