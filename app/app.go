package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/config"
	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/service/keeper"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
)

const shutdownTimeout = 10 * time.Second

// Platform 应用容器, 包含 HTTP 服务和后台 keeper
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
}

// NewPlatform 创建一个新的 Platform 实例
func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
	}, nil
}

// Start 启动 keeper 和 HTTP 服务, 阻塞直到 ctx 取消或服务出错
func (p *Platform) Start(ctx context.Context) error {
	// 1. 后台清理过期挂单和分红
	if p.config.Keeper.Enable {
		k := keeper.New(ctx, keeper.Config{
			Caller:           p.config.KeeperAddress(),
			SweepInterval:    p.config.Keeper.SweepInterval,
			BatchSize:        p.config.Keeper.BatchSize,
			DividendInterval: p.config.Keeper.DividendInterval,
		}, p.serverCtx.Exchange)
		k.Start()
		xzap.WithContext(ctx).Info("keeper started",
			zap.Duration("sweep_interval", p.config.Keeper.SweepInterval),
			zap.Duration("dividend_interval", p.config.Keeper.DividendInterval))
	}

	if p.config.Api.Disable {
		<-ctx.Done()
		return nil
	}

	// 2. HTTP 服务
	srv := &http.Server{Addr: p.config.Api.Port, Handler: p.router}
	errCh := make(chan error, 1)
	go func() {
		xzap.WithContext(ctx).Info("EasySwap-Market run", zap.String("port", p.config.Api.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "failed on start http server")
	case <-ctx.Done():
	}

	// 3. 优雅退出
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed on shutdown http server")
	}
	return nil
}
