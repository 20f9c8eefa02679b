package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/api/router"
	"github.com/ProjectsTask/EasySwapMarket/app"
	"github.com/ProjectsTask/EasySwapMarket/config"
	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
)

// DaemonCmd 启动交易所 HTTP 服务和 keeper
var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "run easy swap market.",
	Long:  "run easy swap market api and keeper.",
	Run: func(cmd *cobra.Command, args []string) {
		wg := &sync.WaitGroup{}
		wg.Add(1)

		ctx, cancel := context.WithCancel(context.Background())

		// 服务退出信号
		onSyncExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			// 1. 读取配置
			cfg, err := config.UnmarshalCmdConfig()
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onSyncExit <- err
				return
			}

			// 2. 日志, 数据库和交易所
			serverCtx, err := svc.NewServiceContext(cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create service context", zap.Error(err))
				onSyncExit <- err
				return
			}
			xzap.WithContext(ctx).Info("market server start", zap.Any("market", cfg.Market), zap.Any("keeper", cfg.Keeper))

			// 3. pprof
			if cfg.Monitor.PprofEnable {
				go func() {
					addr := fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort)
					if err := http.ListenAndServe(addr, nil); err != nil {
						xzap.WithContext(ctx).Warn("pprof server stopped", zap.Error(err))
					}
				}()
			}

			// 4. HTTP 服务和 keeper, 阻塞直到 ctx 取消
			p, err := app.NewPlatform(cfg, router.NewRouter(serverCtx), serverCtx)
			if err != nil {
				onSyncExit <- err
				return
			}
			if err := p.Start(ctx); err != nil {
				xzap.WithContext(ctx).Error("Failed to run market server", zap.Error(err))
				onSyncExit <- err
			}
		}()

		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			cancel()
			xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
		case err := <-onSyncExit:
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(DaemonCmd)
}
