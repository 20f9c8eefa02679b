package app

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/api/router"
	"github.com/ProjectsTask/EasySwapMarket/config"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
)

func newServerCtx(t *testing.T) *svc.ServerCtx {
	t.Helper()
	ex, err := exchange.New(exchange.Config{
		Owner:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
		Address: common.HexToAddress("0x00000000000000000000000000000000000000e0"),
		FeeSink: common.HexToAddress("0x00000000000000000000000000000000000000f0"),
	})
	require.NoError(t, err)
	return svc.NewServerCtx(svc.WithExchange(ex))
}

func TestStartStopsOnCancel(t *testing.T) {
	for _, c := range []struct {
		name string
		api  config.Api
	}{
		{"api disabled", config.Api{Disable: true}},
		{"api enabled", config.Api{Port: "127.0.0.1:0"}},
	} {
		t.Run(c.name, func(t *testing.T) {
			cfg := &config.Config{
				Api:    c.api,
				Keeper: config.Keeper{Enable: true, SweepInterval: 5 * time.Millisecond, BatchSize: 10},
			}
			serverCtx := newServerCtx(t)
			p, err := NewPlatform(cfg, router.NewRouter(serverCtx), serverCtx)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- p.Start(ctx) }()

			time.Sleep(20 * time.Millisecond)
			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("platform did not stop")
			}
		})
	}
}
