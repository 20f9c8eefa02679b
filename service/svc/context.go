package svc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/config"
	"github.com/ProjectsTask/EasySwapMarket/dao"
	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
	"github.com/ProjectsTask/EasySwapMarket/stores/gdb"
)

const (
	dbConnectAttempts = 5
	dbConnectInterval = 2 * time.Second
)

type ServerCtx struct {
	C        *config.Config
	DB       *gorm.DB // 未配置数据库时为 nil
	Dao      *dao.Dao
	Exchange *exchange.Exchange
}

// NewServiceContext 初始化服务上下文
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	// 1. 初始化日志
	if _, err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}

	// 2. 交易所配置
	exCfg, err := c.Market.ExchangeConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed on load market config")
	}

	// 3. 可选的活动库, 事件同时写日志和数据库
	sinks := []event.Sink{event.LogSink{}}
	var (
		db *gorm.DB
		d  *dao.Dao
	)
	if c.DB.Enabled() {
		err = utils.Retry("connect db", dbConnectAttempts, dbConnectInterval, func() error {
			var err error
			db, err = gdb.NewDB(c.DB)
			return err
		})
		if err != nil {
			return nil, err
		}
		d = dao.New(context.Background(), db)
		if err := d.AutoMigrate(); err != nil {
			return nil, errors.Wrap(err, "failed on migrate activity table")
		}
		sinks = append(sinks, d)
	}

	// 4. 交易所
	ex, err := exchange.New(exCfg, exchange.WithSinks(sinks...))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create exchange")
	}

	serverCtx := NewServerCtx(
		WithDB(db),
		WithDao(d),
		WithExchange(ex),
	)
	serverCtx.C = c
	return serverCtx, nil
}
