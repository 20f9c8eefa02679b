package svc

import (
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapMarket/dao"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
)

// CtxConfig 服务上下文配置构建器
type CtxConfig struct {
	db       *gorm.DB
	dao      *dao.Dao
	exchange *exchange.Exchange
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 使用 Option 模式组装 ServerCtx
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:       c.db,
		Dao:      c.dao,
		Exchange: c.exchange,
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithExchange(ex *exchange.Exchange) CtxOption {
	return func(conf *CtxConfig) {
		conf.exchange = ex
	}
}
