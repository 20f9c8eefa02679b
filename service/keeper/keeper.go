// Package keeper 后台维护任务: 定期清理过期挂单并退款, 可选地定期分红
package keeper

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
	"github.com/ProjectsTask/EasySwapMarket/market/masterkey"
)

// Market keeper 依赖的交易所方法
type Market interface {
	Expired(desk event.Desk, limit int) ([]exchange.ExpiredRef, error)
	RemoveExpiredBids(ctx context.Context, collections []common.Address, tokenIDs []*big.Int, makers []common.Address) (int, error)
	RemoveExpiredOffers(ctx context.Context, collections []common.Address, tokenIDs []*big.Int, makers []common.Address) (int, error)
	RemoveExpiredCollectionBids(ctx context.Context, collections, makers []common.Address) (int, error)
	DistributeDividends(ctx context.Context, caller common.Address) (*masterkey.Distribution, error)
}

// 会过期的挂单类型, 拍卖没有过期
var sweepDesks = []event.Desk{event.DeskBid, event.DeskOffer, event.DeskCollectionBid}

type Config struct {
	Caller           common.Address // 分红事件中记录的调用方
	SweepInterval    time.Duration
	BatchSize        int
	DividendInterval time.Duration // 0 表示不自动分红
}

type Keeper struct {
	ctx    context.Context
	cfg    Config
	market Market
}

func New(ctx context.Context, cfg Config, market Market) *Keeper {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Keeper{
		ctx:    ctx,
		cfg:    cfg,
		market: market,
	}
}

// Start 启动后台循环, ctx 取消后退出
func (k *Keeper) Start() {
	threading.GoSafe(k.SweepLoop)
	if k.cfg.DividendInterval > 0 {
		threading.GoSafe(k.DividendLoop)
	}
}

// SweepLoop 定期清理过期挂单
func (k *Keeper) SweepLoop() {
	timer := time.NewTicker(k.cfg.SweepInterval)
	defer timer.Stop()
	for {
		select {
		case <-k.ctx.Done():
			xzap.WithContext(k.ctx).Info("SweepLoop stopped due to context cancellation")
			return
		case <-timer.C:
			if _, err := k.Sweep(k.ctx); err != nil {
				xzap.WithContext(k.ctx).Error("failed on sweep expired commitments", zap.Error(err))
			}
		}
	}
}

// DividendLoop 定期分红
func (k *Keeper) DividendLoop() {
	timer := time.NewTicker(k.cfg.DividendInterval)
	defer timer.Stop()
	for {
		select {
		case <-k.ctx.Done():
			xzap.WithContext(k.ctx).Info("DividendLoop stopped due to context cancellation")
			return
		case <-timer.C:
			if _, err := k.Distribute(k.ctx); err != nil {
				xzap.WithContext(k.ctx).Error("failed on distribute dividends", zap.Error(err))
			}
		}
	}
}

// Sweep 对每个挂单类型清理一批过期条目, 返回清理总数.
// 已暂停的挂单类型会被跳过, 单个类型失败不影响其他类型.
func (k *Keeper) Sweep(ctx context.Context) (int, error) {
	var (
		total   int
		lastErr error
	)
	for _, desk := range sweepDesks {
		n, err := k.sweepDesk(ctx, desk)
		total += n
		if err == nil {
			continue
		}
		if errors.Is(err, errs.ErrPaused) {
			xzap.WithContext(ctx).Info("skip paused desk", zap.String("desk", string(desk)))
			continue
		}
		lastErr = errors.Wrapf(err, "failed on sweep %s", desk)
		xzap.WithContext(ctx).Warn("sweep desk failed", zap.String("desk", string(desk)), zap.Error(err))
	}
	return total, lastErr
}

func (k *Keeper) sweepDesk(ctx context.Context, desk event.Desk) (int, error) {
	// 1. 查询一批过期条目
	refs, err := k.market.Expired(desk, k.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, nil
	}

	// 2. 转换为并行数组
	collections := make([]common.Address, 0, len(refs))
	makers := make([]common.Address, 0, len(refs))
	tokenIDs := make([]*big.Int, 0, len(refs))
	for _, r := range refs {
		collections = append(collections, r.Collection)
		makers = append(makers, r.Maker)
		tokenIDs = append(tokenIDs, r.TokenID)
	}

	// 3. 清理并退款
	var n int
	switch desk {
	case event.DeskBid:
		n, err = k.market.RemoveExpiredBids(ctx, collections, tokenIDs, makers)
	case event.DeskOffer:
		n, err = k.market.RemoveExpiredOffers(ctx, collections, tokenIDs, makers)
	case event.DeskCollectionBid:
		n, err = k.market.RemoveExpiredCollectionBids(ctx, collections, makers)
	}
	if err != nil {
		return 0, err
	}
	if n > 0 {
		xzap.WithContext(ctx).Info("removed expired commitments", zap.String("desk", string(desk)), zap.Int("removed", n))
	}
	return n, nil
}

// Distribute 触发一次分红, 分红池为空时返回 nil
func (k *Keeper) Distribute(ctx context.Context) (*masterkey.Distribution, error) {
	d, err := k.market.DistributeDividends(ctx, k.cfg.Caller)
	if err != nil {
		return nil, err
	}
	if d != nil {
		xzap.WithContext(ctx).Info("dividends distributed",
			zap.String("pool", d.Pool.String()),
			zap.String("share", d.Share.String()),
			zap.Int("holders", len(d.Payouts)))
	}
	return d, nil
}
