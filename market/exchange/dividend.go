package exchange

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/masterkey"
)

// DistributeDividends 把分红池按当前主密钥持有者平分, 任何人都可以调用.
// 整除余数永久留在托管账户. 没有持有者时返回 nil 且池子保持不变.
func (e *Exchange) DistributeDividends(ctx context.Context, caller common.Address) (*masterkey.Distribution, error) {
	var out *masterkey.Distribution
	err := e.apply(ctx, "distribute_dividends", func(t *tx) error {
		d, err := e.keys.Distribute(func(to common.Address, amount *big.Int) error {
			return e.pay(t, to, amount)
		})
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		e.ledger.AddDust(d.Dust)
		t.emit(event.Event{
			Type:  event.DividendsDistributed,
			Maker: caller,
			Price: d.Pool,
		})
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Withdraw 领取推送失败后记为待领取的金额
func (e *Exchange) Withdraw(ctx context.Context, caller common.Address) (*big.Int, error) {
	var amount *big.Int
	err := e.apply(ctx, "withdraw", func(t *tx) error {
		var err error
		amount, err = e.ledger.Withdraw(caller)
		if err != nil {
			return err
		}
		t.emit(event.Event{
			Type:         event.Withdrawn,
			Counterparty: caller,
			Price:        new(big.Int).Set(amount),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}
