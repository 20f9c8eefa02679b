package exchange

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

// SendTip sender 直接打赏 recipient, 金额经托管账户推送给收款方, 不收取手续费
func (e *Exchange) SendTip(ctx context.Context, sender, recipient common.Address, value *big.Int) error {
	return e.apply(ctx, "send_tip", func(t *tx) error {
		if recipient == (common.Address{}) {
			return errs.ErrInvalidAddress
		}
		if sender == recipient {
			return errs.ErrSenderIsRecipient
		}
		if value == nil || value.Cmp(e.cfg.MinTip) < 0 {
			return errs.ErrInvalidAmount.WithMessage("tip %s below %s", value, e.cfg.MinTip)
		}
		amount := new(big.Int).Set(value)
		if err := e.ledger.Escrow(sender, amount); err != nil {
			return err
		}
		if err := e.pay(t, recipient, amount); err != nil {
			return err
		}
		t.emit(event.Event{
			Type:         event.TipReceived,
			Maker:        sender,
			Counterparty: recipient,
			Price:        amount,
		})
		return nil
	})
}

// MinTip 单笔打赏下限
func (e *Exchange) MinTip() *big.Int {
	return new(big.Int).Set(e.cfg.MinTip)
}
