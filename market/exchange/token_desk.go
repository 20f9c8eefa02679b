package exchange

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/book"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

// tokenDesk 针对单个 token 的出价簿. Bid 成交时其余出价全部退款, Offer 只移除成交的那一个.
type tokenDesk struct {
	desk         event.Desk
	book         *book.Book[makerTokenKey, tokenKey]
	singleWinner bool
	created      event.Type
	cancelled    event.Type
	accepted     event.Type
}

func keyOf(collection common.Address, tokenID *big.Int) tokenKey {
	return tokenKey{collection: collection, tokenID: common.BigToHash(tokenID)}
}

// PlaceBid 对 token 出价, value 为托管金额 (含 taker 费), 返回出价 id
func (e *Exchange) PlaceBid(ctx context.Context, maker, collection common.Address, tokenID *big.Int, duration time.Duration, value *big.Int) (uint64, error) {
	return e.placeToken(ctx, e.bids, maker, collection, tokenID, duration, value)
}

// CancelBid 取消出价并全额退款, 仅 maker
func (e *Exchange) CancelBid(ctx context.Context, caller common.Address, id uint64) error {
	return e.cancelToken(ctx, e.bids, caller, id)
}

// AcceptBid 接受出价, 调用方必须是 token 持有者或被授权者. 同一 token 上的其余出价全部退款.
func (e *Exchange) AcceptBid(ctx context.Context, caller common.Address, id uint64) (*settlement.Breakdown, error) {
	return e.acceptToken(ctx, e.bids, caller, id)
}

// RemoveExpiredBids 任何人都可以调用, 未过期或不存在的条目忽略
func (e *Exchange) RemoveExpiredBids(ctx context.Context, collections []common.Address, tokenIDs []*big.Int, makers []common.Address) (int, error) {
	return e.removeExpiredToken(ctx, e.bids, collections, tokenIDs, makers)
}

func (e *Exchange) GetBid(id uint64) (*book.Commitment, error) {
	return e.getToken(e.bids, id)
}

func (e *Exchange) BidsByToken(collection common.Address, tokenID *big.Int) []*book.Commitment {
	return e.byToken(e.bids, collection, tokenID)
}

// PlaceOffer 对 token 报价, 同一 token 可以有多个 maker 的报价
func (e *Exchange) PlaceOffer(ctx context.Context, maker, collection common.Address, tokenID *big.Int, duration time.Duration, value *big.Int) (uint64, error) {
	return e.placeToken(ctx, e.offers, maker, collection, tokenID, duration, value)
}

func (e *Exchange) CancelOffer(ctx context.Context, caller common.Address, id uint64) error {
	return e.cancelToken(ctx, e.offers, caller, id)
}

// AcceptOffer 接受报价, 同一 token 上的其余报价保持有效
func (e *Exchange) AcceptOffer(ctx context.Context, caller common.Address, id uint64) (*settlement.Breakdown, error) {
	return e.acceptToken(ctx, e.offers, caller, id)
}

func (e *Exchange) RemoveExpiredOffers(ctx context.Context, collections []common.Address, tokenIDs []*big.Int, makers []common.Address) (int, error) {
	return e.removeExpiredToken(ctx, e.offers, collections, tokenIDs, makers)
}

func (e *Exchange) GetOffer(id uint64) (*book.Commitment, error) {
	return e.getToken(e.offers, id)
}

func (e *Exchange) OffersByToken(collection common.Address, tokenID *big.Int) []*book.Commitment {
	return e.byToken(e.offers, collection, tokenID)
}

func (e *Exchange) placeToken(ctx context.Context, d *tokenDesk, maker, collection common.Address, tokenID *big.Int,
	duration time.Duration, value *big.Int) (uint64, error) {
	var id uint64
	err := e.apply(ctx, "place_"+string(d.desk), func(t *tx) error {
		// 1. 参数校验
		if err := e.checkNotPaused(d.desk); err != nil {
			return err
		}
		if value == nil || value.Sign() <= 0 {
			return errs.ErrInvalidValueSent
		}
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		if err := e.checkDuration(duration); err != nil {
			return err
		}

		// 2. 不能对自己持有的 token 出价
		c, err := e.nfts.Collection(collection)
		if err != nil {
			return err
		}
		owner, err := c.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		if owner == maker {
			return errs.ErrInvalidTokenOwner
		}

		// 3. 按 maker 当前的 taker 费率反推净价, 费率就此锁定
		net := e.fees.TakerFee(maker).NetOf(value)
		if net.Sign() == 0 {
			return errs.ErrInvalidValueSent.WithMessage("value %s too small", value)
		}

		// 4. 记录并托管
		key := keyOf(collection, tokenID)
		expiresAt := t.now.Add(duration)
		id, err = d.book.Insert(makerTokenKey{maker: maker, tokenKey: key}, key, book.Commitment{
			Maker:        maker,
			Collection:   collection,
			TokenID:      new(big.Int).Set(tokenID),
			Price:        net,
			PriceWithFee: new(big.Int).Set(value),
			CreatedAt:    t.now,
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			return err
		}
		if err := e.ledger.Escrow(maker, value); err != nil {
			return err
		}

		t.emit(event.Event{
			Type:       d.created,
			Desk:       d.desk,
			ID:         idString(id),
			Collection: collection,
			TokenID:    new(big.Int).Set(tokenID),
			Maker:      maker,
			Price:      net,
			ExpiresAt:  &expiresAt,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (e *Exchange) cancelToken(ctx context.Context, d *tokenDesk, caller common.Address, id uint64) error {
	return e.apply(ctx, "cancel_"+string(d.desk), func(t *tx) error {
		if err := e.checkNotPaused(d.desk); err != nil {
			return err
		}
		c, ok := d.book.Get(id)
		if !ok {
			return errs.ErrNoActiveCommitment.WithMessage("%s %d", d.desk, id)
		}
		if c.Maker != caller {
			return errs.ErrNotMaker
		}
		return e.dropToken(t, d, c)
	})
}

// dropToken 移除并退款, 取消/过期/被其他出价胜出时使用
func (e *Exchange) dropToken(t *tx, d *tokenDesk, c *book.Commitment) error {
	if _, err := d.book.Remove(c.ID); err != nil {
		return err
	}
	if err := e.refund(t, c); err != nil {
		return err
	}
	t.emit(event.Event{
		Type:       d.cancelled,
		Desk:       d.desk,
		ID:         idString(c.ID),
		Collection: c.Collection,
		TokenID:    c.TokenID,
		Maker:      c.Maker,
		Price:      c.Price,
	})
	return nil
}

func (e *Exchange) acceptToken(ctx context.Context, d *tokenDesk, caller common.Address, id uint64) (*settlement.Breakdown, error) {
	var out *settlement.Breakdown
	err := e.apply(ctx, "accept_"+string(d.desk), func(t *tx) error {
		// 1. 状态校验
		if err := e.checkNotPaused(d.desk); err != nil {
			return err
		}
		c, ok := d.book.Get(id)
		if !ok {
			return errs.ErrNoActiveCommitment.WithMessage("%s %d", d.desk, id)
		}
		if c.Expired(t.now) {
			return errs.ErrCommitmentExpired.WithMessage("%s %d expired at %s", d.desk, id, c.ExpiresAt)
		}

		// 2. 调用方必须能转移该 token
		coll, err := e.nfts.Collection(c.Collection)
		if err != nil {
			return err
		}
		seller, err := coll.OwnerOf(c.TokenID)
		if err != nil {
			return err
		}
		if !coll.IsApprovedOrOwner(caller, c.TokenID) {
			return errs.ErrNotTokenOwner
		}
		if seller == c.Maker {
			return errs.ErrInvalidTokenOwner
		}

		// 3. 移除并结算
		if _, err := d.book.Remove(c.ID); err != nil {
			return err
		}
		b, err := e.engine.Settle(settlement.Sale{
			Collection: c.Collection,
			TokenID:    c.TokenID,
			Seller:     seller,
			Buyer:      c.Maker,
			NetPrice:   c.Price,
			Gross:      c.PriceWithFee,
		})
		if err != nil {
			return err
		}
		e.emitSettlementDeferred(t, b)
		t.emit(event.Event{
			Type:         d.accepted,
			Desk:         d.desk,
			ID:           idString(c.ID),
			Collection:   c.Collection,
			TokenID:      c.TokenID,
			Maker:        c.Maker,
			Counterparty: seller,
			Price:        c.Price,
			Settlement:   b,
		})

		// 4. 单一赢家: 同一 token 上的其余出价全部退款
		if d.singleWinner {
			for _, other := range d.book.Group(keyOf(c.Collection, c.TokenID)) {
				if err := e.dropToken(t, d, other); err != nil {
					return err
				}
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exchange) removeExpiredToken(ctx context.Context, d *tokenDesk, collections []common.Address, tokenIDs []*big.Int,
	makers []common.Address) (int, error) {
	var removed int
	err := e.apply(ctx, "remove_expired_"+string(d.desk), func(t *tx) error {
		if err := e.checkNotPaused(d.desk); err != nil {
			return err
		}
		if len(collections) != len(tokenIDs) || len(collections) != len(makers) {
			return errs.ErrArrayLength.WithMessage("%d collections, %d token ids, %d makers", len(collections), len(tokenIDs), len(makers))
		}
		removed = 0
		for i := range collections {
			if validTokenID(tokenIDs[i]) != nil {
				continue
			}
			key := makerTokenKey{maker: makers[i], tokenKey: keyOf(collections[i], tokenIDs[i])}
			c, ok := d.book.GetByKey(key)
			if !ok || !c.Expired(t.now) {
				continue
			}
			if err := e.dropToken(t, d, c); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (e *Exchange) getToken(d *tokenDesk, id uint64) (*book.Commitment, error) {
	var (
		c  *book.Commitment
		ok bool
	)
	e.view(func() { c, ok = d.book.Get(id) })
	if !ok {
		return nil, errs.ErrNoActiveCommitment.WithMessage("%s %d", d.desk, id)
	}
	return c, nil
}

func (e *Exchange) byToken(d *tokenDesk, collection common.Address, tokenID *big.Int) []*book.Commitment {
	var out []*book.Commitment
	e.view(func() {
		if tokenID == nil {
			return
		}
		out = d.book.Group(keyOf(collection, tokenID))
	})
	return out
}
