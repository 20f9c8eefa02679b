package exchange

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

// Auction 荷兰式拍卖: 价格在 Duration 内从 StartingPrice 线性变化到 EndingPrice, 之后保持 EndingPrice
type Auction struct {
	ID            common.Hash
	Seller        common.Address
	Collection    common.Address
	TokenID       *big.Int
	StartingPrice *big.Int
	EndingPrice   *big.Int
	Duration      time.Duration
	StartedAt     time.Time
}

// PriceAt 在 now 时刻的价格 (净价, 不含 taker 费)
func (a *Auction) PriceAt(now time.Time) *big.Int {
	elapsed := now.Sub(a.StartedAt)
	if a.Duration <= 0 || elapsed >= a.Duration {
		return new(big.Int).Set(a.EndingPrice)
	}
	if elapsed <= 0 {
		return new(big.Int).Set(a.StartingPrice)
	}
	delta := new(big.Int).Sub(a.EndingPrice, a.StartingPrice)
	delta.Mul(delta, big.NewInt(int64(elapsed)))
	delta.Quo(delta, big.NewInt(int64(a.Duration)))
	return delta.Add(delta, a.StartingPrice)
}

// AuctionID keccak256(collection ‖ tokenId ‖ seller)
func AuctionID(collection common.Address, tokenID *big.Int, seller common.Address) common.Hash {
	return crypto.Keccak256Hash(collection.Bytes(), common.BigToHash(tokenID).Bytes(), seller.Bytes())
}

// CreateAuction 卖方创建拍卖, 必须持有该 token
func (e *Exchange) CreateAuction(ctx context.Context, seller, collection common.Address, tokenID, startingPrice, endingPrice *big.Int,
	duration time.Duration) (common.Hash, error) {
	var id common.Hash
	err := e.apply(ctx, "create_auction", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskAuction); err != nil {
			return err
		}
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		if startingPrice == nil || endingPrice == nil || startingPrice.Sign() <= 0 || endingPrice.Sign() <= 0 {
			return errs.ErrInvalidPrice
		}
		if err := e.checkDuration(duration); err != nil {
			return err
		}
		coll, err := e.nfts.Collection(collection)
		if err != nil {
			return err
		}
		owner, err := coll.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		if owner != seller {
			return errs.ErrNotTokenOwner
		}

		id = AuctionID(collection, tokenID, seller)
		if _, ok := e.auctions[id]; ok {
			return errs.ErrAlreadyExists.WithMessage("auction %s", id.Hex())
		}
		a := &Auction{
			ID:            id,
			Seller:        seller,
			Collection:    collection,
			TokenID:       new(big.Int).Set(tokenID),
			StartingPrice: new(big.Int).Set(startingPrice),
			EndingPrice:   new(big.Int).Set(endingPrice),
			Duration:      duration,
			StartedAt:     t.now,
		}
		e.putAuction(a)
		t.emit(event.Event{
			Type:       event.AuctionCreated,
			Desk:       event.DeskAuction,
			ID:         id.Hex(),
			Collection: collection,
			TokenID:    a.TokenID,
			Maker:      seller,
			Price:      a.StartingPrice,
		})
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}
	return id, nil
}

// CancelAuction 仅卖方
func (e *Exchange) CancelAuction(ctx context.Context, caller common.Address, id common.Hash) error {
	return e.apply(ctx, "cancel_auction", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskAuction); err != nil {
			return err
		}
		a, ok := e.auctions[id]
		if !ok {
			return errs.ErrAuctionNotFound.WithMessage("%s", id.Hex())
		}
		if a.Seller != caller {
			return errs.ErrNotMaker
		}
		e.deleteAuction(id)
		t.emit(event.Event{
			Type:       event.AuctionCancelled,
			Desk:       event.DeskAuction,
			ID:         id.Hex(),
			Collection: a.Collection,
			TokenID:    a.TokenID,
			Maker:      a.Seller,
		})
		return nil
	})
}

// BuyAuction 以当前价格买入. value 是买方愿意支付的上限, 必须覆盖 价格 + taker 费,
// 实际只托管 价格 + taker 费.
func (e *Exchange) BuyAuction(ctx context.Context, buyer common.Address, id common.Hash, value *big.Int) (*settlement.Breakdown, error) {
	var out *settlement.Breakdown
	err := e.apply(ctx, "buy_auction", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskAuction); err != nil {
			return err
		}
		if value == nil || value.Sign() <= 0 {
			return errs.ErrInvalidValueSent
		}
		a, ok := e.auctions[id]
		if !ok {
			return errs.ErrAuctionNotFound.WithMessage("%s", id.Hex())
		}
		if buyer == a.Seller {
			return errs.ErrInvalidTokenOwner
		}
		// token 可能已经通过 bid/offer 卖出
		coll, err := e.nfts.Collection(a.Collection)
		if err != nil {
			return err
		}
		if owner, err := coll.OwnerOf(a.TokenID); err != nil || owner != a.Seller {
			return errs.ErrNotTokenOwner.WithMessage("auction %s", id.Hex())
		}

		price := a.PriceAt(t.now)
		gross := e.fees.TakerFee(buyer).GrossUp(price)
		if value.Cmp(gross) < 0 {
			return errs.ErrInsufficientValue.WithMessage("sent %s, need %s", value, gross)
		}
		if err := e.ledger.Escrow(buyer, gross); err != nil {
			return err
		}
		e.deleteAuction(id)

		b, err := e.engine.Settle(settlement.Sale{
			Collection: a.Collection,
			TokenID:    a.TokenID,
			Seller:     a.Seller,
			Buyer:      buyer,
			NetPrice:   price,
			Gross:      gross,
		})
		if err != nil {
			return err
		}
		e.emitSettlementDeferred(t, b)
		t.emit(event.Event{
			Type:         event.AuctionSuccessful,
			Desk:         event.DeskAuction,
			ID:           id.Hex(),
			Collection:   a.Collection,
			TokenID:      a.TokenID,
			Maker:        a.Seller,
			Counterparty: buyer,
			Price:        price,
			Settlement:   b,
		})
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAuction 返回拍卖和当前价格
func (e *Exchange) GetAuction(id common.Hash) (*Auction, *big.Int, error) {
	var (
		a     Auction
		price *big.Int
		ok    bool
	)
	e.view(func() {
		var p *Auction
		if p, ok = e.auctions[id]; ok {
			a = *p
			price = p.PriceAt(e.clock())
		}
	})
	if !ok {
		return nil, nil, errs.ErrAuctionNotFound.WithMessage("%s", id.Hex())
	}
	return &a, price, nil
}

// Auctions 按开始时间排序的全部拍卖
func (e *Exchange) Auctions() []*Auction {
	var out []*Auction
	e.view(func() {
		for _, a := range e.auctions {
			cp := *a
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, k int) bool {
		if out[i].StartedAt.Equal(out[k].StartedAt) {
			return out[i].ID.Hex() < out[k].ID.Hex()
		}
		return out[i].StartedAt.Before(out[k].StartedAt)
	})
	return out
}

func (e *Exchange) putAuction(a *Auction) {
	e.auctions[a.ID] = a
	e.j.Append(func() { delete(e.auctions, a.ID) })
}

func (e *Exchange) deleteAuction(id common.Hash) {
	prev := e.auctions[id]
	delete(e.auctions, id)
	e.j.Append(func() { e.auctions[id] = prev })
}
