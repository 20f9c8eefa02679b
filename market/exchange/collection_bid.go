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

// PlaceCollectionBid 对整个集合出价, 每个 maker 每个集合至多一个
func (e *Exchange) PlaceCollectionBid(ctx context.Context, maker, collection common.Address, duration time.Duration, value *big.Int) (uint64, error) {
	var id uint64
	err := e.apply(ctx, "place_collection_bid", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskCollectionBid); err != nil {
			return err
		}
		if value == nil || value.Sign() <= 0 {
			return errs.ErrInvalidValueSent
		}
		if err := e.checkDuration(duration); err != nil {
			return err
		}
		if _, err := e.nfts.Collection(collection); err != nil {
			return err
		}

		net := e.fees.TakerFee(maker).NetOf(value)
		if net.Sign() == 0 {
			return errs.ErrInvalidValueSent.WithMessage("value %s too small", value)
		}
		expiresAt := t.now.Add(duration)
		var err error
		id, err = e.collectionBids.Insert(makerCollectionKey{maker: maker, collection: collection}, collection, book.Commitment{
			Maker:        maker,
			Collection:   collection,
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
			Type:       event.CollectionBidCreated,
			Desk:       event.DeskCollectionBid,
			ID:         idString(id),
			Collection: collection,
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

// CancelCollectionBid 取消调用方在该集合上的出价
func (e *Exchange) CancelCollectionBid(ctx context.Context, caller, collection common.Address) error {
	return e.apply(ctx, "cancel_collection_bid", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskCollectionBid); err != nil {
			return err
		}
		c, ok := e.collectionBids.GetByKey(makerCollectionKey{maker: caller, collection: collection})
		if !ok {
			return errs.ErrNoActiveCommitment.WithMessage("no collection bid by %s on %s", caller.Hex(), collection.Hex())
		}
		return e.dropCollectionBid(t, c)
	})
}

// AcceptCollectionBid 用集合内的任意 token 接受集合出价
func (e *Exchange) AcceptCollectionBid(ctx context.Context, caller common.Address, id uint64, collection common.Address,
	tokenID *big.Int) (*settlement.Breakdown, error) {
	var out *settlement.Breakdown
	err := e.apply(ctx, "accept_collection_bid", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskCollectionBid); err != nil {
			return err
		}
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		c, ok := e.collectionBids.Get(id)
		if !ok {
			return errs.ErrNoActiveCommitment.WithMessage("collection bid %d", id)
		}
		if c.Collection != collection {
			return errs.ErrInvalidBid.WithMessage("bid %d is for %s", id, c.Collection.Hex())
		}
		if c.Expired(t.now) {
			return errs.ErrCommitmentExpired.WithMessage("collection bid %d expired at %s", id, c.ExpiresAt)
		}

		coll, err := e.nfts.Collection(collection)
		if err != nil {
			return err
		}
		seller, err := coll.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		if !coll.IsApprovedOrOwner(caller, tokenID) {
			return errs.ErrNotTokenOwner
		}
		if seller == c.Maker {
			return errs.ErrInvalidTokenOwner
		}

		if _, err := e.collectionBids.Remove(id); err != nil {
			return err
		}
		b, err := e.engine.Settle(settlement.Sale{
			Collection: collection,
			TokenID:    tokenID,
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
			Type:         event.CollectionBidAccepted,
			Desk:         event.DeskCollectionBid,
			ID:           idString(id),
			Collection:   collection,
			TokenID:      new(big.Int).Set(tokenID),
			Maker:        c.Maker,
			Counterparty: seller,
			Price:        c.Price,
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

// RemoveExpiredCollectionBids collections 与 makers 一一对应
func (e *Exchange) RemoveExpiredCollectionBids(ctx context.Context, collections, makers []common.Address) (int, error) {
	var removed int
	err := e.apply(ctx, "remove_expired_collection_bid", func(t *tx) error {
		if err := e.checkNotPaused(event.DeskCollectionBid); err != nil {
			return err
		}
		if len(collections) != len(makers) {
			return errs.ErrArrayLength.WithMessage("%d collections, %d makers", len(collections), len(makers))
		}
		removed = 0
		for i := range collections {
			c, ok := e.collectionBids.GetByKey(makerCollectionKey{maker: makers[i], collection: collections[i]})
			if !ok || !c.Expired(t.now) {
				continue
			}
			if err := e.dropCollectionBid(t, c); err != nil {
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

func (e *Exchange) dropCollectionBid(t *tx, c *book.Commitment) error {
	if _, err := e.collectionBids.Remove(c.ID); err != nil {
		return err
	}
	if err := e.refund(t, c); err != nil {
		return err
	}
	t.emit(event.Event{
		Type:       event.CollectionBidCancelled,
		Desk:       event.DeskCollectionBid,
		ID:         idString(c.ID),
		Collection: c.Collection,
		Maker:      c.Maker,
		Price:      c.Price,
	})
	return nil
}

// GetCollectionBid 按 id 查询
func (e *Exchange) GetCollectionBid(id uint64) (*book.Commitment, error) {
	var (
		c  *book.Commitment
		ok bool
	)
	e.view(func() { c, ok = e.collectionBids.Get(id) })
	if !ok {
		return nil, errs.ErrNoActiveCommitment.WithMessage("collection bid %d", id)
	}
	return c, nil
}

// GetCollectionBidByBidder 不存在时返回 ErrInvalidIndex
func (e *Exchange) GetCollectionBidByBidder(collection, maker common.Address) (*book.Commitment, error) {
	var (
		c  *book.Commitment
		ok bool
	)
	e.view(func() { c, ok = e.collectionBids.GetByKey(makerCollectionKey{maker: maker, collection: collection}) })
	if !ok {
		return nil, errs.ErrInvalidIndex.WithMessage("no collection bid by %s on %s", maker.Hex(), collection.Hex())
	}
	return c, nil
}

// GetCollectionBidByIndex 集合内第 i 个出价
func (e *Exchange) GetCollectionBidByIndex(collection common.Address, i int) (*book.Commitment, error) {
	var (
		c   *book.Commitment
		err error
	)
	e.view(func() { c, err = e.collectionBids.At(collection, i) })
	return c, err
}

func (e *Exchange) CollectionBidCount(collection common.Address) int {
	var n int
	e.view(func() { n = e.collectionBids.Len(collection) })
	return n
}

// CollectionBids 集合内全部出价
func (e *Exchange) CollectionBids(collection common.Address) []*book.Commitment {
	var out []*book.Commitment
	e.view(func() { out = e.collectionBids.Group(collection) })
	return out
}
