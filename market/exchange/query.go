package exchange

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/book"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

// ExpiredRef 已过期的挂单
type ExpiredRef struct {
	Desk       event.Desk
	ID         uint64
	Maker      common.Address
	Collection common.Address
	TokenID    *big.Int // 集合出价为 nil
	ExpiresAt  time.Time
}

// Expired 某个挂单类型中已过期的条目, 按 id 排序, limit <= 0 表示不限
func (e *Exchange) Expired(desk event.Desk, limit int) ([]ExpiredRef, error) {
	var (
		list []*book.Commitment
		err  error
	)
	e.view(func() {
		now := e.clock()
		switch desk {
		case event.DeskBid:
			list = e.bids.book.Expired(now, limit)
		case event.DeskOffer:
			list = e.offers.book.Expired(now, limit)
		case event.DeskCollectionBid:
			list = e.collectionBids.Expired(now, limit)
		default:
			err = errs.ErrInvalidDesk.WithMessage("%q has no expiry", desk)
		}
	})
	if err != nil {
		return nil, err
	}
	out := make([]ExpiredRef, 0, len(list))
	for _, c := range list {
		out = append(out, ExpiredRef{
			Desk:       desk,
			ID:         c.ID,
			Maker:      c.Maker,
			Collection: c.Collection,
			TokenID:    c.TokenID,
			ExpiresAt:  c.ExpiresAt,
		})
	}
	return out, nil
}

// Stats 交易所状态汇总
type Stats struct {
	Bids           int
	Offers         int
	CollectionBids int
	Auctions       int
	Escrow         *big.Int // 托管账户余额
	ActiveGross    *big.Int // 所有有效挂单的托管金额
	DividendPool   *big.Int
	Owed           *big.Int
	Dust           *big.Int
}

func (e *Exchange) Stats() Stats {
	var s Stats
	e.view(func() { s = e.stats() })
	return s
}

func (e *Exchange) stats() Stats {
	gross := new(big.Int)
	for _, list := range [][]*book.Commitment{e.bids.book.All(), e.offers.book.All(), e.collectionBids.All()} {
		for _, c := range list {
			gross.Add(gross, c.PriceWithFee)
		}
	}
	return Stats{
		Bids:           e.bids.book.Count(),
		Offers:         e.offers.book.Count(),
		CollectionBids: e.collectionBids.Count(),
		Auctions:       len(e.auctions),
		Escrow:         e.ledger.EscrowBalance(),
		ActiveGross:    gross,
		DividendPool:   e.keys.Pool(),
		Owed:           e.ledger.TotalOwed(),
		Dust:           e.ledger.Dust(),
	}
}

// CheckInvariants 托管账户余额 == 有效挂单托管 + 分红池 + 待领取 + 余数, 且各索引一致
func (e *Exchange) CheckInvariants() error {
	var err error
	e.view(func() {
		for _, check := range []func() error{e.bids.book.Check, e.offers.book.Check, e.collectionBids.Check} {
			if err = check(); err != nil {
				return
			}
		}
		s := e.stats()
		want := new(big.Int).Add(s.ActiveGross, s.DividendPool)
		want.Add(want, s.Owed).Add(want, s.Dust)
		if s.Escrow.Cmp(want) != 0 {
			err = errs.ErrInvariant.WithMessage("escrow %s != active %s + pool %s + owed %s + dust %s",
				s.Escrow, s.ActiveGross, s.DividendPool, s.Owed, s.Dust)
			return
		}
		for _, list := range [][]*book.Commitment{e.bids.book.All(), e.offers.book.All(), e.collectionBids.All()} {
			for _, c := range list {
				if c.PriceWithFee.Cmp(c.Price) < 0 {
					err = errs.ErrInvariant.WithMessage("commitment %d gross below net", c.ID)
					return
				}
			}
		}
	})
	return err
}
