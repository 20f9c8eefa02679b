package exchange

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

func TestAuctionPriceAt(t *testing.T) {
	a := &Auction{
		StartingPrice: eth("1"),
		EndingPrice:   eth("0.5"),
		Duration:      100 * time.Second,
		StartedAt:     t0,
	}
	cases := []struct {
		at   time.Duration
		want string
	}{
		{-time.Second, "1"},
		{0, "1"},
		{25 * time.Second, "0.875"},
		{50 * time.Second, "0.75"},
		{100 * time.Second, "0.5"},
		{time.Hour, "0.5"},
	}
	for _, c := range cases {
		assert.Equal(t, eth(c.want).String(), a.PriceAt(t0.Add(c.at)).String(), c.at.String())
	}

	// 价格也可以上升
	up := &Auction{StartingPrice: eth("1"), EndingPrice: eth("2"), Duration: 100 * time.Second, StartedAt: t0}
	assert.Equal(t, eth("1.5").String(), up.PriceAt(t0.Add(50*time.Second)).String())
}

func TestAuctionID(t *testing.T) {
	id := AuctionID(collection, token1, seller)
	assert.Equal(t, id, AuctionID(collection, big.NewInt(1), seller))
	assert.NotEqual(t, id, AuctionID(collection, token1, buyer))
	assert.NotEqual(t, id, AuctionID(collection, token2, seller))
	assert.NotEqual(t, id, AuctionID(collection2, token1, seller))
}

func TestBuyAuction(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), 100*time.Second)
	require.NoError(t, err)
	assert.Equal(t, AuctionID(collection, token1, seller), id)
	assert.Equal(t, event.AuctionCreated, f.rec.last().Type)
	assert.Equal(t, id.Hex(), f.rec.last().ID)

	f.clock.Advance(50 * time.Second)
	a, price, err := f.ex.GetAuction(id)
	require.NoError(t, err)
	assert.Equal(t, seller, a.Seller)
	assert.Equal(t, eth("0.75").String(), price.String())

	_, err = f.ex.BuyAuction(f.ctx, buyer2, id, eth("0.77"))
	assert.ErrorIs(t, err, errs.ErrInsufficientValue)

	_, err = f.ex.BuyAuction(f.ctx, seller, id, eth("1"))
	assert.ErrorIs(t, err, errs.ErrInvalidTokenOwner)

	b, err := f.ex.BuyAuction(f.ctx, buyer2, id, eth("1"))
	require.NoError(t, err)
	assert.Equal(t, eth("0.7725").String(), b.Gross.String())
	assert.Equal(t, eth("9.2275").String(), f.balance(buyer2))
	assert.Equal(t, eth("0.585").String(), f.balance(seller))
	assert.Equal(t, eth("0.178125").String(), f.balance(feeSink))
	assert.Equal(t, eth("0.009375").String(), f.ex.DividendPool().String())
	assert.Equal(t, buyer2, f.ownerOf(t, collection, token1))

	last := f.rec.last()
	assert.Equal(t, event.AuctionSuccessful, last.Type)
	assert.Equal(t, buyer2, last.Counterparty)
	assert.Equal(t, eth("0.75").String(), last.Price.String())

	_, _, err = f.ex.GetAuction(id)
	assert.ErrorIs(t, err, errs.ErrAuctionNotFound)
	assert.Empty(t, f.ex.Auctions())
	f.requireInvariants(t)
}

func TestBuyAuctionAfterEnd(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), 100*time.Second)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	b, err := f.ex.BuyAuction(f.ctx, buyer, id, eth("0.515"))
	require.NoError(t, err)
	assert.Equal(t, eth("0.5").String(), b.NetPrice.String())
	assert.Equal(t, eth("0.39").String(), f.balance(seller))
	assert.Equal(t, eth("9.485").String(), f.balance(buyer))
}

func TestCreateAuctionValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.ex.CreateAuction(f.ctx, buyer, collection, token1, eth("1"), eth("0.5"), time.Hour)
	assert.ErrorIs(t, err, errs.ErrNotTokenOwner)

	_, err = f.ex.CreateAuction(f.ctx, seller, collection, token1, big.NewInt(0), eth("0.5"), time.Hour)
	assert.ErrorIs(t, err, errs.ErrInvalidPrice)

	_, err = f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), time.Second)
	assert.ErrorIs(t, err, errs.ErrDurationTooShort)

	_, err = f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), time.Hour)
	require.NoError(t, err)
	_, err = f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("2"), eth("1"), time.Hour)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = f.ex.CreateAuction(f.ctx, seller, collection, token2, eth("2"), eth("1"), time.Hour)
	require.NoError(t, err)
	assert.Len(t, f.ex.Auctions(), 2)
}

func TestCancelAuction(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, f.ex.CancelAuction(f.ctx, buyer, id), errs.ErrNotMaker)
	require.NoError(t, f.ex.CancelAuction(f.ctx, seller, id))
	assert.Equal(t, event.AuctionCancelled, f.rec.last().Type)
	assert.ErrorIs(t, f.ex.CancelAuction(f.ctx, seller, id), errs.ErrAuctionNotFound)

	_, err = f.ex.BuyAuction(f.ctx, buyer, id, eth("2"))
	assert.ErrorIs(t, err, errs.ErrAuctionNotFound)
	assert.ErrorIs(t, f.ex.CancelAuction(f.ctx, seller, common.Hash{}), errs.ErrAuctionNotFound)
}

func TestBuyAuctionWhenSellerMovedToken(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.ex.TransferNFT(f.ctx, seller, collection, seller, buyer3, token1))

	before := f.rec.count()
	_, err = f.ex.BuyAuction(f.ctx, buyer, id, eth("2"))
	assert.ErrorIs(t, err, errs.ErrNotTokenOwner)

	// 整个操作回滚, 拍卖仍然存在
	assert.Equal(t, before, f.rec.count())
	assert.Equal(t, eth("10").String(), f.balance(buyer))
	assert.Equal(t, "0", f.balance(seller))
	_, _, err = f.ex.GetAuction(id)
	require.NoError(t, err)
	f.requireInvariants(t)
}

func TestBuyAuctionAfterTokenSoldThroughOffer(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.CreateAuction(f.ctx, seller, collection, token1, eth("1"), eth("0.5"), time.Hour)
	require.NoError(t, err)
	offerID, err := f.ex.PlaceOffer(f.ctx, buyer2, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	_, err = f.ex.AcceptOffer(f.ctx, seller, offerID)
	require.NoError(t, err)
	require.Equal(t, buyer2, f.ownerOf(t, collection, token1))

	before := f.rec.count()
	_, err = f.ex.BuyAuction(f.ctx, buyer, id, eth("2"))
	assert.ErrorIs(t, err, errs.ErrNotTokenOwner)
	assert.Equal(t, before, f.rec.count())
	assert.Equal(t, eth("10").String(), f.balance(buyer))

	// 卖方仍可撤销失效的拍卖
	require.NoError(t, f.ex.CancelAuction(f.ctx, seller, id))
	f.requireInvariants(t)
}
