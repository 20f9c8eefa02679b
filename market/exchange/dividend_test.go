package exchange

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

func TestSellerHoldsMasterKey(t *testing.T) {
	f := newFixture(t)
	_, err := f.ex.MintMasterKey(f.ctx, owner, seller)
	require.NoError(t, err)

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	b, err := f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	assert.True(t, b.SellerWaived)
	assert.Zero(t, b.MakerFee.Sign())

	assert.Equal(t, eth("0.5").String(), f.balance(seller))
	assert.Equal(t, eth("0.01425").String(), f.balance(feeSink))
	assert.Equal(t, eth("0.00075").String(), f.ex.DividendPool().String())
	f.requireInvariants(t)
}

func TestBuyerHoldsMasterKey(t *testing.T) {
	f := newFixture(t)
	_, err := f.ex.MintMasterKey(f.ctx, owner, buyer)
	require.NoError(t, err)
	assert.Zero(t, f.ex.TakerFee(buyer))

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.5"))
	require.NoError(t, err)
	o, err := f.ex.GetOffer(id)
	require.NoError(t, err)
	assert.Equal(t, eth("0.5").String(), o.Price.String())

	b, err := f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	assert.True(t, b.BuyerWaived)
	assert.Equal(t, eth("0.39").String(), f.balance(seller))
	assert.Equal(t, eth("0.1045").String(), f.balance(feeSink))
	assert.Equal(t, eth("0.0055").String(), f.ex.DividendPool().String())
	assert.Equal(t, eth("9.5").String(), f.balance(buyer))
}

func TestBothHoldMasterKeysWithRoyalty(t *testing.T) {
	f := newFixture(t)
	for _, to := range []common.Address{seller, buyer} {
		_, err := f.ex.MintMasterKey(f.ctx, owner, to)
		require.NoError(t, err)
	}
	require.NoError(t, f.ex.SetRoyalties(f.ctx, owner, collection, artist, 1000))

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.5"))
	require.NoError(t, err)
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)

	assert.Equal(t, eth("0.45").String(), f.balance(seller))
	assert.Equal(t, eth("0.05").String(), f.balance(artist))
	assert.Equal(t, "0", f.balance(feeSink))
	assert.Zero(t, f.ex.DividendPool().Sign())
	f.requireInvariants(t)
}

func TestRoyaltyPaidOnSale(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ex.SetRoyalties(f.ctx, seller, collection, artist, 1000), errs.ErrNotOwner)
	assert.ErrorIs(t, f.ex.SetRoyalties(f.ctx, owner, collection, artist, 5001), errs.ErrInvalidPercent)
	require.NoError(t, f.ex.SetRoyalties(f.ctx, owner, collection, artist, 1000))

	recipient, pct := f.ex.Royalties(collection)
	assert.Equal(t, artist, recipient)
	assert.Equal(t, bps.Bps(1000), pct)

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	b, err := f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	assert.Equal(t, artist, b.RoyaltyRecipient)

	assert.Equal(t, eth("0.34").String(), f.balance(seller))
	assert.Equal(t, eth("0.05").String(), f.balance(artist))
	assert.Equal(t, eth("0.11875").String(), f.balance(feeSink))

	require.NoError(t, f.ex.RemoveRoyalties(f.ctx, owner, collection))
	_, pct = f.ex.Royalties(collection)
	assert.Zero(t, pct)
}

func TestDistributeDividends(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.PlaceCollectionBid(f.ctx, buyer, collection, time.Hour, eth("1.03"))
	require.NoError(t, err)
	_, err = f.ex.AcceptCollectionBid(f.ctx, seller, id, collection, token1)
	require.NoError(t, err)
	assert.Equal(t, eth("0.0125").String(), f.ex.DividendPool().String())

	// 没有持有者时不分配
	d, err := f.ex.DistributeDividends(f.ctx, buyer)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, eth("0.0125").String(), f.ex.DividendPool().String())

	_, err = f.ex.MintMasterKey(f.ctx, seller, artist)
	assert.ErrorIs(t, err, errs.ErrNotOwner)
	for _, to := range []common.Address{artist, buyer2, buyer3} {
		_, err := f.ex.MintMasterKey(f.ctx, owner, to)
		require.NoError(t, err)
	}
	balance, supply := f.ex.MasterKeys(buyer2)
	assert.EqualValues(t, 1, balance)
	assert.EqualValues(t, 3, supply)

	d, err = f.ex.DistributeDividends(f.ctx, buyer)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "4166666666666666", d.Share.String())
	assert.Equal(t, "2", d.Dust.String())
	require.Len(t, d.Payouts, 3)

	assert.Equal(t, eth("0.004166666666666666").String(), f.balance(artist))
	assert.Equal(t, eth("10.004166666666666666").String(), f.balance(buyer2))
	assert.Equal(t, eth("10.004166666666666666").String(), f.balance(buyer3))
	assert.Zero(t, f.ex.DividendPool().Sign())
	assert.Equal(t, "2", f.ex.Stats().Dust.String())

	last := f.rec.last()
	assert.Equal(t, event.DividendsDistributed, last.Type)
	assert.Equal(t, eth("0.0125").String(), last.Price.String())
	f.requireInvariants(t)
}

func TestDividendsFollowKeyTransfers(t *testing.T) {
	f := newFixture(t)
	k1, err := f.ex.MintMasterKey(f.ctx, owner, buyer2)
	require.NoError(t, err)
	_, err = f.ex.MintMasterKey(f.ctx, owner, buyer3)
	require.NoError(t, err)

	assert.ErrorIs(t, f.ex.TransferMasterKey(f.ctx, buyer3, buyer2, buyer3, k1), errs.ErrNotTokenOwner)
	require.NoError(t, f.ex.TransferMasterKey(f.ctx, buyer2, buyer2, buyer3, k1))
	holder, err := f.ex.MasterKeyOwner(k1)
	require.NoError(t, err)
	assert.Equal(t, buyer3, holder)

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)

	d, err := f.ex.DistributeDividends(f.ctx, owner)
	require.NoError(t, err)
	require.Len(t, d.Payouts, 1)
	assert.EqualValues(t, 2, d.Payouts[0].Tokens)
	assert.Equal(t, eth("10.00625").String(), f.balance(buyer3))
	assert.Equal(t, eth("10").String(), f.balance(buyer2))
}
