package exchange

import (
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/market/ledger"
)

var rejectAll = ledger.ReceiverFunc(func(common.Address, *big.Int) error {
	return errors.New("rejected")
})

func TestNewValidatesConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing owner", func(c *Config) { c.Owner = common.Address{} }, errs.ErrInvalidConfig},
		{"missing fee sink", func(c *Config) { c.FeeSink = common.Address{} }, errs.ErrInvalidConfig},
		{"inverted durations", func(c *Config) { c.MinDuration = time.Hour; c.MaxDuration = time.Minute }, errs.ErrInvalidConfig},
		{"ceilings above 100%", func(c *Config) { c.FeeCeiling = 6000; c.RoyaltyCeiling = 5000 }, errs.ErrInvalidPercent},
		{"fee above ceiling", func(c *Config) { c.Fees.TakerFee = 5001 }, errs.ErrInvalidPercent},
		{"zero min tip", func(c *Config) { c.MinTip = big.NewInt(0) }, errs.ErrInvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Owner: owner, Address: marketAddr, FeeSink: feeSink, Fees: defaultFees}
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	ex, err := New(Config{Owner: owner, Address: marketAddr, FeeSink: feeSink, Fees: defaultFees})
	require.NoError(t, err)
	cfg := ex.Config()
	assert.Equal(t, DefaultMinDuration, cfg.MinDuration)
	assert.Equal(t, DefaultMaxDuration, cfg.MaxDuration)
	assert.Equal(t, fee.DefaultCeiling, cfg.FeeCeiling)
	assert.Equal(t, DefaultMinTip.String(), cfg.MinTip.String())
	assert.True(t, ex.IsSaleContract(marketAddr))
}

func TestNftTransferFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	require.NoError(t, f.ex.SetRejectTransfers(f.ctx, owner, collection, true))

	before := f.rec.count()
	statsBefore := f.ex.Stats()
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	assert.ErrorIs(t, err, errs.ErrNftTransferFailed)
	assert.Equal(t, errs.KindTransfer, errs.KindOf(err))

	assert.Equal(t, before, f.rec.count())
	assert.Equal(t, statsString(statsBefore), statsString(f.ex.Stats()))
	assert.Equal(t, "0", f.balance(seller))
	assert.Equal(t, "0", f.balance(feeSink))
	assert.Zero(t, f.ex.DividendPool().Sign())
	assert.True(t, f.ex.IsFirstSale(collection, token1))
	assert.Equal(t, seller, f.ownerOf(t, collection, token1))
	_, err = f.ex.GetOffer(id)
	require.NoError(t, err)

	require.NoError(t, f.ex.SetRejectTransfers(f.ctx, owner, collection, false))
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	f.requireInvariants(t)
}

func TestRejectedPaymentFailsOperation(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	require.NoError(t, f.ex.SetReceiver(f.ctx, seller, rejectAll))

	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	assert.ErrorIs(t, err, errs.ErrTransferRejected)
	assert.Equal(t, seller, f.ownerOf(t, collection, token1))
	assert.Equal(t, eth("9.485").String(), f.balance(buyer))

	// maker 拒收时取消也失败, 托管金额保持不变
	require.NoError(t, f.ex.SetReceiver(f.ctx, buyer, rejectAll))
	assert.ErrorIs(t, f.ex.CancelOffer(f.ctx, buyer, id), errs.ErrTransferRejected)
	_, err = f.ex.GetOffer(id)
	require.NoError(t, err)
	f.requireInvariants(t)
}

func TestPullPaymentFallback(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.PullPaymentFallback = true })
	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	require.NoError(t, f.ex.SetReceiver(f.ctx, seller, rejectAll))

	before := f.rec.count()
	b, err := f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	require.Len(t, b.Deferred, 1)
	assert.Equal(t, seller, b.Deferred[0].To)

	assert.Equal(t, "0", f.balance(seller))
	assert.Equal(t, eth("0.39").String(), f.owed(seller))
	assert.Equal(t, buyer, f.ownerOf(t, collection, token1))
	assert.Equal(t, []event.Type{event.PaymentDeferred, event.OfferAccepted}, f.rec.types()[before:])
	f.requireInvariants(t)

	_, err = f.ex.Withdraw(f.ctx, seller)
	assert.ErrorIs(t, err, errs.ErrTransferRejected)
	assert.Equal(t, eth("0.39").String(), f.owed(seller))

	require.NoError(t, f.ex.SetReceiver(f.ctx, seller, nil))
	amount, err := f.ex.Withdraw(f.ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, eth("0.39").String(), amount.String())
	assert.Equal(t, eth("0.39").String(), f.balance(seller))
	assert.Equal(t, "0", f.owed(seller))
	assert.Equal(t, event.Withdrawn, f.rec.last().Type)

	_, err = f.ex.Withdraw(f.ctx, seller)
	assert.ErrorIs(t, err, errs.ErrNothingToWithdraw)
	f.requireInvariants(t)
}

func TestPauseDesk(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.ex.Pause(f.ctx, buyer, event.DeskOffer), errs.ErrNotOwner)
	assert.ErrorIs(t, f.ex.Pause(f.ctx, owner, event.Desk("swap")), errs.ErrInvalidDesk)

	require.NoError(t, f.ex.Pause(f.ctx, owner, event.DeskOffer))
	assert.True(t, f.ex.Paused(event.DeskOffer))
	assert.Equal(t, event.Paused, f.rec.last().Type)

	_, err = f.ex.PlaceOffer(f.ctx, buyer2, collection, token1, time.Hour, eth("0.515"))
	assert.ErrorIs(t, err, errs.ErrPaused)
	assert.True(t, errs.Retryable(err))
	assert.ErrorIs(t, f.ex.CancelOffer(f.ctx, buyer, id), errs.ErrPaused)
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	assert.ErrorIs(t, err, errs.ErrPaused)

	// 其他类型不受影响
	_, err = f.ex.PlaceBid(f.ctx, buyer2, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)

	require.NoError(t, f.ex.Unpause(f.ctx, owner, event.DeskOffer))
	assert.Equal(t, event.Unpaused, f.rec.last().Type)
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
}

func TestSecondSaleUsesUpdatedFees(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ex.SetFees(f.ctx, seller, defaultFees), errs.ErrNotOwner)

	updated := defaultFees
	updated.InitialSaleFee = 1000
	require.NoError(t, f.ex.SetFees(f.ctx, owner, updated))
	assert.Equal(t, updated, f.ex.Fees())

	q := f.ex.FeeQuote(seller, buyer, collection, token1)
	assert.True(t, q.InitialSale)
	assert.EqualValues(t, 1000, q.MakerFee)

	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	_, err = f.ex.AcceptOffer(f.ctx, seller, id)
	require.NoError(t, err)
	assert.Equal(t, eth("0.45").String(), f.balance(seller))

	q = f.ex.FeeQuote(buyer, buyer2, collection, token1)
	assert.False(t, q.InitialSale)
	assert.EqualValues(t, 300, q.MakerFee)
}

func TestConcurrentAcceptOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	id, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ex.AcceptOffer(f.ctx, seller, id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, errs.ErrNoActiveCommitment)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, eth("0.39").String(), f.balance(seller))
	f.requireInvariants(t)
}

func TestEventsAreNumberedInOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.ex.PlaceOffer(f.ctx, buyer, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)
	_, err = f.ex.PlaceBid(f.ctx, buyer2, collection, token1, time.Hour, eth("0.515"))
	require.NoError(t, err)

	f.rec.mu.Lock()
	defer f.rec.mu.Unlock()
	require.Len(t, f.rec.events, 2)
	assert.EqualValues(t, 1, f.rec.events[0].Seq)
	assert.EqualValues(t, 2, f.rec.events[1].Seq)
	assert.Equal(t, t0, f.rec.events[0].Time)
}

func statsString(s Stats) string {
	return fmt.Sprintf("%d/%d/%d/%d escrow=%s gross=%s pool=%s owed=%s dust=%s",
		s.Bids, s.Offers, s.CollectionBids, s.Auctions, s.Escrow, s.ActiveGross, s.DividendPool, s.Owed, s.Dust)
}
