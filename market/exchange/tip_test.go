package exchange

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

func TestSendTip(t *testing.T) {
	f := newFixture(t)
	tip := big.NewInt(100000000000000)

	require.NoError(t, f.ex.SendTip(f.ctx, buyer, artist, tip))
	assert.Equal(t, "9999900000000000000", f.balance(buyer))
	assert.Equal(t, tip.String(), f.balance(artist))

	last := f.rec.last()
	assert.Equal(t, event.TipReceived, last.Type)
	assert.Equal(t, buyer, last.Maker)
	assert.Equal(t, artist, last.Counterparty)
	assert.Equal(t, tip.String(), last.Price.String())
	f.requireInvariants(t)
}

func TestSendTipValidation(t *testing.T) {
	f := newFixture(t)
	before := f.rec.count()

	err := f.ex.SendTip(f.ctx, buyer, buyer, eth("0.0001"))
	assert.ErrorIs(t, err, errs.ErrSenderIsRecipient)

	err = f.ex.SendTip(f.ctx, buyer, artist, big.NewInt(0))
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	err = f.ex.SendTip(f.ctx, buyer, artist, big.NewInt(10000000000000))
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	err = f.ex.SendTip(f.ctx, buyer, artist, eth("11"))
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

	assert.Equal(t, before, f.rec.count())
	assert.Equal(t, eth("10").String(), f.balance(buyer))
	assert.Equal(t, "0", f.balance(artist))
}

func TestSendTipRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ex.SetReceiver(f.ctx, artist, rejectAll))

	err := f.ex.SendTip(f.ctx, buyer, artist, eth("0.001"))
	assert.ErrorIs(t, err, errs.ErrTransferRejected)
	assert.Equal(t, eth("10").String(), f.balance(buyer))
	f.requireInvariants(t)
}

func TestSendTipDeferredWithPullFallback(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.PullPaymentFallback = true })
	require.NoError(t, f.ex.SetReceiver(f.ctx, artist, rejectAll))

	require.NoError(t, f.ex.SendTip(f.ctx, buyer, artist, eth("0.001")))
	assert.Equal(t, eth("0.001").String(), f.owed(artist))
	assert.Equal(t, []event.Type{event.PaymentDeferred, event.TipReceived}, f.rec.types()[f.rec.count()-2:])
	f.requireInvariants(t)
}
