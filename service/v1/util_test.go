package service

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

func TestParse(t *testing.T) {
	_, err := parseAddress("0x12")
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)

	a, err := parseAddress("0x00000000000000000000000000000000000000a1")
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000A1", a.Hex())

	for _, s := range []string{"", "-1", "1.5", "abc", "115792089237316195423570985008687907853269984665640564039457584007913129639936"} {
		_, err := parseTokenID(s)
		assert.ErrorIs(t, err, errs.ErrInvalidTokenID, s)
	}
	id, err := parseTokenID("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	assert.Equal(t, 256, id.BitLen())

	wei, err := parseEther("1.03")
	require.NoError(t, err)
	assert.Equal(t, "1030000000000000000", wei.String())
	_, err = parseEther("one")
	assert.ErrorIs(t, err, errs.ErrInvalidValueSent)

	_, err = parseDesk("listing")
	assert.ErrorIs(t, err, errs.ErrInvalidDesk)

	_, err = parseAuctionID("0x1234")
	assert.ErrorIs(t, err, errs.ErrAuctionNotFound)

	_, err = parseTokenIDs([]string{"1", "x"})
	assert.Error(t, err)

	assert.Equal(t, 90*time.Second, seconds(90))
}

func TestSettlementInfo(t *testing.T) {
	assert.Nil(t, settlementInfo(nil))

	wei := func(s string) *big.Int {
		v, _ := parseEther(s)
		return v
	}
	info := settlementInfo(&settlement.Breakdown{
		NetPrice:       wei("1"),
		Gross:          wei("1.03"),
		MakerFee:       wei("0.22"),
		TakerFee:       wei("0.03"),
		Royalty:        new(big.Int),
		SellerProceeds: wei("0.78"),
		FeeSink:        wei("0.2375"),
		Dividend:       wei("0.0125"),
		InitialSale:    true,
		Deferred:       []settlement.Payment{{Amount: wei("0.78")}},
	})
	assert.Equal(t, "1.03", info.Gross.String())
	assert.Equal(t, "0.2375", info.FeeSink.String())
	assert.Equal(t, "0", info.Royalty.String())
	assert.True(t, info.InitialSale)
	require.Len(t, info.Deferred, 1)
	assert.Equal(t, "0.78", info.Deferred[0].Amount.String())
}
