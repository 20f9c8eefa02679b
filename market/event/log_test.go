package event

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

func TestLogSinkWritesOneEntryPerEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	exp := time.Unix(1700000000, 0)
	events := []Event{
		{Seq: 1, Type: OfferCreated, Desk: DeskOffer, ID: "1", TokenID: big.NewInt(7), Price: big.NewInt(500), ExpiresAt: &exp},
		{Seq: 2, Type: OfferAccepted, Desk: DeskOffer, ID: "1", Settlement: &settlement.Breakdown{
			SellerProceeds: big.NewInt(390),
			Royalty:        big.NewInt(0),
			FeeSink:        big.NewInt(100),
			Dividend:       big.NewInt(10),
		}},
	}
	require.NoError(t, LogSink{}.Publish(context.Background(), events))

	entries := logs.FilterMessage("market event").All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, "OfferCreated", first["type"])
	assert.Equal(t, "7", first["token_id"])
	assert.Equal(t, "500", first["price"])
	assert.Equal(t, common.Address{}.Hex(), first["maker"])

	second := entries[1].ContextMap()
	assert.Equal(t, "390", second["seller_proceeds"])
	assert.NotContains(t, second, "token_id")
}

func TestDeskValid(t *testing.T) {
	for _, d := range Desks {
		assert.True(t, d.Valid(), d)
	}
	assert.False(t, Desk("swap").Valid())
}

func TestSinkFunc(t *testing.T) {
	var got int
	s := SinkFunc(func(_ context.Context, events []Event) error {
		got += len(events)
		return nil
	})
	require.NoError(t, s.Publish(context.Background(), []Event{{}, {}}))
	assert.Equal(t, 2, got)
}
