package exchange

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
)

var (
	owner       = common.HexToAddress("0x0000000000000000000000000000000000000001")
	marketAddr  = common.HexToAddress("0x00000000000000000000000000000000000000e0")
	feeSink     = common.HexToAddress("0x1D96e9bA0a7c1fdCEB33F3f4C71ca9117FfbE5CD")
	seller      = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	buyer       = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	buyer2      = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	buyer3      = common.HexToAddress("0x00000000000000000000000000000000000000b3")
	artist      = common.HexToAddress("0x00000000000000000000000000000000000000a7")
	collection  = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	collection2 = common.HexToAddress("0x0000000000000000000000000000000000000c02")

	token1 = big.NewInt(1)
	token2 = big.NewInt(2)

	defaultFees = fee.Config{InitialSaleFee: 2200, MakerFee: 300, TakerFee: 300, MasterKeyCut: 500}
	t0          = time.Unix(1700000000, 0)
)

func eth(s string) *big.Int {
	return utils.MustEtherToWei(s)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, events []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last() event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	ex    *Exchange
	clock *fakeClock
	rec   *recorder
	ctx   context.Context
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	cfg := Config{
		Owner:   owner,
		Address: marketAddr,
		FeeSink: feeSink,
		Fees:    defaultFees,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	clock := &fakeClock{now: t0}
	rec := &recorder{}
	ex, err := New(cfg, WithClock(clock.Now), WithSinks(rec))
	require.NoError(t, err)

	f := &fixture{ex: ex, clock: clock, rec: rec, ctx: context.Background()}
	require.NoError(t, ex.CreateCollection(f.ctx, owner, collection))
	require.NoError(t, ex.CreateCollection(f.ctx, owner, collection2))
	require.NoError(t, ex.MintNFT(f.ctx, owner, collection, seller, token1))
	require.NoError(t, ex.MintNFT(f.ctx, owner, collection, seller, token2))
	require.NoError(t, ex.MintNFT(f.ctx, owner, collection2, seller, token1))
	for _, addr := range []common.Address{buyer, buyer2, buyer3} {
		require.NoError(t, ex.Deposit(f.ctx, addr, eth("10")))
	}
	return f
}

func (f *fixture) balance(addr common.Address) string {
	b, _ := f.ex.Balance(addr)
	return b.String()
}

func (f *fixture) owed(addr common.Address) string {
	_, o := f.ex.Balance(addr)
	return o.String()
}

func (f *fixture) requireInvariants(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ex.CheckInvariants())
}

func (f *fixture) ownerOf(t *testing.T, c common.Address, id *big.Int) common.Address {
	t.Helper()
	o, err := f.ex.OwnerOf(c, id)
	require.NoError(t, err)
	return o
}
