// Package exchange 交易所
// 所有操作在一把全局锁内串行执行, 形成全序的操作日志:
//  1. 对撤销日志打快照
//  2. 执行操作, 任何一步失败都回滚到快照
//  3. 提交后按顺序把缓存的事件发送给 Sink
package exchange

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/market/book"
	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
	"github.com/ProjectsTask/EasySwapMarket/market/ledger"
	"github.com/ProjectsTask/EasySwapMarket/market/masterkey"
	"github.com/ProjectsTask/EasySwapMarket/market/nft"
	"github.com/ProjectsTask/EasySwapMarket/market/registry"
	"github.com/ProjectsTask/EasySwapMarket/market/royalty"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

const (
	DefaultMinDuration = time.Minute
	DefaultMaxDuration = 365 * 24 * time.Hour
)

// DefaultMinTip 0.0001 ether
var DefaultMinTip = big.NewInt(100000000000000)

// Config 交易所配置
type Config struct {
	Owner               common.Address // 管理员
	Address             common.Address // 交易所地址, 即托管账户和销售合约
	FeeSink             common.Address // 手续费接收地址
	Fees                fee.Config
	FeeCeiling          bps.Bps
	RoyaltyCeiling      bps.Bps
	MinDuration         time.Duration
	MaxDuration         time.Duration
	PullPaymentFallback bool     // 收款方拒收时记为待领取, 不让整个操作失败
	MinTip              *big.Int // 单笔打赏下限 (wei)
}

// Validate 检查配置, 零值的时长和上限使用默认值
func (c *Config) Validate() error {
	if c.Owner == (common.Address{}) || c.Address == (common.Address{}) || c.FeeSink == (common.Address{}) {
		return errs.ErrInvalidConfig.WithMessage("owner, address and fee sink are required")
	}
	if c.MinDuration == 0 {
		c.MinDuration = DefaultMinDuration
	}
	if c.MaxDuration == 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	if c.MinDuration < 0 || c.MinDuration > c.MaxDuration {
		return errs.ErrInvalidConfig.WithMessage("duration range [%s, %s]", c.MinDuration, c.MaxDuration)
	}
	if c.MinTip == nil {
		c.MinTip = new(big.Int).Set(DefaultMinTip)
	}
	if c.MinTip.Sign() <= 0 {
		return errs.ErrInvalidConfig.WithMessage("min tip %s", c.MinTip)
	}
	if c.FeeCeiling == 0 {
		c.FeeCeiling = fee.DefaultCeiling
	}
	if c.RoyaltyCeiling == 0 {
		c.RoyaltyCeiling = royalty.DefaultCeiling
	}
	if c.FeeCeiling > bps.Denominator || c.RoyaltyCeiling > bps.Denominator {
		return errs.ErrInvalidPercent.WithMessage("ceilings must not exceed 100%%")
	}
	// maker 费与版税之和不能超过净价
	if c.FeeCeiling+c.RoyaltyCeiling > bps.Denominator {
		return errs.ErrInvalidPercent.WithMessage("fee ceiling %s plus royalty ceiling %s exceed 100%%", c.FeeCeiling, c.RoyaltyCeiling)
	}
	return c.Fees.Validate(c.FeeCeiling)
}

type Option func(*Exchange)

// WithClock 替换时钟, 测试使用
func WithClock(clock func() time.Time) Option {
	return func(e *Exchange) {
		e.clock = clock
	}
}

// WithSinks 注册事件消费者
func WithSinks(sinks ...event.Sink) Option {
	return func(e *Exchange) {
		e.sinks = append(e.sinks, sinks...)
	}
}

type tokenKey struct {
	collection common.Address
	tokenID    common.Hash
}

type makerTokenKey struct {
	maker common.Address
	tokenKey
}

type makerCollectionKey struct {
	maker      common.Address
	collection common.Address
}

// Exchange 交易所
type Exchange struct {
	mu    sync.Mutex
	cfg   Config
	clock func() time.Time
	sinks []event.Sink
	seq   uint64

	j         *journal.Journal
	ledger    *ledger.Ledger
	contracts *registry.ContractRegistry
	royalties *royalty.Provider
	keys      *masterkey.MasterKey
	fees      *fee.Provider
	nfts      *nft.Store
	engine    *settlement.Engine

	bids           *tokenDesk
	offers         *tokenDesk
	collectionBids *book.Book[makerCollectionKey, common.Address]
	auctions       map[common.Hash]*Auction
	paused         map[event.Desk]bool
}

// New 创建交易所, 交易所地址会被注册为销售合约
func New(cfg Config, opts ...Option) (*Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed on validate market config")
	}

	j := journal.New()
	e := &Exchange{
		cfg:            cfg,
		clock:          time.Now,
		j:              j,
		ledger:         ledger.New(cfg.Address, j, ledger.WithPullFallback(cfg.PullPaymentFallback)),
		contracts:      registry.New(cfg.Owner, j),
		royalties:      royalty.New(cfg.Owner, cfg.RoyaltyCeiling, j),
		keys:           masterkey.New(cfg.Owner, j),
		collectionBids: book.New[makerCollectionKey, common.Address](j),
		auctions:       make(map[common.Hash]*Auction),
		paused:         make(map[event.Desk]bool),
	}
	e.bids = &tokenDesk{
		desk:         event.DeskBid,
		book:         book.New[makerTokenKey, tokenKey](j),
		singleWinner: true,
		created:      event.BidCreated,
		cancelled:    event.BidCancelled,
		accepted:     event.BidAccepted,
	}
	e.offers = &tokenDesk{
		desk:      event.DeskOffer,
		book:      book.New[makerTokenKey, tokenKey](j),
		created:   event.OfferCreated,
		cancelled: event.OfferCancelled,
		accepted:  event.OfferAccepted,
	}

	fees, err := fee.New(cfg.Owner, cfg.Fees, cfg.FeeCeiling, e.keys, e.contracts, j)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create fee provider")
	}
	e.fees = fees
	e.nfts = nft.NewStore(e.contracts, j)
	e.engine = settlement.New(cfg.Address, cfg.FeeSink, fees, fees, e.royalties, e.keys, e.ledger, e.nfts)

	if err := e.contracts.AddSaleContract(cfg.Owner, cfg.Address); err != nil {
		return nil, errors.Wrap(err, "failed on register exchange as sale contract")
	}
	j.Commit()

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config 当前配置 (费率以 FeeProvider 为准)
func (e *Exchange) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.cfg
	c.Fees = e.fees.Config()
	return c
}

func (e *Exchange) Address() common.Address {
	return e.cfg.Address
}

func (e *Exchange) Owner() common.Address {
	return e.cfg.Owner
}

// Now 交易所时钟
func (e *Exchange) Now() time.Time {
	return e.clock()
}

// tx 一次操作的上下文
type tx struct {
	now    time.Time
	events []event.Event
}

func (t *tx) emit(ev event.Event) {
	ev.Time = t.now
	t.events = append(t.events, ev)
}

// apply 在全局锁内执行 fn, 失败时回滚全部修改
func (e *Exchange) apply(ctx context.Context, op string, fn func(t *tx) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.j.Snapshot()
	t := &tx{now: e.clock()}
	defer func() {
		if r := recover(); r != nil {
			e.j.RevertToSnapshot(snap)
			xzap.WithContext(ctx).Error("market operation panicked", zap.String("op", op), zap.Any("panic", r))
			panic(r)
		}
	}()

	if err = fn(t); err != nil {
		e.j.RevertToSnapshot(snap)
		xzap.WithContext(ctx).Warn("market operation rejected",
			zap.String("op", op), zap.String("kind", errs.KindOf(err).String()), zap.Error(err))
		return err
	}
	e.j.Commit()

	for i := range t.events {
		e.seq++
		t.events[i].Seq = e.seq
	}
	xzap.WithContext(ctx).Info("market operation committed", zap.String("op", op), zap.Int("events", len(t.events)))
	e.publish(ctx, t.events)
	return nil
}

// view 在全局锁内读取
func (e *Exchange) view(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *Exchange) publish(ctx context.Context, events []event.Event) {
	if len(events) == 0 {
		return
	}
	for _, s := range e.sinks {
		if err := s.Publish(ctx, events); err != nil {
			xzap.WithContext(ctx).Error("failed on publish market events", zap.Error(err))
		}
	}
}

func (e *Exchange) checkDuration(d time.Duration) error {
	if d < e.cfg.MinDuration {
		return errs.ErrDurationTooShort.WithMessage("%s < %s", d, e.cfg.MinDuration)
	}
	if d > e.cfg.MaxDuration {
		return errs.ErrDurationTooLong.WithMessage("%s > %s", d, e.cfg.MaxDuration)
	}
	return nil
}

func (e *Exchange) checkNotPaused(d event.Desk) error {
	if e.paused[d] {
		return errs.ErrPaused.WithMessage("%s desk", d)
	}
	return nil
}

func (e *Exchange) onlyOwner(caller common.Address) error {
	if caller != e.cfg.Owner {
		return errs.ErrNotOwner
	}
	return nil
}

// refund 退还托管金额给 maker
func (e *Exchange) refund(t *tx, c *book.Commitment) error {
	return e.pay(t, c.Maker, c.PriceWithFee)
}

// pay 从托管账户付款, 记为待领取时发出 PaymentDeferred
func (e *Exchange) pay(t *tx, to common.Address, amount *big.Int) error {
	deferred, err := e.ledger.Pay(to, amount)
	if err != nil {
		return err
	}
	if deferred {
		e.emitDeferred(t, to, amount)
	}
	return nil
}

func (e *Exchange) emitDeferred(t *tx, to common.Address, amount *big.Int) {
	t.emit(event.Event{
		Type:         event.PaymentDeferred,
		Counterparty: to,
		Price:        new(big.Int).Set(amount),
	})
}

func (e *Exchange) emitSettlementDeferred(t *tx, b *settlement.Breakdown) {
	for _, p := range b.Deferred {
		e.emitDeferred(t, p.To, p.Amount)
	}
}

// validTokenID token id 必须是 uint256, 超出 256 位会在 BigToHash 时被截断
func validTokenID(tokenID *big.Int) error {
	if tokenID == nil || tokenID.Sign() < 0 || tokenID.BitLen() > 256 {
		return errs.ErrInvalidTokenID
	}
	return nil
}

func idString(id uint64) string {
	return fmt.Sprintf("%d", id)
}
