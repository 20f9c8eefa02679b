// Package settlement 成交结算
// Bid / Offer / CollectionBid / 拍卖共用同一套拆分逻辑:
//
//	makerFee       = net * makerPct / 10000
//	royalty        = net * royaltyPct / 10000
//	sellerProceeds = net - makerFee - royalty
//	takerFee       = gross - net (挂单时锁定)
//	dividend       = (makerFee + takerFee) * cut / 10000
//	feeSink        = makerFee + takerFee - dividend
//
// 所有除法向下取整. Settle 不自行回滚, 调用方必须在日志快照内调用.
package settlement

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/market/nft"
	"github.com/ProjectsTask/EasySwapMarket/market/royalty"
)

// Payer 从托管账户付款
type Payer interface {
	Pay(to common.Address, amount *big.Int) (deferred bool, err error)
}

// SaleRecorder 记录首次销售
type SaleRecorder interface {
	OnSale(caller, collection common.Address, tokenID *big.Int) error
}

// DividendPool 主密钥分红池
type DividendPool interface {
	Accrue(amount *big.Int)
}

// Sale 一次成交的输入
type Sale struct {
	Collection common.Address
	TokenID    *big.Int
	Seller     common.Address
	Buyer      common.Address
	NetPrice   *big.Int // 卖方报价, 不含 taker 费
	Gross      *big.Int // 托管金额, 含 taker 费
}

// Breakdown 结算明细, seller + royalty + feeSink + dividend == gross
type Breakdown struct {
	NetPrice         *big.Int       `json:"net_price"`
	Gross            *big.Int       `json:"gross"`
	MakerFeePercent  bps.Bps        `json:"maker_fee_percent"`
	MakerFee         *big.Int       `json:"maker_fee"`
	TakerFee         *big.Int       `json:"taker_fee"`
	RoyaltyRecipient common.Address `json:"royalty_recipient"`
	RoyaltyPercent   bps.Bps        `json:"royalty_percent"`
	Royalty          *big.Int       `json:"royalty"`
	SellerProceeds   *big.Int       `json:"seller_proceeds"`
	FeeSink          *big.Int       `json:"fee_sink"`
	Dividend         *big.Int       `json:"dividend"`
	InitialSale      bool           `json:"initial_sale"`
	SellerWaived     bool           `json:"seller_waived"`
	BuyerWaived      bool           `json:"buyer_waived"`
	// 收款方拒收后记为待领取的付款
	Deferred []Payment `json:"deferred,omitempty"`
}

// Payment 一笔付款
type Payment struct {
	To     common.Address `json:"to"`
	Amount *big.Int       `json:"amount"`
}

// TotalFee makerFee + takerFee
func (b *Breakdown) TotalFee() *big.Int {
	return new(big.Int).Add(b.MakerFee, b.TakerFee)
}

// Engine 结算引擎
type Engine struct {
	operator  common.Address // 交易所地址, 必须在销售合约白名单中
	feeSink   common.Address
	fees      fee.Source
	sales     SaleRecorder
	royalties royalty.Source
	pool      DividendPool
	payer     Payer
	nfts      nft.Resolver
}

func New(operator, feeSink common.Address, fees fee.Source, sales SaleRecorder, royalties royalty.Source,
	pool DividendPool, payer Payer, nfts nft.Resolver) *Engine {
	return &Engine{
		operator:  operator,
		feeSink:   feeSink,
		fees:      fees,
		sales:     sales,
		royalties: royalties,
		pool:      pool,
		payer:     payer,
		nfts:      nfts,
	}
}

func (e *Engine) FeeSink() common.Address {
	return e.feeSink
}

// Quote 只计算拆分, 不改变任何状态
func (e *Engine) Quote(s Sale) (*Breakdown, error) {
	if s.NetPrice == nil || s.Gross == nil || s.NetPrice.Sign() < 0 {
		return nil, errs.ErrInvalidPrice
	}
	if s.Gross.Cmp(s.NetPrice) < 0 {
		return nil, errs.ErrInvariant.WithMessage("gross %s below net %s", s.Gross, s.NetPrice)
	}

	// 1. 费率
	q := e.fees.Fees(s.Seller, s.Buyer, s.Collection, s.TokenID)
	// 2. maker 费
	makerFee := q.MakerFee.Of(s.NetPrice)
	// 3. 版税
	recipient, royaltyPct := e.royalties.Royalties(s.Collection)
	if recipient == (common.Address{}) {
		royaltyPct = 0
	}
	royaltyAmount := royaltyPct.Of(s.NetPrice)
	// 4. 卖方所得
	proceeds := new(big.Int).Sub(s.NetPrice, makerFee)
	proceeds.Sub(proceeds, royaltyAmount)
	if proceeds.Sign() < 0 {
		return nil, errs.ErrInvariant.WithMessage("maker fee %s plus royalty %s exceed net %s", makerFee, royaltyAmount, s.NetPrice)
	}
	// 5. taker 费已在挂单时锁定
	takerFee := new(big.Int).Sub(s.Gross, s.NetPrice)
	// 6-7. 分红与手续费接收地址
	total := new(big.Int).Add(makerFee, takerFee)
	dividend := e.fees.MasterKeyCut().Of(total)
	sink := new(big.Int).Sub(total, dividend)

	return &Breakdown{
		NetPrice:         new(big.Int).Set(s.NetPrice),
		Gross:            new(big.Int).Set(s.Gross),
		MakerFeePercent:  q.MakerFee,
		MakerFee:         makerFee,
		TakerFee:         takerFee,
		RoyaltyRecipient: recipient,
		RoyaltyPercent:   royaltyPct,
		Royalty:          royaltyAmount,
		SellerProceeds:   proceeds,
		FeeSink:          sink,
		Dividend:         dividend,
		InitialSale:      q.InitialSale,
		SellerWaived:     q.SellerWaived,
		BuyerWaived:      q.BuyerWaived,
	}, nil
}

// Settle 付款, 转移 NFT, 记录成交并累加分红.
// 任何一步失败都直接返回错误, 已发生的修改由调用方回滚.
func (e *Engine) Settle(s Sale) (*Breakdown, error) {
	b, err := e.Quote(s)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int).Add(b.SellerProceeds, b.Royalty)
	sum.Add(sum, b.FeeSink).Add(sum, b.Dividend)
	if sum.Cmp(b.Gross) != 0 {
		return nil, errs.ErrInvariant.WithMessage("split %s != gross %s", sum, b.Gross)
	}

	// 8. 付款, 分红留在托管账户
	for _, p := range []struct {
		to     common.Address
		amount *big.Int
	}{
		{s.Seller, b.SellerProceeds},
		{b.RoyaltyRecipient, b.Royalty},
		{e.feeSink, b.FeeSink},
	} {
		if p.amount.Sign() == 0 || p.to == (common.Address{}) {
			continue
		}
		deferred, err := e.payer.Pay(p.to, p.amount)
		if err != nil {
			return nil, errors.Wrap(err, "failed on settlement payout")
		}
		if deferred {
			b.Deferred = append(b.Deferred, Payment{To: p.to, Amount: p.amount})
		}
	}
	e.pool.Accrue(b.Dividend)

	// 9. 转移 NFT
	c, err := e.nfts.Collection(s.Collection)
	if err != nil {
		return nil, err
	}
	if err := c.TransferFrom(e.operator, s.Seller, s.Buyer, s.TokenID); err != nil {
		return nil, errors.Wrap(err, "failed on nft transfer")
	}
	if err := e.sales.OnSale(e.operator, s.Collection, s.TokenID); err != nil {
		return nil, errors.Wrap(err, "failed on record sale")
	}
	return b, nil
}
