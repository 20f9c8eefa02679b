// Package fee 手续费计算
// maker 费由卖方承担, 从净价中扣除; taker 费由买方承担, 在挂单时加到托管金额上.
// token 第一次通过销售合约成交时, 用首次销售费率代替 maker 费率.
package fee

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
	"github.com/ProjectsTask/EasySwapMarket/market/masterkey"
	"github.com/ProjectsTask/EasySwapMarket/market/registry"
)

// DefaultCeiling 单项费率默认上限 50%
const DefaultCeiling bps.Bps = 5000

// Config 费率配置, 均为基点
type Config struct {
	InitialSaleFee bps.Bps `json:"initial_sale_fee"`
	MakerFee       bps.Bps `json:"maker_fee"`
	TakerFee       bps.Bps `json:"taker_fee"`
	MasterKeyCut   bps.Bps `json:"master_key_cut"` // 手续费中进入分红池的比例
}

// Validate 检查各项费率, ceiling 为单项费率上限
func (c Config) Validate(ceiling bps.Bps) error {
	for _, f := range []struct {
		name string
		p    bps.Bps
	}{
		{"initial_sale_fee", c.InitialSaleFee},
		{"maker_fee", c.MakerFee},
		{"taker_fee", c.TakerFee},
	} {
		if !f.p.Valid(ceiling) {
			return errs.ErrInvalidPercent.WithMessage("%s %s above ceiling %s", f.name, f.p, ceiling)
		}
	}
	if !c.MasterKeyCut.Valid(bps.Denominator) {
		return errs.ErrInvalidPercent.WithMessage("master_key_cut %s above 100%%", c.MasterKeyCut)
	}
	return nil
}

// Quote 一次成交适用的费率
type Quote struct {
	MakerFee     bps.Bps
	TakerFee     bps.Bps
	InitialSale  bool // 使用了首次销售费率
	SellerWaived bool // 卖方持有主密钥
	BuyerWaived  bool // 买方持有主密钥
}

// Source 只读视图, 结算引擎使用
type Source interface {
	Fees(seller, buyer, collection common.Address, tokenID *big.Int) Quote
	TakerFee(buyer common.Address) bps.Bps
	MasterKeyCut() bps.Bps
}

// Provider 费率提供者
type Provider struct {
	owner     common.Address
	ceiling   bps.Bps
	cfg       Config
	keys      masterkey.Holdings
	contracts registry.Checker
	sold      map[saleKey]struct{}
	j         *journal.Journal
}

type saleKey struct {
	collection common.Address
	tokenID    common.Hash
}

var _ Source = (*Provider)(nil)

func New(owner common.Address, cfg Config, ceiling bps.Bps, keys masterkey.Holdings, contracts registry.Checker, j *journal.Journal) (*Provider, error) {
	if ceiling == 0 || ceiling > bps.Denominator {
		ceiling = DefaultCeiling
	}
	if err := cfg.Validate(ceiling); err != nil {
		return nil, err
	}
	return &Provider{
		owner:     owner,
		ceiling:   ceiling,
		cfg:       cfg,
		keys:      keys,
		contracts: contracts,
		sold:      make(map[saleKey]struct{}),
		j:         j,
	}, nil
}

func (p *Provider) Config() Config {
	return p.cfg
}

func (p *Provider) Ceiling() bps.Bps {
	return p.ceiling
}

// SetFees 更新费率, 仅 owner
func (p *Provider) SetFees(caller common.Address, cfg Config) error {
	if caller != p.owner {
		return errs.ErrNotOwner
	}
	if err := cfg.Validate(p.ceiling); err != nil {
		return err
	}
	prev := p.cfg
	p.cfg = cfg
	p.j.Append(func() { p.cfg = prev })
	return nil
}

// Fees 计算 seller 卖给 buyer 时适用的费率
func (p *Provider) Fees(seller, buyer, collection common.Address, tokenID *big.Int) Quote {
	var q Quote
	switch {
	case p.keys.BalanceOf(seller) > 0:
		q.SellerWaived = true
	case !p.IsSold(collection, tokenID):
		q.MakerFee = p.cfg.InitialSaleFee
		q.InitialSale = true
	default:
		q.MakerFee = p.cfg.MakerFee
	}
	if p.keys.BalanceOf(buyer) > 0 {
		q.BuyerWaived = true
	} else {
		q.TakerFee = p.cfg.TakerFee
	}
	return q
}

// TakerFee 挂单时锁定的 taker 费率
func (p *Provider) TakerFee(buyer common.Address) bps.Bps {
	if p.keys.BalanceOf(buyer) > 0 {
		return 0
	}
	return p.cfg.TakerFee
}

func (p *Provider) MasterKeyCut() bps.Bps {
	return p.cfg.MasterKeyCut
}

// IsSold token 是否已经通过销售合约成交过
func (p *Provider) IsSold(collection common.Address, tokenID *big.Int) bool {
	_, ok := p.sold[keyOf(collection, tokenID)]
	return ok
}

// OnSale 记录一次成交, 仅白名单中的销售合约可以调用, 记录永不重置
func (p *Provider) OnSale(caller, collection common.Address, tokenID *big.Int) error {
	if !p.contracts.IsSaleContract(caller) {
		return errs.ErrNotSaleContract.WithMessage("%s", caller.Hex())
	}
	key := keyOf(collection, tokenID)
	if _, ok := p.sold[key]; ok {
		return nil
	}
	p.sold[key] = struct{}{}
	p.j.Append(func() { delete(p.sold, key) })
	return nil
}

func keyOf(collection common.Address, tokenID *big.Int) saleKey {
	if tokenID == nil {
		tokenID = new(big.Int)
	}
	return saleKey{collection: collection, tokenID: common.BigToHash(tokenID)}
}
