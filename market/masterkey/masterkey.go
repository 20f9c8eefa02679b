// Package masterkey 主密钥 NFT 及分红池
// 持有者卖出时免 maker 费, 买入时免 taker 费, 并按持有 token 数量分享每笔成交手续费中的分红
package masterkey

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

// Holdings 只读视图, FeeProvider 使用
type Holdings interface {
	BalanceOf(addr common.Address) uint64
}

// Payout 一次分红中支付给某个持有者的金额
type Payout struct {
	Holder common.Address
	Tokens uint64
	Amount *big.Int
}

// Distribution 分红结果
type Distribution struct {
	Pool    *big.Int // 分红前的池子余额
	Share   *big.Int // 每个 token 的分红
	Dust    *big.Int // 整除余数, 永久留在托管账户
	Payouts []Payout
}

// PayFunc 由调用方提供的实际付款函数
type PayFunc func(to common.Address, amount *big.Int) error

// MasterKey 主密钥 NFT
type MasterKey struct {
	owner    common.Address
	nextID   uint64
	owners   map[uint64]common.Address
	balances map[common.Address]uint64
	pool     *big.Int
	j        *journal.Journal
}

var _ Holdings = (*MasterKey)(nil)

func New(owner common.Address, j *journal.Journal) *MasterKey {
	return &MasterKey{
		owner:    owner,
		nextID:   1,
		owners:   make(map[uint64]common.Address),
		balances: make(map[common.Address]uint64),
		pool:     new(big.Int),
		j:        j,
	}
}

// Mint 铸造一个主密钥给 to, 仅 owner, token id 从 1 开始
func (m *MasterKey) Mint(caller, to common.Address) (uint64, error) {
	if caller != m.owner {
		return 0, errs.ErrNotOwner
	}
	if to == (common.Address{}) {
		return 0, errs.ErrInvalidAddress
	}
	id := m.nextID
	m.nextID++
	m.setOwner(id, to)
	m.j.Append(func() { m.nextID = id })
	return id, nil
}

// Transfer 转移主密钥, 调用方必须是当前持有者
func (m *MasterKey) Transfer(caller, from, to common.Address, id uint64) error {
	cur, ok := m.owners[id]
	if !ok {
		return errs.ErrTokenNotFound.WithMessage("master key %d", id)
	}
	if cur != from || caller != from {
		return errs.ErrNotTokenOwner
	}
	if to == (common.Address{}) {
		return errs.ErrInvalidAddress
	}
	m.setOwner(id, to)
	return nil
}

func (m *MasterKey) BalanceOf(addr common.Address) uint64 {
	return m.balances[addr]
}

func (m *MasterKey) OwnerOf(id uint64) (common.Address, error) {
	cur, ok := m.owners[id]
	if !ok {
		return common.Address{}, errs.ErrTokenNotFound.WithMessage("master key %d", id)
	}
	return cur, nil
}

func (m *MasterKey) TotalSupply() uint64 {
	return uint64(len(m.owners))
}

// Pool 当前分红池余额
func (m *MasterKey) Pool() *big.Int {
	return new(big.Int).Set(m.pool)
}

// Accrue 累加分红
func (m *MasterKey) Accrue(amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	prev := m.pool
	m.pool = new(big.Int).Add(m.pool, amount)
	m.j.Append(func() { m.pool = prev })
}

// Distribute 按当前持有者分配分红池: 每个 token 一份, share = pool / totalSupply (向下取整).
// 池子清零, 余数作为 Dust 返回. 没有持有者时不做任何事, 返回 nil.
func (m *MasterKey) Distribute(pay PayFunc) (*Distribution, error) {
	supply := m.TotalSupply()
	if supply == 0 || m.pool.Sign() == 0 {
		return nil, nil
	}
	pool := m.Pool()
	share := new(big.Int).Quo(pool, new(big.Int).SetUint64(supply))
	dust := new(big.Int).Sub(pool, new(big.Int).Mul(share, new(big.Int).SetUint64(supply)))

	// 按 token id 顺序汇总每个持有者的份额
	var order []common.Address
	tokens := make(map[common.Address]uint64)
	for id := uint64(1); id < m.nextID; id++ {
		holder, ok := m.owners[id]
		if !ok {
			continue
		}
		if tokens[holder] == 0 {
			order = append(order, holder)
		}
		tokens[holder]++
	}

	d := &Distribution{Pool: pool, Share: share, Dust: dust}
	for _, holder := range order {
		amount := new(big.Int).Mul(share, new(big.Int).SetUint64(tokens[holder]))
		if amount.Sign() > 0 {
			if err := pay(holder, amount); err != nil {
				return nil, err
			}
		}
		d.Payouts = append(d.Payouts, Payout{Holder: holder, Tokens: tokens[holder], Amount: amount})
	}

	prev := m.pool
	m.pool = new(big.Int)
	m.j.Append(func() { m.pool = prev })
	return d, nil
}

func (m *MasterKey) setOwner(id uint64, to common.Address) {
	prev, had := m.owners[id]
	m.owners[id] = to
	m.balances[to]++
	if had {
		m.decBalance(prev)
	}
	m.j.Append(func() {
		m.decBalance(to)
		if had {
			m.owners[id] = prev
			m.balances[prev]++
		} else {
			delete(m.owners, id)
		}
	})
}

func (m *MasterKey) decBalance(addr common.Address) {
	if m.balances[addr] <= 1 {
		delete(m.balances, addr)
		return
	}
	m.balances[addr]--
}
