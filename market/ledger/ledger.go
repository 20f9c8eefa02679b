// Package ledger 原生币记账
// 交易所地址即托管账户: 挂单时从 maker 余额划入托管, 成交/取消/过期时由托管账户推送给收款方.
// 收款方可以注册 Receiver 钩子拒收, 拒收时整个操作失败, 或在开启 pull 回退时记为待领取.
package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

// Receiver 收款钩子, 返回错误表示拒收
type Receiver interface {
	Receive(from common.Address, amount *big.Int) error
}

// ReceiverFunc 函数适配器
type ReceiverFunc func(from common.Address, amount *big.Int) error

func (f ReceiverFunc) Receive(from common.Address, amount *big.Int) error {
	return f(from, amount)
}

// Ledger 余额账本
type Ledger struct {
	escrow       common.Address
	pullFallback bool
	balances     map[common.Address]*big.Int
	owed         map[common.Address]*big.Int
	receivers    map[common.Address]Receiver
	dust         *big.Int
	j            *journal.Journal
}

type Option func(*Ledger)

// WithPullFallback 推送被拒时记入待领取而不是让操作失败
func WithPullFallback(on bool) Option {
	return func(l *Ledger) {
		l.pullFallback = on
	}
}

func New(escrow common.Address, j *journal.Journal, opts ...Option) *Ledger {
	l := &Ledger{
		escrow:    escrow,
		balances:  make(map[common.Address]*big.Int),
		owed:      make(map[common.Address]*big.Int),
		receivers: make(map[common.Address]Receiver),
		dust:      new(big.Int),
		j:         j,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) EscrowAccount() common.Address {
	return l.escrow
}

func (l *Ledger) PullFallback() bool {
	return l.pullFallback
}

func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	return copyOf(l.balances[addr])
}

func (l *Ledger) EscrowBalance() *big.Int {
	return l.BalanceOf(l.escrow)
}

func (l *Ledger) Owed(addr common.Address) *big.Int {
	return copyOf(l.owed[addr])
}

// TotalOwed 所有待领取金额之和
func (l *Ledger) TotalOwed() *big.Int {
	total := new(big.Int)
	for _, v := range l.owed {
		total.Add(total, v)
	}
	return total
}

func (l *Ledger) Dust() *big.Int {
	return copyOf(l.dust)
}

// SetReceiver 注册收款钩子, nil 表示移除
func (l *Ledger) SetReceiver(addr common.Address, r Receiver) {
	prev, had := l.receivers[addr]
	if r == nil {
		delete(l.receivers, addr)
	} else {
		l.receivers[addr] = r
	}
	l.j.Append(func() {
		if had {
			l.receivers[addr] = prev
		} else {
			delete(l.receivers, addr)
		}
	})
}

// Deposit 给账户充值
func (l *Ledger) Deposit(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errs.ErrInvalidValueSent
	}
	l.add(l.balances, to, amount)
	return nil
}

// Escrow 从 from 余额划入托管账户
func (l *Ledger) Escrow(from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errs.ErrInvalidValueSent
	}
	if l.balances[from] == nil || l.balances[from].Cmp(amount) < 0 {
		return errs.ErrInsufficientFunds.WithMessage("%s has %s, needs %s", from.Hex(), l.BalanceOf(from), amount)
	}
	l.sub(l.balances, from, amount)
	l.add(l.balances, l.escrow, amount)
	return nil
}

// Pay 从托管账户推送给 to.
// 收款方拒收时: 开启 pull 回退则记为待领取并返回 deferred=true, 否则返回 ErrTransferRejected.
func (l *Ledger) Pay(to common.Address, amount *big.Int) (deferred bool, err error) {
	if amount == nil || amount.Sign() == 0 {
		return false, nil
	}
	if amount.Sign() < 0 {
		return false, errs.ErrInvariant.WithMessage("negative payout %s to %s", amount, to.Hex())
	}
	if l.balances[l.escrow] == nil || l.balances[l.escrow].Cmp(amount) < 0 {
		return false, errs.ErrInvariant.WithMessage("escrow %s short of %s", l.EscrowBalance(), amount)
	}
	if r, ok := l.receivers[to]; ok {
		if rerr := r.Receive(l.escrow, amount); rerr != nil {
			if !l.pullFallback {
				return false, errors.Wrapf(errs.ErrTransferRejected.WithMessage("%s: %v", to.Hex(), rerr), "failed on pay %s", to.Hex())
			}
			// 资金留在托管账户, 等待 Withdraw
			l.add(l.owed, to, amount)
			return true, nil
		}
	}
	l.sub(l.balances, l.escrow, amount)
	l.add(l.balances, to, amount)
	return false, nil
}

// Withdraw 领取待领取金额, 收款方仍然拒收时失败
func (l *Ledger) Withdraw(to common.Address) (*big.Int, error) {
	amount := l.owed[to]
	if amount == nil || amount.Sign() == 0 {
		return nil, errs.ErrNothingToWithdraw
	}
	amount = copyOf(amount)
	if r, ok := l.receivers[to]; ok {
		if err := r.Receive(l.escrow, amount); err != nil {
			return nil, errors.Wrapf(errs.ErrTransferRejected.WithMessage("%s: %v", to.Hex(), err), "failed on withdraw %s", to.Hex())
		}
	}
	l.sub(l.owed, to, amount)
	l.sub(l.balances, l.escrow, amount)
	l.add(l.balances, to, amount)
	return amount, nil
}

// AddDust 记录分红整除余数, 资金永久留在托管账户
func (l *Ledger) AddDust(amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	prev := copyOf(l.dust)
	l.dust.Add(l.dust, amount)
	l.j.Append(func() { l.dust = prev })
}

func (l *Ledger) add(m map[common.Address]*big.Int, addr common.Address, amount *big.Int) {
	prev, had := m[addr]
	next := new(big.Int).Add(copyOf(prev), amount)
	m[addr] = next
	l.j.Append(func() { restore(m, addr, prev, had) })
}

func (l *Ledger) sub(m map[common.Address]*big.Int, addr common.Address, amount *big.Int) {
	prev, had := m[addr]
	next := new(big.Int).Sub(copyOf(prev), amount)
	if next.Sign() == 0 {
		delete(m, addr)
	} else {
		m[addr] = next
	}
	l.j.Append(func() { restore(m, addr, prev, had) })
}

func restore(m map[common.Address]*big.Int, addr common.Address, prev *big.Int, had bool) {
	if had {
		m[addr] = prev
	} else {
		delete(m, addr)
	}
}

func copyOf(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
