// Package royalty 按集合配置的版税
package royalty

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

// DefaultCeiling 默认版税上限 50%
const DefaultCeiling bps.Bps = 5000

// Entry 版税记录
type Entry struct {
	Collection common.Address
	Recipient  common.Address
	Percent    bps.Bps
}

// Source 只读视图, 结算引擎使用
type Source interface {
	Royalties(collection common.Address) (common.Address, bps.Bps)
}

// Provider 版税注册表, 每个集合至多一条
type Provider struct {
	owner   common.Address
	ceiling bps.Bps
	entries map[common.Address]Entry
	j       *journal.Journal
}

var _ Source = (*Provider)(nil)

func New(owner common.Address, ceiling bps.Bps, j *journal.Journal) *Provider {
	if ceiling == 0 || ceiling > bps.Denominator {
		ceiling = DefaultCeiling
	}
	return &Provider{
		owner:   owner,
		ceiling: ceiling,
		entries: make(map[common.Address]Entry),
		j:       j,
	}
}

func (p *Provider) Ceiling() bps.Bps {
	return p.ceiling
}

// SetRoyaltiesForCollection 设置集合版税, 仅 owner, 超过上限返回 ErrInvalidPercent
func (p *Provider) SetRoyaltiesForCollection(caller, collection, recipient common.Address, percent bps.Bps) error {
	if caller != p.owner {
		return errs.ErrNotOwner
	}
	if !percent.Valid(p.ceiling) {
		return errs.ErrInvalidPercent.WithMessage("royalty %s above ceiling %s", percent, p.ceiling)
	}
	if collection == (common.Address{}) {
		return errs.ErrInvalidCollection
	}
	if percent > 0 && recipient == (common.Address{}) {
		return errs.ErrInvalidAddress.WithMessage("royalty recipient is empty")
	}
	prev, had := p.entries[collection]
	p.entries[collection] = Entry{Collection: collection, Recipient: recipient, Percent: percent}
	p.j.Append(func() { p.restore(collection, prev, had) })
	return nil
}

// RemoveRoyalties 删除集合版税, 仅 owner
func (p *Provider) RemoveRoyalties(caller, collection common.Address) error {
	if caller != p.owner {
		return errs.ErrNotOwner
	}
	prev, had := p.entries[collection]
	if !had {
		return nil
	}
	delete(p.entries, collection)
	p.j.Append(func() { p.restore(collection, prev, had) })
	return nil
}

// Royalties 无记录时返回零地址和 0
func (p *Provider) Royalties(collection common.Address) (common.Address, bps.Bps) {
	e, ok := p.entries[collection]
	if !ok {
		return common.Address{}, 0
	}
	return e.Recipient, e.Percent
}

func (p *Provider) restore(collection common.Address, prev Entry, had bool) {
	if had {
		p.entries[collection] = prev
	} else {
		delete(p.entries, collection)
	}
}
