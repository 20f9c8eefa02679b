// Package book 挂单簿
// 稳定 id 的数组仓库 + 唯一键索引 + 按分组可枚举的索引, 删除时 swap-and-pop, O(1).
package book

import (
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

// Commitment 托管资金的出价 (Bid / Offer / CollectionBid)
type Commitment struct {
	ID           uint64
	Maker        common.Address
	Collection   common.Address
	TokenID      *big.Int // 集合出价为 nil
	Price        *big.Int // 净价
	PriceWithFee *big.Int // 托管金额 = 净价加上挂单时的 taker 费
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired now 严格晚于过期时间
func (c *Commitment) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type entry[K, G comparable] struct {
	c     Commitment
	key   K
	group G
	pos   int
}

// Book K 为唯一键 (同一 maker 同一目标至多一个), G 为枚举分组
type Book[K, G comparable] struct {
	nextID uint64
	items  map[uint64]*entry[K, G]
	byKey  map[K]uint64
	groups map[G][]uint64
	j      *journal.Journal
}

func New[K, G comparable](j *journal.Journal) *Book[K, G] {
	return &Book[K, G]{
		nextID: 1,
		items:  make(map[uint64]*entry[K, G]),
		byKey:  make(map[K]uint64),
		groups: make(map[G][]uint64),
		j:      j,
	}
}

// Insert 分配 id 并插入, 键已存在时返回 ErrAlreadyExists
func (b *Book[K, G]) Insert(key K, group G, c Commitment) (uint64, error) {
	if id, ok := b.byKey[key]; ok {
		return 0, errs.ErrAlreadyExists.WithMessage("active commitment %d", id)
	}
	id := b.nextID
	b.nextID++
	c.ID = id
	e := &entry[K, G]{c: c, key: key, group: group, pos: len(b.groups[group])}
	b.items[id] = e
	b.byKey[key] = id
	b.groups[group] = append(b.groups[group], id)

	b.j.Append(func() {
		list := b.groups[group]
		list = list[:len(list)-1]
		if len(list) == 0 {
			delete(b.groups, group)
		} else {
			b.groups[group] = list
		}
		delete(b.byKey, key)
		delete(b.items, id)
		b.nextID = id
	})
	return id, nil
}

// Remove 删除并返回被删除的记录
func (b *Book[K, G]) Remove(id uint64) (*Commitment, error) {
	e, ok := b.items[id]
	if !ok {
		return nil, errs.ErrNoActiveCommitment.WithMessage("commitment %d", id)
	}
	list := b.groups[e.group]
	last := len(list) - 1
	movedID := list[last]
	pos := e.pos
	list[pos] = movedID
	b.items[movedID].pos = pos
	list = list[:last]
	if len(list) == 0 {
		delete(b.groups, e.group)
	} else {
		b.groups[e.group] = list
	}
	delete(b.items, id)
	delete(b.byKey, e.key)

	b.j.Append(func() {
		list := b.groups[e.group]
		if movedID != id {
			list[pos] = id
			b.items[movedID].pos = last
			list = append(list, movedID)
		} else {
			list = append(list, id)
		}
		e.pos = pos
		b.groups[e.group] = list
		b.items[id] = e
		b.byKey[e.key] = id
	})
	c := e.c
	return &c, nil
}

// Get 按 id 查询
func (b *Book[K, G]) Get(id uint64) (*Commitment, bool) {
	e, ok := b.items[id]
	if !ok {
		return nil, false
	}
	c := e.c
	return &c, true
}

// GetByKey 按唯一键查询
func (b *Book[K, G]) GetByKey(key K) (*Commitment, bool) {
	id, ok := b.byKey[key]
	if !ok {
		return nil, false
	}
	return b.Get(id)
}

// At 分组内第 i 个记录, 越界返回 ErrInvalidIndex
func (b *Book[K, G]) At(group G, i int) (*Commitment, error) {
	list := b.groups[group]
	if i < 0 || i >= len(list) {
		return nil, errs.ErrInvalidIndex.WithMessage("index %d of %d", i, len(list))
	}
	c, _ := b.Get(list[i])
	return c, nil
}

// Len 分组内记录数
func (b *Book[K, G]) Len(group G) int {
	return len(b.groups[group])
}

// Group 分组内全部记录, 按索引顺序
func (b *Book[K, G]) Group(group G) []*Commitment {
	list := b.groups[group]
	out := make([]*Commitment, 0, len(list))
	for _, id := range list {
		c, _ := b.Get(id)
		out = append(out, c)
	}
	return out
}

// Count 全部记录数
func (b *Book[K, G]) Count() int {
	return len(b.items)
}

// All 按 id 排序的全部记录
func (b *Book[K, G]) All() []*Commitment {
	out := make([]*Commitment, 0, len(b.items))
	for _, e := range b.items {
		c := e.c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// Expired 已过期的记录, 按 id 排序, limit <= 0 表示不限
func (b *Book[K, G]) Expired(now time.Time, limit int) []*Commitment {
	var out []*Commitment
	for _, c := range b.All() {
		if !c.Expired(now) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Check 校验索引一致性, 供测试使用
func (b *Book[K, G]) Check() error {
	seen := 0
	for g, list := range b.groups {
		if len(list) == 0 {
			return errs.ErrInvariant.WithMessage("empty group kept")
		}
		for i, id := range list {
			e, ok := b.items[id]
			if !ok {
				return errs.ErrInvariant.WithMessage("dangling index entry %d", id)
			}
			if e.pos != i || e.group != g {
				return errs.ErrInvariant.WithMessage("commitment %d position mismatch", id)
			}
			seen++
		}
	}
	if seen != len(b.items) || len(b.byKey) != len(b.items) {
		return errs.ErrInvariant.WithMessage("index sizes differ: items=%d groups=%d keys=%d", len(b.items), seen, len(b.byKey))
	}
	for k, id := range b.byKey {
		if e, ok := b.items[id]; !ok || e.key != k {
			return errs.ErrInvariant.WithMessage("key index points to %d", id)
		}
	}
	return nil
}
