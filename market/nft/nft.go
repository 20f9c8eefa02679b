// Package nft ERC-721 协作方
// 交易核心只依赖 Collection / Resolver 接口; Store 是进程内实现, 供服务和测试使用.
package nft

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
	"github.com/ProjectsTask/EasySwapMarket/market/registry"
)

// Collection 单个 NFT 集合
type Collection interface {
	OwnerOf(tokenID *big.Int) (common.Address, error)
	IsApprovedOrOwner(spender common.Address, tokenID *big.Int) bool
	TransferFrom(operator, from, to common.Address, tokenID *big.Int) error
}

// Resolver 按地址查找集合
type Resolver interface {
	Collection(addr common.Address) (Collection, error)
}

// Store 进程内的 NFT 集合仓库
type Store struct {
	contracts   registry.Checker
	collections map[common.Address]*memCollection
	j           *journal.Journal
}

var _ Resolver = (*Store)(nil)

func NewStore(contracts registry.Checker, j *journal.Journal) *Store {
	return &Store{
		contracts:   contracts,
		collections: make(map[common.Address]*memCollection),
		j:           j,
	}
}

// CreateCollection 创建集合, creator 拥有铸造权限
func (s *Store) CreateCollection(creator, addr common.Address) error {
	if addr == (common.Address{}) {
		return errs.ErrInvalidCollection
	}
	if _, ok := s.collections[addr]; ok {
		return errs.ErrCollectionExists.WithMessage("%s", addr.Hex())
	}
	s.collections[addr] = &memCollection{
		store:     s,
		addr:      addr,
		creator:   creator,
		owners:    make(map[common.Hash]common.Address),
		approvals: make(map[common.Hash]common.Address),
		operators: make(map[operatorKey]struct{}),
	}
	s.j.Append(func() { delete(s.collections, addr) })
	return nil
}

func (s *Store) Collection(addr common.Address) (Collection, error) {
	c, err := s.get(addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Collections 按地址排序的集合列表
func (s *Store) Collections() []common.Address {
	out := make([]common.Address, 0, len(s.collections))
	for addr := range s.collections {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Hex() < out[k].Hex() })
	return out
}

// Mint 铸造 token, 仅集合创建者
func (s *Store) Mint(caller, collection, to common.Address, tokenID *big.Int) error {
	c, err := s.get(collection)
	if err != nil {
		return err
	}
	if caller != c.creator {
		return errs.ErrNotOwner
	}
	if to == (common.Address{}) {
		return errs.ErrInvalidAddress
	}
	key := common.BigToHash(tokenID)
	if _, ok := c.owners[key]; ok {
		return errs.ErrAlreadyExists.WithMessage("token %s", tokenID)
	}
	c.setOwner(key, to)
	return nil
}

// Approve 授权 spender 转移单个 token, 调用方必须是持有者或全局操作员
func (s *Store) Approve(caller, collection, spender common.Address, tokenID *big.Int) error {
	c, err := s.get(collection)
	if err != nil {
		return err
	}
	key := common.BigToHash(tokenID)
	owner, ok := c.owners[key]
	if !ok {
		return errs.ErrTokenNotFound.WithMessage("token %s", tokenID)
	}
	if caller != owner && !c.isOperator(owner, caller) {
		return errs.ErrNotTokenOwner
	}
	c.setApproval(key, spender)
	return nil
}

// SetApprovalForAll 设置全局操作员
func (s *Store) SetApprovalForAll(caller, collection, operator common.Address, approved bool) error {
	c, err := s.get(collection)
	if err != nil {
		return err
	}
	k := operatorKey{owner: caller, operator: operator}
	_, had := c.operators[k]
	if had == approved {
		return nil
	}
	if approved {
		c.operators[k] = struct{}{}
	} else {
		delete(c.operators, k)
	}
	s.j.Append(func() {
		if had {
			c.operators[k] = struct{}{}
		} else {
			delete(c.operators, k)
		}
	})
	return nil
}

// SetRejectTransfers 让集合拒绝所有转移, 模拟转移钩子失败
func (s *Store) SetRejectTransfers(collection common.Address, reject bool) error {
	c, err := s.get(collection)
	if err != nil {
		return err
	}
	prev := c.rejectTransfers
	c.rejectTransfers = reject
	s.j.Append(func() { c.rejectTransfers = prev })
	return nil
}

// TokensOf 持有者在集合中的 token, 按 id 排序
func (s *Store) TokensOf(collection, holder common.Address) ([]*big.Int, error) {
	c, err := s.get(collection)
	if err != nil {
		return nil, err
	}
	var out []*big.Int
	for key, owner := range c.owners {
		if owner == holder {
			out = append(out, key.Big())
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Cmp(out[k]) < 0 })
	return out, nil
}

func (s *Store) get(addr common.Address) (*memCollection, error) {
	c, ok := s.collections[addr]
	if !ok {
		return nil, errs.ErrCollectionNotFound.WithMessage("%s", addr.Hex())
	}
	return c, nil
}

type operatorKey struct {
	owner    common.Address
	operator common.Address
}

type memCollection struct {
	store           *Store
	addr            common.Address
	creator         common.Address
	owners          map[common.Hash]common.Address
	approvals       map[common.Hash]common.Address
	operators       map[operatorKey]struct{}
	rejectTransfers bool
}

func (c *memCollection) OwnerOf(tokenID *big.Int) (common.Address, error) {
	owner, ok := c.owners[common.BigToHash(tokenID)]
	if !ok {
		return common.Address{}, errs.ErrTokenNotFound.WithMessage("token %s in %s", tokenID, c.addr.Hex())
	}
	return owner, nil
}

func (c *memCollection) IsApprovedOrOwner(spender common.Address, tokenID *big.Int) bool {
	key := common.BigToHash(tokenID)
	owner, ok := c.owners[key]
	if !ok {
		return false
	}
	return spender == owner || c.approvals[key] == spender || c.isOperator(owner, spender)
}

// TransferFrom 转移 token. 白名单中的销售合约无需授权.
func (c *memCollection) TransferFrom(operator, from, to common.Address, tokenID *big.Int) error {
	key := common.BigToHash(tokenID)
	owner, ok := c.owners[key]
	if !ok {
		return errs.ErrTokenNotFound.WithMessage("token %s in %s", tokenID, c.addr.Hex())
	}
	if owner != from {
		return errs.ErrNotTokenOwner.WithMessage("%s does not own token %s", from.Hex(), tokenID)
	}
	if to == (common.Address{}) {
		return errs.ErrInvalidAddress
	}
	authorized := operator == owner ||
		c.approvals[key] == operator ||
		c.isOperator(owner, operator) ||
		(c.store.contracts != nil && c.store.contracts.IsSaleContract(operator))
	if !authorized {
		return errs.ErrNftTransferFailed.WithMessage("%s not approved for token %s", operator.Hex(), tokenID)
	}
	if c.rejectTransfers {
		return errs.ErrNftTransferFailed.WithMessage("collection %s rejected transfer", c.addr.Hex())
	}
	c.setApproval(key, common.Address{})
	c.setOwner(key, to)
	return nil
}

func (c *memCollection) isOperator(owner, operator common.Address) bool {
	_, ok := c.operators[operatorKey{owner: owner, operator: operator}]
	return ok
}

func (c *memCollection) setOwner(key common.Hash, to common.Address) {
	prev, had := c.owners[key]
	c.owners[key] = to
	c.store.j.Append(func() {
		if had {
			c.owners[key] = prev
		} else {
			delete(c.owners, key)
		}
	})
}

func (c *memCollection) setApproval(key common.Hash, spender common.Address) {
	prev, had := c.approvals[key]
	if spender == (common.Address{}) {
		if !had {
			return
		}
		delete(c.approvals, key)
	} else {
		c.approvals[key] = spender
	}
	c.store.j.Append(func() {
		if had {
			c.approvals[key] = prev
		} else {
			delete(c.approvals, key)
		}
	})
}
