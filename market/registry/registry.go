// Package registry 销售合约白名单
// 白名单中的合约可以在没有逐个 token 授权的情况下转移 NFT, 并可以记录首次销售
package registry

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

// Checker 只读视图, 供 NFT 转移钩子和 FeeProvider 使用
type Checker interface {
	IsSaleContract(addr common.Address) bool
}

// ContractRegistry 销售合约注册表
type ContractRegistry struct {
	owner         common.Address
	saleContracts map[common.Address]struct{}
	j             *journal.Journal
}

var _ Checker = (*ContractRegistry)(nil)

func New(owner common.Address, j *journal.Journal) *ContractRegistry {
	return &ContractRegistry{
		owner:         owner,
		saleContracts: make(map[common.Address]struct{}),
		j:             j,
	}
}

func (r *ContractRegistry) Owner() common.Address {
	return r.owner
}

// AddSaleContract 添加销售合约, 仅 owner
func (r *ContractRegistry) AddSaleContract(caller, contract common.Address) error {
	if caller != r.owner {
		return errs.ErrNotOwner
	}
	if contract == (common.Address{}) {
		return errs.ErrInvalidAddress
	}
	if _, ok := r.saleContracts[contract]; ok {
		return nil
	}
	r.saleContracts[contract] = struct{}{}
	r.j.Append(func() { delete(r.saleContracts, contract) })
	return nil
}

// RemoveSaleContract 移除销售合约, 仅 owner
func (r *ContractRegistry) RemoveSaleContract(caller, contract common.Address) error {
	if caller != r.owner {
		return errs.ErrNotOwner
	}
	if _, ok := r.saleContracts[contract]; !ok {
		return errs.ErrSaleContractMissing
	}
	delete(r.saleContracts, contract)
	r.j.Append(func() { r.saleContracts[contract] = struct{}{} })
	return nil
}

func (r *ContractRegistry) IsSaleContract(addr common.Address) bool {
	_, ok := r.saleContracts[addr]
	return ok
}

// SaleContracts 按地址排序的白名单
func (r *ContractRegistry) SaleContracts() []common.Address {
	out := make([]common.Address, 0, len(r.saleContracts))
	for addr := range r.saleContracts {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].Hex() < out[k].Hex()
	})
	return out
}
