package exchange

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/market/ledger"
)

// Pause 暂停一个挂单类型的所有修改操作, 仅 owner
func (e *Exchange) Pause(ctx context.Context, caller common.Address, desk event.Desk) error {
	return e.setPaused(ctx, caller, desk, true)
}

// Unpause 恢复, 仅 owner
func (e *Exchange) Unpause(ctx context.Context, caller common.Address, desk event.Desk) error {
	return e.setPaused(ctx, caller, desk, false)
}

func (e *Exchange) setPaused(ctx context.Context, caller common.Address, desk event.Desk, paused bool) error {
	op, typ := "unpause", event.Unpaused
	if paused {
		op, typ = "pause", event.Paused
	}
	return e.apply(ctx, op, func(t *tx) error {
		if err := e.onlyOwner(caller); err != nil {
			return err
		}
		if !desk.Valid() {
			return errs.ErrInvalidDesk.WithMessage("%q", desk)
		}
		prev := e.paused[desk]
		if prev == paused {
			return nil
		}
		e.paused[desk] = paused
		e.j.Append(func() { e.paused[desk] = prev })
		t.emit(event.Event{Type: typ, Desk: desk, Maker: caller})
		return nil
	})
}

// Paused 挂单类型是否已暂停
func (e *Exchange) Paused(desk event.Desk) bool {
	var p bool
	e.view(func() { p = e.paused[desk] })
	return p
}

// SetFees 更新费率
func (e *Exchange) SetFees(ctx context.Context, caller common.Address, cfg fee.Config) error {
	return e.apply(ctx, "set_fees", func(*tx) error {
		return e.fees.SetFees(caller, cfg)
	})
}

// Fees 当前费率配置
func (e *Exchange) Fees() fee.Config {
	var c fee.Config
	e.view(func() { c = e.fees.Config() })
	return c
}

// FeeQuote seller 卖给 buyer 时适用的费率
func (e *Exchange) FeeQuote(seller, buyer, collection common.Address, tokenID *big.Int) fee.Quote {
	var q fee.Quote
	e.view(func() { q = e.fees.Fees(seller, buyer, collection, tokenID) })
	return q
}

// TakerFee maker 挂单时会被锁定的 taker 费率
func (e *Exchange) TakerFee(maker common.Address) bps.Bps {
	var p bps.Bps
	e.view(func() { p = e.fees.TakerFee(maker) })
	return p
}

// IsFirstSale token 是否还没有成交过
func (e *Exchange) IsFirstSale(collection common.Address, tokenID *big.Int) bool {
	var sold bool
	e.view(func() { sold = e.fees.IsSold(collection, tokenID) })
	return !sold
}

func (e *Exchange) SetRoyalties(ctx context.Context, caller, collection, recipient common.Address, percent bps.Bps) error {
	return e.apply(ctx, "set_royalties", func(*tx) error {
		return e.royalties.SetRoyaltiesForCollection(caller, collection, recipient, percent)
	})
}

func (e *Exchange) RemoveRoyalties(ctx context.Context, caller, collection common.Address) error {
	return e.apply(ctx, "remove_royalties", func(*tx) error {
		return e.royalties.RemoveRoyalties(caller, collection)
	})
}

func (e *Exchange) Royalties(collection common.Address) (common.Address, bps.Bps) {
	var (
		recipient common.Address
		percent   bps.Bps
	)
	e.view(func() { recipient, percent = e.royalties.Royalties(collection) })
	return recipient, percent
}

func (e *Exchange) AddSaleContract(ctx context.Context, caller, contract common.Address) error {
	return e.apply(ctx, "add_sale_contract", func(*tx) error {
		return e.contracts.AddSaleContract(caller, contract)
	})
}

func (e *Exchange) RemoveSaleContract(ctx context.Context, caller, contract common.Address) error {
	return e.apply(ctx, "remove_sale_contract", func(*tx) error {
		return e.contracts.RemoveSaleContract(caller, contract)
	})
}

func (e *Exchange) IsSaleContract(addr common.Address) bool {
	var ok bool
	e.view(func() { ok = e.contracts.IsSaleContract(addr) })
	return ok
}

func (e *Exchange) SaleContracts() []common.Address {
	var out []common.Address
	e.view(func() { out = e.contracts.SaleContracts() })
	return out
}

// MintMasterKey 铸造主密钥, 仅 owner
func (e *Exchange) MintMasterKey(ctx context.Context, caller, to common.Address) (uint64, error) {
	var id uint64
	err := e.apply(ctx, "mint_master_key", func(*tx) error {
		var err error
		id, err = e.keys.Mint(caller, to)
		return err
	})
	return id, err
}

func (e *Exchange) TransferMasterKey(ctx context.Context, caller, from, to common.Address, id uint64) error {
	return e.apply(ctx, "transfer_master_key", func(*tx) error {
		return e.keys.Transfer(caller, from, to, id)
	})
}

// MasterKeys 持有数量和总量
func (e *Exchange) MasterKeys(holder common.Address) (balance, supply uint64) {
	e.view(func() {
		balance = e.keys.BalanceOf(holder)
		supply = e.keys.TotalSupply()
	})
	return balance, supply
}

func (e *Exchange) MasterKeyOwner(id uint64) (common.Address, error) {
	var (
		owner common.Address
		err   error
	)
	e.view(func() { owner, err = e.keys.OwnerOf(id) })
	return owner, err
}

// DividendPool 待分配分红
func (e *Exchange) DividendPool() *big.Int {
	var p *big.Int
	e.view(func() { p = e.keys.Pool() })
	return p
}

// CreateCollection 创建进程内 NFT 集合
func (e *Exchange) CreateCollection(ctx context.Context, creator, collection common.Address) error {
	return e.apply(ctx, "create_collection", func(*tx) error {
		return e.nfts.CreateCollection(creator, collection)
	})
}

func (e *Exchange) MintNFT(ctx context.Context, caller, collection, to common.Address, tokenID *big.Int) error {
	return e.apply(ctx, "mint_nft", func(*tx) error {
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		return e.nfts.Mint(caller, collection, to, tokenID)
	})
}

func (e *Exchange) ApproveNFT(ctx context.Context, caller, collection, spender common.Address, tokenID *big.Int) error {
	return e.apply(ctx, "approve_nft", func(*tx) error {
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		return e.nfts.Approve(caller, collection, spender, tokenID)
	})
}

func (e *Exchange) SetApprovalForAll(ctx context.Context, caller, collection, operator common.Address, approved bool) error {
	return e.apply(ctx, "set_approval_for_all", func(*tx) error {
		return e.nfts.SetApprovalForAll(caller, collection, operator, approved)
	})
}

// SetRejectTransfers 让集合拒绝转移, 仅 owner, 用于演练转移失败
func (e *Exchange) SetRejectTransfers(ctx context.Context, caller, collection common.Address, reject bool) error {
	return e.apply(ctx, "set_reject_transfers", func(*tx) error {
		if err := e.onlyOwner(caller); err != nil {
			return err
		}
		return e.nfts.SetRejectTransfers(collection, reject)
	})
}

// TransferNFT 持有者或被授权者直接转移 token
func (e *Exchange) TransferNFT(ctx context.Context, caller, collection, from, to common.Address, tokenID *big.Int) error {
	return e.apply(ctx, "transfer_nft", func(*tx) error {
		if err := validTokenID(tokenID); err != nil {
			return err
		}
		c, err := e.nfts.Collection(collection)
		if err != nil {
			return err
		}
		return c.TransferFrom(caller, from, to, tokenID)
	})
}

func (e *Exchange) OwnerOf(collection common.Address, tokenID *big.Int) (common.Address, error) {
	var (
		owner common.Address
		err   error
	)
	e.view(func() {
		c, cerr := e.nfts.Collection(collection)
		if cerr != nil {
			err = cerr
			return
		}
		owner, err = c.OwnerOf(tokenID)
	})
	return owner, err
}

func (e *Exchange) TokensOf(collection, holder common.Address) ([]*big.Int, error) {
	var (
		out []*big.Int
		err error
	)
	e.view(func() { out, err = e.nfts.TokensOf(collection, holder) })
	return out, err
}

// Deposit 给账户充值原生币
func (e *Exchange) Deposit(ctx context.Context, to common.Address, amount *big.Int) error {
	return e.apply(ctx, "deposit", func(*tx) error {
		return e.ledger.Deposit(to, amount)
	})
}

// SetReceiver 为地址注册收款钩子, nil 表示移除
func (e *Exchange) SetReceiver(ctx context.Context, addr common.Address, r ledger.Receiver) error {
	return e.apply(ctx, "set_receiver", func(*tx) error {
		e.ledger.SetReceiver(addr, r)
		return nil
	})
}

// Balance 可用余额和待领取金额
func (e *Exchange) Balance(addr common.Address) (balance, owed *big.Int) {
	e.view(func() {
		balance = e.ledger.BalanceOf(addr)
		owed = e.ledger.Owed(addr)
	})
	return balance, owed
}
