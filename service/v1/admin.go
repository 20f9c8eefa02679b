package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/market/masterkey"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

// SetPaused 暂停或恢复一个挂单类型, 仅 owner
func SetPaused(ctx context.Context, svcCtx *svc.ServerCtx, caller, desk string, paused bool) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	d, err := parseDesk(desk)
	if err != nil {
		return err
	}
	if paused {
		err = svcCtx.Exchange.Pause(ctx, callerAddr, d)
	} else {
		err = svcCtx.Exchange.Unpause(ctx, callerAddr, d)
	}
	return errors.Wrapf(err, "failed on set %s paused=%t", desk, paused)
}

// GetPaused 各挂单类型的暂停状态
func GetPaused(ctx context.Context, svcCtx *svc.ServerCtx) types.PausedInfo {
	out := make(types.PausedInfo, len(event.Desks))
	for _, d := range event.Desks {
		out[string(d)] = svcCtx.Exchange.Paused(d)
	}
	return out
}

func feesInfo(c fee.Config) *types.FeesInfo {
	return &types.FeesInfo{
		InitialSaleFee: uint64(c.InitialSaleFee),
		MakerFee:       uint64(c.MakerFee),
		TakerFee:       uint64(c.TakerFee),
		MasterKeyCut:   uint64(c.MasterKeyCut),
	}
}

// GetFees 当前费率
func GetFees(ctx context.Context, svcCtx *svc.ServerCtx) *types.FeesInfo {
	return feesInfo(svcCtx.Exchange.Fees())
}

// SetFees 更新费率, 仅 owner; 已有挂单锁定的 taker 费不受影响
func SetFees(ctx context.Context, svcCtx *svc.ServerCtx, caller string, req types.FeesInfo) (*types.FeesInfo, error) {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	cfg := fee.Config{
		InitialSaleFee: bps.Bps(req.InitialSaleFee),
		MakerFee:       bps.Bps(req.MakerFee),
		TakerFee:       bps.Bps(req.TakerFee),
		MasterKeyCut:   bps.Bps(req.MasterKeyCut),
	}
	if err := svcCtx.Exchange.SetFees(ctx, callerAddr, cfg); err != nil {
		return nil, errors.Wrap(err, "failed on set fees")
	}
	return feesInfo(svcCtx.Exchange.Fees()), nil
}

// GetFeeQuote seller 卖给 buyer 时适用的费率
func GetFeeQuote(ctx context.Context, svcCtx *svc.ServerCtx, seller, buyer, collection, tokenID string) (*types.FeeQuoteInfo, error) {
	sellerAddr, err := parseAddress(seller)
	if err != nil {
		return nil, err
	}
	buyerAddr, err := parseAddress(buyer)
	if err != nil {
		return nil, err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	q := svcCtx.Exchange.FeeQuote(sellerAddr, buyerAddr, collectionAddr, id)
	return &types.FeeQuoteInfo{
		MakerFee:     uint64(q.MakerFee),
		TakerFee:     uint64(q.TakerFee),
		InitialSale:  q.InitialSale,
		SellerWaived: q.SellerWaived,
		BuyerWaived:  q.BuyerWaived,
	}, nil
}

// GetRoyalties 集合版税, 未设置时 percent 为 0
func GetRoyalties(ctx context.Context, svcCtx *svc.ServerCtx, collection string) (*types.RoyaltyInfo, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	recipient, percent := svcCtx.Exchange.Royalties(collectionAddr)
	return &types.RoyaltyInfo{
		Collection: collectionAddr.Hex(),
		Recipient:  recipient.Hex(),
		Percent:    uint64(percent),
	}, nil
}

// SetRoyalties 仅 owner
func SetRoyalties(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.RoyaltyReq) (*types.RoyaltyInfo, error) {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(req.Recipient)
	if err != nil {
		return nil, err
	}
	if err := svcCtx.Exchange.SetRoyalties(ctx, callerAddr, collectionAddr, recipient, bps.Bps(req.Percent)); err != nil {
		return nil, errors.Wrap(err, "failed on set royalties")
	}
	return GetRoyalties(ctx, svcCtx, collection)
}

// RemoveRoyalties 仅 owner
func RemoveRoyalties(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.RemoveRoyalties(ctx, callerAddr, collectionAddr), "failed on remove royalties")
}

// GetSaleContracts 已登记的销售合约
func GetSaleContracts(ctx context.Context, svcCtx *svc.ServerCtx) []string {
	list := svcCtx.Exchange.SaleContracts()
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Hex())
	}
	return out
}

// SetSaleContract 登记或移除销售合约, 仅 owner
func SetSaleContract(ctx context.Context, svcCtx *svc.ServerCtx, caller, contract string, add bool) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	contractAddr, err := parseAddress(contract)
	if err != nil {
		return err
	}
	if add {
		err = svcCtx.Exchange.AddSaleContract(ctx, callerAddr, contractAddr)
	} else {
		err = svcCtx.Exchange.RemoveSaleContract(ctx, callerAddr, contractAddr)
	}
	return errors.Wrapf(err, "failed on update sale contract %s", contract)
}

// MintMasterKey 仅 owner
func MintMasterKey(ctx context.Context, svcCtx *svc.ServerCtx, caller string, req types.AddressReq) (*types.MintResp, error) {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(req.Address)
	if err != nil {
		return nil, err
	}
	id, err := svcCtx.Exchange.MintMasterKey(ctx, callerAddr, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed on mint master key")
	}
	return &types.MintResp{ID: id}, nil
}

// TransferMasterKey 持有者转移主密钥
func TransferMasterKey(ctx context.Context, svcCtx *svc.ServerCtx, caller string, req types.MasterKeyTransferReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	from, err := parseAddress(req.From)
	if err != nil {
		return err
	}
	to, err := parseAddress(req.To)
	if err != nil {
		return err
	}
	return errors.Wrapf(svcCtx.Exchange.TransferMasterKey(ctx, callerAddr, from, to, req.ID), "failed on transfer master key %d", req.ID)
}

// GetMasterKeys 持有数量, 总量和待分配分红
func GetMasterKeys(ctx context.Context, svcCtx *svc.ServerCtx, holder string) (*types.MasterKeyInfo, error) {
	holderAddr, err := parseAddress(holder)
	if err != nil {
		return nil, err
	}
	balance, supply := svcCtx.Exchange.MasterKeys(holderAddr)
	return &types.MasterKeyInfo{
		Holder:       holderAddr.Hex(),
		Balance:      balance,
		TotalSupply:  supply,
		DividendPool: utils.WeiToEther(svcCtx.Exchange.DividendPool()),
	}, nil
}

func distributionInfo(d *masterkey.Distribution) *types.DistributionInfo {
	if d == nil {
		return &types.DistributionInfo{Dust: "0"}
	}
	info := &types.DistributionInfo{
		Distributed: true,
		Pool:        utils.WeiToEther(d.Pool),
		Share:       utils.WeiToEther(d.Share),
		Dust:        d.Dust.String(),
	}
	for _, p := range d.Payouts {
		info.Payouts = append(info.Payouts, types.PayoutInfo{
			Holder: p.Holder.Hex(),
			Tokens: p.Tokens,
			Amount: utils.WeiToEther(p.Amount),
		})
	}
	return info
}

// DistributeDividends 任何人都可以触发分红
func DistributeDividends(ctx context.Context, svcCtx *svc.ServerCtx, caller string) (*types.DistributionInfo, error) {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	d, err := svcCtx.Exchange.DistributeDividends(ctx, callerAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed on distribute dividends")
	}
	return distributionInfo(d), nil
}

// GetStats 交易所状态汇总
func GetStats(ctx context.Context, svcCtx *svc.ServerCtx) *types.StatsInfo {
	s := svcCtx.Exchange.Stats()
	return &types.StatsInfo{
		Bids:           s.Bids,
		Offers:         s.Offers,
		CollectionBids: s.CollectionBids,
		Auctions:       s.Auctions,
		Escrow:         utils.WeiToEther(s.Escrow),
		ActiveGross:    utils.WeiToEther(s.ActiveGross),
		DividendPool:   utils.WeiToEther(s.DividendPool),
		Owed:           utils.WeiToEther(s.Owed),
		Dust:           s.Dust.String(),
	}
}
