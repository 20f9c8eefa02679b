package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

func parseAuctionID(s string) (common.Hash, error) {
	b := common.FromHex(s)
	if len(b) != common.HashLength {
		return common.Hash{}, errs.ErrAuctionNotFound.WithMessage("%q", s)
	}
	return common.BytesToHash(b), nil
}

func auctionInfo(a *exchange.Auction) types.AuctionInfo {
	return types.AuctionInfo{
		ID:            a.ID.Hex(),
		Seller:        a.Seller.Hex(),
		Collection:    a.Collection.Hex(),
		TokenID:       a.TokenID.String(),
		StartingPrice: utils.WeiToEther(a.StartingPrice),
		EndingPrice:   utils.WeiToEther(a.EndingPrice),
		Duration:      int64(a.Duration.Seconds()),
		StartedAt:     a.StartedAt.Unix(),
	}
}

// CreateAuction 卖方创建荷兰式拍卖, 价格在 duration 内从起拍价线性变化到底价
func CreateAuction(ctx context.Context, svcCtx *svc.ServerCtx, seller string, req types.CreateAuctionReq) (*types.CreateAuctionResp, error) {
	sellerAddr, err := parseAddress(seller)
	if err != nil {
		return nil, err
	}
	collection, err := parseAddress(req.Collection)
	if err != nil {
		return nil, err
	}
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return nil, err
	}
	start, err := parseEther(req.StartingPrice)
	if err != nil {
		return nil, err
	}
	end, err := parseEther(req.EndingPrice)
	if err != nil {
		return nil, err
	}
	id, err := svcCtx.Exchange.CreateAuction(ctx, sellerAddr, collection, tokenID, start, end, seconds(req.Duration))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create auction")
	}
	return &types.CreateAuctionResp{ID: id.Hex()}, nil
}

// CancelAuction 仅卖方
func CancelAuction(ctx context.Context, svcCtx *svc.ServerCtx, caller, id string) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	auctionID, err := parseAuctionID(id)
	if err != nil {
		return err
	}
	if err := svcCtx.Exchange.CancelAuction(ctx, callerAddr, auctionID); err != nil {
		return errors.Wrapf(err, "failed on cancel auction %s", id)
	}
	return nil
}

// BuyAuction 按当前价格成交, 多付的部分不会被扣除
func BuyAuction(ctx context.Context, svcCtx *svc.ServerCtx, buyer, id string, req types.BuyAuctionReq) (*types.SettlementInfo, error) {
	buyerAddr, err := parseAddress(buyer)
	if err != nil {
		return nil, err
	}
	auctionID, err := parseAuctionID(id)
	if err != nil {
		return nil, err
	}
	value, err := parseEther(req.Value)
	if err != nil {
		return nil, err
	}
	b, err := svcCtx.Exchange.BuyAuction(ctx, buyerAddr, auctionID, value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on buy auction %s", id)
	}
	return settlementInfo(b), nil
}

// GetAuction 拍卖详情和当前价格
func GetAuction(ctx context.Context, svcCtx *svc.ServerCtx, id string) (*types.AuctionInfo, error) {
	auctionID, err := parseAuctionID(id)
	if err != nil {
		return nil, err
	}
	a, price, err := svcCtx.Exchange.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}
	info := auctionInfo(a)
	info.CurrentPrice = utils.WeiToEther(price)
	return &info, nil
}

// GetAuctions 全部进行中的拍卖
func GetAuctions(ctx context.Context, svcCtx *svc.ServerCtx) ([]types.AuctionInfo, error) {
	now := svcCtx.Exchange.Now()
	list := svcCtx.Exchange.Auctions()
	out := make([]types.AuctionInfo, 0, len(list))
	for _, a := range list {
		info := auctionInfo(a)
		info.CurrentPrice = utils.WeiToEther(a.PriceAt(now))
		out = append(out, info)
	}
	return out, nil
}
