package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/market/book"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

// tokenDesk 单 token 挂单 (bid 和 offer) 共用的一组交易所方法
type tokenDesk struct {
	place         func(ctx context.Context, maker, collection common.Address, tokenID *big.Int, duration time.Duration, value *big.Int) (uint64, error)
	cancel        func(ctx context.Context, caller common.Address, id uint64) error
	accept        func(ctx context.Context, caller common.Address, id uint64) (*settlement.Breakdown, error)
	removeExpired func(ctx context.Context, collections []common.Address, tokenIDs []*big.Int, makers []common.Address) (int, error)
	get           func(id uint64) (*book.Commitment, error)
	byToken       func(collection common.Address, tokenID *big.Int) []*book.Commitment
}

func deskOf(svcCtx *svc.ServerCtx, desk event.Desk) (*tokenDesk, error) {
	ex := svcCtx.Exchange
	switch desk {
	case event.DeskBid:
		return &tokenDesk{
			place:         ex.PlaceBid,
			cancel:        ex.CancelBid,
			accept:        ex.AcceptBid,
			removeExpired: ex.RemoveExpiredBids,
			get:           ex.GetBid,
			byToken:       ex.BidsByToken,
		}, nil
	case event.DeskOffer:
		return &tokenDesk{
			place:         ex.PlaceOffer,
			cancel:        ex.CancelOffer,
			accept:        ex.AcceptOffer,
			removeExpired: ex.RemoveExpiredOffers,
			get:           ex.GetOffer,
			byToken:       ex.OffersByToken,
		}, nil
	}
	return nil, errs.ErrInvalidDesk.WithMessage("%q is not a token desk", desk)
}

// PlaceTokenCommitment 对单个 token 出价 (bid) 或报价 (offer)
// value 为托管金额, 净价 = value * 10000 / (10000 + taker 费率)
func PlaceTokenCommitment(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, maker string, req types.PlaceTokenReq) (*types.PlaceResp, error) {
	d, err := deskOf(svcCtx, desk)
	if err != nil {
		return nil, err
	}
	makerAddr, err := parseAddress(maker)
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
	value, err := parseEther(req.Value)
	if err != nil {
		return nil, err
	}

	id, err := d.place(ctx, makerAddr, collection, tokenID, seconds(req.Duration), value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on place %s", desk)
	}
	return &types.PlaceResp{ID: id}, nil
}

// CancelTokenCommitment 挂单人取消并退回托管金额
func CancelTokenCommitment(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, caller string, id uint64) error {
	d, err := deskOf(svcCtx, desk)
	if err != nil {
		return err
	}
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	if err := d.cancel(ctx, callerAddr, id); err != nil {
		return errors.Wrapf(err, "failed on cancel %s %d", desk, id)
	}
	return nil
}

// AcceptTokenCommitment token 持有者 (或被授权者) 接受挂单并结算
func AcceptTokenCommitment(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, caller string, id uint64) (*types.SettlementInfo, error) {
	d, err := deskOf(svcCtx, desk)
	if err != nil {
		return nil, err
	}
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	b, err := d.accept(ctx, callerAddr, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on accept %s %d", desk, id)
	}
	return settlementInfo(b), nil
}

// RemoveExpiredTokenCommitments 任何人都可以清理过期挂单, 未过期或不存在的条目会被跳过
func RemoveExpiredTokenCommitments(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, req types.RemoveExpiredReq) (*types.RemoveExpiredResp, error) {
	d, err := deskOf(svcCtx, desk)
	if err != nil {
		return nil, err
	}
	collections, err := parseAddresses(req.Collections)
	if err != nil {
		return nil, err
	}
	tokenIDs, err := parseTokenIDs(req.TokenIDs)
	if err != nil {
		return nil, err
	}
	makers, err := parseAddresses(req.Makers)
	if err != nil {
		return nil, err
	}
	n, err := d.removeExpired(ctx, collections, tokenIDs, makers)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on remove expired %s", desk)
	}
	return &types.RemoveExpiredResp{Removed: n}, nil
}

// GetTokenCommitment 查询单个挂单
func GetTokenCommitment(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, id uint64) (*types.CommitmentInfo, error) {
	d, err := deskOf(svcCtx, desk)
	if err != nil {
		return nil, err
	}
	c, err := d.get(id)
	if err != nil {
		return nil, err
	}
	info := commitmentInfo(desk, c)
	return &info, nil
}

// GetTokenCommitments 查询某个 token 上的全部挂单
func GetTokenCommitments(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, collection, tokenID string) (*types.CommitmentListResp, error) {
	d, err := deskOf(svcCtx, desk)
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
	return commitmentList(desk, d.byToken(collectionAddr, id)), nil
}

// PlaceCollectionBid 对整个集合出价, 每个地址在每个集合只能有一个
func PlaceCollectionBid(ctx context.Context, svcCtx *svc.ServerCtx, maker string, req types.PlaceCollectionBidReq) (*types.PlaceResp, error) {
	makerAddr, err := parseAddress(maker)
	if err != nil {
		return nil, err
	}
	collection, err := parseAddress(req.Collection)
	if err != nil {
		return nil, err
	}
	value, err := parseEther(req.Value)
	if err != nil {
		return nil, err
	}
	id, err := svcCtx.Exchange.PlaceCollectionBid(ctx, makerAddr, collection, seconds(req.Duration), value)
	if err != nil {
		return nil, errors.Wrap(err, "failed on place collection bid")
	}
	return &types.PlaceResp{ID: id}, nil
}

// CancelCollectionBid 取消调用方在该集合上的出价
func CancelCollectionBid(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	if err := svcCtx.Exchange.CancelCollectionBid(ctx, callerAddr, collectionAddr); err != nil {
		return errors.Wrap(err, "failed on cancel collection bid")
	}
	return nil
}

// AcceptCollectionBid 用集合中的一个 token 接受出价
func AcceptCollectionBid(ctx context.Context, svcCtx *svc.ServerCtx, caller string, id uint64, req types.AcceptCollectionBidReq) (*types.SettlementInfo, error) {
	callerAddr, err := parseAddress(caller)
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
	b, err := svcCtx.Exchange.AcceptCollectionBid(ctx, callerAddr, id, collection, tokenID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on accept collection bid %d", id)
	}
	return settlementInfo(b), nil
}

// RemoveExpiredCollectionBids collections 与 makers 一一对应
func RemoveExpiredCollectionBids(ctx context.Context, svcCtx *svc.ServerCtx, req types.RemoveExpiredReq) (*types.RemoveExpiredResp, error) {
	collections, err := parseAddresses(req.Collections)
	if err != nil {
		return nil, err
	}
	makers, err := parseAddresses(req.Makers)
	if err != nil {
		return nil, err
	}
	n, err := svcCtx.Exchange.RemoveExpiredCollectionBids(ctx, collections, makers)
	if err != nil {
		return nil, errors.Wrap(err, "failed on remove expired collection bids")
	}
	return &types.RemoveExpiredResp{Removed: n}, nil
}

// GetCollectionBids 集合上的全部出价, 顺序与按下标枚举一致
func GetCollectionBids(ctx context.Context, svcCtx *svc.ServerCtx, collection string) (*types.CommitmentListResp, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	return commitmentList(event.DeskCollectionBid, svcCtx.Exchange.CollectionBids(collectionAddr)), nil
}

// GetCollectionBid 按 id 查询集合出价
func GetCollectionBid(ctx context.Context, svcCtx *svc.ServerCtx, id uint64) (*types.CommitmentInfo, error) {
	c, err := svcCtx.Exchange.GetCollectionBid(id)
	if err != nil {
		return nil, err
	}
	info := commitmentInfo(event.DeskCollectionBid, c)
	return &info, nil
}

// GetCollectionBidByIndex 按集合内下标查询
func GetCollectionBidByIndex(ctx context.Context, svcCtx *svc.ServerCtx, collection string, index int) (*types.CommitmentInfo, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	c, err := svcCtx.Exchange.GetCollectionBidByIndex(collectionAddr, index)
	if err != nil {
		return nil, err
	}
	info := commitmentInfo(event.DeskCollectionBid, c)
	return &info, nil
}

// GetCollectionBidByBidder 查询某个地址在集合上的出价
func GetCollectionBidByBidder(ctx context.Context, svcCtx *svc.ServerCtx, collection, bidder string) (*types.CommitmentInfo, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	bidderAddr, err := parseAddress(bidder)
	if err != nil {
		return nil, err
	}
	c, err := svcCtx.Exchange.GetCollectionBidByBidder(collectionAddr, bidderAddr)
	if err != nil {
		return nil, err
	}
	info := commitmentInfo(event.DeskCollectionBid, c)
	return &info, nil
}

// GetExpired 已过期但尚未清理的挂单
func GetExpired(ctx context.Context, svcCtx *svc.ServerCtx, desk event.Desk, limit int) (*types.CommitmentListResp, error) {
	refs, err := svcCtx.Exchange.Expired(desk, limit)
	if err != nil {
		return nil, err
	}
	resp := &types.CommitmentListResp{Result: make([]types.CommitmentInfo, 0, len(refs))}
	for _, r := range refs {
		info := types.CommitmentInfo{
			ID:         r.ID,
			Desk:       string(r.Desk),
			Maker:      r.Maker.Hex(),
			Collection: r.Collection.Hex(),
			ExpiresAt:  r.ExpiresAt.Unix(),
		}
		if r.TokenID != nil {
			info.TokenID = r.TokenID.String()
		}
		resp.Result = append(resp.Result, info)
	}
	resp.Count = len(resp.Result)
	return resp, nil
}
