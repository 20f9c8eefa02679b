package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

// CreateCollection 创建进程内 NFT 集合, 调用方成为集合创建者
func CreateCollection(ctx context.Context, svcCtx *svc.ServerCtx, creator, collection string) error {
	creatorAddr, err := parseAddress(creator)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	return errors.Wrapf(svcCtx.Exchange.CreateCollection(ctx, creatorAddr, collectionAddr), "failed on create collection %s", collection)
}

// MintNFT 仅集合创建者
func MintNFT(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.MintNFTReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	to, err := parseAddress(req.To)
	if err != nil {
		return err
	}
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.MintNFT(ctx, callerAddr, collectionAddr, to, tokenID), "failed on mint nft")
}

// ApproveNFT 授权单个 token
func ApproveNFT(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.ApproveNFTReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	spender, err := parseAddress(req.Spender)
	if err != nil {
		return err
	}
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.ApproveNFT(ctx, callerAddr, collectionAddr, spender, tokenID), "failed on approve nft")
}

// SetApprovalForAll 授权或撤销 operator 管理调用方的全部 token
func SetApprovalForAll(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.ApprovalForAllReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	operator, err := parseAddress(req.Operator)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.SetApprovalForAll(ctx, callerAddr, collectionAddr, operator, req.Approved), "failed on set approval for all")
}

// SetRejectTransfers 仅 owner
func SetRejectTransfers(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.RejectTransfersReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.SetRejectTransfers(ctx, callerAddr, collectionAddr, req.Reject), "failed on set reject transfers")
}

// TransferNFT 持有者或被授权者直接转移
func TransferNFT(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection string, req types.TransferNFTReq) error {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	collectionAddr, err := parseAddress(collection)
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
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	return errors.Wrap(svcCtx.Exchange.TransferNFT(ctx, callerAddr, collectionAddr, from, to, tokenID), "failed on transfer nft")
}

// GetToken 持有者和首次销售状态
func GetToken(ctx context.Context, svcCtx *svc.ServerCtx, collection, tokenID string) (*types.TokenInfo, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	owner, err := svcCtx.Exchange.OwnerOf(collectionAddr, id)
	if err != nil {
		return nil, err
	}
	return &types.TokenInfo{
		Collection: collectionAddr.Hex(),
		TokenID:    id.String(),
		Owner:      owner.Hex(),
		FirstSale:  svcCtx.Exchange.IsFirstSale(collectionAddr, id),
	}, nil
}

// GetTokensOf holder 在集合中持有的 token
func GetTokensOf(ctx context.Context, svcCtx *svc.ServerCtx, collection, holder string) (*types.TokensResp, error) {
	collectionAddr, err := parseAddress(collection)
	if err != nil {
		return nil, err
	}
	holderAddr, err := parseAddress(holder)
	if err != nil {
		return nil, err
	}
	ids, err := svcCtx.Exchange.TokensOf(collectionAddr, holderAddr)
	if err != nil {
		return nil, err
	}
	resp := &types.TokensResp{
		Collection: collectionAddr.Hex(),
		Holder:     holderAddr.Hex(),
		TokenIDs:   make([]string, 0, len(ids)),
	}
	for _, id := range ids {
		resp.TokenIDs = append(resp.TokenIDs, id.String())
	}
	return resp, nil
}

// Deposit 给账户充值, 用于模拟外部转入的原生币
func Deposit(ctx context.Context, svcCtx *svc.ServerCtx, req types.DepositReq) (*types.BalanceInfo, error) {
	account, err := parseAddress(req.Account)
	if err != nil {
		return nil, err
	}
	value, err := parseEther(req.Value)
	if err != nil {
		return nil, err
	}
	if err := svcCtx.Exchange.Deposit(ctx, account, value); err != nil {
		return nil, errors.Wrap(err, "failed on deposit")
	}
	return GetBalance(ctx, svcCtx, req.Account)
}

// GetBalance 可用余额和待领取金额
func GetBalance(ctx context.Context, svcCtx *svc.ServerCtx, account string) (*types.BalanceInfo, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return nil, err
	}
	balance, owed := svcCtx.Exchange.Balance(addr)
	return &types.BalanceInfo{
		Account: addr.Hex(),
		Balance: utils.WeiToEther(balance),
		Owed:    utils.WeiToEther(owed),
	}, nil
}

// Withdraw 领取待领取金额
func Withdraw(ctx context.Context, svcCtx *svc.ServerCtx, caller string) (*types.WithdrawResp, error) {
	callerAddr, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	amount, err := svcCtx.Exchange.Withdraw(ctx, callerAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed on withdraw")
	}
	return &types.WithdrawResp{Amount: utils.WeiToEther(amount)}, nil
}

// SendTip caller 打赏 recipient
func SendTip(ctx context.Context, svcCtx *svc.ServerCtx, caller string, req types.TipReq) (*types.TipResp, error) {
	sender, err := parseAddress(caller)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(req.Recipient)
	if err != nil {
		return nil, err
	}
	value, err := parseEther(req.Value)
	if err != nil {
		return nil, err
	}
	if err := svcCtx.Exchange.SendTip(ctx, sender, recipient, value); err != nil {
		return nil, errors.Wrapf(err, "failed on send tip to %s", recipient.Hex())
	}
	return &types.TipResp{
		Sender:    sender.Hex(),
		Recipient: recipient.Hex(),
		Amount:    utils.WeiToEther(value),
	}, nil
}
