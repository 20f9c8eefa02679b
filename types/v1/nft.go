package types

import (
	"github.com/shopspring/decimal"
)

// MintNFTReq 在进程内集合中铸造 token
type MintNFTReq struct {
	To      string `json:"to" binding:"required,eth_addr"`
	TokenID string `json:"token_id" binding:"required,numeric"`
}

// ApproveNFTReq 授权单个 token
type ApproveNFTReq struct {
	Spender string `json:"spender" binding:"required,eth_addr"`
	TokenID string `json:"token_id" binding:"required,numeric"`
}

// ApprovalForAllReq 授权全部 token
type ApprovalForAllReq struct {
	Operator string `json:"operator" binding:"required,eth_addr"`
	Approved bool   `json:"approved"`
}

// TransferNFTReq 直接转移 token
type TransferNFTReq struct {
	From    string `json:"from" binding:"required,eth_addr"`
	To      string `json:"to" binding:"required,eth_addr"`
	TokenID string `json:"token_id" binding:"required,numeric"`
}

// RejectTransfersReq 让集合拒绝转移
type RejectTransfersReq struct {
	Reject bool `json:"reject"`
}

// TokenInfo token 持有者
type TokenInfo struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
	Owner      string `json:"owner"`
	FirstSale  bool   `json:"first_sale"` // 尚未通过销售合约成交
}

// TokensResp 持有的 token
type TokensResp struct {
	Collection string   `json:"collection"`
	Holder     string   `json:"holder"`
	TokenIDs   []string `json:"token_ids"`
}

// DepositReq 充值
type DepositReq struct {
	Account string `json:"account" binding:"required,eth_addr"`
	Value   string `json:"value" binding:"required,ether"`
}

// BalanceInfo 账户余额
type BalanceInfo struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
	Owed    decimal.Decimal `json:"owed"` // 待领取
}

// TipReq 打赏
type TipReq struct {
	Recipient string `json:"recipient" binding:"required,eth_addr"`
	Value     string `json:"value" binding:"required,ether"`
}

// TipResp 打赏结果
type TipResp struct {
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// WithdrawResp 领取金额
type WithdrawResp struct {
	Amount decimal.Decimal `json:"amount"`
}
