package types

import (
	"github.com/shopspring/decimal"
)

// FeesInfo 费率, 基点
type FeesInfo struct {
	InitialSaleFee uint64 `json:"initial_sale_fee"`
	MakerFee       uint64 `json:"maker_fee"`
	TakerFee       uint64 `json:"taker_fee"`
	MasterKeyCut   uint64 `json:"master_key_cut"`
}

// FeeQuoteInfo 某次成交适用的费率
type FeeQuoteInfo struct {
	MakerFee     uint64 `json:"maker_fee"`
	TakerFee     uint64 `json:"taker_fee"`
	InitialSale  bool   `json:"initial_sale"`
	SellerWaived bool   `json:"seller_waived"`
	BuyerWaived  bool   `json:"buyer_waived"`
}

// RoyaltyReq 设置集合版税
type RoyaltyReq struct {
	Recipient string `json:"recipient" binding:"required,eth_addr"`
	Percent   uint64 `json:"percent"`
}

// RoyaltyInfo 集合版税
type RoyaltyInfo struct {
	Collection string `json:"collection"`
	Recipient  string `json:"recipient"`
	Percent    uint64 `json:"percent"`
}

// AddressReq 单个地址参数
type AddressReq struct {
	Address string `json:"address" binding:"required,eth_addr"`
}

// MasterKeyTransferReq 转移主密钥
type MasterKeyTransferReq struct {
	From string `json:"from" binding:"required,eth_addr"`
	To   string `json:"to" binding:"required,eth_addr"`
	ID   uint64 `json:"id" binding:"required,gt=0"`
}

// MasterKeyInfo 主密钥持有情况
type MasterKeyInfo struct {
	Holder       string          `json:"holder"`
	Balance      uint64          `json:"balance"`
	TotalSupply  uint64          `json:"total_supply"`
	DividendPool decimal.Decimal `json:"dividend_pool"`
}

// MintResp 铸造结果
type MintResp struct {
	ID uint64 `json:"id"`
}

// PayoutInfo 单个持有者的分红
type PayoutInfo struct {
	Holder string          `json:"holder"`
	Tokens uint64          `json:"tokens"`
	Amount decimal.Decimal `json:"amount"`
}

// DistributionInfo 分红结果, 分红池为空或没有持有者时 Distributed 为 false
type DistributionInfo struct {
	Distributed bool            `json:"distributed"`
	Pool        decimal.Decimal `json:"pool"`
	Share       decimal.Decimal `json:"share"`
	Dust        string          `json:"dust"` // wei
	Payouts     []PayoutInfo    `json:"payouts,omitempty"`
}

// PausedInfo 各挂单类型的暂停状态
type PausedInfo map[string]bool

// StatsInfo 交易所状态汇总
type StatsInfo struct {
	Bids           int             `json:"bids"`
	Offers         int             `json:"offers"`
	CollectionBids int             `json:"collection_bids"`
	Auctions       int             `json:"auctions"`
	Escrow         decimal.Decimal `json:"escrow"`
	ActiveGross    decimal.Decimal `json:"active_gross"`
	DividendPool   decimal.Decimal `json:"dividend_pool"`
	Owed           decimal.Decimal `json:"owed"`
	Dust           string          `json:"dust"`
}
