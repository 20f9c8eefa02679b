package types

import (
	"github.com/shopspring/decimal"
)

// PlaceTokenReq 对单个 token 出价/报价
type PlaceTokenReq struct {
	Collection string `json:"collection" binding:"required,eth_addr"`
	TokenID    string `json:"token_id" binding:"required,numeric"`
	Duration   int64  `json:"duration" binding:"required,gt=0"` // 秒
	Value      string `json:"value" binding:"required,ether"`   // 托管金额 (含 taker 费), ether
}

// PlaceCollectionBidReq 集合出价
type PlaceCollectionBidReq struct {
	Collection string `json:"collection" binding:"required,eth_addr"`
	Duration   int64  `json:"duration" binding:"required,gt=0"`
	Value      string `json:"value" binding:"required,ether"`
}

// AcceptCollectionBidReq 用 token 接受集合出价
type AcceptCollectionBidReq struct {
	Collection string `json:"collection" binding:"required,eth_addr"`
	TokenID    string `json:"token_id" binding:"required,numeric"`
}

// RemoveExpiredReq 批量清理过期挂单, 三个数组一一对应; 集合出价忽略 TokenIDs
type RemoveExpiredReq struct {
	Collections []string `json:"collections"`
	TokenIDs    []string `json:"token_ids"`
	Makers      []string `json:"makers"`
}

// CommitmentInfo 挂单详情
type CommitmentInfo struct {
	ID           uint64          `json:"id"`
	Desk         string          `json:"desk"`
	Maker        string          `json:"maker"`
	Collection   string          `json:"collection"`
	TokenID      string          `json:"token_id,omitempty"`
	Price        decimal.Decimal `json:"price"`          // 净价
	PriceWithFee decimal.Decimal `json:"price_with_fee"` // 托管金额
	CreatedAt    int64           `json:"created_at"`
	ExpiresAt    int64           `json:"expires_at"`
}

// CommitmentListResp 挂单列表
type CommitmentListResp struct {
	Result []CommitmentInfo `json:"result"`
	Count  int              `json:"count"`
}

// PlaceResp 挂单成功
type PlaceResp struct {
	ID uint64 `json:"id"`
}

// RemoveExpiredResp 清理数量
type RemoveExpiredResp struct {
	Removed int `json:"removed"`
}

// PaymentInfo 记为待领取的付款
type PaymentInfo struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SettlementInfo 成交结算明细
type SettlementInfo struct {
	NetPrice         decimal.Decimal `json:"net_price"`
	Gross            decimal.Decimal `json:"gross"`
	MakerFeePercent  uint64          `json:"maker_fee_percent"`
	MakerFee         decimal.Decimal `json:"maker_fee"`
	TakerFee         decimal.Decimal `json:"taker_fee"`
	RoyaltyRecipient string          `json:"royalty_recipient"`
	RoyaltyPercent   uint64          `json:"royalty_percent"`
	Royalty          decimal.Decimal `json:"royalty"`
	SellerProceeds   decimal.Decimal `json:"seller_proceeds"`
	FeeSink          decimal.Decimal `json:"fee_sink"`
	Dividend         decimal.Decimal `json:"dividend"`
	InitialSale      bool            `json:"initial_sale"`
	SellerWaived     bool            `json:"seller_waived"`
	BuyerWaived      bool            `json:"buyer_waived"`
	Deferred         []PaymentInfo   `json:"deferred,omitempty"`
}
