package types

import (
	"github.com/shopspring/decimal"
)

// CreateAuctionReq 荷兰式拍卖
type CreateAuctionReq struct {
	Collection    string `json:"collection" binding:"required,eth_addr"`
	TokenID       string `json:"token_id" binding:"required,numeric"`
	StartingPrice string `json:"starting_price" binding:"required,ether"`
	EndingPrice   string `json:"ending_price" binding:"required,ether"`
	Duration      int64  `json:"duration" binding:"required,gt=0"`
}

// BuyAuctionReq value 为买方愿意支付的上限 (含 taker 费)
type BuyAuctionReq struct {
	Value string `json:"value" binding:"required,ether"`
}

// AuctionInfo 拍卖详情
type AuctionInfo struct {
	ID            string          `json:"id"`
	Seller        string          `json:"seller"`
	Collection    string          `json:"collection"`
	TokenID       string          `json:"token_id"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	EndingPrice   decimal.Decimal `json:"ending_price"`
	CurrentPrice  decimal.Decimal `json:"current_price,omitempty"`
	Duration      int64           `json:"duration"`
	StartedAt     int64           `json:"started_at"`
}

// CreateAuctionResp 拍卖 id
type CreateAuctionResp struct {
	ID string `json:"id"`
}
