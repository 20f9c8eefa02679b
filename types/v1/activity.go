package types

import (
	"github.com/shopspring/decimal"
)

// ActivityFilterParams 活动查询过滤参数
type ActivityFilterParams struct {
	CollectionAddresses []string `json:"collection_addresses"` // 集合地址列表
	TokenID             string   `json:"token_id"`
	UserAddresses       []string `json:"user_addresses"` // 作为 Maker 或 Taker
	EventTypes          []string `json:"event_types"`    // OfferAccepted, BidCreated ...
	Page                int      `json:"page"`
	PageSize            int      `json:"page_size"`
}

// ActivityInfo 活动详情
type ActivityInfo struct {
	EventType         string          `json:"event_type"`
	EventTime         int64           `json:"event_time"`
	Desk              string          `json:"desk"`
	RefID             string          `json:"ref_id"`
	CollectionAddress string          `json:"collection_address"`
	TokenID           string          `json:"token_id"`
	Maker             string          `json:"maker"`
	Taker             string          `json:"taker"`
	Price             decimal.Decimal `json:"price"`
	SellerProceeds    decimal.Decimal `json:"seller_proceeds"`
	Royalty           decimal.Decimal `json:"royalty"`
	Fee               decimal.Decimal `json:"fee"`
	Dividend          decimal.Decimal `json:"dividend"`
}

type ActivityResp struct {
	Result interface{} `json:"result"`
	Count  int64       `json:"count"`
}
