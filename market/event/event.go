// Package event 交易所事件
// 事件在操作内缓存, 只有操作提交后才会发送给 Sink; 回滚的操作不产生事件.
package event

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

// Type 事件类型
type Type string

const (
	BidCreated   Type = "BidCreated"
	BidCancelled Type = "BidCancelled"
	BidAccepted  Type = "BidAccepted"

	OfferCreated   Type = "OfferCreated"
	OfferCancelled Type = "OfferCancelled"
	OfferAccepted  Type = "OfferAccepted"

	CollectionBidCreated   Type = "CollectionBidCreated"
	CollectionBidCancelled Type = "CollectionBidCancelled"
	CollectionBidAccepted  Type = "CollectionBidAccepted"

	AuctionCreated    Type = "AuctionCreated"
	AuctionCancelled  Type = "AuctionCancelled"
	AuctionSuccessful Type = "AuctionSuccessful"

	DividendsDistributed Type = "DividendsDistributed"
	PaymentDeferred      Type = "PaymentDeferred"
	Withdrawn            Type = "Withdrawn"
	TipReceived          Type = "TipReceived"

	Paused   Type = "Paused"
	Unpaused Type = "Unpaused"
)

// Desk 挂单类型, 也是暂停的粒度
type Desk string

const (
	DeskBid           Desk = "bid"
	DeskOffer         Desk = "offer"
	DeskCollectionBid Desk = "collection_bid"
	DeskAuction       Desk = "auction"
)

// Desks 全部挂单类型
var Desks = []Desk{DeskBid, DeskOffer, DeskCollectionBid, DeskAuction}

// Valid 是否为已知挂单类型
func (d Desk) Valid() bool {
	for _, v := range Desks {
		if v == d {
			return true
		}
	}
	return false
}

// Event 交易所事件, 可选字段为空表示不适用
type Event struct {
	Seq          uint64                `json:"seq"`
	Type         Type                  `json:"type"`
	Desk         Desk                  `json:"desk,omitempty"`
	ID           string                `json:"id,omitempty"` // 挂单 id 或拍卖 id
	Collection   common.Address        `json:"collection"`
	TokenID      *big.Int              `json:"token_id,omitempty"`
	Maker        common.Address        `json:"maker"`
	Counterparty common.Address        `json:"counterparty"`
	Price        *big.Int              `json:"price,omitempty"`
	ExpiresAt    *time.Time            `json:"expires_at,omitempty"`
	Time         time.Time             `json:"time"`
	Settlement   *settlement.Breakdown `json:"settlement,omitempty"`
}

// Sink 事件消费者, 错误只会被记录, 不会影响已提交的操作
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}

// SinkFunc 函数适配器
type SinkFunc func(ctx context.Context, events []Event) error

func (f SinkFunc) Publish(ctx context.Context, events []Event) error {
	return f(ctx, events)
}
