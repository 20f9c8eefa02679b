package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
)

const ActivityTableName = "ob_market_activity"

// activityNamespace 活动 id 的 uuid 命名空间, 同一事件重复写入得到同一个 id
var activityNamespace = uuid.MustParse("6f1c9a52-3b0e-4d8f-9c61-2a7e5b4d0c13")

// Activity 交易所事件记录, 金额以 wei 存储
type Activity struct {
	ID                string          `gorm:"column:id;primaryKey;size:36" json:"id"`
	Seq               uint64          `gorm:"column:seq;index" json:"seq"`
	ActivityType      string          `gorm:"column:activity_type;size:32;index" json:"activity_type"`
	Desk              string          `gorm:"column:desk;size:16" json:"desk"`
	RefID             string          `gorm:"column:ref_id;size:66" json:"ref_id"` // 挂单 id 或拍卖 id
	CollectionAddress string          `gorm:"column:collection_address;size:42;index" json:"collection_address"`
	TokenID           string          `gorm:"column:token_id;size:78" json:"token_id"`
	Maker             string          `gorm:"column:maker;size:42;index" json:"maker"`
	Taker             string          `gorm:"column:taker;size:42;index" json:"taker"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(65,0)" json:"price"`
	SellerProceeds    decimal.Decimal `gorm:"column:seller_proceeds;type:decimal(65,0)" json:"seller_proceeds"`
	Royalty           decimal.Decimal `gorm:"column:royalty;type:decimal(65,0)" json:"royalty"`
	Fee               decimal.Decimal `gorm:"column:fee;type:decimal(65,0)" json:"fee"`
	Dividend          decimal.Decimal `gorm:"column:dividend;type:decimal(65,0)" json:"dividend"`
	ExpireTime        int64           `gorm:"column:expire_time" json:"expire_time"`
	EventTime         int64           `gorm:"column:event_time;index" json:"event_time"`
}

func (Activity) TableName() string {
	return ActivityTableName
}

// ActivityFilter 活动查询条件
type ActivityFilter struct {
	CollectionAddresses []string
	TokenID             string
	UserAddresses       []string // 作为 maker 或 taker
	EventTypes          []string
	Page                int
	PageSize            int
}

func addr(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// NewActivity 把事件转换为一行记录
func NewActivity(ev event.Event) Activity {
	a := Activity{
		Seq:               ev.Seq,
		ActivityType:      string(ev.Type),
		Desk:              string(ev.Desk),
		RefID:             ev.ID,
		CollectionAddress: addr(ev.Collection),
		Maker:             addr(ev.Maker),
		Taker:             addr(ev.Counterparty),
		EventTime:         ev.Time.Unix(),
	}
	if ev.TokenID != nil {
		a.TokenID = ev.TokenID.String()
	}
	if ev.Price != nil {
		a.Price = decimal.NewFromBigInt(ev.Price, 0)
	}
	if ev.ExpiresAt != nil {
		a.ExpireTime = ev.ExpiresAt.Unix()
	}
	if s := ev.Settlement; s != nil {
		a.SellerProceeds = decimal.NewFromBigInt(s.SellerProceeds, 0)
		a.Royalty = decimal.NewFromBigInt(s.Royalty, 0)
		a.Fee = decimal.NewFromBigInt(s.FeeSink, 0)
		a.Dividend = decimal.NewFromBigInt(s.Dividend, 0)
	}
	a.ID = uuid.NewSHA1(activityNamespace, []byte(fmt.Sprintf("%d:%s:%s:%d", a.Seq, a.ActivityType, a.RefID, a.EventTime))).String()
	return a
}

// Publish 实现 event.Sink, 重复的事件忽略
func (d *Dao) Publish(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]Activity, 0, len(events))
	for _, ev := range events {
		rows = append(rows, NewActivity(ev))
	}
	if err := d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		xzap.WithContext(ctx).Warn("failed on create activity", zap.Int("rows", len(rows)), zap.Error(err))
		return errors.Wrap(err, "failed on create activity")
	}
	return nil
}

// QueryActivities 分页查询活动, 按事件时间倒序
func (d *Dao) QueryActivities(ctx context.Context, f ActivityFilter) ([]Activity, int64, error) {
	var (
		total      int64
		activities []Activity
	)

	// 1. 构造过滤条件
	db := d.DB.WithContext(ctx).Model(&Activity{})
	if len(f.CollectionAddresses) > 0 {
		db = db.Where("collection_address in ?", lower(f.CollectionAddresses))
	}
	if f.TokenID != "" {
		db = db.Where("token_id = ?", f.TokenID)
	}
	if len(f.UserAddresses) > 0 {
		users := lower(f.UserAddresses)
		db = db.Where("(maker in ? or taker in ?)", users, users)
	}
	if len(f.EventTypes) > 0 {
		db = db.Where("activity_type in ?", f.EventTypes)
	}

	// 2. 总数
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count activity")
	}

	// 3. 分页
	page, pageSize := f.Page, f.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if err := db.Order("event_time desc, seq desc").Limit(pageSize).Offset(pageSize * (page - 1)).
		Find(&activities).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query activity")
	}
	return activities, total, nil
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
