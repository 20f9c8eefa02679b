package dao

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
)

// dryRunDao 只生成 SQL, 不连接数据库
func dryRunDao(t *testing.T) *Dao {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/easyswap?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return New(context.Background(), db)
}

func TestNewActivity(t *testing.T) {
	exp := time.Unix(1700003600, 0)
	ev := event.Event{
		Seq:          7,
		Type:         event.OfferAccepted,
		Desk:         event.DeskOffer,
		ID:           "3",
		Collection:   common.HexToAddress("0x00000000000000000000000000000000000000C1"),
		TokenID:      big.NewInt(42),
		Maker:        common.HexToAddress("0x00000000000000000000000000000000000000B1"),
		Counterparty: common.HexToAddress("0x00000000000000000000000000000000000000A1"),
		Price:        big.NewInt(500),
		ExpiresAt:    &exp,
		Time:         time.Unix(1700000000, 0),
		Settlement: &settlement.Breakdown{
			SellerProceeds: big.NewInt(390),
			Royalty:        big.NewInt(0),
			FeeSink:        big.NewInt(118),
			Dividend:       big.NewInt(7),
		},
	}
	a := NewActivity(ev)
	assert.Equal(t, "OfferAccepted", a.ActivityType)
	assert.Equal(t, "0x00000000000000000000000000000000000000c1", a.CollectionAddress)
	assert.Equal(t, "42", a.TokenID)
	assert.Equal(t, "500", a.Price.String())
	assert.Equal(t, "390", a.SellerProceeds.String())
	assert.Equal(t, "118", a.Fee.String())
	assert.Equal(t, int64(1700003600), a.ExpireTime)
	assert.Equal(t, int64(1700000000), a.EventTime)
	assert.Len(t, a.ID, 36)

	// 同一事件得到同一个 id
	assert.Equal(t, a.ID, NewActivity(ev).ID)
	ev.Seq = 8
	assert.NotEqual(t, a.ID, NewActivity(ev).ID)
}

func TestNewActivityWithoutOptionalFields(t *testing.T) {
	a := NewActivity(event.Event{Seq: 1, Type: event.DividendsDistributed, Time: time.Unix(10, 0)})
	assert.Empty(t, a.TokenID)
	assert.True(t, a.Price.IsZero())
	assert.Zero(t, a.ExpireTime)
}

func TestPublishIgnoresDuplicates(t *testing.T) {
	d := dryRunDao(t)
	stmt := d.DB.Session(&gorm.Session{DryRun: true}).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&[]Activity{NewActivity(event.Event{Seq: 1, Type: event.BidCreated})}).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "INSERT INTO `ob_market_activity`")
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE")

	require.NoError(t, d.Publish(context.Background(), nil))
	require.NoError(t, d.Publish(context.Background(), []event.Event{{Seq: 1, Type: event.BidCreated}}))
}

func TestQueryActivitiesBuildsFilters(t *testing.T) {
	d := dryRunDao(t)
	stmt := d.DB.Session(&gorm.Session{DryRun: true}).Model(&Activity{}).
		Where("collection_address in ?", lower([]string{"0xABC"})).
		Where("(maker in ? or taker in ?)", []string{"0xb1"}, []string{"0xb1"}).
		Find(&[]Activity{}).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "collection_address in (?)")
	assert.Contains(t, sql, "(maker in (?) or taker in (?))")
	assert.Equal(t, "0xabc", stmt.Vars[0])

	_, _, err := d.QueryActivities(context.Background(), ActivityFilter{
		CollectionAddresses: []string{"0xABC"},
		TokenID:             "1",
		UserAddresses:       []string{"0xB1"},
		EventTypes:          []string{"OfferAccepted"},
	})
	require.NoError(t, err)
}
