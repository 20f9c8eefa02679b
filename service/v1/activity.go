package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/dao"
	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

// GetActivities 查询已记录的交易所事件
// 1. 未配置数据库时返回 ErrUnavailable
// 2. 按集合, token, 用户 (maker 或 taker), 事件类型过滤
// 3. 金额从 wei 转换为 ether
func GetActivities(ctx context.Context, svcCtx *svc.ServerCtx, filter types.ActivityFilterParams) (*types.ActivityResp, error) {
	if svcCtx.Dao == nil {
		return nil, errcode.ErrUnavailable
	}
	activities, total, err := svcCtx.Dao.QueryActivities(ctx, dao.ActivityFilter{
		CollectionAddresses: filter.CollectionAddresses,
		TokenID:             filter.TokenID,
		UserAddresses:       filter.UserAddresses,
		EventTypes:          filter.EventTypes,
		Page:                filter.Page,
		PageSize:            filter.PageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on query activity")
	}
	if total == 0 || len(activities) == 0 {
		return &types.ActivityResp{Result: nil, Count: 0}, nil
	}

	results := make([]types.ActivityInfo, 0, len(activities))
	for _, a := range activities {
		results = append(results, types.ActivityInfo{
			EventType:         a.ActivityType,
			EventTime:         a.EventTime,
			Desk:              a.Desk,
			RefID:             a.RefID,
			CollectionAddress: a.CollectionAddress,
			TokenID:           a.TokenID,
			Maker:             a.Maker,
			Taker:             a.Taker,
			Price:             utils.WeiToEther(a.Price.BigInt()),
			SellerProceeds:    utils.WeiToEther(a.SellerProceeds.BigInt()),
			Royalty:           utils.WeiToEther(a.Royalty.BigInt()),
			Fee:               utils.WeiToEther(a.Fee.BigInt()),
			Dividend:          utils.WeiToEther(a.Dividend.BigInt()),
		})
	}
	return &types.ActivityResp{Result: results, Count: total}, nil
}
