package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/service/v1"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

// PlaceTokenCommitmentHandler 对单个 token 出价或报价, 调用方为 maker
func PlaceTokenCommitmentHandler(svcCtx *svc.ServerCtx, desk event.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.PlaceTokenReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.PlaceTokenCommitment(c.Request.Context(), svcCtx, desk, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func CancelTokenCommitmentHandler(svcCtx *svc.ServerCtx, desk event.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uintParam(c, "id")
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		if err := service.CancelTokenCommitment(c.Request.Context(), svcCtx, desk, middleware.AccountFrom(c), id); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// AcceptTokenCommitmentHandler token 持有者接受挂单, 返回结算明细
func AcceptTokenCommitmentHandler(svcCtx *svc.ServerCtx, desk event.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uintParam(c, "id")
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		res, err := service.AcceptTokenCommitment(c.Request.Context(), svcCtx, desk, middleware.AccountFrom(c), id)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func GetTokenCommitmentHandler(svcCtx *svc.ServerCtx, desk event.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uintParam(c, "id")
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		res, err := service.GetTokenCommitment(c.Request.Context(), svcCtx, desk, id)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// TokenCommitmentsHandler 某个 token 上的全部 bid 或 offer
func TokenCommitmentsHandler(svcCtx *svc.ServerCtx, desk event.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetTokenCommitments(c.Request.Context(), svcCtx, desk, c.Param("collection"), c.Param("token_id"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// RemoveExpiredHandler 批量清理过期挂单, 不需要调用方身份
func RemoveExpiredHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RemoveExpiredReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		var (
			res *types.RemoveExpiredResp
			err error
		)
		switch desk := event.Desk(c.Param("desk")); desk {
		case event.DeskBid, event.DeskOffer:
			res, err = service.RemoveExpiredTokenCommitments(c.Request.Context(), svcCtx, desk, req)
		case event.DeskCollectionBid:
			res, err = service.RemoveExpiredCollectionBids(c.Request.Context(), svcCtx, req)
		default:
			err = errcode.NewCustomErr("desk has no expiry")
		}
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// ExpiredHandler 已过期但尚未清理的挂单, limit 默认 100
func ExpiredHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultExpiredLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				xhttp.Error(c, errcode.NewCustomErr("invalid limit"))
				return
			}
			limit = n
		}
		res, err := service.GetExpired(c.Request.Context(), svcCtx, event.Desk(c.Param("desk")), limit)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func PlaceCollectionBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.PlaceCollectionBidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.PlaceCollectionBid(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// CancelCollectionBidHandler 取消调用方在集合上的出价
func CancelCollectionBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.CancelCollectionBid(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection")); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func AcceptCollectionBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uintParam(c, "id")
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		var req types.AcceptCollectionBidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.AcceptCollectionBid(c.Request.Context(), svcCtx, middleware.AccountFrom(c), id, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func GetCollectionBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uintParam(c, "id")
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		res, err := service.GetCollectionBid(c.Request.Context(), svcCtx, id)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// CollectionBidsHandler 集合上的出价, 可按下标或出价人查询单个
func CollectionBidsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := c.Param("collection")
		if bidder := c.Query("bidder"); bidder != "" {
			res, err := service.GetCollectionBidByBidder(ctx, svcCtx, collection, bidder)
			if err != nil {
				xhttp.Error(c, err)
				return
			}
			xhttp.OkJson(c, res)
			return
		}
		if s := c.Query("index"); s != "" {
			index, err := strconv.Atoi(s)
			if err != nil {
				xhttp.Error(c, errcode.NewCustomErr("invalid index"))
				return
			}
			res, err := service.GetCollectionBidByIndex(ctx, svcCtx, collection, index)
			if err != nil {
				xhttp.Error(c, err)
				return
			}
			xhttp.OkJson(c, res)
			return
		}
		res, err := service.GetCollectionBids(ctx, svcCtx, collection)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
