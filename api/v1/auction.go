package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/service/v1"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

// CreateAuctionHandler 调用方为卖方
func CreateAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateAuctionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.CreateAuction(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func CancelAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.CancelAuction(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("id")); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// BuyAuctionHandler 以当前价格买入
func BuyAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.BuyAuctionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.BuyAuction(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("id"), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func GetAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetAuction(c.Request.Context(), svcCtx, c.Param("id"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func AuctionsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetAuctions(c.Request.Context(), svcCtx)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
