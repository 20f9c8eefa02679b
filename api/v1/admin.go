package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/service/v1"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

func StatsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.GetStats(c.Request.Context(), svcCtx))
	}
}

func PausedHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.GetPaused(c.Request.Context(), svcCtx))
	}
}

// SetPausedHandler POST 暂停, DELETE 恢复, 仅 owner
func SetPausedHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		paused := c.Request.Method != http.MethodDelete
		if err := service.SetPaused(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("desk"), paused); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, service.GetPaused(c.Request.Context(), svcCtx))
	}
}

func FeesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.GetFees(c.Request.Context(), svcCtx))
	}
}

// SetFeesHandler 仅 owner
func SetFeesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.FeesInfo
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.SetFees(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// FeeQuoteHandler ?seller=&buyer=&collection=&token_id=
func FeeQuoteHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetFeeQuote(c.Request.Context(), svcCtx,
			c.Query("seller"), c.Query("buyer"), c.Query("collection"), c.Query("token_id"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func RoyaltiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetRoyalties(c.Request.Context(), svcCtx, c.Param("collection"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func SetRoyaltiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RoyaltyReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.SetRoyalties(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func RemoveRoyaltiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RemoveRoyalties(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection")); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func SaleContractsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.GetSaleContracts(c.Request.Context(), svcCtx))
	}
}

// SetSaleContractHandler POST 登记, DELETE 移除, 仅 owner
func SetSaleContractHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		add := c.Request.Method != http.MethodDelete
		if err := service.SetSaleContract(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("address"), add); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, service.GetSaleContracts(c.Request.Context(), svcCtx))
	}
}

func MasterKeysHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetMasterKeys(c.Request.Context(), svcCtx, c.Param("holder"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// MintMasterKeyHandler 仅 owner
func MintMasterKeyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AddressReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.MintMasterKey(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func TransferMasterKeyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MasterKeyTransferReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.TransferMasterKey(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func DistributeDividendsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.DistributeDividends(c.Request.Context(), svcCtx, middleware.AccountFrom(c))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
