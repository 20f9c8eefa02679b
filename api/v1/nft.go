package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/service/v1"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

func CreateCollectionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.CreateCollection(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection")); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func MintNFTHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MintNFTReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.MintNFT(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func ApproveNFTHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ApproveNFTReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.ApproveNFT(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func ApprovalForAllHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ApprovalForAllReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.SetApprovalForAll(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// RejectTransfersHandler 仅 owner
func RejectTransfersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RejectTransfersReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.SetRejectTransfers(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func TransferNFTHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TransferNFTReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		if err := service.TransferNFT(c.Request.Context(), svcCtx, middleware.AccountFrom(c), c.Param("collection"), req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func TokenHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetToken(c.Request.Context(), svcCtx, c.Param("collection"), c.Param("token_id"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func TokensOfHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetTokensOf(c.Request.Context(), svcCtx, c.Param("collection"), c.Param("holder"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// DepositHandler 给任意账户充值
func DepositHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.DepositReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.Deposit(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func BalanceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetBalance(c.Request.Context(), svcCtx, c.Param("account"))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func WithdrawHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.Withdraw(c.Request.Context(), svcCtx, middleware.AccountFrom(c))
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func SendTipHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TipReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, bindErr(err))
			return
		}
		res, err := service.SendTip(c.Request.Context(), svcCtx, middleware.AccountFrom(c), req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
