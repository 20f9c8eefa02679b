package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/api/v1"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
)

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	apiV1 := r.Group("/api/v1")
	account := middleware.Account()

	apiV1.GET("/stats", v1.StatsHandler(svcCtx))
	apiV1.GET("/activities", v1.ActivityHandler(svcCtx))

	// 单 token 挂单
	for _, desk := range []event.Desk{event.DeskBid, event.DeskOffer} {
		g := apiV1.Group("/" + string(desk) + "s")
		{
			g.POST("", account, v1.PlaceTokenCommitmentHandler(svcCtx, desk))
			g.GET("/:id", v1.GetTokenCommitmentHandler(svcCtx, desk))
			g.DELETE("/:id", account, v1.CancelTokenCommitmentHandler(svcCtx, desk))
			g.POST("/:id/accept", account, v1.AcceptTokenCommitmentHandler(svcCtx, desk))
		}
	}

	collectionBids := apiV1.Group("/collection_bids")
	{
		collectionBids.POST("", account, v1.PlaceCollectionBidHandler(svcCtx))
		collectionBids.GET("/:id", v1.GetCollectionBidHandler(svcCtx))
		collectionBids.POST("/:id/accept", account, v1.AcceptCollectionBidHandler(svcCtx))
	}

	// 过期挂单
	expired := apiV1.Group("/expired")
	{
		expired.GET("/:desk", v1.ExpiredHandler(svcCtx))
		expired.POST("/:desk/remove", v1.RemoveExpiredHandler(svcCtx))
	}

	auctions := apiV1.Group("/auctions")
	{
		auctions.GET("", v1.AuctionsHandler(svcCtx))
		auctions.POST("", account, v1.CreateAuctionHandler(svcCtx))
		auctions.GET("/:id", v1.GetAuctionHandler(svcCtx))
		auctions.DELETE("/:id", account, v1.CancelAuctionHandler(svcCtx))
		auctions.POST("/:id/buy", account, v1.BuyAuctionHandler(svcCtx))
	}

	collections := apiV1.Group("/collections/:collection")
	{
		collections.POST("", account, v1.CreateCollectionHandler(svcCtx))
		collections.POST("/mint", account, v1.MintNFTHandler(svcCtx))
		collections.POST("/approve", account, v1.ApproveNFTHandler(svcCtx))
		collections.POST("/approval_for_all", account, v1.ApprovalForAllHandler(svcCtx))
		collections.POST("/transfer", account, v1.TransferNFTHandler(svcCtx))
		collections.POST("/reject_transfers", account, v1.RejectTransfersHandler(svcCtx))
		collections.GET("/tokens/:token_id", v1.TokenHandler(svcCtx))
		collections.GET("/tokens/:token_id/bids", v1.TokenCommitmentsHandler(svcCtx, event.DeskBid))
		collections.GET("/tokens/:token_id/offers", v1.TokenCommitmentsHandler(svcCtx, event.DeskOffer))
		collections.GET("/holders/:holder", v1.TokensOfHandler(svcCtx))
		collections.GET("/collection_bids", v1.CollectionBidsHandler(svcCtx))
		collections.DELETE("/collection_bids", account, v1.CancelCollectionBidHandler(svcCtx))
		collections.GET("/royalties", v1.RoyaltiesHandler(svcCtx))
		collections.PUT("/royalties", account, v1.SetRoyaltiesHandler(svcCtx))
		collections.DELETE("/royalties", account, v1.RemoveRoyaltiesHandler(svcCtx))
	}

	admin := apiV1.Group("/admin")
	{
		admin.GET("/fees", v1.FeesHandler(svcCtx))
		admin.PUT("/fees", account, v1.SetFeesHandler(svcCtx))
		admin.GET("/fees/quote", v1.FeeQuoteHandler(svcCtx))
		admin.GET("/paused", v1.PausedHandler(svcCtx))
		admin.POST("/paused/:desk", account, v1.SetPausedHandler(svcCtx))
		admin.DELETE("/paused/:desk", account, v1.SetPausedHandler(svcCtx))
		admin.GET("/sale_contracts", v1.SaleContractsHandler(svcCtx))
		admin.POST("/sale_contracts/:address", account, v1.SetSaleContractHandler(svcCtx))
		admin.DELETE("/sale_contracts/:address", account, v1.SetSaleContractHandler(svcCtx))
	}

	masterKeys := apiV1.Group("/master_keys")
	{
		masterKeys.POST("", account, v1.MintMasterKeyHandler(svcCtx))
		masterKeys.POST("/transfer", account, v1.TransferMasterKeyHandler(svcCtx))
		masterKeys.GET("/holders/:holder", v1.MasterKeysHandler(svcCtx))
		masterKeys.POST("/distribute", account, v1.DistributeDividendsHandler(svcCtx))
	}

	funds := apiV1.Group("/accounts")
	{
		funds.POST("/deposit", v1.DepositHandler(svcCtx))
		funds.POST("/withdraw", account, v1.WithdrawHandler(svcCtx))
		funds.POST("/tip", account, v1.SendTipHandler(svcCtx))
		funds.GET("/:account", v1.BalanceHandler(svcCtx))
	}
}
