package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/api/middleware"
	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
)

func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	// 注册 eth_addr, ether 等自定义校验规则
	if err := utils.RegisterGinValidators(); err != nil {
		panic(err)
	}
	gin.ForceConsoleColor()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RecoverMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RLog())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-CSRF-Token", "Authorization", middleware.HeaderAccount, middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           1 * time.Hour,
	}))
	loadV1(r, svcCtx)

	return r
}
