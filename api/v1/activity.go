package v1

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/errcode"
	"github.com/ProjectsTask/EasySwapMarket/service/svc"
	"github.com/ProjectsTask/EasySwapMarket/service/v1"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
	"github.com/ProjectsTask/EasySwapMarket/xhttp"
)

// ActivityHandler 查询已记录的交易所事件
// filters 为 JSON 编码的 ActivityFilterParams, 为空时不过滤
func ActivityHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter types.ActivityFilterParams
		if s := c.Query("filters"); s != "" {
			if err := json.Unmarshal([]byte(s), &filter); err != nil {
				xhttp.Error(c, errcode.NewCustomErr("Filter param is invalid."))
				return
			}
		}
		res, err := service.GetActivities(c.Request.Context(), svcCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
