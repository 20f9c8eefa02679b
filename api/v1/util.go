package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapMarket/errcode"
)

const defaultExpiredLimit = 100

// uintParam 解析路径中的数字 id
func uintParam(c *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errcode.NewCustomErr("invalid " + name)
	}
	return v, nil
}

// bindErr 请求体解析或校验失败
func bindErr(err error) error {
	return errcode.NewCustomErr(err.Error())
}
