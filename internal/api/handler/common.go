package handler

import (
	"Glimmer/internal/pkg/consts"
	"Glimmer/internal/pkg/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// getPagination 解析 page / page_size, 非法值回退默认
func getPagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(consts.DefaultPageSize)))
	if err != nil {
		pageSize = consts.DefaultPageSize
	}
	return util.NormalizePage(page, pageSize, consts.MaxPageSize)
}

// getLimitOffset 列表接口使用的 limit / offset
func getLimitOffset(c *gin.Context) (int, int) {
	page, pageSize := getPagination(c)
	return pageSize, (page - 1) * pageSize
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	return util.ParseUint64(c.Param(name))
}
