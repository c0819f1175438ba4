package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

// parseID 从路径参数中提取数字 ID。
// 解析失败时写入 400 响应并返回 false，调用方应直接 return。
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的ID")
		return 0, false
	}
	return id, true
}

// handleCommonError 各模块共享的错误收尾
// 参数校验错误 → 400，其余 → 500
func handleCommonError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		response.BadRequest(c, ve.Msg)
		return
	}
	response.InternalError(c)
}
