package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

// SealHandler 印章台账模块 HTTP 处理器
type SealHandler struct {
	sealSvc service.SealService
}

// NewSealHandler 创建 SealHandler
func NewSealHandler(sealSvc service.SealService) *SealHandler {
	return &SealHandler{sealSvc: sealSvc}
}

// Create 登记印章
// POST /api/seals
func (h *SealHandler) Create(c *gin.Context) {
	var req dto.CreateSealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	seal, err := h.sealSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "印章登记成功", seal)
}

// Update 修改印章信息
// PUT /api/seals/:id
func (h *SealHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateSealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	seal, err := h.sealSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, seal)
}

// UpdateStatus 变更印章状态
// PUT /api/seals/:id/status
func (h *SealHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateSealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	seal, err := h.sealSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, seal)
}

// Delete 删除印章
// DELETE /api/seals/:id
func (h *SealHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.sealSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "删除成功", nil)
}

// Get 印章详情
// GET /api/seals/:id
func (h *SealHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	seal, err := h.sealSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, seal)
}

// GetByName 按名称查询印章
// GET /api/seals/name/:name
func (h *SealHandler) GetByName(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		response.BadRequest(c, "印章名称不能为空")
		return
	}
	seal, err := h.sealSvc.GetByName(c.Request.Context(), name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, seal)
}

// List 印章分页查询
// GET /api/seals
func (h *SealHandler) List(c *gin.Context) {
	var req dto.SealSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	page, err := h.sealSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, page)
}

// ListByKeeper 保管人名下印章
// GET /api/seals/keeper/:keeper
func (h *SealHandler) ListByKeeper(c *gin.Context) {
	keeper := c.Param("keeper")
	if keeper == "" {
		response.BadRequest(c, "保管人不能为空")
		return
	}
	seals, err := h.sealSvc.ListByKeeper(c.Request.Context(), keeper)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, seals)
}

// Statistics 印章统计
// GET /api/seals/statistics
func (h *SealHandler) Statistics(c *gin.Context) {
	stats, err := h.sealSvc.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *SealHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSealNotFound):
		response.NotFound(c, "印章不存在")
	case errors.Is(err, service.ErrSealNameExists):
		response.BadRequest(c, "印章名称已存在")
	default:
		handleCommonError(c, err)
	}
}
