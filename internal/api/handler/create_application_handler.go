package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

// CreateApplicationHandler 刻章申请模块 HTTP 处理器
type CreateApplicationHandler struct {
	appSvc service.CreateApplicationService
}

// NewCreateApplicationHandler 创建 CreateApplicationHandler
func NewCreateApplicationHandler(appSvc service.CreateApplicationService) *CreateApplicationHandler {
	return &CreateApplicationHandler{appSvc: appSvc}
}

// Create 提交刻章申请
// POST /api/seal-create-applications
func (h *CreateApplicationHandler) Create(c *gin.Context) {
	var req dto.CreateSealApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	app, err := h.appSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "申请提交成功", app)
}

// Update 修改待审批的申请
// PUT /api/seal-create-applications/:id
func (h *CreateApplicationHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateSealApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	app, err := h.appSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, app)
}

// Delete 删除待审批的申请
// DELETE /api/seal-create-applications/:id
func (h *CreateApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.appSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "删除成功", nil)
}

// Get 申请详情
// GET /api/seal-create-applications/:id
func (h *CreateApplicationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	app, err := h.appSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, app)
}

// GetByNo 按申请编号查询
// GET /api/seal-create-applications/no/:applicationNo
func (h *CreateApplicationHandler) GetByNo(c *gin.Context) {
	no := c.Param("applicationNo")
	if no == "" {
		response.BadRequest(c, "申请编号不能为空")
		return
	}
	app, err := h.appSvc.GetByNo(c.Request.Context(), no)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, app)
}

// List 多条件分页查询
// GET /api/seal-create-applications
func (h *CreateApplicationHandler) List(c *gin.Context) {
	var req dto.ApplicationSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	page, err := h.appSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, page)
}

// ListPending 待审批列表
// GET /api/seal-create-applications/pending
func (h *CreateApplicationHandler) ListPending(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}
	result, err := h.appSvc.ListByStatus(c.Request.Context(), model.StatusPending, &page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMine 我的申请
// GET /api/seal-create-applications/my/:applicant
func (h *CreateApplicationHandler) ListMine(c *gin.Context) {
	applicant := c.Param("applicant")
	if applicant == "" {
		response.BadRequest(c, "申请人不能为空")
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}
	result, err := h.appSvc.ListMine(c.Request.Context(), applicant, &page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Approve 审批（通过时自动创建印章）
// POST /api/seal-create-applications/:id/approve
func (h *CreateApplicationHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	app, err := h.appSvc.Approve(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "审批成功", app)
}

// BatchApprove 批量审批
// POST /api/seal-create-applications/batch-approve
func (h *CreateApplicationHandler) BatchApprove(c *gin.Context) {
	var req dto.BatchApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}
	if len(req.IDs) == 0 {
		response.BadRequest(c, "申请ID列表不能为空")
		return
	}

	result, err := h.appSvc.BatchApprove(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Withdraw 撤回申请
// POST /api/seal-create-applications/:id/withdraw
func (h *CreateApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}
	if req.Applicant == "" {
		response.BadRequest(c, "申请人不能为空")
		return
	}

	result := h.appSvc.Withdraw(c.Request.Context(), id, req.Applicant)
	response.OK(c, result)
}

// CanEdit 申请是否可由指定申请人修改
// GET /api/seal-create-applications/:id/can-edit?applicant=xxx
func (h *CreateApplicationHandler) CanEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	applicant := c.Query("applicant")
	if applicant == "" {
		response.BadRequest(c, "申请人不能为空")
		return
	}

	canEdit, err := h.appSvc.CanEdit(c.Request.Context(), id, applicant)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"canEdit": canEdit})
}

// CanApprove 申请是否可审批
// GET /api/seal-create-applications/:id/can-approve
func (h *CreateApplicationHandler) CanApprove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	canApprove, err := h.appSvc.CanApprove(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"canApprove": canApprove})
}

// Statistics 申请总览统计
// GET /api/seal-create-applications/statistics
func (h *CreateApplicationHandler) Statistics(c *gin.Context) {
	stats, err := h.appSvc.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *CreateApplicationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, "申请不存在")
	case errors.Is(err, service.ErrModifyProcessed):
		response.BadRequest(c, "申请已处理，无法修改")
	case errors.Is(err, service.ErrDeleteProcessed):
		response.BadRequest(c, "申请已处理，无法删除")
	case errors.Is(err, service.ErrRepeatApprove):
		response.BadRequest(c, "申请已处理，无法重复审批")
	case errors.Is(err, service.ErrInvalidApproveStatus):
		response.BadRequest(c, "无效的审批状态")
	case errors.Is(err, service.ErrSealNameExists):
		response.BadRequest(c, "印章名称已存在")
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/create_application_handler.go
