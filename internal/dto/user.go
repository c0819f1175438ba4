package dto

// CreateUserRequest 新建用户
type CreateUserRequest struct {
	Username   string `json:"username"`
	RealName   string `json:"realName"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

// UpdateUserRequest 修改用户资料
type UpdateUserRequest struct {
	RealName   *string `json:"realName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

// UpdateUserStatusRequest 变更用户状态
type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// UpdateUserRoleRequest 变更用户角色
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPasswordRequest 管理员重置密码
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

// UserSearchRequest 用户分页查询
type UserSearchRequest struct {
	PageQuery
	Keyword    string `form:"keyword"`
	Department string `form:"department"`
	Status     string `form:"status"`
}
