package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUsernameExists   = errors.New("用户名已存在")
	ErrInvalidPassword  = errors.New("用户名或密码错误")
	ErrUserInactive     = errors.New("账号已停用")
	ErrOldPasswordWrong = errors.New("原密码错误")
)

// 默认管理员账号，首次启动时自动植入
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// UserService 用户业务逻辑接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	Search(ctx context.Context, req *dto.UserSearchRequest) (*dto.PageResult, error)

	Login(ctx context.Context, req *dto.LoginRequest) (*model.User, error)
	ChangePassword(ctx context.Context, id int64, req *dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, id int64, newPassword string) error

	Statistics(ctx context.Context) (*dto.UserStatistics, error)
	EnsureDefaultAdmin(ctx context.Context) error
}

// userService UserService 实现
type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("密码加密失败: %w", err)
	}
	return string(hashed), nil
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	switch {
	case req.Username == "":
		return nil, requiredErr("用户名不能为空")
	case req.Password == "":
		return nil, requiredErr("密码不能为空")
	case req.RealName == "":
		return nil, requiredErr("姓名不能为空")
	}
	role := model.RoleUser
	if req.Role != "" {
		switch model.UserRole(req.Role) {
		case model.RoleAdmin, model.RoleManager, model.RoleUser:
			role = model.UserRole(req.Role)
		default:
			return nil, requiredErr("无效的用户角色")
		}
	}

	exists, err := s.repo.User.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		Username:   req.Username,
		RealName:   req.RealName,
		Password:   hashed,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Role:       role,
		Status:     model.UserStatusActive,
		CreateTime: now,
		UpdateTime: now,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.logger.Info("用户已创建", zap.String("username", user.Username), zap.String("role", string(role)))
	return user, nil
}

func (s *userService) getExisting(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RealName != nil {
		user.RealName = *req.RealName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	user.UpdateTime = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id int64, status string) (*model.User, error) {
	switch model.UserStatus(status) {
	case model.UserStatusActive, model.UserStatusInactive, model.UserStatusPending:
	default:
		return nil, requiredErr("无效的用户状态")
	}
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = model.UserStatus(status)
	user.UpdateTime = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新用户状态失败: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id int64, role string) (*model.User, error) {
	switch model.UserRole(role) {
	case model.RoleAdmin, model.RoleManager, model.RoleUser:
	default:
		return nil, requiredErr("无效的用户角色")
	}
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = model.UserRole(role)
	user.UpdateTime = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新用户角色失败: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除用户失败: %w", err)
	}
	s.logger.Info("用户已删除", zap.String("username", user.Username))
	return nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getExisting(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, req *dto.UserSearchRequest) (*dto.PageResult, error) {
	req.Normalize()
	users, total, err := s.repo.User.Search(ctx, repository.UserQuery{
		Keyword:    req.Keyword,
		Department: req.Department,
		Status:     model.UserStatus(req.Status),
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return dto.NewPageResult(users, total, req.Page, req.Size), nil
}

// Login 校验用户名密码
// 用户不存在和密码错误返回同一错误，不泄露账号是否存在
func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("登录失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}
	if user.Status != model.UserStatusActive {
		return nil, ErrUserInactive
	}

	now := time.Now()
	user.LastLogin = &now
	user.LoginCount++
	user.UpdateTime = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		// 登录流水更新失败不阻断登录
		s.logger.Warn("更新登录记录失败", zap.String("username", user.Username), zap.Error(err))
	}

	s.logger.Info("用户登录", zap.String("username", user.Username))
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, req *dto.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return requiredErr("新密码不能为空")
	}
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.UpdateTime = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("修改密码失败: %w", err)
	}

	s.logger.Info("用户密码已修改", zap.String("username", user.Username))
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	if newPassword == "" {
		return requiredErr("新密码不能为空")
	}
	user, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.UpdateTime = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("重置密码失败: %w", err)
	}

	s.logger.Info("用户密码已重置", zap.String("username", user.Username))
	return nil
}

func (s *userService) Statistics(ctx context.Context) (*dto.UserStatistics, error) {
	total, err := s.repo.User.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用户失败: %w", err)
	}
	byStatus, err := s.repo.User.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用户失败: %w", err)
	}
	byRole, err := s.repo.User.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用户失败: %w", err)
	}

	stats := &dto.UserStatistics{
		TotalUsers: total,
		ByStatus:   make(map[string]int64, len(byStatus)),
		ByRole:     make(map[string]int64, len(byRole)),
	}
	for _, c := range byStatus {
		stats.ByStatus[c.Name] = c.Count
	}
	for _, c := range byRole {
		stats.ByRole[c.Name] = c.Count
	}
	return stats, nil
}

// EnsureDefaultAdmin 首次启动植入默认管理员，已存在则跳过
func (s *userService) EnsureDefaultAdmin(ctx context.Context) error {
	exists, err := s.repo.User.ExistsByUsername(ctx, defaultAdminUsername)
	if err != nil {
		return fmt.Errorf("检查默认管理员失败: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := hashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	admin := &model.User{
		Username:   defaultAdminUsername,
		RealName:   "系统管理员",
		Password:   hashed,
		Department: "行政部",
		Role:       model.RoleAdmin,
		Status:     model.UserStatusActive,
		CreateTime: now,
		UpdateTime: now,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		// 并发启动时另一实例可能已植入
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("植入默认管理员失败: %w", err)
	}

	s.logger.Info("默认管理员已创建", zap.String("username", defaultAdminUsername))
	return nil
}
