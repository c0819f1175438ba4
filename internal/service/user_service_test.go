package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/repository"
)

func setupTestUserService() (UserService, *mockUserRepo) {
	sealRepo := newMockSealRepo()
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		Seal:      sealRepo,
		UsageApp:  newMockUsageAppRepo(sealRepo),
		CreateApp: newMockCreateAppRepo(),
		User:      userRepo,
	}
	return NewUserService(repo, zap.NewNop()), userRepo
}

func createTestUser(t *testing.T, svc UserService) *model.User {
	t.Helper()
	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:   "zhangsan",
		RealName:   "张三",
		Password:   "pass1234",
		Department: "市场部",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	return user
}

func TestUserService_Create(t *testing.T) {
	svc, _ := setupTestUserService()

	user := createTestUser(t, svc)
	if user.Role != model.RoleUser {
		t.Errorf("缺省角色期望USER，实际=%s", user.Role)
	}
	if user.Status != model.UserStatusActive {
		t.Errorf("缺省状态期望ACTIVE，实际=%s", user.Status)
	}
	if user.Password == "pass1234" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pass1234")); err != nil {
		t.Error("存储的密码哈希应能校验原文")
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	svc, _ := setupTestUserService()
	createTestUser(t, svc)

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "zhangsan", RealName: "另一个张三", Password: "xx",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	svc, _ := setupTestUserService()
	createTestUser(t, svc)

	user, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "zhangsan", Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if user.LoginCount != 1 || user.LastLogin == nil {
		t.Error("登录应更新登录流水")
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestUserService()
	createTestUser(t, svc)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "zhangsan", Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("期望 ErrInvalidPassword，实际: %v", err)
	}

	// 用户不存在返回同一错误，不泄露账号是否存在
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody", Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("期望 ErrInvalidPassword，实际: %v", err)
	}
}

func TestUserService_Login_Inactive(t *testing.T) {
	svc, _ := setupTestUserService()
	user := createTestUser(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), user.ID, "INACTIVE"); err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "zhangsan", Password: "pass1234",
	})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("期望 ErrUserInactive，实际: %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _ := setupTestUserService()
	user := createTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "pass1234", NewPassword: "newpass",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "zhangsan", Password: "newpass",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _ := setupTestUserService()
	user := createTestUser(t, svc)

	if err := svc.ResetPassword(context.Background(), user.ID, "reset123"); err != nil {
		t.Fatalf("ResetPassword 应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "zhangsan", Password: "reset123",
	}); err != nil {
		t.Errorf("重置后的密码登录应成功: %v", err)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, _ := setupTestUserService()
	user := createTestUser(t, svc)

	updated, err := svc.UpdateRole(context.Background(), user.ID, "MANAGER")
	if err != nil {
		t.Fatalf("UpdateRole 应成功: %v", err)
	}
	if updated.Role != model.RoleManager {
		t.Errorf("期望Role=MANAGER，实际=%s", updated.Role)
	}

	if _, err := svc.UpdateRole(context.Background(), user.ID, "SUPERHERO"); err == nil {
		t.Error("非法角色应报错")
	}
}

func TestUserService_EnsureDefaultAdmin(t *testing.T) {
	svc, userRepo := setupTestUserService()

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAdmin 应成功: %v", err)
	}
	admin, err := svc.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatal("默认管理员应已植入")
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("期望Role=ADMIN，实际=%s", admin.Role)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin", Password: "admin123",
	}); err != nil {
		t.Errorf("默认管理员应能登录: %v", err)
	}

	// 幂等：重复调用不新增
	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("重复植入应成功: %v", err)
	}
	if len(userRepo.users) != 1 {
		t.Errorf("期望仅1个用户，实际=%d", len(userRepo.users))
	}
}

func TestUserService_Statistics(t *testing.T) {
	svc, _ := setupTestUserService()
	createTestUser(t, svc)
	svc.EnsureDefaultAdmin(context.Background())

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics 应成功: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("期望Total=2，实际=%d", stats.TotalUsers)
	}
	if stats.ByRole["USER"] != 1 || stats.ByRole["ADMIN"] != 1 {
		t.Errorf("角色分布错误: %v", stats.ByRole)
	}
}
