package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/model"
)

// SealQuery 印章分页查询条件
type SealQuery struct {
	Keyword string
	Status  model.SealStatus
	Type    model.SealType
	Page    int
	Size    int
}

// SealRepository 印章数据访问接口
type SealRepository interface {
	Create(ctx context.Context, seal *model.Seal) error
	GetByID(ctx context.Context, id int64) (*model.Seal, error)
	GetByName(ctx context.Context, name string) (*model.Seal, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByNameExcluding(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, seal *model.Seal) error
	Delete(ctx context.Context, id int64) error

	Search(ctx context.Context, q SealQuery) ([]model.Seal, int64, error)
	ListByKeeper(ctx context.Context, keeper string) ([]model.Seal, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]NameCount, error)
	CountByType(ctx context.Context) ([]NameCount, error)
}

// sealRepo SealRepository 的 GORM 实现
type sealRepo struct {
	db *gorm.DB
}

// NewSealRepo 创建 SealRepository 实例
func NewSealRepo(db *gorm.DB) SealRepository {
	return &sealRepo{db: db}
}

func (r *sealRepo) Create(ctx context.Context, seal *model.Seal) error {
	return r.db.WithContext(ctx).Create(seal).Error
}

func (r *sealRepo) GetByID(ctx context.Context, id int64) (*model.Seal, error) {
	var seal model.Seal
	if err := r.db.WithContext(ctx).First(&seal, id).Error; err != nil {
		return nil, err
	}
	return &seal, nil
}

func (r *sealRepo) GetByName(ctx context.Context, name string) (*model.Seal, error) {
	var seal model.Seal
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&seal).Error; err != nil {
		return nil, err
	}
	return &seal, nil
}

func (r *sealRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Seal{}).
		Where("name = ?", name).
		Count(&n).Error
	return n > 0, err
}

func (r *sealRepo) ExistsByNameExcluding(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Seal{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *sealRepo) Update(ctx context.Context, seal *model.Seal) error {
	return r.db.WithContext(ctx).Save(seal).Error
}

func (r *sealRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Seal{}, id).Error
}

func (r *sealRepo) Search(ctx context.Context, q SealQuery) ([]model.Seal, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Seal{})

	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		db = db.Where("name LIKE ? OR keeper LIKE ? OR location LIKE ?", like, like, like)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var seals []model.Seal
	err := db.Order("create_time DESC").
		Offset(q.Page * q.Size).Limit(q.Size).
		Find(&seals).Error
	if err != nil {
		return nil, 0, err
	}

	return seals, total, nil
}

func (r *sealRepo) ListByKeeper(ctx context.Context, keeper string) ([]model.Seal, error) {
	var seals []model.Seal
	err := r.db.WithContext(ctx).
		Where("keeper = ?", keeper).
		Order("name ASC").
		Find(&seals).Error
	return seals, err
}

func (r *sealRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Seal{}).Count(&total).Error
	return total, err
}

func (r *sealRepo) CountByStatus(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.Seal{}).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *sealRepo) CountByType(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.Seal{}).
		Select("type AS name, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	return rows, err
}
