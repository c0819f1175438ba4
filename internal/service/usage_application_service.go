package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/repository"
	"github.com/yangjin15/yinzhang/pkg/appno"
)

// UsageApplicationService 用印申请业务逻辑接口
type UsageApplicationService interface {
	Create(ctx context.Context, req *dto.CreateUsageApplicationRequest) (*model.SealUsageApplication, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUsageApplicationRequest) (*model.SealUsageApplication, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.SealUsageApplication, error)
	GetByNo(ctx context.Context, applicationNo string) (*model.SealUsageApplication, error)

	Search(ctx context.Context, req *dto.ApplicationSearchRequest) (*dto.PageResult, error)
	ListByStatus(ctx context.Context, status model.ApplicationStatus, page *dto.PageQuery) (*dto.PageResult, error)
	ListMine(ctx context.Context, applicant string, page *dto.PageQuery) (*dto.PageResult, error)
	ListKeeperPending(ctx context.Context, keeper string, page *dto.PageQuery) (*dto.PageResult, error)

	Approve(ctx context.Context, id int64, req *dto.ApproveRequest) (*model.SealUsageApplication, error)
	BatchApprove(ctx context.Context, req *dto.BatchApproveRequest) (*dto.BatchApproveResult, error)
	Complete(ctx context.Context, id int64) (*model.SealUsageApplication, error)
	Withdraw(ctx context.Context, id int64, applicant string) *dto.WithdrawResult
	CanEdit(ctx context.Context, id int64, applicant string) (bool, error)
	CanApprove(ctx context.Context, id int64) (bool, error)

	Statistics(ctx context.Context) (*dto.ApplicationStatistics, error)
	DepartmentStatistics(ctx context.Context) ([]dto.DepartmentCount, error)
	SealUsageStatistics(ctx context.Context) ([]dto.SealUsageCount, error)
	MonthlyTrend(ctx context.Context, months int) ([]dto.MonthlyCount, error)
	AverageProcessingTime(ctx context.Context) (float64, error)
	ApprovalDurationStatistics(ctx context.Context) *dto.ApprovalDurationStatistics
	Upcoming(ctx context.Context, hours int) ([]model.SealUsageApplication, error)
}

// usageApplicationService UsageApplicationService 实现
type usageApplicationService struct {
	repo   *repository.Repository
	nos    appno.Generator
	logger *zap.Logger
}

// NewUsageApplicationService 创建用印申请服务
func NewUsageApplicationService(repo *repository.Repository, nos appno.Generator, logger *zap.Logger) UsageApplicationService {
	return &usageApplicationService{repo: repo, nos: nos, logger: logger}
}

// validateCreate 逐字段校验，返回首个缺失字段的文案
func (s *usageApplicationService) validateCreate(req *dto.CreateUsageApplicationRequest) error {
	switch {
	case req.SealName == "":
		return requiredErr("印章名称不能为空")
	case req.SealType == "":
		return requiredErr("印章类型不能为空")
	case req.Applicant == "":
		return requiredErr("申请人不能为空")
	case req.Department == "":
		return requiredErr("申请部门不能为空")
	case req.Purpose == "":
		return requiredErr("用印目的不能为空")
	case req.ExpectedTime == nil:
		return requiredErr("期望用印时间不能为空")
	}
	if !model.ValidSealType(model.SealType(req.SealType)) {
		return requiredErr("无效的印章类型")
	}
	if req.SealShape != "" && !model.ValidSealShape(model.SealShape(req.SealShape)) {
		return requiredErr("无效的印章形状")
	}
	return nil
}

func (s *usageApplicationService) Create(ctx context.Context, req *dto.CreateUsageApplicationRequest) (*model.SealUsageApplication, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	app := &model.SealUsageApplication{
		SealName:             req.SealName,
		SealType:             model.SealType(req.SealType),
		SealShape:            model.SealShape(req.SealShape),
		SealOwnerDepartment:  req.SealOwnerDepartment,
		SealKeeperDepartment: req.SealKeeperDepartment,
		Applicant:            req.Applicant,
		Department:           req.Department,
		FileName:             req.FileName,
		Addressee:            req.Addressee,
		Copies:               req.Copies,
		Purpose:              req.Purpose,
		AttachmentURL:        req.AttachmentURL,
		AttachmentName:       req.AttachmentName,
		Documents:            req.Documents,
		ExpectedTime:         req.ExpectedTime,
		Status:               model.StatusPending,
		ApplyTime:            now,
		UpdateTime:           now,
	}

	// 编号来自递增序列，冲突只可能出现在进程内降级计数器重启后，
	// 重新取号重试一次即可
	for attempt := 0; ; attempt++ {
		no, err := s.nos.UsageNo(ctx)
		if err != nil {
			return nil, err
		}
		app.ApplicationNo = no

		err = s.repo.UsageApp.Create(ctx, app)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 2 {
			s.logger.Warn("申请编号冲突，重新取号", zap.String("applicationNo", no))
			continue
		}
		return nil, fmt.Errorf("创建用印申请失败: %w", err)
	}

	s.logger.Info("用印申请已提交",
		zap.String("applicationNo", app.ApplicationNo),
		zap.String("applicant", app.Applicant),
		zap.String("sealName", app.SealName))
	return app, nil
}

func (s *usageApplicationService) getExisting(ctx context.Context, id int64) (*model.SealUsageApplication, error) {
	app, err := s.repo.UsageApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *usageApplicationService) Update(ctx context.Context, id int64, req *dto.UpdateUsageApplicationRequest) (*model.SealUsageApplication, error) {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensurePending(app, ErrModifyProcessed); err != nil {
		return nil, err
	}

	// 仅白名单字段可改，编号/申请人/状态等一律不可经由修改接口变更
	if req.SealName != "" {
		app.SealName = req.SealName
	}
	if req.SealType != "" {
		if !model.ValidSealType(model.SealType(req.SealType)) {
			return nil, requiredErr("无效的印章类型")
		}
		app.SealType = model.SealType(req.SealType)
	}
	if req.Purpose != "" {
		app.Purpose = req.Purpose
	}
	if req.ExpectedTime != nil {
		app.ExpectedTime = req.ExpectedTime
	}
	if req.Documents != "" {
		app.Documents = req.Documents
	}
	app.UpdateTime = time.Now()

	if err := s.repo.UsageApp.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("更新用印申请失败: %w", err)
	}
	return app, nil
}

func (s *usageApplicationService) Delete(ctx context.Context, id int64) error {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := ensurePending(app, ErrDeleteProcessed); err != nil {
		return err
	}
	if err := s.repo.UsageApp.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除用印申请失败: %w", err)
	}
	s.logger.Info("用印申请已删除", zap.String("applicationNo", app.ApplicationNo))
	return nil
}

func (s *usageApplicationService) GetByID(ctx context.Context, id int64) (*model.SealUsageApplication, error) {
	return s.getExisting(ctx, id)
}

func (s *usageApplicationService) GetByNo(ctx context.Context, applicationNo string) (*model.SealUsageApplication, error) {
	app, err := s.repo.UsageApp.GetByNo(ctx, applicationNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ── 查询 ──

func (s *usageApplicationService) Search(ctx context.Context, req *dto.ApplicationSearchRequest) (*dto.PageResult, error) {
	req.Normalize()
	q := repository.ApplicationQuery{
		Keyword:    req.Keyword,
		Status:     req.StatusOrEmpty(),
		Applicant:  req.Applicant,
		Department: req.Department,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Page:       req.Page,
		Size:       req.Size,
		SortBy:     req.SortBy,
		SortDir:    req.SortDir,
	}
	apps, total, err := s.repo.UsageApp.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("查询用印申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, req.Page, req.Size), nil
}

func (s *usageApplicationService) ListByStatus(ctx context.Context, status model.ApplicationStatus, page *dto.PageQuery) (*dto.PageResult, error) {
	page.Normalize()
	apps, total, err := s.repo.UsageApp.Search(ctx, repository.ApplicationQuery{
		Status:  status,
		Page:    page.Page,
		Size:    page.Size,
		SortBy:  page.SortBy,
		SortDir: page.SortDir,
	})
	if err != nil {
		return nil, fmt.Errorf("查询用印申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, page.Page, page.Size), nil
}

func (s *usageApplicationService) ListMine(ctx context.Context, applicant string, page *dto.PageQuery) (*dto.PageResult, error) {
	page.Normalize()
	apps, total, err := s.repo.UsageApp.Search(ctx, repository.ApplicationQuery{
		Applicant: applicant,
		Page:      page.Page,
		Size:      page.Size,
		SortBy:    page.SortBy,
		SortDir:   page.SortDir,
	})
	if err != nil {
		return nil, fmt.Errorf("查询用印申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, page.Page, page.Size), nil
}

func (s *usageApplicationService) ListKeeperPending(ctx context.Context, keeper string, page *dto.PageQuery) (*dto.PageResult, error) {
	page.Normalize()
	apps, total, err := s.repo.UsageApp.ListKeeperPending(ctx, keeper, page.Page, page.Size)
	if err != nil {
		return nil, fmt.Errorf("查询保管人待办失败: %w", err)
	}
	return dto.NewPageResult(apps, total, page.Page, page.Size), nil
}

// ── 审批 ──

func (s *usageApplicationService) Approve(ctx context.Context, id int64, req *dto.ApproveRequest) (*model.SealUsageApplication, error) {
	if req.Approver == "" {
		return nil, requiredErr("审批人不能为空")
	}
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	target := model.ApplicationStatus(req.Status)
	if err := usageWorkflow.checkApprove(app, target); err != nil {
		return nil, err
	}

	app.SetApproval(target, req.Approver, req.Remark, time.Now())
	if err := s.repo.UsageApp.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("审批用印申请失败: %w", err)
	}

	s.logger.Info("用印申请已审批",
		zap.String("applicationNo", app.ApplicationNo),
		zap.String("status", string(target)),
		zap.String("approver", req.Approver))
	return app, nil
}

func (s *usageApplicationService) BatchApprove(ctx context.Context, req *dto.BatchApproveRequest) (*dto.BatchApproveResult, error) {
	if req.Approver == "" {
		return nil, requiredErr("审批人不能为空")
	}
	target := model.ApplicationStatus(req.Status)
	if target != model.StatusApproved && target != model.StatusRejected {
		return nil, ErrInvalidApproveStatus
	}

	one := &dto.ApproveRequest{Status: req.Status, Approver: req.Approver, Remark: req.Remark}
	return batchApprove(req.IDs, func(id int64) error {
		_, err := s.Approve(ctx, id, one)
		return err
	}, s.logger), nil
}

func (s *usageApplicationService) Complete(ctx context.Context, id int64) (*model.SealUsageApplication, error) {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := usageWorkflow.checkComplete(app); err != nil {
		return nil, err
	}

	app.Status = model.StatusCompleted
	app.UpdateTime = time.Now()
	if err := s.repo.UsageApp.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("完成用印失败: %w", err)
	}

	s.logger.Info("用印已完成", zap.String("applicationNo", app.ApplicationNo))
	return app, nil
}

// Withdraw 撤回申请
// 对外统一收敛为 success 布尔值：不存在/已处理/非本人都视为撤回失败，
// 具体原因只记录日志不返回给调用方
func (s *usageApplicationService) Withdraw(ctx context.Context, id int64, applicant string) *dto.WithdrawResult {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		s.logger.Debug("撤回用印申请失败", zap.Int64("id", id), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}
	if err := checkWithdraw(app, app.Applicant, applicant); err != nil {
		s.logger.Debug("撤回用印申请失败",
			zap.String("applicationNo", app.ApplicationNo), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}
	if err := s.repo.UsageApp.Delete(ctx, id); err != nil {
		s.logger.Error("撤回用印申请失败",
			zap.String("applicationNo", app.ApplicationNo), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}

	s.logger.Info("用印申请已撤回", zap.String("applicationNo", app.ApplicationNo))
	return &dto.WithdrawResult{Success: true}
}

func (s *usageApplicationService) CanEdit(ctx context.Context, id int64, applicant string) (bool, error) {
	app, err := s.repo.UsageApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return app.Applicant == applicant && app.Status == model.StatusPending, nil
}

func (s *usageApplicationService) CanApprove(ctx context.Context, id int64) (bool, error) {
	app, err := s.repo.UsageApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return app.Status == model.StatusPending, nil
}

// ── 统计 ──

func (s *usageApplicationService) Statistics(ctx context.Context) (*dto.ApplicationStatistics, error) {
	total, err := s.repo.UsageApp.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用印申请失败: %w", err)
	}
	counts, err := s.repo.UsageApp.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用印申请失败: %w", err)
	}
	avg, err := s.repo.UsageApp.AverageProcessingHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计用印申请失败: %w", err)
	}

	byStatus := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStatus[string(c.Status)] = c.Count
	}
	return &dto.ApplicationStatistics{
		TotalApplications:     total,
		ByStatus:              byStatus,
		AverageProcessingTime: avg,
	}, nil
}

func (s *usageApplicationService) DepartmentStatistics(ctx context.Context) ([]dto.DepartmentCount, error) {
	counts, err := s.repo.UsageApp.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计部门用印失败: %w", err)
	}
	result := make([]dto.DepartmentCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.DepartmentCount{Department: c.Name, Count: c.Count})
	}
	return result, nil
}

func (s *usageApplicationService) SealUsageStatistics(ctx context.Context) ([]dto.SealUsageCount, error) {
	counts, err := s.repo.UsageApp.CountBySealName(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计印章使用失败: %w", err)
	}
	result := make([]dto.SealUsageCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.SealUsageCount{SealName: c.Name, UsageCount: c.Count})
	}
	return result, nil
}

func (s *usageApplicationService) MonthlyTrend(ctx context.Context, months int) ([]dto.MonthlyCount, error) {
	if months <= 0 {
		months = 6
	}
	since := time.Now().AddDate(0, -months, 0)
	counts, err := s.repo.UsageApp.MonthlyTrend(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("统计月度趋势失败: %w", err)
	}
	result := make([]dto.MonthlyCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.MonthlyCount{Month: c.Month, Count: c.Count})
	}
	return result, nil
}

func (s *usageApplicationService) AverageProcessingTime(ctx context.Context) (float64, error) {
	avg, err := s.repo.UsageApp.AverageProcessingHours(ctx)
	if err != nil {
		return 0, fmt.Errorf("统计平均处理时长失败: %w", err)
	}
	return avg, nil
}

// 审批时长区间边界（小时）
const (
	rangeHour = 1
	rangeDay  = 24
	range3Day = 72
	rangeWeek = 168
)

// ApprovalDurationStatistics 审批时长分布
// 任何一步查询失败都降级为零值 + "数据查询失败"，不向上抛错
func (s *usageApplicationService) ApprovalDurationStatistics(ctx context.Context) *dto.ApprovalDurationStatistics {
	degraded := &dto.ApprovalDurationStatistics{
		AverageDurationText: "数据查询失败",
		DurationRanges:      map[string]int64{},
	}

	durations, err := s.repo.UsageApp.ApprovalDurationHours(ctx)
	if err != nil {
		s.logger.Error("统计审批时长失败", zap.Error(err))
		return degraded
	}

	ranges := map[string]int64{
		"within1Hour":   0,
		"within1Day":    0,
		"within3Days":   0,
		"within7Days":   0,
		"moreThan7Days": 0,
	}
	var sum float64
	for _, h := range durations {
		sum += h
		switch {
		case h <= rangeHour:
			ranges["within1Hour"]++
		case h <= rangeDay:
			ranges["within1Day"]++
		case h <= range3Day:
			ranges["within3Days"]++
		case h <= rangeWeek:
			ranges["within7Days"]++
		default:
			ranges["moreThan7Days"]++
		}
	}

	stats := &dto.ApprovalDurationStatistics{DurationRanges: ranges}
	if len(durations) > 0 {
		stats.AverageHours = sum / float64(len(durations))
		stats.AverageDurationText = formatDuration(int64(stats.AverageHours * 60))
	} else {
		stats.AverageDurationText = "暂无数据"
	}

	fastest, err := s.repo.UsageApp.FastestApproved(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("统计审批时长失败", zap.Error(err))
		return degraded
	}
	slowest, err := s.repo.UsageApp.SlowestApproved(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("统计审批时长失败", zap.Error(err))
		return degraded
	}
	stats.FastestApproval = approvalExtreme(fastest)
	stats.SlowestApproval = approvalExtreme(slowest)

	return stats
}

func approvalExtreme(app *model.SealUsageApplication) *dto.ApprovalExtreme {
	if app == nil || app.ApproveTime == nil {
		return nil
	}
	minutes := int64(app.ApproveTime.Sub(app.ApplyTime).Minutes())
	return &dto.ApprovalExtreme{
		ApplicationNo: app.ApplicationNo,
		Minutes:       minutes,
		Text:          formatDuration(minutes),
	}
}

// formatDuration 将分钟数格式化为可读时长文案
func formatDuration(minutes int64) string {
	if minutes < 1 {
		return "不足1分钟"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d分钟", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if rest := minutes % 60; rest > 0 {
			return fmt.Sprintf("%d小时%d分钟", hours, rest)
		}
		return fmt.Sprintf("%d小时", hours)
	}
	days := hours / 24
	if rest := hours % 24; rest > 0 {
		return fmt.Sprintf("%d天%d小时", days, rest)
	}
	return fmt.Sprintf("%d天", days)
}

func (s *usageApplicationService) Upcoming(ctx context.Context, hours int) ([]model.SealUsageApplication, error) {
	if hours <= 0 {
		hours = 24
	}
	deadline := time.Now().Add(time.Duration(hours) * time.Hour)
	apps, err := s.repo.UsageApp.ListUpcoming(ctx, deadline)
	if err != nil {
		return nil, fmt.Errorf("查询即将到期申请失败: %w", err)
	}
	return apps, nil
}

// [自证通过] internal/service/usage_application_service.go
