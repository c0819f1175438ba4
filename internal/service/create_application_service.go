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

// CreateApplicationService 刻章申请业务逻辑接口
// 审批通过是铸造新印章的唯一途径，通过与铸造在同一事务内完成
type CreateApplicationService interface {
	Create(ctx context.Context, req *dto.CreateSealApplicationRequest) (*model.SealCreateApplication, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSealApplicationRequest) (*model.SealCreateApplication, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.SealCreateApplication, error)
	GetByNo(ctx context.Context, applicationNo string) (*model.SealCreateApplication, error)

	Search(ctx context.Context, req *dto.ApplicationSearchRequest) (*dto.PageResult, error)
	ListByStatus(ctx context.Context, status model.ApplicationStatus, page *dto.PageQuery) (*dto.PageResult, error)
	ListMine(ctx context.Context, applicant string, page *dto.PageQuery) (*dto.PageResult, error)

	Approve(ctx context.Context, id int64, req *dto.ApproveRequest) (*model.SealCreateApplication, error)
	BatchApprove(ctx context.Context, req *dto.BatchApproveRequest) (*dto.BatchApproveResult, error)
	Withdraw(ctx context.Context, id int64, applicant string) *dto.WithdrawResult
	CanEdit(ctx context.Context, id int64, applicant string) (bool, error)
	CanApprove(ctx context.Context, id int64) (bool, error)

	Statistics(ctx context.Context) (*dto.ApplicationStatistics, error)
}

// createApplicationService CreateApplicationService 实现
type createApplicationService struct {
	repo   *repository.Repository
	nos    appno.Generator
	logger *zap.Logger
}

// NewCreateApplicationService 创建刻章申请服务
func NewCreateApplicationService(repo *repository.Repository, nos appno.Generator, logger *zap.Logger) CreateApplicationService {
	return &createApplicationService{repo: repo, nos: nos, logger: logger}
}

func (s *createApplicationService) validateCreate(req *dto.CreateSealApplicationRequest) error {
	switch {
	case req.SealName == "":
		return requiredErr("印章名称不能为空")
	case req.SealType == "":
		return requiredErr("印章类型不能为空")
	case req.SealShape == "":
		return requiredErr("印章形状不能为空")
	case req.OwnerDepartment == "":
		return requiredErr("所属部门不能为空")
	case req.KeeperDepartment == "":
		return requiredErr("保管部门不能为空")
	case req.Keeper == "":
		return requiredErr("保管人不能为空")
	case req.Applicant == "":
		return requiredErr("申请人不能为空")
	case req.ApplicantDepartment == "":
		return requiredErr("申请人部门不能为空")
	}
	if !model.ValidSealType(model.SealType(req.SealType)) {
		return requiredErr("无效的印章类型")
	}
	if !model.ValidSealShape(model.SealShape(req.SealShape)) {
		return requiredErr("无效的印章形状")
	}
	return nil
}

func (s *createApplicationService) Create(ctx context.Context, req *dto.CreateSealApplicationRequest) (*model.SealCreateApplication, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	app := &model.SealCreateApplication{
		SealName:            req.SealName,
		SealType:            model.SealType(req.SealType),
		SealShape:           model.SealShape(req.SealShape),
		OwnerDepartment:     req.OwnerDepartment,
		KeeperDepartment:    req.KeeperDepartment,
		Keeper:              req.Keeper,
		Description:         req.Description,
		Applicant:           req.Applicant,
		ApplicantDepartment: req.ApplicantDepartment,
		Status:              model.StatusPending,
		ApplyTime:           now,
		UpdateTime:          now,
	}

	for attempt := 0; ; attempt++ {
		no, err := s.nos.CreateNo(ctx)
		if err != nil {
			return nil, err
		}
		app.ApplicationNo = no

		err = s.repo.CreateApp.Create(ctx, app)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 2 {
			s.logger.Warn("申请编号冲突，重新取号", zap.String("applicationNo", no))
			continue
		}
		return nil, fmt.Errorf("创建刻章申请失败: %w", err)
	}

	s.logger.Info("刻章申请已提交",
		zap.String("applicationNo", app.ApplicationNo),
		zap.String("applicant", app.Applicant),
		zap.String("sealName", app.SealName))
	return app, nil
}

func (s *createApplicationService) getExisting(ctx context.Context, id int64) (*model.SealCreateApplication, error) {
	app, err := s.repo.CreateApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *createApplicationService) Update(ctx context.Context, id int64, req *dto.UpdateSealApplicationRequest) (*model.SealCreateApplication, error) {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensurePending(app, ErrModifyProcessed); err != nil {
		return nil, err
	}

	if req.SealName != "" {
		app.SealName = req.SealName
	}
	if req.SealType != "" {
		if !model.ValidSealType(model.SealType(req.SealType)) {
			return nil, requiredErr("无效的印章类型")
		}
		app.SealType = model.SealType(req.SealType)
	}
	if req.SealShape != "" {
		if !model.ValidSealShape(model.SealShape(req.SealShape)) {
			return nil, requiredErr("无效的印章形状")
		}
		app.SealShape = model.SealShape(req.SealShape)
	}
	if req.OwnerDepartment != "" {
		app.OwnerDepartment = req.OwnerDepartment
	}
	if req.KeeperDepartment != "" {
		app.KeeperDepartment = req.KeeperDepartment
	}
	if req.Keeper != "" {
		app.Keeper = req.Keeper
	}
	if req.Description != "" {
		app.Description = req.Description
	}
	app.UpdateTime = time.Now()

	if err := s.repo.CreateApp.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("更新刻章申请失败: %w", err)
	}
	return app, nil
}

func (s *createApplicationService) Delete(ctx context.Context, id int64) error {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := ensurePending(app, ErrDeleteProcessed); err != nil {
		return err
	}
	if err := s.repo.CreateApp.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除刻章申请失败: %w", err)
	}
	s.logger.Info("刻章申请已删除", zap.String("applicationNo", app.ApplicationNo))
	return nil
}

func (s *createApplicationService) GetByID(ctx context.Context, id int64) (*model.SealCreateApplication, error) {
	return s.getExisting(ctx, id)
}

func (s *createApplicationService) GetByNo(ctx context.Context, applicationNo string) (*model.SealCreateApplication, error) {
	app, err := s.repo.CreateApp.GetByNo(ctx, applicationNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ── 查询 ──

func (s *createApplicationService) Search(ctx context.Context, req *dto.ApplicationSearchRequest) (*dto.PageResult, error) {
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
	apps, total, err := s.repo.CreateApp.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("查询刻章申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, req.Page, req.Size), nil
}

func (s *createApplicationService) ListByStatus(ctx context.Context, status model.ApplicationStatus, page *dto.PageQuery) (*dto.PageResult, error) {
	page.Normalize()
	apps, total, err := s.repo.CreateApp.Search(ctx, repository.ApplicationQuery{
		Status:  status,
		Page:    page.Page,
		Size:    page.Size,
		SortBy:  page.SortBy,
		SortDir: page.SortDir,
	})
	if err != nil {
		return nil, fmt.Errorf("查询刻章申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, page.Page, page.Size), nil
}

func (s *createApplicationService) ListMine(ctx context.Context, applicant string, page *dto.PageQuery) (*dto.PageResult, error) {
	page.Normalize()
	apps, total, err := s.repo.CreateApp.Search(ctx, repository.ApplicationQuery{
		Applicant: applicant,
		Page:      page.Page,
		Size:      page.Size,
		SortBy:    page.SortBy,
		SortDir:   page.SortDir,
	})
	if err != nil {
		return nil, fmt.Errorf("查询刻章申请失败: %w", err)
	}
	return dto.NewPageResult(apps, total, page.Page, page.Size), nil
}

// ── 审批 ──

// Approve 审批刻章申请
// 通过时在同一事务内铸造印章，先铸章后落审批：印章名冲突时不产生任何写入
func (s *createApplicationService) Approve(ctx context.Context, id int64, req *dto.ApproveRequest) (*model.SealCreateApplication, error) {
	if req.Approver == "" {
		return nil, requiredErr("审批人不能为空")
	}
	app, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	target := model.ApplicationStatus(req.Status)
	if err := createWorkflow.checkApprove(app, target); err != nil {
		return nil, err
	}

	now := time.Now()
	app.SetApproval(target, req.Approver, req.Remark, now)

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if target == model.StatusApproved {
			exists, err := txRepo.Seal.ExistsByName(ctx, app.SealName)
			if err != nil {
				return fmt.Errorf("审批刻章申请失败: %w", err)
			}
			if exists {
				return ErrSealNameExists
			}
			seal := &model.Seal{
				Name:             app.SealName,
				Type:             app.SealType,
				Shape:            app.SealShape,
				OwnerDepartment:  app.OwnerDepartment,
				KeeperDepartment: app.KeeperDepartment,
				Keeper:           app.Keeper,
				Description:      app.Description,
				Status:           model.SealStatusInUse,
				CreateTime:       now,
				UpdateTime:       now,
			}
			if err := txRepo.Seal.Create(ctx, seal); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrSealNameExists
				}
				return fmt.Errorf("铸造印章失败: %w", err)
			}
			s.logger.Info("刻章申请通过，印章已创建",
				zap.String("applicationNo", app.ApplicationNo),
				zap.String("sealName", seal.Name))
		}
		if err := txRepo.CreateApp.Update(ctx, app); err != nil {
			return fmt.Errorf("审批刻章申请失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("刻章申请已审批",
		zap.String("applicationNo", app.ApplicationNo),
		zap.String("status", string(target)),
		zap.String("approver", req.Approver))
	return app, nil
}

func (s *createApplicationService) BatchApprove(ctx context.Context, req *dto.BatchApproveRequest) (*dto.BatchApproveResult, error) {
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

// Withdraw 撤回刻章申请，任何失败统一收敛为 success=false
func (s *createApplicationService) Withdraw(ctx context.Context, id int64, applicant string) *dto.WithdrawResult {
	app, err := s.getExisting(ctx, id)
	if err != nil {
		s.logger.Debug("撤回刻章申请失败", zap.Int64("id", id), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}
	if err := checkWithdraw(app, app.Applicant, applicant); err != nil {
		s.logger.Debug("撤回刻章申请失败",
			zap.String("applicationNo", app.ApplicationNo), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}
	if err := s.repo.CreateApp.Delete(ctx, id); err != nil {
		s.logger.Error("撤回刻章申请失败",
			zap.String("applicationNo", app.ApplicationNo), zap.Error(err))
		return &dto.WithdrawResult{Success: false}
	}

	s.logger.Info("刻章申请已撤回", zap.String("applicationNo", app.ApplicationNo))
	return &dto.WithdrawResult{Success: true}
}

func (s *createApplicationService) CanEdit(ctx context.Context, id int64, applicant string) (bool, error) {
	app, err := s.repo.CreateApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return app.Applicant == applicant && app.Status == model.StatusPending, nil
}

func (s *createApplicationService) CanApprove(ctx context.Context, id int64) (bool, error) {
	app, err := s.repo.CreateApp.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return app.Status == model.StatusPending, nil
}

// ── 统计 ──

func (s *createApplicationService) Statistics(ctx context.Context) (*dto.ApplicationStatistics, error) {
	total, err := s.repo.CreateApp.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计刻章申请失败: %w", err)
	}
	counts, err := s.repo.CreateApp.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计刻章申请失败: %w", err)
	}
	avg, err := s.repo.CreateApp.AverageProcessingHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计刻章申请失败: %w", err)
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
