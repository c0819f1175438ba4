package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/repository"
)

// ── Mock SealRepository ──

type mockSealRepo struct {
	seals  map[int64]*model.Seal
	nextID int64
}

func newMockSealRepo() *mockSealRepo {
	return &mockSealRepo{seals: make(map[int64]*model.Seal), nextID: 1}
}

func (m *mockSealRepo) Create(_ context.Context, seal *model.Seal) error {
	for _, s := range m.seals {
		if s.Name == seal.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	seal.ID = m.nextID
	m.nextID++
	m.seals[seal.ID] = seal
	return nil
}

func (m *mockSealRepo) GetByID(_ context.Context, id int64) (*model.Seal, error) {
	if s, ok := m.seals[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSealRepo) GetByName(_ context.Context, name string) (*model.Seal, error) {
	for _, s := range m.seals {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSealRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, s := range m.seals {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSealRepo) ExistsByNameExcluding(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, s := range m.seals {
		if s.Name == name && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSealRepo) Update(_ context.Context, seal *model.Seal) error {
	m.seals[seal.ID] = seal
	return nil
}

func (m *mockSealRepo) Delete(_ context.Context, id int64) error {
	delete(m.seals, id)
	return nil
}

func (m *mockSealRepo) Search(_ context.Context, q repository.SealQuery) ([]model.Seal, int64, error) {
	var result []model.Seal
	for _, s := range m.seals {
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if q.Type != "" && s.Type != q.Type {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockSealRepo) ListByKeeper(_ context.Context, keeper string) ([]model.Seal, error) {
	var result []model.Seal
	for _, s := range m.seals {
		if s.Keeper == keeper {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSealRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.seals)), nil
}

func (m *mockSealRepo) CountByStatus(_ context.Context) ([]repository.NameCount, error) {
	return groupSeals(m.seals, func(s *model.Seal) string { return string(s.Status) }), nil
}

func (m *mockSealRepo) CountByType(_ context.Context) ([]repository.NameCount, error) {
	return groupSeals(m.seals, func(s *model.Seal) string { return string(s.Type) }), nil
}

func groupSeals(seals map[int64]*model.Seal, key func(*model.Seal) string) []repository.NameCount {
	counts := make(map[string]int64)
	for _, s := range seals {
		counts[key(s)]++
	}
	var result []repository.NameCount
	for name, count := range counts {
		result = append(result, repository.NameCount{Name: name, Count: count})
	}
	return result
}

// ── Mock UsageApplicationRepository ──

type mockUsageAppRepo struct {
	apps   map[int64]*model.SealUsageApplication
	nextID int64

	// 关联到 mockSealRepo，支撑保管人待办查询
	seals *mockSealRepo

	// statErr 注入统计查询错误，用于验证降级路径
	statErr error
}

func newMockUsageAppRepo(seals *mockSealRepo) *mockUsageAppRepo {
	return &mockUsageAppRepo{apps: make(map[int64]*model.SealUsageApplication), nextID: 1, seals: seals}
}

func (m *mockUsageAppRepo) Create(_ context.Context, app *model.SealUsageApplication) error {
	for _, a := range m.apps {
		if a.ApplicationNo == app.ApplicationNo {
			return gorm.ErrDuplicatedKey
		}
	}
	app.ID = m.nextID
	m.nextID++
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockUsageAppRepo) GetByID(_ context.Context, id int64) (*model.SealUsageApplication, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsageAppRepo) GetByNo(_ context.Context, no string) (*model.SealUsageApplication, error) {
	for _, a := range m.apps {
		if a.ApplicationNo == no {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsageAppRepo) Update(_ context.Context, app *model.SealUsageApplication) error {
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockUsageAppRepo) Delete(_ context.Context, id int64) error {
	delete(m.apps, id)
	return nil
}

func (m *mockUsageAppRepo) match(a *model.SealUsageApplication, q repository.ApplicationQuery) bool {
	if q.Status != "" && a.Status != q.Status {
		return false
	}
	if q.Applicant != "" && a.Applicant != q.Applicant {
		return false
	}
	if q.Department != "" && a.Department != q.Department {
		return false
	}
	if q.StartTime != nil && a.ApplyTime.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && a.ApplyTime.After(*q.EndTime) {
		return false
	}
	if q.Keyword != "" &&
		!contains(a.ApplicationNo, q.Keyword) &&
		!contains(a.Purpose, q.Keyword) &&
		!contains(a.Applicant, q.Keyword) {
		return false
	}
	return true
}

func (m *mockUsageAppRepo) filtered(q repository.ApplicationQuery) []model.SealUsageApplication {
	var result []model.SealUsageApplication
	for _, a := range m.apps {
		if m.match(a, q) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if q.SortDir == "asc" {
			return result[i].ApplyTime.Before(result[j].ApplyTime)
		}
		return result[i].ApplyTime.After(result[j].ApplyTime)
	})
	return result
}

func (m *mockUsageAppRepo) Search(_ context.Context, q repository.ApplicationQuery) ([]model.SealUsageApplication, int64, error) {
	result := m.filtered(q)
	total := int64(len(result))
	if q.Size > 0 {
		start := q.Page * q.Size
		if start > len(result) {
			start = len(result)
		}
		end := start + q.Size
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, total, nil
}

func (m *mockUsageAppRepo) ListForExport(_ context.Context, q repository.ApplicationQuery) ([]model.SealUsageApplication, error) {
	return m.filtered(q), nil
}

func (m *mockUsageAppRepo) ListKeeperPending(_ context.Context, keeper string, page, size int) ([]model.SealUsageApplication, int64, error) {
	keeperSeals := make(map[string]bool)
	for _, s := range m.seals.seals {
		if s.Keeper == keeper {
			keeperSeals[s.Name] = true
		}
	}
	var result []model.SealUsageApplication
	for _, a := range m.apps {
		if a.Status == model.StatusPending && keeperSeals[a.SealName] {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ApplyTime.Before(result[j].ApplyTime)
	})
	return result, int64(len(result)), nil
}

func (m *mockUsageAppRepo) ListUpcoming(_ context.Context, deadline time.Time) ([]model.SealUsageApplication, error) {
	var result []model.SealUsageApplication
	for _, a := range m.apps {
		if a.Status == model.StatusApproved && a.ExpectedTime != nil && !a.ExpectedTime.After(deadline) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockUsageAppRepo) Count(_ context.Context) (int64, error) {
	if m.statErr != nil {
		return 0, m.statErr
	}
	return int64(len(m.apps)), nil
}

func (m *mockUsageAppRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	counts := make(map[model.ApplicationStatus]int64)
	for _, a := range m.apps {
		counts[a.Status]++
	}
	var result []repository.StatusCount
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (m *mockUsageAppRepo) CountByDepartment(_ context.Context) ([]repository.NameCount, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	return m.groupBy(func(a *model.SealUsageApplication) string { return a.Department }), nil
}

func (m *mockUsageAppRepo) CountBySealName(_ context.Context) ([]repository.NameCount, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	return m.groupBy(func(a *model.SealUsageApplication) string { return a.SealName }), nil
}

func (m *mockUsageAppRepo) groupBy(key func(*model.SealUsageApplication) string) []repository.NameCount {
	counts := make(map[string]int64)
	for _, a := range m.apps {
		counts[key(a)]++
	}
	var result []repository.NameCount
	for name, count := range counts {
		result = append(result, repository.NameCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

func (m *mockUsageAppRepo) AverageProcessingHours(_ context.Context) (float64, error) {
	if m.statErr != nil {
		return 0, m.statErr
	}
	var sum float64
	var n int
	for _, a := range m.apps {
		if a.ApproveTime != nil {
			sum += a.ApproveTime.Sub(a.ApplyTime).Hours()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (m *mockUsageAppRepo) MonthlyTrend(_ context.Context, since time.Time) ([]repository.MonthCount, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	counts := make(map[string]int64)
	for _, a := range m.apps {
		if a.ApplyTime.Before(since) {
			continue
		}
		counts[a.ApplyTime.Format("2006-01")]++
	}
	var result []repository.MonthCount
	for month, count := range counts {
		result = append(result, repository.MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func (m *mockUsageAppRepo) ApprovalDurationHours(_ context.Context) ([]float64, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	var durations []float64
	for _, a := range m.apps {
		if a.ApproveTime != nil {
			durations = append(durations, a.ApproveTime.Sub(a.ApplyTime).Hours())
		}
	}
	return durations, nil
}

func (m *mockUsageAppRepo) approvedExtreme(slowest bool) (*model.SealUsageApplication, error) {
	var best *model.SealUsageApplication
	for _, a := range m.apps {
		if a.ApproveTime == nil {
			continue
		}
		if best == nil {
			best = a
			continue
		}
		d := a.ApproveTime.Sub(a.ApplyTime)
		bd := best.ApproveTime.Sub(best.ApplyTime)
		if (slowest && d > bd) || (!slowest && d < bd) {
			best = a
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *mockUsageAppRepo) FastestApproved(_ context.Context) (*model.SealUsageApplication, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	return m.approvedExtreme(false)
}

func (m *mockUsageAppRepo) SlowestApproved(_ context.Context) (*model.SealUsageApplication, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	return m.approvedExtreme(true)
}

// ── Mock CreateApplicationRepository ──

type mockCreateAppRepo struct {
	apps   map[int64]*model.SealCreateApplication
	nextID int64
}

func newMockCreateAppRepo() *mockCreateAppRepo {
	return &mockCreateAppRepo{apps: make(map[int64]*model.SealCreateApplication), nextID: 1}
}

func (m *mockCreateAppRepo) Create(_ context.Context, app *model.SealCreateApplication) error {
	for _, a := range m.apps {
		if a.ApplicationNo == app.ApplicationNo {
			return gorm.ErrDuplicatedKey
		}
	}
	app.ID = m.nextID
	m.nextID++
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockCreateAppRepo) GetByID(_ context.Context, id int64) (*model.SealCreateApplication, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCreateAppRepo) GetByNo(_ context.Context, no string) (*model.SealCreateApplication, error) {
	for _, a := range m.apps {
		if a.ApplicationNo == no {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCreateAppRepo) Update(_ context.Context, app *model.SealCreateApplication) error {
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockCreateAppRepo) Delete(_ context.Context, id int64) error {
	delete(m.apps, id)
	return nil
}

func (m *mockCreateAppRepo) Search(_ context.Context, q repository.ApplicationQuery) ([]model.SealCreateApplication, int64, error) {
	var result []model.SealCreateApplication
	for _, a := range m.apps {
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.Applicant != "" && a.Applicant != q.Applicant {
			continue
		}
		if q.Department != "" && a.ApplicantDepartment != q.Department {
			continue
		}
		if q.Keyword != "" && !contains(a.ApplicationNo, q.Keyword) && !contains(a.SealName, q.Keyword) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ApplyTime.After(result[j].ApplyTime)
	})
	return result, int64(len(result)), nil
}

func (m *mockCreateAppRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.apps)), nil
}

func (m *mockCreateAppRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := make(map[model.ApplicationStatus]int64)
	for _, a := range m.apps {
		counts[a.Status]++
	}
	var result []repository.StatusCount
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (m *mockCreateAppRepo) AverageProcessingHours(_ context.Context) (float64, error) {
	var sum float64
	var n int
	for _, a := range m.apps {
		if a.ApproveTime != nil {
			sum += a.ApproveTime.Sub(a.ApplyTime).Hours()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) Search(_ context.Context, q repository.UserQuery) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if q.Department != "" && u.Department != q.Department {
			continue
		}
		if q.Status != "" && u.Status != q.Status {
			continue
		}
		if q.Keyword != "" && !contains(u.Username, q.Keyword) && !contains(u.RealName, q.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountByStatus(_ context.Context) ([]repository.NameCount, error) {
	counts := make(map[string]int64)
	for _, u := range m.users {
		counts[string(u.Status)]++
	}
	var result []repository.NameCount
	for name, count := range counts {
		result = append(result, repository.NameCount{Name: name, Count: count})
	}
	return result, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context) ([]repository.NameCount, error) {
	counts := make(map[string]int64)
	for _, u := range m.users {
		counts[string(u.Role)]++
	}
	var result []repository.NameCount
	for name, count := range counts {
		result = append(result, repository.NameCount{Name: name, Count: count})
	}
	return result, nil
}

// ── 共用辅助 ──

func contains(s, sub string) bool { return strings.Contains(s, sub) }
