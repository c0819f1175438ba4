package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yangjin15/yinzhang/internal/dto"
	"github.com/yangjin15/yinzhang/internal/model"
	"github.com/yangjin15/yinzhang/internal/service"
	"github.com/yangjin15/yinzhang/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock UsageApplicationService ──

type mockUsageAppService struct {
	createResult   *model.SealUsageApplication
	createErr      error
	updateResult   *model.SealUsageApplication
	updateErr      error
	deleteErr      error
	getResult      *model.SealUsageApplication
	getErr         error
	getByNoResult  *model.SealUsageApplication
	getByNoErr     error
	searchResult   *dto.PageResult
	searchErr      error
	approveResult  *model.SealUsageApplication
	approveErr     error
	batchResult    *dto.BatchApproveResult
	batchErr       error
	completeResult *model.SealUsageApplication
	completeErr    error
	withdrawResult *dto.WithdrawResult
	canEdit        bool
	canApprove     bool
	statsResult    *dto.ApplicationStatistics
	statsErr       error
	durationResult *dto.ApprovalDurationStatistics
	upcomingResult []model.SealUsageApplication
	upcomingErr    error
}

func (m *mockUsageAppService) Create(_ context.Context, _ *dto.CreateUsageApplicationRequest) (*model.SealUsageApplication, error) {
	return m.createResult, m.createErr
}
func (m *mockUsageAppService) Update(_ context.Context, _ int64, _ *dto.UpdateUsageApplicationRequest) (*model.SealUsageApplication, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUsageAppService) Delete(_ context.Context, _ int64) error { return m.deleteErr }
func (m *mockUsageAppService) GetByID(_ context.Context, _ int64) (*model.SealUsageApplication, error) {
	return m.getResult, m.getErr
}
func (m *mockUsageAppService) GetByNo(_ context.Context, _ string) (*model.SealUsageApplication, error) {
	return m.getByNoResult, m.getByNoErr
}
func (m *mockUsageAppService) Search(_ context.Context, _ *dto.ApplicationSearchRequest) (*dto.PageResult, error) {
	return m.searchResult, m.searchErr
}
func (m *mockUsageAppService) ListByStatus(_ context.Context, _ model.ApplicationStatus, _ *dto.PageQuery) (*dto.PageResult, error) {
	return m.searchResult, m.searchErr
}
func (m *mockUsageAppService) ListMine(_ context.Context, _ string, _ *dto.PageQuery) (*dto.PageResult, error) {
	return m.searchResult, m.searchErr
}
func (m *mockUsageAppService) ListKeeperPending(_ context.Context, _ string, _ *dto.PageQuery) (*dto.PageResult, error) {
	return m.searchResult, m.searchErr
}
func (m *mockUsageAppService) Approve(_ context.Context, _ int64, _ *dto.ApproveRequest) (*model.SealUsageApplication, error) {
	return m.approveResult, m.approveErr
}
func (m *mockUsageAppService) BatchApprove(_ context.Context, _ *dto.BatchApproveRequest) (*dto.BatchApproveResult, error) {
	return m.batchResult, m.batchErr
}
func (m *mockUsageAppService) Complete(_ context.Context, _ int64) (*model.SealUsageApplication, error) {
	return m.completeResult, m.completeErr
}
func (m *mockUsageAppService) Withdraw(_ context.Context, _ int64, _ string) *dto.WithdrawResult {
	return m.withdrawResult
}
func (m *mockUsageAppService) CanEdit(_ context.Context, _ int64, _ string) (bool, error) {
	return m.canEdit, nil
}
func (m *mockUsageAppService) CanApprove(_ context.Context, _ int64) (bool, error) {
	return m.canApprove, nil
}
func (m *mockUsageAppService) Statistics(_ context.Context) (*dto.ApplicationStatistics, error) {
	return m.statsResult, m.statsErr
}
func (m *mockUsageAppService) DepartmentStatistics(_ context.Context) ([]dto.DepartmentCount, error) {
	return nil, m.statsErr
}
func (m *mockUsageAppService) SealUsageStatistics(_ context.Context) ([]dto.SealUsageCount, error) {
	return nil, m.statsErr
}
func (m *mockUsageAppService) MonthlyTrend(_ context.Context, _ int) ([]dto.MonthlyCount, error) {
	return nil, m.statsErr
}
func (m *mockUsageAppService) AverageProcessingTime(_ context.Context) (float64, error) {
	return 0, m.statsErr
}
func (m *mockUsageAppService) ApprovalDurationStatistics(_ context.Context) *dto.ApprovalDurationStatistics {
	return m.durationResult
}
func (m *mockUsageAppService) Upcoming(_ context.Context, _ int) ([]model.SealUsageApplication, error) {
	return m.upcomingResult, m.upcomingErr
}

// ── Mock UserService ──

type mockUserService struct {
	loginResult *model.User
	loginErr    error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) Update(_ context.Context, _ int64, _ *dto.UpdateUserRequest) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) UpdateStatus(_ context.Context, _ int64, _ string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) UpdateRole(_ context.Context, _ int64, _ string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) Delete(_ context.Context, _ int64) error { return nil }
func (m *mockUserService) GetByID(_ context.Context, _ int64) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserService) Search(_ context.Context, _ *dto.UserSearchRequest) (*dto.PageResult, error) {
	return nil, nil
}
func (m *mockUserService) Login(_ context.Context, _ *dto.LoginRequest) (*model.User, error) {
	return m.loginResult, m.loginErr
}
func (m *mockUserService) ChangePassword(_ context.Context, _ int64, _ *dto.ChangePasswordRequest) error {
	return nil
}
func (m *mockUserService) ResetPassword(_ context.Context, _ int64, _ string) error { return nil }
func (m *mockUserService) Statistics(_ context.Context) (*dto.UserStatistics, error) {
	return nil, nil
}
func (m *mockUserService) EnsureDefaultAdmin(_ context.Context) error { return nil }

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportUsageApplications(_ context.Context, _ *dto.ApplicationSearchRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// UsageApplicationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUsageAppHandler_Create_Success(t *testing.T) {
	mock := &mockUsageAppService{
		createResult: &model.SealUsageApplication{
			ID: 1, ApplicationNo: "YY202608310001", Status: model.StatusPending,
		},
	}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.POST("/api/applications", h.Create)

	expected := time.Now().Add(24 * time.Hour)
	w := doRequest(r, "POST", "/api/applications", jsonBody(dto.CreateUsageApplicationRequest{
		SealName: "公司公章", SealType: "OFFICIAL", Applicant: "张三",
		Department: "市场部", Purpose: "对外合同盖章", ExpectedTime: &expected,
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Success || resp.Message != "申请提交成功" {
		t.Errorf("响应错误: %+v", resp)
	}
}

func TestUsageAppHandler_Create_ValidationError(t *testing.T) {
	mock := &mockUsageAppService{
		createErr: &service.ValidationError{Msg: "印章名称不能为空"},
	}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.POST("/api/applications", h.Create)
	w := doRequest(r, "POST", "/api/applications", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Message != "印章名称不能为空" {
		t.Errorf("期望透传校验文案，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_Get_NotFound(t *testing.T) {
	mock := &mockUsageAppService{getErr: service.ErrApplicationNotFound}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.GET("/api/applications/:id", h.Get)
	w := doRequest(r, "GET", "/api/applications/99", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "申请不存在" {
		t.Errorf("期望消息=申请不存在，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_Get_InvalidID(t *testing.T) {
	h := NewUsageApplicationHandler(&mockUsageAppService{})

	r := gin.New()
	r.GET("/api/applications/:id", h.Get)
	w := doRequest(r, "GET", "/api/applications/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "无效的ID" {
		t.Errorf("期望消息=无效的ID，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_Approve_Repeat(t *testing.T) {
	mock := &mockUsageAppService{approveErr: service.ErrRepeatApprove}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.POST("/api/applications/:id/approve", h.Approve)
	w := doRequest(r, "POST", "/api/applications/1/approve", jsonBody(dto.ApproveRequest{
		Status: "APPROVED", Approver: "李主管",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "申请已处理，无法重复审批" {
		t.Errorf("期望重复审批文案，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_Complete_NotApproved(t *testing.T) {
	mock := &mockUsageAppService{completeErr: service.ErrCompleteNotApproved}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.POST("/api/applications/:id/complete", h.Complete)
	w := doRequest(r, "POST", "/api/applications/1/complete", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "只有已批准的申请才能完成" {
		t.Errorf("期望完成限制文案，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_BatchApprove_EmptyIDs(t *testing.T) {
	h := NewUsageApplicationHandler(&mockUsageAppService{})

	r := gin.New()
	r.POST("/api/applications/batch-approve", h.BatchApprove)
	w := doRequest(r, "POST", "/api/applications/batch-approve", jsonBody(dto.BatchApproveRequest{
		Status: "APPROVED", Approver: "李主管",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "申请ID列表不能为空" {
		t.Errorf("期望空列表文案，实际=%s", resp.Message)
	}
}

func TestUsageAppHandler_Withdraw(t *testing.T) {
	mock := &mockUsageAppService{withdrawResult: &dto.WithdrawResult{Success: true}}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.POST("/api/applications/:id/withdraw", h.Withdraw)

	// 缺申请人
	w := doRequest(r, "POST", "/api/applications/1/withdraw", jsonBody(map[string]string{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺申请人期望 400，实际 %d", w.Code)
	}

	// 正常撤回
	w = doRequest(r, "POST", "/api/applications/1/withdraw", jsonBody(dto.WithdrawRequest{
		Applicant: "张三",
	}))
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

func TestUsageAppHandler_ApprovalDuration_AlwaysOK(t *testing.T) {
	// 查询失败在 Service 层降级，Handler 始终 200
	mock := &mockUsageAppService{
		durationResult: &dto.ApprovalDurationStatistics{
			AverageDurationText: "数据查询失败",
			DurationRanges:      map[string]int64{},
		},
	}
	h := NewUsageApplicationHandler(mock)

	r := gin.New()
	r.GET("/api/applications/statistics/approval-duration", h.ApprovalDurationStatistics)
	w := doRequest(r, "GET", "/api/applications/statistics/approval-duration", nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_Login_Success(t *testing.T) {
	mock := &mockUserService{
		loginResult: &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin},
	}
	h := NewUserHandler(mock)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	w := doRequest(r, "POST", "/api/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin", Password: "admin123",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "登录成功" {
		t.Errorf("期望消息=登录成功，实际=%s", resp.Message)
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockUserService{loginErr: service.ErrInvalidPassword}
	h := NewUserHandler(mock)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	w := doRequest(r, "POST", "/api/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin", Password: "wrong",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestUserHandler_Login_Inactive(t *testing.T) {
	mock := &mockUserService{loginErr: service.ErrUserInactive}
	h := NewUserHandler(mock)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	w := doRequest(r, "POST", "/api/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhangsan", Password: "pass1234",
	}))

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际 %d", w.Code)
	}
}

func TestUserHandler_Login_MissingFields(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	w := doRequest(r, "POST", "/api/auth/login", jsonBody(map[string]string{"username": "admin"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("PK fake xlsx content"),
		filename: "用印申请台账_20260831.xlsx",
	}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/api/applications/export", h.ExportUsageApplications)
	w := doRequest(r, "GET", "/api/applications/export", nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("期望 xlsx Content-Type，实际=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("应设置 Content-Disposition 头")
	}
}

func TestExportHandler_NoData(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoData}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/api/applications/export", h.ExportUsageApplications)
	w := doRequest(r, "GET", "/api/applications/export", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "无符合条件的申请记录" {
		t.Errorf("期望无数据文案，实际=%s", resp.Message)
	}
}
