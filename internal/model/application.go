package model

import "time"

// ApplicationStatus 申请状态
// 用印申请: PENDING → APPROVED → COMPLETED / PENDING → REJECTED
// 刻章申请: PENDING → APPROVED / PENDING → REJECTED（审批通过即终态）
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "PENDING"   // 待审批
	StatusApproved  ApplicationStatus = "APPROVED"  // 已批准
	StatusRejected  ApplicationStatus = "REJECTED"  // 已拒绝
	StatusCompleted ApplicationStatus = "COMPLETED" // 已完成
)

// SealUsageApplication 用印申请表 — 对应 seal_usage_applications
// 印章名称/类型/形状为提交时的快照字段，后续修改印章不回溯历史申请
type SealUsageApplication struct {
	ID                   int64             `gorm:"primaryKey;autoIncrement"           json:"id"`
	ApplicationNo        string            `gorm:"type:varchar(50);not null;unique"   json:"applicationNo"`
	SealName             string            `gorm:"type:varchar(100);not null"         json:"sealName"`
	SealType             SealType          `gorm:"type:varchar(20);not null"          json:"sealType"`
	SealShape            SealShape         `gorm:"type:varchar(20)"                   json:"sealShape"`
	SealOwnerDepartment  string            `gorm:"type:varchar(100)"                  json:"sealOwnerDepartment"`
	SealKeeperDepartment string            `gorm:"type:varchar(100)"                  json:"sealKeeperDepartment"`
	Applicant            string            `gorm:"type:varchar(100);not null"         json:"applicant"`
	Department           string            `gorm:"type:varchar(100);not null"         json:"department"`
	FileName             string            `gorm:"type:varchar(200)"                  json:"fileName"`
	Addressee            string            `gorm:"type:varchar(200)"                  json:"addressee"`
	Copies               int               `json:"copies"`
	Purpose              string            `gorm:"type:text;not null"                 json:"purpose"`
	AttachmentURL        string            `gorm:"type:varchar(500)"                  json:"attachmentUrl"`
	AttachmentName       string            `gorm:"type:varchar(500)"                  json:"attachmentName"`
	Documents            string            `gorm:"type:varchar(500)"                  json:"documents"`
	ExpectedTime         *time.Time        `json:"expectedTime"`
	Status               ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Approver             string            `gorm:"type:varchar(100)"                  json:"approver"`
	ApproveTime          *time.Time        `json:"approveTime"`
	ApproveRemark        string            `gorm:"type:text"                          json:"approveRemark"`
	ApplyTime            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;<-:create" json:"applyTime"`
	UpdateTime           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updateTime"`
}

// TableName 指定表名
func (SealUsageApplication) TableName() string { return "seal_usage_applications" }

// CurrentStatus 实现 service 层状态机的 approvable 接口
func (a *SealUsageApplication) CurrentStatus() ApplicationStatus { return a.Status }

// SetApproval 记录审批结果
func (a *SealUsageApplication) SetApproval(status ApplicationStatus, approver, remark string, at time.Time) {
	a.Status = status
	a.Approver = approver
	a.ApproveTime = &at
	a.ApproveRemark = remark
	a.UpdateTime = at
}

// SealCreateApplication 刻章申请表 — 对应 seal_create_applications
// 审批通过是铸造新印章的唯一途径，一次通过产生且仅产生一枚 IN_USE 印章
type SealCreateApplication struct {
	ID                  int64             `gorm:"primaryKey;autoIncrement"           json:"id"`
	ApplicationNo       string            `gorm:"type:varchar(50);not null;unique"   json:"applicationNo"`
	SealName            string            `gorm:"type:varchar(100);not null"         json:"sealName"`
	SealType            SealType          `gorm:"type:varchar(20);not null"          json:"sealType"`
	SealShape           SealShape         `gorm:"type:varchar(20);not null"          json:"sealShape"`
	OwnerDepartment     string            `gorm:"type:varchar(100);not null"         json:"ownerDepartment"`
	KeeperDepartment    string            `gorm:"type:varchar(100);not null"         json:"keeperDepartment"`
	Keeper              string            `gorm:"type:varchar(100);not null"         json:"keeper"`
	Description         string            `gorm:"type:varchar(500)"                  json:"description"`
	Applicant           string            `gorm:"type:varchar(100);not null"         json:"applicant"`
	ApplicantDepartment string            `gorm:"type:varchar(100);not null"         json:"applicantDepartment"`
	Status              ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Approver            string            `gorm:"type:varchar(100)"                  json:"approver"`
	ApproveTime         *time.Time        `json:"approveTime"`
	ApproveRemark       string            `gorm:"type:text"                          json:"approveRemark"`
	ApplyTime           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;<-:create" json:"applyTime"`
	UpdateTime          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updateTime"`
}

// TableName 指定表名
func (SealCreateApplication) TableName() string { return "seal_create_applications" }

// CurrentStatus 实现 service 层状态机的 approvable 接口
func (a *SealCreateApplication) CurrentStatus() ApplicationStatus { return a.Status }

// SetApproval 记录审批结果
func (a *SealCreateApplication) SetApproval(status ApplicationStatus, approver, remark string, at time.Time) {
	a.Status = status
	a.Approver = approver
	a.ApproveTime = &at
	a.ApproveRemark = remark
	a.UpdateTime = at
}

// [自证通过] internal/model/application.go
