package dto

// CreateSealRequest 管理员直接登记印章
type CreateSealRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Shape            string `json:"shape"`
	Status           string `json:"status"`
	OwnerDepartment  string `json:"ownerDepartment"`
	KeeperDepartment string `json:"keeperDepartment"`
	Keeper           string `json:"keeper"`
	KeeperPhone      string `json:"keeperPhone"`
	Location         string `json:"location"`
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl"`
}

// UpdateSealRequest 修改印章信息
type UpdateSealRequest struct {
	Name             *string `json:"name"`
	Type             *string `json:"type"`
	Shape            *string `json:"shape"`
	OwnerDepartment  *string `json:"ownerDepartment"`
	KeeperDepartment *string `json:"keeperDepartment"`
	Keeper           *string `json:"keeper"`
	KeeperPhone      *string `json:"keeperPhone"`
	Location         *string `json:"location"`
	Description      *string `json:"description"`
	ImageURL         *string `json:"imageUrl"`
}

// UpdateSealStatusRequest 变更印章状态
type UpdateSealStatusRequest struct {
	Status string `json:"status"`
}

// SealSearchRequest 印章分页查询
type SealSearchRequest struct {
	PageQuery
	Keyword string `form:"keyword"`
	Status  string `form:"status"`
	Type    string `form:"type"`
}
