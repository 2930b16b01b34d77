package dto

// ── 可用性模块 DTO ──

// SetAvailabilityRequest 整体替换可用日期（空数组表示清空）
type SetAvailabilityRequest struct {
	Dates []string `json:"dates" binding:"required"`
}

// ShiftFeedRequest 班次日历查询参数
type ShiftFeedRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// AvailabilityResponse 可用日期响应
type AvailabilityResponse struct {
	EmployeeID string   `json:"employee_id"`
	Dates      []string `json:"dates"`
}

// ImportAvailabilityResponse ICS 导入结果
type ImportAvailabilityResponse struct {
	EmployeeID string   `json:"employee_id"`
	Imported   int      `json:"imported"`
	Dates      []string `json:"dates"`
}
