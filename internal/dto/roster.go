package dto

// ── 排班模块 DTO ──

// DemandResponse 需求估算响应
type DemandResponse struct {
	VenueID string `json:"venue_id"`
	Date    string `json:"date"`
	Demand  int    `json:"demand"`
}

// ShiftResponse 班次时间窗
type ShiftResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AssignmentResponse 排班明细
type AssignmentResponse struct {
	EmployeeID string        `json:"employee_id"`
	Shift      ShiftResponse `json:"shift"`
	SlotID     string        `json:"slot_id,omitempty"` // 经认领获得时的来源空班
}

// OpenSlotResponse 仍可认领的空班
type OpenSlotResponse struct {
	SlotID string        `json:"slot_id"`
	Shift  ShiftResponse `json:"shift"`
	Status string        `json:"status"`
}

// RosterResponse 某 (门店, 日期) 的排班视图
type RosterResponse struct {
	VenueID     string               `json:"venue_id"`
	Date        string               `json:"date"`
	Generation  string               `json:"generation"`
	Demand      int                  `json:"demand"`
	Candidates  int                  `json:"candidates"`
	Assignments []AssignmentResponse `json:"assignments"`
	OpenSlots   []OpenSlotResponse   `json:"open_slots"`
	GeneratedAt string               `json:"generated_at"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// ClaimResponse 认领成功响应
type ClaimResponse struct {
	VenueID    string        `json:"venue_id"`
	Date       string        `json:"date"`
	SlotID     string        `json:"slot_id"`
	EmployeeID string        `json:"employee_id"`
	Shift      ShiftResponse `json:"shift"`
}
