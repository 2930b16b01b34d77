package roster

import "time"

// SlotStatus 空班状态：open → claimed 仅发生一次，claimed 为终态
type SlotStatus string

const (
	SlotOpen    SlotStatus = "open"
	SlotClaimed SlotStatus = "claimed"
)

// DayKey (门店, 日期) 组合键，排班与空班池均按此键隔离
type DayKey struct {
	VenueID string
	Date    Date
}

func (k DayKey) String() string {
	return k.VenueID + "@" + k.Date.String()
}

// ShiftAssignment 某员工在某班次上岗
type ShiftAssignment struct {
	EmployeeID string      `json:"employee_id"`
	Shift      ShiftWindow `json:"shift"`
	SlotID     string      `json:"slot_id,omitempty"` // 经认领获得时为来源空班
}

// OpenShiftSlot 可认领空班，ID 生成后不变且不复用
type OpenShiftSlot struct {
	ID        string      `json:"id"`
	VenueID   string      `json:"venue_id"`
	Date      Date        `json:"date"`
	Shift     ShiftWindow `json:"shift"`
	Status    SlotStatus  `json:"status"`
	ClaimedBy string      `json:"claimed_by,omitempty"`
	ClaimedAt *time.Time  `json:"claimed_at,omitempty"`
}

// DayPlan 某 (门店, 日期) 的一次排班生成结果及其后续认领
type DayPlan struct {
	VenueID     string
	Date        Date
	Generation  string
	Demand      int
	Candidates  int
	Assignments []ShiftAssignment
	Slots       []OpenShiftSlot
	GeneratedAt time.Time
}

// Key 返回计划所属组合键
func (p *DayPlan) Key() DayKey {
	return DayKey{VenueID: p.VenueID, Date: p.Date}
}

// Clone 深拷贝，调用方持有的快照与内部状态互不影响
func (p *DayPlan) Clone() *DayPlan {
	cp := *p
	cp.Assignments = append([]ShiftAssignment(nil), p.Assignments...)
	cp.Slots = make([]OpenShiftSlot, len(p.Slots))
	for i, s := range p.Slots {
		if s.ClaimedAt != nil {
			at := *s.ClaimedAt
			s.ClaimedAt = &at
		}
		cp.Slots[i] = s
	}
	return &cp
}

// OpenSlots 仅返回仍可认领的空班
func (p *DayPlan) OpenSlots() []OpenShiftSlot {
	result := make([]OpenShiftSlot, 0, len(p.Slots))
	for _, s := range p.Slots {
		if s.Status == SlotOpen {
			result = append(result, s)
		}
	}
	return result
}

// HasEmployee 员工是否已在当日排班中
func (p *DayPlan) HasEmployee(employeeID string) bool {
	for _, a := range p.Assignments {
		if a.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// Roster Generate / Get 返回给调用方的只读视图
type Roster struct {
	*DayPlan
	// Warnings 非致命提示，例如 ErrNoCandidates
	Warnings []error
}
