package roster

// Allocation 单次分配结果
type Allocation struct {
	Assignments []ShiftAssignment
	OpenCount   int
}

// RequiredStaff 直接排班人数 = min(候选人数, max(MinStaff, demand / StaffDivisor))
//
// 需求为 0 但有候选人时仍会排 MinStaff 人，MinStaff 置 0 可关闭。
func (p Policy) RequiredStaff(demand, candidates int) int {
	required := demand / p.StaffDivisor
	if required < p.MinStaff {
		required = p.MinStaff
	}
	if required > candidates {
		required = candidates
	}
	return required
}

// Allocate 按候选人既定顺序取前 required 人上岗，剩余需求转为空班数量
func (p Policy) Allocate(demand int, candidates []string) Allocation {
	required := p.RequiredStaff(demand, len(candidates))

	assignments := make([]ShiftAssignment, 0, required)
	for _, employeeID := range candidates[:required] {
		assignments = append(assignments, ShiftAssignment{
			EmployeeID: employeeID,
			Shift:      p.Shift,
		})
	}

	openCount := demand - required
	if openCount < 0 {
		openCount = 0
	}
	return Allocation{Assignments: assignments, OpenCount: openCount}
}
