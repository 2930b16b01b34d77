package roster

import (
	"sort"
	"sync"
)

// AvailabilityIndex 员工 → 可上班日期集合
//
// Set 整体替换某员工的声明，读方不会看到半更新状态。
type AvailabilityIndex struct {
	mu    sync.RWMutex
	dates map[string]map[Date]struct{}
}

// NewAvailabilityIndex 创建空索引
func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{dates: make(map[string]map[Date]struct{})}
}

// Set 替换员工的可用日期；空集合表示不可排班
func (idx *AvailabilityIndex) Set(employeeID string, dates []Date) {
	set := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	idx.mu.Lock()
	idx.dates[employeeID] = set
	idx.mu.Unlock()
}

// IsAvailable 员工在该日是否可上班
func (idx *AvailabilityIndex) IsAvailable(employeeID string, date Date) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.dates[employeeID][date]
	return ok
}

// Available 按门店员工名册顺序过滤出当日可用员工，顺序确定以便结果可复现
func (idx *AvailabilityIndex) Available(employees []string, date Date) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := make([]string, 0, len(employees))
	seen := make(map[string]bool, len(employees))
	for _, e := range employees {
		if seen[e] {
			continue
		}
		seen[e] = true
		if _, ok := idx.dates[e][date]; ok {
			result = append(result, e)
		}
	}
	return result
}

// Dates 返回员工已声明日期（升序）
func (idx *AvailabilityIndex) Dates(employeeID string) []Date {
	idx.mu.RLock()
	set := idx.dates[employeeID]
	result := make([]Date, 0, len(set))
	for d := range set {
		result = append(result, d)
	}
	idx.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}
