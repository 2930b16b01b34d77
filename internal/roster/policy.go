package roster

import (
	"fmt"
	"strings"
	"time"
)

// ShiftWindow 固定班次时间窗（墙上时间，HH:MM）
type ShiftWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseShiftWindow 解析 "16:00-22:00" 形式的班次
func ParseShiftWindow(s string) (ShiftWindow, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return ShiftWindow{}, fmt.Errorf("班次格式无效 %q，期望 HH:MM-HH:MM", s)
	}
	w := ShiftWindow{Start: strings.TrimSpace(parts[0]), End: strings.TrimSpace(parts[1])}
	start, err := time.Parse("15:04", w.Start)
	if err != nil {
		return ShiftWindow{}, fmt.Errorf("班次开始时间无效 %q: %w", w.Start, err)
	}
	end, err := time.Parse("15:04", w.End)
	if err != nil {
		return ShiftWindow{}, fmt.Errorf("班次结束时间无效 %q: %w", w.End, err)
	}
	if !end.After(start) {
		return ShiftWindow{}, fmt.Errorf("班次结束时间必须晚于开始时间 %q", s)
	}
	return w, nil
}

func (w ShiftWindow) String() string {
	return w.Start + "-" + w.End
}

// On 返回该班次在某日 loc 时区下的起止时刻
func (w ShiftWindow) On(d Date, loc *time.Location) (time.Time, time.Time) {
	day := d.Time(loc)
	start, _ := time.Parse("15:04", w.Start)
	end, _ := time.Parse("15:04", w.End)
	return day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute),
		day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
}

// Policy 排班策略常量，全部可配置
type Policy struct {
	WeekdayBase    int
	WeekendBase    int
	WeekendDays    []time.Weekday
	CoversPerStaff int // 每多少预订人数增加 1 人需求
	StaffDivisor   int // 需求 / StaffDivisor = 直接排班人数
	MinStaff       int // 有候选人时的最少排班人数（需求为 0 时同样生效）
	Shift          ShiftWindow
	Location       *time.Location
	MaxDaysAhead   int // 0 表示不限
	AllowPastDates bool
}

// DefaultPolicy 默认策略：周五至周日按周末计
func DefaultPolicy() Policy {
	return Policy{
		WeekdayBase:    5,
		WeekendBase:    10,
		WeekendDays:    []time.Weekday{time.Friday, time.Saturday, time.Sunday},
		CoversPerStaff: 10,
		StaffDivisor:   3,
		MinStaff:       1,
		Shift:          ShiftWindow{Start: "16:00", End: "22:00"},
		Location:       time.UTC,
	}
}

// Validate 校验策略常量
func (p Policy) Validate() error {
	if p.WeekdayBase < 0 || p.WeekendBase < 0 {
		return fmt.Errorf("基础人数不能为负")
	}
	if p.CoversPerStaff <= 0 {
		return fmt.Errorf("covers_per_staff 必须大于 0")
	}
	if p.StaffDivisor <= 0 {
		return fmt.Errorf("staff_divisor 必须大于 0")
	}
	if p.MinStaff < 0 {
		return fmt.Errorf("min_staff 不能为负")
	}
	if _, err := ParseShiftWindow(p.Shift.String()); err != nil {
		return err
	}
	if p.MaxDaysAhead < 0 {
		return fmt.Errorf("max_days_ahead 不能为负")
	}
	return nil
}

func (p Policy) isWeekend(d Date) bool {
	wd := d.Weekday()
	for _, w := range p.WeekendDays {
		if w == wd {
			return true
		}
	}
	return false
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// CheckDate 校验日期是否处于可操作范围
func (p Policy) CheckDate(d Date, now time.Time) error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	today := DateOf(now.In(p.location()))
	if !p.AllowPastDates && d.Before(today) {
		return fmt.Errorf("%w: %s 早于今天 %s", ErrInvalidDate, d, today)
	}
	if p.MaxDaysAhead > 0 && d.After(today.AddDays(p.MaxDaysAhead)) {
		return fmt.Errorf("%w: %s 超出可排班范围（%d 天）", ErrInvalidDate, d, p.MaxDaysAhead)
	}
	return nil
}
