package roster

import (
	"fmt"
	"time"
)

// DateLayout 日期的唯一文本格式（ISO 8601 日历日）
const DateLayout = "2006-01-02"

// Date 日历日（不含时刻与时区），可直接作为 map key
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate 解析 YYYY-MM-DD 格式日期，格式错误返回 ErrInvalidDate
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf 取时间点在其自身时区下的日历日
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time 返回该日在 loc 时区的零点
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return d.Time(time.UTC).Format(DateLayout)
}

// Weekday 星期几
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// IsZero 是否为零值
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before 是否早于 other
func (d Date) Before(other Date) bool {
	return d.Time(time.UTC).Before(other.Time(time.UTC))
}

// After 是否晚于 other
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// AddDays 偏移 n 天
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// MarshalText 实现 encoding.TextMarshaler，JSON 中以 YYYY-MM-DD 呈现
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
