package roster

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-24")
	if err != nil {
		t.Fatalf("ParseDate 应成功: %v", err)
	}
	if d != testSaturday {
		t.Errorf("期望 %v，实际 %v", testSaturday, d)
	}
	if d.Weekday() != time.Saturday {
		t.Errorf("期望周六，实际 %v", d.Weekday())
	}
	if d.String() != "2026-10-24" {
		t.Errorf("String() 期望 2026-10-24，实际 %s", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2026-13-01", "24-10-2026", "2026/10/24", "tomorrow"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) 期望 ErrInvalidDate，实际: %v", s, err)
		}
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2026-02-28")); err != nil {
		t.Fatalf("UnmarshalText 失败: %v", err)
	}
	if next := d.AddDays(1); next.String() != "2026-03-01" {
		t.Errorf("AddDays 跨月错误: %s", next)
	}
	if !d.Before(d.AddDays(1)) || d.After(d.AddDays(1)) {
		t.Error("Before/After 比较错误")
	}
}

func TestPolicy_CheckDate(t *testing.T) {
	p := DefaultPolicy()
	today := DateOf(testToday)

	if err := p.CheckDate(today, testToday); err != nil {
		t.Errorf("今天应合法: %v", err)
	}
	if err := p.CheckDate(today.AddDays(-1), testToday); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("昨天期望 ErrInvalidDate，实际: %v", err)
	}
	if err := p.CheckDate(Date{}, testToday); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("零值期望 ErrInvalidDate，实际: %v", err)
	}

	p.MaxDaysAhead = 7
	if err := p.CheckDate(today.AddDays(7), testToday); err != nil {
		t.Errorf("第 7 天应合法: %v", err)
	}
	if err := p.CheckDate(today.AddDays(8), testToday); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("第 8 天期望 ErrInvalidDate，实际: %v", err)
	}

	p.AllowPastDates = true
	if err := p.CheckDate(today.AddDays(-30), testToday); err != nil {
		t.Errorf("允许过去日期时应合法: %v", err)
	}
}

func TestParseShiftWindow(t *testing.T) {
	w, err := ParseShiftWindow("16:00-22:00")
	if err != nil {
		t.Fatalf("ParseShiftWindow 应成功: %v", err)
	}
	if w.Start != "16:00" || w.End != "22:00" {
		t.Errorf("解析结果错误: %+v", w)
	}

	start, end := w.On(testSaturday, time.UTC)
	if start.Hour() != 16 || end.Hour() != 22 || start.Day() != 24 {
		t.Errorf("On() 结果错误: %v - %v", start, end)
	}

	for _, bad := range []string{"16:00", "22:00-16:00", "aa:00-22:00", "16:00-25:00"} {
		if _, err := ParseShiftWindow(bad); err == nil {
			t.Errorf("ParseShiftWindow(%q) 期望失败", bad)
		}
	}
}
