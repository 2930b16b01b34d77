package service

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// ── ICS 解析与生成 ──────────────────────────────────────────
//
// 导入：每个 VEVENT 的 DTSTART 日期（按门店时区）视为一个可上班日；
//   - 全天事件（VALUE=DATE）覆盖 [DTSTART, DTEND) 的每一天
//   - FREQ=DAILY / WEEKLY 的 RRULE 展开，受 COUNT / UNTIL / EXDATE 约束
//   - 展开上限 icsMaxOccurrences，防止无界规则
// 导出：员工班次日历，每个排班一条 VEVENT。
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize    = 1 << 20 // 1MB
	icsMaxOccurrences = 366
	icsProductID      = "-//slimrooster//roster//NL"
)

// ParseAvailabilityICS 解析 ICS 内容为去重、升序的日期列表
func ParseAvailabilityICS(reader io.Reader, loc *time.Location) ([]roster.Date, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	seen := make(map[roster.Date]struct{})
	for _, evt := range cal.Events() {
		for _, d := range eventDates(evt, loc) {
			seen[d] = struct{}{}
		}
	}

	dates := make([]roster.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// eventDates 单个 VEVENT 覆盖的全部日期
func eventDates(evt *ics.VEvent, loc *time.Location) []roster.Date {
	dtStart, allDay, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return nil
	}

	// 全天事件的跨度按日历日计算，DTEND 为开区间；夏令时切换日不足 24 小时
	span := 1
	if allDay {
		if dtEnd, _, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
			span = calendarDays(roster.DateOf(dtStart), roster.DateOf(dtEnd))
		}
	}

	var dates []roster.Date
	for _, occ := range expandOccurrences(evt, dtStart, loc) {
		first := roster.DateOf(occ)
		for i := 0; i < span; i++ {
			dates = append(dates, first.AddDays(i))
		}
	}
	return dates
}

// calendarDays [from, to) 覆盖的日历天数，至少为 1
func calendarDays(from, to roster.Date) int {
	days := 0
	for d := from; d.Before(to) && days < icsMaxOccurrences; d = d.AddDays(1) {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// expandOccurrences 根据 RRULE / EXDATE 展开事件发生时刻
func expandOccurrences(evt *ics.VEvent, dtStart time.Time, loc *time.Location) []time.Time {
	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return []time.Time{dtStart}
	}

	rule := parseRRule(rruleProp.Value)
	var step time.Duration
	switch rule.freq {
	case "DAILY":
		step = 24 * time.Hour
	case "WEEKLY":
		step = 7 * 24 * time.Hour
	default:
		// 其他频率仅取首次发生
		return []time.Time{dtStart}
	}

	interval := rule.interval
	if interval < 1 {
		interval = 1
	}
	exDates := parseExDates(evt, loc)

	var result []time.Time
	current := dtStart
	for count := 0; count < icsMaxOccurrences; count++ {
		if !rule.until.IsZero() && current.After(rule.until) {
			break
		}
		if rule.count > 0 && count >= rule.count {
			break
		}
		if !exDates[current.Format("20060102")] {
			result = append(result, current)
		}
		days := int(step/(24*time.Hour)) * interval
		current = current.AddDate(0, 0, days)
	}
	return result
}

// rruleParams RRULE 解析结果
type rruleParams struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule 解析 RRULE 字符串（如 FREQ=WEEKLY;COUNT=16;INTERVAL=1）
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "INTERVAL":
			fmt.Sscanf(kv[1], "%d", &r.interval)
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &r.count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
				// 仅日期的 UNTIL 包含当天
				if !t.IsZero() {
					t = t.Add(24*time.Hour - time.Second)
				}
			}
			r.until = t
		}
	}
	return r
}

// parseExDates 解析事件中所有 EXDATE（支持逗号分隔多值）
func parseExDates(evt *ics.VEvent, loc *time.Location) map[string]bool {
	exDates := make(map[string]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyExdate) {
			continue
		}
		for _, val := range strings.Split(prop.Value, ",") {
			t, err := time.Parse("20060102T150405Z", val)
			if err == nil {
				t = t.In(loc)
			} else {
				t, err = time.Parse("20060102T150405", val)
				if err != nil {
					t, err = time.Parse("20060102", val)
				}
			}
			if err == nil {
				exDates[t.Format("20060102")] = true
			}
		}
	}
	return exDates
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性；allDay 表示仅日期格式
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (t time.Time, allDay bool, err error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	if parsed, err := time.Parse("20060102T150405Z", val); err == nil {
		return parsed.In(loc), false, nil
	}

	// 检查 TZID 参数
	target := loc
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			if tzLoc, err := time.LoadLocation(v[0]); err == nil {
				target = tzLoc
			}
		}
	}
	if parsed, err := time.ParseInLocation("20060102T150405", val, target); err == nil {
		return parsed.In(loc), false, nil
	}
	if parsed, err := time.ParseInLocation("20060102", val, loc); err == nil {
		return parsed, true, nil
	}
	return time.Time{}, false, fmt.Errorf("无法解析日期: %s", val)
}

// ── 班次日历 ──

// BuildShiftCalendar 生成员工班次日历（RFC 5545）
func BuildShiftCalendar(employeeID string, shifts []roster.DayShift, loc *time.Location, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Diensten " + employeeID)

	for _, s := range shifts {
		start, end := s.Assignment.Shift.On(s.Date, loc)
		uid := fmt.Sprintf("%s-%s-%s@slimrooster", s.VenueID, s.Date, employeeID)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now.UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary("Dienst " + s.VenueID)
		event.SetLocation(s.VenueID)
		if s.Assignment.SlotID != "" {
			event.SetDescription("Geclaimde open dienst " + s.Assignment.SlotID)
		}
	}
	return cal.Serialize()
}
