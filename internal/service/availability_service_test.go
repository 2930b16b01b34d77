package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// ── SetAvailability 测试 ──

func TestAvailabilityService_SetAvailability_ReplacesWholesale(t *testing.T) {
	svc, mocks := setupTestService()
	ctx := context.Background()

	_, err := svc.Availability.SetAvailability(ctx, "emp-a", &dto.SetAvailabilityRequest{
		Dates: []string{"2026-10-25", "2026-10-20", "2026-10-25"},
	})
	if err != nil {
		t.Fatalf("SetAvailability 应成功: %v", err)
	}

	resp, err := svc.Availability.SetAvailability(ctx, "emp-a", &dto.SetAvailabilityRequest{
		Dates: []string{"2026-10-30", "2026-10-21"},
	})
	if err != nil {
		t.Fatalf("第二次 SetAvailability 应成功: %v", err)
	}
	if strings.Join(resp.Dates, ",") != "2026-10-21,2026-10-30" {
		t.Errorf("期望整体替换且升序，实际 %v", resp.Dates)
	}
	if len(mocks.availability.data["emp-a"]) != 2 {
		t.Errorf("期望持久层保存 2 个日期，实际 %d", len(mocks.availability.data["emp-a"]))
	}
}

func TestAvailabilityService_SetAvailability_EmptyExcludesEmployee(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()
	setAllAvailable(svc, testSaturday)

	if _, err := svc.Availability.SetAvailability(ctx, "emp-b", &dto.SetAvailabilityRequest{Dates: []string{}}); err != nil {
		t.Fatalf("清空可用日期应成功: %v", err)
	}

	gen, err := svc.Roster.GenerateRoster(ctx, "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("GenerateRoster 应成功: %v", err)
	}
	for _, a := range gen.Assignments {
		if a.EmployeeID == "emp-b" {
			t.Fatal("清空可用日期的员工不应被排班")
		}
	}
	if gen.Candidates != 3 {
		t.Errorf("期望 3 名候选人，实际 %d", gen.Candidates)
	}
}

func TestAvailabilityService_SetAvailability_InvalidDate(t *testing.T) {
	svc, mocks := setupTestService()
	ctx := context.Background()
	setAllAvailable(svc, testSaturday)

	_, err := svc.Availability.SetAvailability(ctx, "emp-a", &dto.SetAvailabilityRequest{
		Dates: []string{"2026-10-21", "21-10-2026"},
	})
	if !errors.Is(err, roster.ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}

	resp, _ := svc.Availability.GetAvailability(ctx, "emp-a")
	if len(resp.Dates) != 1 || resp.Dates[0] != testSaturday {
		t.Errorf("无效请求不应产生部分更新，实际 %v", resp.Dates)
	}
	if len(mocks.availability.data["emp-a"]) != 1 {
		t.Errorf("持久层不应被修改，实际 %v", mocks.availability.data["emp-a"])
	}
}

func TestAvailabilityService_SetAvailability_RepoFailure(t *testing.T) {
	svc, mocks := setupTestService()
	ctx := context.Background()
	setAllAvailable(svc, testSaturday)

	mocks.availability.replaceErr = errors.New("db down")
	if _, err := svc.Availability.SetAvailability(ctx, "emp-a", &dto.SetAvailabilityRequest{Dates: []string{}}); err == nil {
		t.Fatal("期望持久化失败时返回错误")
	}

	resp, _ := svc.Availability.GetAvailability(ctx, "emp-a")
	if len(resp.Dates) != 1 {
		t.Errorf("落库失败时内存索引不应变化，实际 %v", resp.Dates)
	}
}

// ── ImportICS 测试 ──

const sampleAvailabilityICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"DTSTART:20261020T160000Z\r\n" +
	"DTEND:20261020T220000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=3\r\n" +
	"EXDATE:20261027T160000Z\r\n" +
	"SUMMARY:Beschikbaar\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekend@test\r\n" +
	"DTSTART;VALUE=DATE:20261024\r\n" +
	"DTEND;VALUE=DATE:20261026\r\n" +
	"SUMMARY:Weekend\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestAvailabilityService_ImportICS(t *testing.T) {
	svc, mocks := setupTestService()
	ctx := context.Background()

	resp, err := svc.Availability.ImportICS(ctx, "emp-c", strings.NewReader(sampleAvailabilityICS))
	if err != nil {
		t.Fatalf("ImportICS 应成功: %v", err)
	}
	want := "2026-10-20,2026-10-24,2026-10-25,2026-11-03"
	if got := strings.Join(resp.Dates, ","); got != want {
		t.Errorf("期望 %s，实际 %s", want, got)
	}
	if resp.Imported != 4 {
		t.Errorf("期望导入 4 天，实际 %d", resp.Imported)
	}
	if len(mocks.availability.data["emp-c"]) != 4 {
		t.Errorf("期望持久层保存 4 天，实际 %d", len(mocks.availability.data["emp-c"]))
	}
}

func TestAvailabilityService_ImportICS_Invalid(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	_, err := svc.Availability.ImportICS(ctx, "emp-c", strings.NewReader("dit is geen kalender"))
	if !errors.Is(err, ErrICSInvalid) {
		t.Errorf("期望 ErrICSInvalid，实际: %v", err)
	}

	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\nEND:VCALENDAR\r\n"
	_, err = svc.Availability.ImportICS(ctx, "emp-c", strings.NewReader(empty))
	if !errors.Is(err, ErrICSEmpty) {
		t.Errorf("期望 ErrICSEmpty，实际: %v", err)
	}
}
