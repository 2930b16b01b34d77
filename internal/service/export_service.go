package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportInvalidRange = errors.New("导出日期范围无效")
)

// exportMaxRangeDays 班次日历单次导出的最大天数
const exportMaxRangeDays = 366

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportRoster 导出 (门店, 日期) 排班为 Excel
	ExportRoster(ctx context.Context, venueID, date string) (*bytes.Buffer, string, error)
	// ExportShiftsICS 导出员工 [from, to] 的班次日历
	ExportShiftsICS(ctx context.Context, employeeID, from, to string) (*bytes.Buffer, string, error)
}

type exportService struct {
	engine *roster.Engine
	plans  *planLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(engine *roster.Engine, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{engine: engine, plans: newPlanLoader(engine, repo), logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster — 导出排班为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "排班"：标题行 + 概要（需求 / 候选 / 已排 / 空班）
//   - 明细表头：序号 | 员工 | 班次 | 来源
//   - 空班表头：序号 | 空班 ID | 班次 | 状态

func (s *exportService) ExportRoster(ctx context.Context, venueID, date string) (*bytes.Buffer, string, error) {
	d, err := roster.ParseDate(date)
	if err != nil {
		return nil, "", err
	}
	r, err := s.plans.get(ctx, venueID, d)
	if err != nil {
		if !errors.Is(err, roster.ErrNotFound) {
			s.logger.Error("读取排班失败", zap.String("venue_id", venueID), zap.String("date", d.String()), zap.Error(err))
		}
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 38)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s %s 排班", venueID, d))
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	// 概要
	open := r.OpenSlots()
	summary := [][2]any{
		{"需求", r.Demand},
		{"候选", r.Candidates},
		{"已排", len(r.Assignments)},
		{"空班", len(open)},
	}
	row := 2
	for _, kv := range summary {
		f.SetCellValue(sheetName, cell("A", row), kv[0])
		f.SetCellValue(sheetName, cell("B", row), kv[1])
		row++
	}

	// 排班明细
	row++
	writeHeader(f, sheetName, row, headerStyle, "序号", "员工", "班次", "来源")
	row++
	for i, a := range r.Assignments {
		source := "排班"
		if a.SlotID != "" {
			source = "认领 " + a.SlotID
		}
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), a.EmployeeID)
		f.SetCellValue(sheetName, cell("C", row), a.Shift.String())
		f.SetCellValue(sheetName, cell("D", row), source)
		row++
	}

	// 空班
	row++
	writeHeader(f, sheetName, row, headerStyle, "序号", "空班 ID", "班次", "状态")
	row++
	for i, slot := range open {
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), slot.ID)
		f.SetCellValue(sheetName, cell("C", row), slot.Shift.String())
		f.SetCellValue(sheetName, cell("D", row), string(slot.Status))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("rooster_%s_%s.xlsx", venueID, d)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportShiftsICS — 导出员工班次日历
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportShiftsICS(ctx context.Context, employeeID, from, to string) (*bytes.Buffer, string, error) {
	fromDate, err := roster.ParseDate(from)
	if err != nil {
		return nil, "", err
	}
	toDate, err := roster.ParseDate(to)
	if err != nil {
		return nil, "", err
	}
	if toDate.Before(fromDate) || toDate.After(fromDate.AddDays(exportMaxRangeDays)) {
		return nil, "", ErrExportInvalidRange
	}

	loc := s.engine.Policy().Location
	if loc == nil {
		loc = time.UTC
	}
	if err := s.plans.loadRange(ctx, fromDate, toDate); err != nil {
		s.logger.Error("加载班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}
	shifts := s.engine.ShiftsFor(employeeID, fromDate, toDate)
	content := BuildShiftCalendar(employeeID, shifts, loc, s.now())

	filename := fmt.Sprintf("diensten_%s_%s.ics", fromDate, toDate)
	return bytes.NewBufferString(content), filename, nil
}

// ── 辅助函数 ──

func writeHeader(f *excelize.File, sheet string, row, style int, titles ...string) {
	for i, title := range titles {
		c := cell(colName(i), row)
		f.SetCellValue(sheet, c, title)
		f.SetCellStyle(sheet, c, c, style)
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
