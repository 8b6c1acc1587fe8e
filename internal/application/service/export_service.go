package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/allowance"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
)

// ExportService renders a user's month into a spreadsheet for the back
// office.
type ExportService interface {
	// MonthlyWorkbook writes the month's claims and schedule to an xlsx
	// file and returns its full path.
	MonthlyWorkbook(ctx context.Context, userID string, ym calendar.YearMonth) (string, error)
}

type exportServiceImpl struct {
	scheduleRepo port.ScheduleRepository
	claimRepo    port.ClaimRepository
	storage      port.FileStorage
	logger       Logger
}

// NewExportService creates a new ExportService.
func NewExportService(
	scheduleRepo port.ScheduleRepository,
	claimRepo port.ClaimRepository,
	storage port.FileStorage,
	logger Logger,
) ExportService {
	return &exportServiceImpl{
		scheduleRepo: scheduleRepo,
		claimRepo:    claimRepo,
		storage:      storage,
		logger:       logger,
	}
}

const (
	sheetClaims   = "手当"
	sheetSchedule = "勤務"
)

func (s *exportServiceImpl) MonthlyWorkbook(ctx context.Context, userID string, ym calendar.YearMonth) (string, error) {
	claims, err := s.claimRepo.ListByMonth(ctx, userID, ym)
	if err != nil {
		return "", fmt.Errorf("list claims: %w", err)
	}
	entries, err := s.scheduleRepo.ListByMonth(ctx, userID, ym)
	if err != nil {
		return "", fmt.Errorf("list schedule: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.fillClaims(f, userID, ym, claims); err != nil {
		return "", err
	}
	if err := s.fillSchedule(f, entries); err != nil {
		return "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}

	rel := fmt.Sprintf("%s/%s_%s.xlsx", ym, userID, ym)
	if err := s.storage.Save(ctx, rel, buf.Bytes()); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	path := s.storage.GetFullPath(rel)
	s.logger.Info("Monthly workbook exported", "user_id", userID, "year_month", ym.String(), "path", path, "claims", len(claims))
	return path, nil
}

func (s *exportServiceImpl) fillClaims(f *excelize.File, userID string, ym calendar.YearMonth, claims []*entity.AllowanceClaim) error {
	index, err := f.NewSheet(sheetClaims)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	setCell(f, sheetClaims, "A1", "職員ID")
	setCell(f, sheetClaims, "B1", userID)
	setCell(f, sheetClaims, "A2", "対象月")
	setCell(f, sheetClaims, "B2", ym.String())

	headers := []string{"日付", "行事", "目的地", "詳細", "運転", "宿泊", "金額"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		setCell(f, sheetClaims, cell, h)
	}

	row := 5
	total := 0
	for _, c := range claims {
		label := string(c.ActivityID)
		if act, ok := allowance.Lookup(c.ActivityID); ok {
			label = act.Label
		}

		setCell(f, sheetClaims, fmt.Sprintf("A%d", row), c.Date.Format("2006-01-02"))
		setCell(f, sheetClaims, fmt.Sprintf("B%d", row), label)
		setCell(f, sheetClaims, fmt.Sprintf("C%d", row), c.Tier.String())
		setCell(f, sheetClaims, fmt.Sprintf("D%d", row), c.Detail)
		setCell(f, sheetClaims, fmt.Sprintf("E%d", row), checkMark(c.Driving))
		setCell(f, sheetClaims, fmt.Sprintf("F%d", row), checkMark(c.Accommodation))
		setCell(f, sheetClaims, fmt.Sprintf("G%d", row), c.Amount)
		total += c.Amount
		row++
	}

	setCell(f, sheetClaims, fmt.Sprintf("F%d", row+1), "合計")
	setCell(f, sheetClaims, fmt.Sprintf("G%d", row+1), total)
	return nil
}

func (s *exportServiceImpl) fillSchedule(f *excelize.File, entries []*entity.ScheduleEntry) error {
	if _, err := f.NewSheet(sheetSchedule); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{"日付", "勤務", "備考"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		setCell(f, sheetSchedule, cell, h)
	}

	for i, e := range entries {
		row := i + 2
		setCell(f, sheetSchedule, fmt.Sprintf("A%d", row), e.Date.Format("2006-01-02"))
		setCell(f, sheetSchedule, fmt.Sprintf("B%d", row), e.Code)
		setCell(f, sheetSchedule, fmt.Sprintf("C%d", row), e.Note)
	}
	return nil
}

func setCell(f *excelize.File, sheet, cell string, value interface{}) {
	// excelize only fails here on malformed coordinates, which are all
	// produced locally.
	_ = f.SetCellValue(sheet, cell, value)
}

func checkMark(b bool) string {
	if b {
		return "○"
	}
	return ""
}
