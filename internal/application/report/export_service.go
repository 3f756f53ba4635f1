package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// Export is a rendered spreadsheet ready to stream to the client
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders reports as .xlsx workbooks
type ExportService struct {
	reports *ReportService
	logger  *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(reports *ReportService, logger *zap.Logger) *ExportService {
	return &ExportService{reports: reports, logger: logger}
}

// ExportLeaderboard renders a leaderboard as a single-sheet workbook
func (s *ExportService) ExportLeaderboard(ctx context.Context, actor *identity.User, input LeaderboardInput) (*Export, error) {
	board, err := s.reports.Leaderboard(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Leaderboard"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Name", "Username", "Role", board.Metric}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, e := range board.Entries {
		values := []interface{}{e.Rank, e.DisplayName, e.Username, string(e.Role), e.Value.InexactFloat64()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return s.render(f, fmt.Sprintf("leaderboard_%s_%s.xlsx", board.Metric, board.Period.Label))
}

// ExportTeamSummary renders the team rollup and its member breakdown
func (s *ExportService) ExportTeamSummary(ctx context.Context, actor *identity.User, input PeriodInput) (*Export, error) {
	summary, err := s.reports.TeamSummary(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Team Summary"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Name", "Username", "Role", "Contacts", "Appointments",
		"Presentations", "Referrals", "Sales", "Premium",
		"Recruiting Contacts", "Days Active", "Close Rate %",
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, m := range summary.Members {
		values := []interface{}{
			m.DisplayName, m.Username, string(m.Role),
			m.Totals.Contacts, m.Totals.Appointments, m.Totals.Presentations,
			m.Totals.Referrals, m.Totals.Sales, m.Totals.Premium.InexactFloat64(),
			m.Totals.RecruitingContacts, m.Totals.DaysActive,
			m.CloseRate.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Totals row under the breakdown
	totalRow := len(summary.Members) + 3
	labels := []interface{}{
		"Team total", "", "",
		summary.Totals.Contacts, summary.Totals.Appointments, summary.Totals.Presentations,
		summary.Totals.Referrals, summary.Totals.Sales, summary.Totals.Premium.InexactFloat64(),
		summary.Totals.RecruitingContacts, summary.Totals.DaysActive, "",
	}
	for col, v := range labels {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalRow)
		f.SetCellValue(sheet, cell, v)
	}

	return s.render(f, fmt.Sprintf("team_summary_%s.xlsx", summary.Period.Label))
}

func (s *ExportService) render(f *excelize.File, name string) (*Export, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("Failed to render workbook", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render export")
	}
	return &Export{
		FileName:    name,
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}
