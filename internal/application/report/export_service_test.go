package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/report"
)

func TestExportService_Leaderboard(t *testing.T) {
	f := newReportFixture(t)
	svc := NewExportService(f.svc, zap.NewNop())

	second := newActiveTeamMember(f.team.ID, "bravo", identity.RoleAgent)
	rows := []report.UserSummary{
		summaryRow(f.agent, 5, 1000),
		summaryRow(second, 3, 700),
	}
	f.reportRepo.On("UserTotals", mock.Anything, mock.Anything).Return(rows, nil)

	export, err := svc.ExportLeaderboard(context.Background(), f.manager, LeaderboardInput{
		PeriodInput: PeriodInput{PeriodType: "week"},
		Metric:      "sales",
	})

	require.NoError(t, err)
	assert.Contains(t, export.FileName, "leaderboard_sales_")
	assert.Equal(t, xlsxContentType, export.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer book.Close()

	rank, err := book.GetCellValue("Leaderboard", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", rank)
	name, err := book.GetCellValue("Leaderboard", "C2")
	require.NoError(t, err)
	assert.Equal(t, "agent1", name)
}

func TestExportService_TeamSummary(t *testing.T) {
	f := newReportFixture(t)
	svc := NewExportService(f.svc, zap.NewNop())

	f.reportRepo.On("TeamTotals", mock.Anything, mock.Anything).
		Return(report.Totals{Sales: 9, Premium: decimal.NewFromInt(4500)}, nil)
	f.reportRepo.On("UserTotals", mock.Anything, mock.Anything).
		Return([]report.UserSummary{summaryRow(f.agent, 9, 4500)}, nil)
	f.reportRepo.On("ActiveUserCount", mock.Anything, mock.Anything).Return(int64(1), nil)

	export, err := svc.ExportTeamSummary(context.Background(), f.manager, PeriodInput{PeriodType: "month"})

	require.NoError(t, err)
	assert.Contains(t, export.FileName, "team_summary_")

	book, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer book.Close()

	username, err := book.GetCellValue("Team Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "agent1", username)

	total, err := book.GetCellValue("Team Summary", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Team total", total)
}
