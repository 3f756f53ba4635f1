package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/report"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"github.com/salespulse/backend/internal/infrastructure/persistence/visibility"
	"gorm.io/gorm"
)

// metricSums is the shared SELECT fragment for activity aggregation.
// COALESCE keeps empty ranges at zero instead of NULL.
const metricSums = `
	COALESCE(SUM(contacts), 0) AS contacts,
	COALESCE(SUM(appointments), 0) AS appointments,
	COALESCE(SUM(presentations), 0) AS presentations,
	COALESCE(SUM(referrals), 0) AS referrals,
	COALESCE(SUM(sales), 0) AS sales,
	COALESCE(SUM(premium), 0) AS premium,
	COALESCE(SUM(recruiting_contacts), 0) AS recruiting_contacts,
	COUNT(*) AS days_active`

// GormReportRepository implements report.Repository with SQL
// aggregation over the activities table
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// scopedQuery applies the query's team, visibility, and date bounds.
// Columns are qualified because several callers join the users table.
func (r *GormReportRepository) scopedQuery(ctx context.Context, q report.Query) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.ActivityModel{}).
		Scopes(team.ScopeColumn("activities.team_id", q.TeamID))

	query = visibility.OwnerIn(query, "activities.user_id", q.UserIDs)
	if !q.From.IsZero() {
		query = query.Where("activities.activity_date >= ?", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("activities.activity_date <= ?", q.To)
	}

	return query
}

// UserTotals returns per-user totals joined with user identity fields,
// one row per user with at least one record in range
func (r *GormReportRepository) UserTotals(ctx context.Context, q report.Query) ([]report.UserSummary, error) {
	var summaries []report.UserSummary

	err := r.scopedQuery(ctx, q).
		Select(`activities.user_id AS user_id,
	users.username AS username,
	users.display_name AS display_name,
	users.role AS role,` + metricSums).
		Joins("JOIN users ON users.id = activities.user_id").
		Group("activities.user_id, users.username, users.display_name, users.role").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// TeamTotals returns the single rollup row for the query scope
func (r *GormReportRepository) TeamTotals(ctx context.Context, q report.Query) (report.Totals, error) {
	var totals report.Totals

	err := r.scopedQuery(ctx, q).
		Select(metricSums).
		Scan(&totals).Error
	if err != nil {
		return report.Totals{}, err
	}

	return totals, nil
}

// DailyTotals returns one aggregated row per calendar day in range
func (r *GormReportRepository) DailyTotals(ctx context.Context, q report.Query) ([]report.DailyTotals, error) {
	var days []report.DailyTotals

	err := r.scopedQuery(ctx, q).
		Select("activities.activity_date AS activity_date," + metricSums).
		Group("activities.activity_date").
		Order("activities.activity_date ASC").
		Scan(&days).Error
	if err != nil {
		return nil, err
	}

	return days, nil
}

// TotalsByUserSinceHire returns each listed user's totals from their
// hire date onward, keyed by user ID
func (r *GormReportRepository) TotalsByUserSinceHire(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]report.Totals, error) {
	result := make(map[uuid.UUID]report.Totals, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	type userTotalsRow struct {
		report.Totals
		UserID uuid.UUID `gorm:"column:user_id"`
	}

	query := r.db.WithContext(ctx).
		Model(&models.ActivityModel{}).
		Select("activities.user_id AS user_id,"+metricSums).
		Joins("JOIN users ON users.id = activities.user_id").
		Scopes(team.ScopeColumn("activities.team_id", teamID))
	query = visibility.OwnerIn(query, "activities.user_id", userIDs)

	var rows []userTotalsRow
	err := query.
		Where("activities.activity_date >= users.hired_at").
		Group("activities.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = row.Totals
	}

	return result, nil
}

// ActiveUserCount counts distinct users with records in range
func (r *GormReportRepository) ActiveUserCount(ctx context.Context, q report.Query) (int64, error) {
	var count int64

	err := r.scopedQuery(ctx, q).
		Distinct("activities.user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
