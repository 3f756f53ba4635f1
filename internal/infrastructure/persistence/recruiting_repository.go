package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salespulse/backend/internal/domain/recruiting"
	"github.com/salespulse/backend/internal/domain/shared"
	"github.com/salespulse/backend/internal/infrastructure/persistence/models"
	"github.com/salespulse/backend/internal/infrastructure/persistence/team"
	"github.com/salespulse/backend/internal/infrastructure/persistence/visibility"
	"gorm.io/gorm"
)

// GormRecruitRepository implements recruiting.RecruitRepository using GORM
type GormRecruitRepository struct {
	db *team.TeamDB
}

// NewGormRecruitRepository creates a new GormRecruitRepository
func NewGormRecruitRepository(db *gorm.DB) *GormRecruitRepository {
	return &GormRecruitRepository{db: team.NewTeamDB(db)}
}

// Create creates a new recruit
func (r *GormRecruitRepository) Create(ctx context.Context, recruit *recruiting.Recruit) error {
	model := models.RecruitModelFromDomain(recruit)
	return r.db.DB().WithContext(ctx).Create(model).Error
}

// Update updates an existing recruit
func (r *GormRecruitRepository) Update(ctx context.Context, recruit *recruiting.Recruit) error {
	model := models.RecruitModelFromDomain(recruit)
	result := r.db.ForTeam(ctx, recruit.TeamID).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a recruit by ID within a team
func (r *GormRecruitRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	result := r.db.ForTeam(ctx, teamID).
		Delete(&models.RecruitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a recruit by ID within a team
func (r *GormRecruitRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*recruiting.Recruit, error) {
	var model models.RecruitModel
	if err := r.db.ForTeam(ctx, teamID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns recruits matching the filter with pagination
func (r *GormRecruitRepository) FindAll(ctx context.Context, filter recruiting.RecruitFilter) ([]*recruiting.Recruit, int64, error) {
	var recruitModels []*models.RecruitModel
	var total int64

	query := r.db.ForTeam(ctx, filter.TeamID).
		Model(&models.RecruitModel{})

	query = visibility.OwnerIn(query, "owner_id", filter.OwnerIDs)
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("stage_changed_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&recruitModels).Error; err != nil {
		return nil, 0, err
	}

	recruits := make([]*recruiting.Recruit, len(recruitModels))
	for i, model := range recruitModels {
		recruits[i] = model.ToDomain()
	}

	return recruits, total, nil
}

// CountByStage returns the pipeline funnel for the visibility set
func (r *GormRecruitRepository) CountByStage(ctx context.Context, teamID uuid.UUID, ownerIDs []uuid.UUID) ([]recruiting.StageCount, error) {
	query := r.db.ForTeam(ctx, teamID).
		Model(&models.RecruitModel{}).
		Select("stage, COUNT(*) AS count")

	query = visibility.OwnerIn(query, "owner_id", ownerIDs)

	var counts []recruiting.StageCount
	if err := query.
		Group("stage").
		Order("stage ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

// Ensure GormRecruitRepository implements recruiting.RecruitRepository
var _ recruiting.RecruitRepository = (*GormRecruitRepository)(nil)

// GormInterviewRepository implements recruiting.InterviewRepository using GORM
type GormInterviewRepository struct {
	db *team.TeamDB
}

// NewGormInterviewRepository creates a new GormInterviewRepository
func NewGormInterviewRepository(db *gorm.DB) *GormInterviewRepository {
	return &GormInterviewRepository{db: team.NewTeamDB(db)}
}

// Create creates a new interview
func (r *GormInterviewRepository) Create(ctx context.Context, interview *recruiting.Interview) error {
	model := models.InterviewModelFromDomain(interview)
	return r.db.DB().WithContext(ctx).Create(model).Error
}

// Update updates an existing interview
func (r *GormInterviewRepository) Update(ctx context.Context, interview *recruiting.Interview) error {
	model := models.InterviewModelFromDomain(interview)
	result := r.db.ForTeam(ctx, interview.TeamID).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an interview by ID within a team
func (r *GormInterviewRepository) FindByID(ctx context.Context, teamID, id uuid.UUID) (*recruiting.Interview, error) {
	var model models.InterviewModel
	if err := r.db.ForTeam(ctx, teamID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRecruit lists a recruit's interviews, newest first
func (r *GormInterviewRepository) FindByRecruit(ctx context.Context, teamID, recruitID uuid.UUID) ([]*recruiting.Interview, error) {
	var interviewModels []*models.InterviewModel
	if err := r.db.ForTeam(ctx, teamID).
		Where("recruit_id = ?", recruitID).
		Order("scheduled_at DESC").
		Find(&interviewModels).Error; err != nil {
		return nil, err
	}

	interviews := make([]*recruiting.Interview, len(interviewModels))
	for i, model := range interviewModels {
		interviews[i] = model.ToDomain()
	}

	return interviews, nil
}

// FindUpcoming lists pending interviews for an interviewer from the
// given instant onward, soonest first
func (r *GormInterviewRepository) FindUpcoming(ctx context.Context, teamID, interviewerID uuid.UUID, from time.Time) ([]*recruiting.Interview, error) {
	interviewQuery := visibility.Owner(r.db.ForTeam(ctx, teamID), "interviewer_id", interviewerID)

	var interviewModels []*models.InterviewModel
	if err := interviewQuery.
		Where("outcome = ?", recruiting.OutcomePending).
		Where("scheduled_at >= ?", from).
		Order("scheduled_at ASC").
		Find(&interviewModels).Error; err != nil {
		return nil, err
	}

	interviews := make([]*recruiting.Interview, len(interviewModels))
	for i, model := range interviewModels {
		interviews[i] = model.ToDomain()
	}

	return interviews, nil
}

// Ensure GormInterviewRepository implements recruiting.InterviewRepository
var _ recruiting.InterviewRepository = (*GormInterviewRepository)(nil)
