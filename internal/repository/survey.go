package repository

import (
	"family-board/internal/model"

	"gorm.io/gorm"
)

type SurveyRepo struct{ db *gorm.DB }

func NewSurveyRepo(db *gorm.DB) SurveyRepo { return SurveyRepo{db: db} }

func (r SurveyRepo) FindByID(id uint) (*model.FamilySurvey, error) {
	var s model.FamilySurvey
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r SurveyRepo) FindByUserID(userID uint) (*model.FamilySurvey, error) {
	var s model.FamilySurvey
	if err := r.db.Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Save inserts a new survey or writes every column of an existing one,
// nil pointers included.
func (r SurveyRepo) Save(s *model.FamilySurvey) error {
	return r.db.Save(s).Error
}

func (r SurveyRepo) MarkCompleted(id uint) (int64, error) {
	res := r.db.Model(&model.FamilySurvey{}).Where("id = ?", id).Update("survey_completed", true)
	return res.RowsAffected, res.Error
}

func (r SurveyRepo) Delete(id uint) (int64, error) {
	res := r.db.Delete(&model.FamilySurvey{}, id)
	return res.RowsAffected, res.Error
}

func (r SurveyRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.FamilySurvey{}).Count(&n).Error
	return n, err
}

func (r SurveyRepo) HasCompleted(userID uint) (bool, error) {
	var n int64
	err := r.db.Model(&model.FamilySurvey{}).
		Where("user_id = ? AND survey_completed = ?", userID, true).
		Count(&n).Error
	return n > 0, err
}

func (r SurveyRepo) All() ([]model.FamilySurvey, error) {
	return r.list(nil)
}

func (r SurveyRepo) ByCompleted(completed bool) ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("survey_completed = ?", completed)
	})
}

func (r SurveyRepo) MeetingParticipants() ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("meeting_participation_desire = ?", true)
	})
}

func (r SurveyRepo) CounselingInterested() ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("counseling_willingness IN ?", model.CounselingInterestLevels)
	})
}

func (r SurveyRepo) LivingAlone() ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("living_alone = ?", true)
	})
}

func (r SurveyRepo) ByRelationship(rel string) ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("relationship_to_deceased = ?", rel)
	})
}

func (r SurveyRepo) ByGriefStage(stage string) ([]model.FamilySurvey, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("grief_stage = ?", stage)
	})
}

// CompletedProjections loads the statistics columns of every completed survey.
func (r SurveyRepo) CompletedProjections() ([]model.SurveyProjection, error) {
	var out []model.SurveyProjection
	err := r.db.Model(&model.FamilySurvey{}).
		Select("relationship_to_deceased, grief_stage, family_support_level, preferred_meeting_type, "+
			"counseling_willingness, meeting_participation_desire, living_alone").
		Where("survey_completed = ?", true).
		Scan(&out).Error
	return out, err
}

func (r SurveyRepo) list(filter func(*gorm.DB) *gorm.DB) ([]model.FamilySurvey, error) {
	q := r.db.Order("id")
	if filter != nil {
		q = q.Scopes(filter)
	}
	var out []model.FamilySurvey
	err := q.Find(&out).Error
	return out, err
}
