package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/repository"

	"gorm.io/gorm"
)

type SurveyService struct{ db *gorm.DB }

func NewSurveyService(db *gorm.DB) *SurveyService { return &SurveyService{db: db} }

func requireUser(ident *model.Identity) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(ident *model.Identity) error {
	if ident == nil || !ident.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// Mine returns the caller's survey, or nil if they never submitted one.
func (s *SurveyService) Mine(ctx context.Context, ident *model.Identity) (*model.SurveyResponse, error) {
	if err := requireUser(ident); err != nil {
		return nil, err
	}
	return s.byUser(s.db.WithContext(ctx), ident.UserID)
}

// Submit stores req as the caller's survey, replacing every field of an
// earlier submission. Once a survey is complete it stays complete.
func (s *SurveyService) Submit(ctx context.Context, ident *model.Identity, req model.SurveyRequest) (*model.SurveyResponse, error) {
	if err := requireUser(ident); err != nil {
		return nil, err
	}
	birth, err := parseDate("birthDate", req.BirthDate)
	if err != nil {
		return nil, err
	}
	death, err := parseDate("deathDate", req.DeathDate)
	if err != nil {
		return nil, err
	}

	var out *model.SurveyResponse
	save := func(tx *gorm.DB) error {
		surveys := repository.NewSurveyRepo(tx)
		sv, err := surveys.FindByUserID(ident.UserID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sv = &model.FamilySurvey{UserID: ident.UserID}
		case err != nil:
			return fmt.Errorf("find survey: %w", err)
		}

		applySurvey(sv, req, birth, death)
		sv.SurveyCompleted = sv.SurveyCompleted || requiredAnswered(req)
		if err := surveys.Save(sv); err != nil {
			return fmt.Errorf("save survey: %w", err)
		}
		resp, err := surveyResponses(tx, []model.FamilySurvey{*sv})
		if err != nil {
			return err
		}
		out = &resp[0]
		return nil
	}
	db := s.db.WithContext(ctx)
	err = db.Transaction(save)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent first submission won the insert; update its row
		err = db.Transaction(save)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("survey.submit", "uid", ident.UserID, "survey", out.ID, "completed", out.SurveyCompleted)
	return out, nil
}

func (s *SurveyService) CompletionStatus(ctx context.Context, ident *model.Identity) (bool, error) {
	if err := requireUser(ident); err != nil {
		return false, err
	}
	done, err := repository.NewSurveyRepo(s.db.WithContext(ctx)).HasCompleted(ident.UserID)
	if err != nil {
		return false, fmt.Errorf("completion status: %w", err)
	}
	return done, nil
}

func (s *SurveyService) Completed(ctx context.Context, ident *model.Identity) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, func(r repository.SurveyRepo) ([]model.FamilySurvey, error) {
		return r.ByCompleted(true)
	})
}

func (s *SurveyService) Incomplete(ctx context.Context, ident *model.Identity) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, func(r repository.SurveyRepo) ([]model.FamilySurvey, error) {
		return r.ByCompleted(false)
	})
}

func (s *SurveyService) MeetingParticipants(ctx context.Context, ident *model.Identity) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, repository.SurveyRepo.MeetingParticipants)
}

func (s *SurveyService) CounselingInterested(ctx context.Context, ident *model.Identity) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, repository.SurveyRepo.CounselingInterested)
}

func (s *SurveyService) LivingAlone(ctx context.Context, ident *model.Identity) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, repository.SurveyRepo.LivingAlone)
}

func (s *SurveyService) ByRelationship(ctx context.Context, ident *model.Identity, rel string) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, func(r repository.SurveyRepo) ([]model.FamilySurvey, error) {
		return r.ByRelationship(rel)
	})
}

func (s *SurveyService) ByGriefStage(ctx context.Context, ident *model.Identity, stage string) ([]model.SurveyResponse, error) {
	return s.adminList(ctx, ident, func(r repository.SurveyRepo) ([]model.FamilySurvey, error) {
		return r.ByGriefStage(stage)
	})
}

// ByUser returns the survey of userID, or nil if that user has none.
func (s *SurveyService) ByUser(ctx context.Context, ident *model.Identity, userID uint) (*model.SurveyResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.byUser(s.db.WithContext(ctx), userID)
}

// Complete marks a survey complete regardless of its answers.
func (s *SurveyService) Complete(ctx context.Context, ident *model.Identity, surveyID uint) (*model.SurveyResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	var out *model.SurveyResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		surveys := repository.NewSurveyRepo(tx)
		sv, err := surveys.FindByID(surveyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSurveyNotFound
		}
		if err != nil {
			return fmt.Errorf("find survey: %w", err)
		}
		if _, err := surveys.MarkCompleted(sv.ID); err != nil {
			return fmt.Errorf("complete survey: %w", err)
		}
		sv.SurveyCompleted = true
		resp, err := surveyResponses(tx, []model.FamilySurvey{*sv})
		if err != nil {
			return err
		}
		out = &resp[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("survey.complete", "survey", surveyID, "by", ident.UserID)
	return out, nil
}

func (s *SurveyService) Delete(ctx context.Context, ident *model.Identity, surveyID uint) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	n, err := repository.NewSurveyRepo(s.db.WithContext(ctx)).Delete(surveyID)
	if err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if n == 0 {
		return ErrSurveyNotFound
	}
	logger.Info("survey.delete", "survey", surveyID, "by", ident.UserID)
	return nil
}

func (s *SurveyService) Statistics(ctx context.Context, ident *model.Identity) (*model.StatisticsReport, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	var report model.StatisticsReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		surveys := repository.NewSurveyRepo(tx)
		total, err := surveys.Count()
		if err != nil {
			return fmt.Errorf("count surveys: %w", err)
		}
		completed, err := surveys.CompletedProjections()
		if err != nil {
			return fmt.Errorf("load completed surveys: %w", err)
		}
		report = ComputeStatistics(total, completed)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *SurveyService) adminList(ctx context.Context, ident *model.Identity, load func(repository.SurveyRepo) ([]model.FamilySurvey, error)) ([]model.SurveyResponse, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	rows, err := load(repository.NewSurveyRepo(db))
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return surveyResponses(db, rows)
}

func (s *SurveyService) byUser(db *gorm.DB, userID uint) (*model.SurveyResponse, error) {
	sv, err := repository.NewSurveyRepo(db).FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find survey: %w", err)
	}
	out, err := surveyResponses(db, []model.FamilySurvey{*sv})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// requiredAnswered reports whether req answers every question needed to
// count the survey as complete.
func requiredAnswered(req model.SurveyRequest) bool {
	return req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" &&
		strings.TrimSpace(req.RelationshipToDeceased) != "" &&
		req.MeetingParticipationDesire != nil &&
		isTrue(req.PrivacyAgreement)
}

func applySurvey(sv *model.FamilySurvey, req model.SurveyRequest, birth, death *time.Time) {
	sv.BirthDate = birth
	sv.Gender = strings.TrimSpace(req.Gender)
	sv.PhoneNumber = req.PhoneNumber
	sv.Address = req.Address

	sv.RelationshipToDeceased = strings.TrimSpace(req.RelationshipToDeceased)
	sv.RelationshipDescription = req.RelationshipDescription

	sv.DeceasedName = req.DeceasedName
	sv.DeceasedAge = req.DeceasedAge
	sv.DeathDate = death
	sv.CauseOfDeath = req.CauseOfDeath

	sv.CurrentFamilyMembers = req.CurrentFamilyMembers
	sv.LivingAlone = req.LivingAlone
	sv.FamilySupportLevel = strings.TrimSpace(req.FamilySupportLevel)

	sv.GriefStage = strings.TrimSpace(req.GriefStage)
	sv.CounselingExperience = req.CounselingExperience
	sv.CounselingWillingness = strings.TrimSpace(req.CounselingWillingness)

	sv.MeetingParticipationDesire = req.MeetingParticipationDesire
	sv.PreferredMeetingType = strings.TrimSpace(req.PreferredMeetingType)
	sv.PreferredMeetingTime = strings.TrimSpace(req.PreferredMeetingTime)
	sv.SupportNeeds = req.SupportNeeds

	sv.AdditionalNotes = req.AdditionalNotes
	sv.PrivacyAgreement = req.PrivacyAgreement
}

func parseDate(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(*v))
	if err != nil {
		return nil, invalid(field, "%s must be a date in YYYY-MM-DD format", field)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// surveyResponses attaches user names, looked up in one query.
func surveyResponses(db *gorm.DB, rows []model.FamilySurvey) ([]model.SurveyResponse, error) {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	names, err := repository.NewUserRepo(db).NamesByID(ids)
	if err != nil {
		return nil, fmt.Errorf("user names: %w", err)
	}
	out := make([]model.SurveyResponse, len(rows))
	for i, sv := range rows {
		out[i] = model.SurveyResponse{
			ID:       sv.ID,
			UserID:   sv.UserID,
			UserName: names[sv.UserID],

			BirthDate:   formatDate(sv.BirthDate),
			Gender:      sv.Gender,
			PhoneNumber: sv.PhoneNumber,
			Address:     sv.Address,

			RelationshipToDeceased:  sv.RelationshipToDeceased,
			RelationshipDescription: sv.RelationshipDescription,

			DeceasedName: sv.DeceasedName,
			DeceasedAge:  sv.DeceasedAge,
			DeathDate:    formatDate(sv.DeathDate),
			CauseOfDeath: sv.CauseOfDeath,

			CurrentFamilyMembers: sv.CurrentFamilyMembers,
			LivingAlone:          sv.LivingAlone,
			FamilySupportLevel:   sv.FamilySupportLevel,

			GriefStage:            sv.GriefStage,
			CounselingExperience:  sv.CounselingExperience,
			CounselingWillingness: sv.CounselingWillingness,

			MeetingParticipationDesire: sv.MeetingParticipationDesire,
			PreferredMeetingType:       sv.PreferredMeetingType,
			PreferredMeetingTime:       sv.PreferredMeetingTime,
			SupportNeeds:               sv.SupportNeeds,

			AdditionalNotes:  sv.AdditionalNotes,
			PrivacyAgreement: sv.PrivacyAgreement,
			SurveyCompleted:  sv.SurveyCompleted,

			CreatedAt: sv.CreatedAt,
			UpdatedAt: sv.UpdatedAt,
		}
	}
	return out, nil
}
