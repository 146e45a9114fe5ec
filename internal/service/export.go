package service

import (
	"context"
	"fmt"

	"family-board/internal/model"
	"family-board/internal/repository"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

var exportHeader = []any{
	"ID", "User ID", "User", "Completed", "Birth date", "Gender", "Phone", "Address",
	"Relationship", "Relationship detail", "Deceased", "Deceased age", "Death date", "Cause of death",
	"Family members", "Living alone", "Family support", "Grief stage",
	"Counseling experience", "Counseling willingness",
	"Meeting desired", "Meeting type", "Meeting time", "Support needs",
	"Notes", "Privacy agreement", "Created", "Updated",
}

// Export renders every survey as an XLSX workbook, one row per survey.
func (s *SurveyService) Export(ctx context.Context, ident *model.Identity) ([]byte, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	rows, err := repository.NewSurveyRepo(db).All()
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	surveys, err := surveyResponses(db, rows)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, sv := range surveys {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(sv)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(sv model.SurveyResponse) []any {
	return []any{
		sv.ID, sv.UserID, sv.UserName, sv.SurveyCompleted,
		deref(sv.BirthDate), sv.Gender, sv.PhoneNumber, sv.Address,
		sv.RelationshipToDeceased, sv.RelationshipDescription,
		sv.DeceasedName, deref(sv.DeceasedAge), deref(sv.DeathDate), sv.CauseOfDeath,
		sv.CurrentFamilyMembers, yesNo(sv.LivingAlone), sv.FamilySupportLevel, sv.GriefStage,
		yesNo(sv.CounselingExperience), sv.CounselingWillingness,
		yesNo(sv.MeetingParticipationDesire), sv.PreferredMeetingType, sv.PreferredMeetingTime, sv.SupportNeeds,
		sv.AdditionalNotes, yesNo(sv.PrivacyAgreement),
		sv.CreatedAt.Format("2006-01-02 15:04:05"), sv.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Y"
	default:
		return "N"
	}
}
