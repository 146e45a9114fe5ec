package service

import (
	"slices"
	"strings"

	"family-board/internal/model"
)

// ComputeStatistics summarises the completed surveys. total is the number of
// surveys of any state. Categories that no survey chose are absent from the
// maps, and blank answers are not counted under any category.
func ComputeStatistics(total int64, completed []model.SurveyProjection) model.StatisticsReport {
	done := int64(len(completed))
	r := model.StatisticsReport{
		TotalSurveys:                   total,
		CompletedSurveys:               done,
		IncompleteSurveys:              total - done,
		RelationshipStatistics:         map[string]int64{},
		GriefStageStatistics:           map[string]int64{},
		FamilySupportLevelStatistics:   map[string]int64{},
		PreferredMeetingTypeStatistics: map[string]int64{},
	}

	var meeting, counseling, alone int64
	for _, p := range completed {
		tally(r.RelationshipStatistics, p.RelationshipToDeceased)
		tally(r.GriefStageStatistics, p.GriefStage)
		tally(r.FamilySupportLevelStatistics, p.FamilySupportLevel)
		tally(r.PreferredMeetingTypeStatistics, p.PreferredMeetingType)

		if isTrue(p.MeetingParticipationDesire) {
			meeting++
		}
		if slices.Contains(model.CounselingInterestLevels, p.CounselingWillingness) {
			counseling++
		}
		if isTrue(p.LivingAlone) {
			alone++
		}
	}

	r.MeetingParticipationDesired = meeting
	r.MeetingParticipationNotDesired = done - meeting
	r.CounselingInterested = counseling
	r.CounselingNotInterested = done - counseling
	r.LivingAloneCount = alone
	r.LivingWithFamilyCount = done - alone
	return r
}

func tally(m map[string]int64, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	m[key]++
}

func isTrue(b *bool) bool { return b != nil && *b }
