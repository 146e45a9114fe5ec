package main

import (
	"context"
	"fmt"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/service"

	"gorm.io/gorm"
)

func seedBoards(ctx context.Context, db *gorm.DB, who people, cats categories) error {
	posts := []struct {
		by  *model.Identity
		req model.BoardRequest
	}{
		// notices: admin posts
		{who.admin, model.BoardRequest{CategoryID: cats.notices, Title: "How to use the board",
			Content: "Thank you for using the board.\n\nPlease keep to the following:\n1. Be respectful to each other\n2. No spam\n3. Protect personal information\n\nThank you."}},
		{who.admin, model.BoardRequest{CategoryID: cats.notices, Title: "Scheduled maintenance",
			Content: "Maintenance is scheduled for January 15, 2am to 4am.\n\nWe will improve server performance and apply security updates.\nThe service may be unavailable during that window."}},

		// free board
		{who.kim, model.BoardRequest{CategoryID: cats.free, Title: "Hello! I just joined.",
			Content: "Hi everyone! I'm a new developer who joined today.\n\nI'm studying Spring Boot and hope to learn a lot here.\nAny advice is welcome!"}},
		{who.lee, model.BoardRequest{CategoryID: cats.free, Title: "Today's dev diary",
			Content: "Today I built a REST API.\n\nIt looked complicated at first but it was fun once I went step by step.\nTomorrow I'll study JPA relationship mapping."}},
		{who.park, model.BoardRequest{CategoryID: cats.free, Title: "Weekend study group",
			Content: "Looking for people to study with on weekends.\n\nTopic: Spring Boot & JPA in depth\nTime: Saturdays 2pm to 6pm\nPlace: online\nSize: 4 to 6 people"}},

		// questions
		{who.kim, model.BoardRequest{CategoryID: cats.questions, Title: "How do I fix the JPA N+1 problem?",
			Content: "I've heard about the N+1 problem.\n\nWhen exactly does it happen and how should it be solved?\nAn example with @OneToMany would be great."}},
		{who.lee, model.BoardRequest{CategoryID: cats.questions, Title: "Spring Security configuration question",
			Content: "I'm setting up JWT authentication and SecurityConfig keeps failing.\n\nIs there a recommended setup for Spring Boot 3.x?"}},
		{who.park, model.BoardRequest{CategoryID: cats.questions, Title: "Cannot open the H2 console",
			Content: "I enabled spring.h2.console.enabled=true with path /h2-console\nbut the browser returns 404.\n\nWhat else do I need to configure?"}},
	}

	boards := service.NewBoardService(db)
	for _, p := range posts {
		b, err := boards.Create(ctx, p.by, p.req)
		if err != nil {
			return fmt.Errorf("board %q: %w", p.req.Title, err)
		}
		logger.Info("seed: board created", "id", b.ID, "title", b.Title)
	}
	return nil
}

func seedSurveys(ctx context.Context, db *gorm.DB, who people) error {
	yes, no := true, false
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	surveys := []struct {
		by  *model.Identity
		req model.SurveyRequest
	}{
		{who.kim, model.SurveyRequest{
			BirthDate: str("1985-03-15"), Gender: "MALE", PhoneNumber: "010-1234-5678", Address: "Gangnam-gu, Seoul",
			RelationshipToDeceased: model.RelationshipChild,
			DeceasedName:           "Kim Sr.", DeceasedAge: num(68), DeathDate: str("2024-01-10"), CauseOfDeath: "cancer",
			CurrentFamilyMembers: "mother, spouse, two children", LivingAlone: &no, FamilySupportLevel: "HIGH",
			GriefStage: model.GriefAcceptance, CounselingExperience: &yes, CounselingWillingness: model.CounselingInterested,
			MeetingParticipationDesire: &yes, PreferredMeetingType: "BOTH", PreferredMeetingTime: "WEEKEND",
			SupportNeeds:     "sharing experiences with people in the same situation",
			PrivacyAgreement: &yes,
		}},
		{who.lee, model.SurveyRequest{
			BirthDate: str("1990-07-22"), Gender: "FEMALE", PhoneNumber: "010-2345-6789", Address: "Seocho-gu, Seoul",
			RelationshipToDeceased: model.RelationshipSpouse,
			DeceasedName:           "Park", DeceasedAge: num(32), DeathDate: str("2024-03-05"), CauseOfDeath: "traffic accident",
			CurrentFamilyMembers: "one child", LivingAlone: &no, FamilySupportLevel: "MEDIUM",
			GriefStage: model.GriefDepression, CounselingExperience: &no, CounselingWillingness: model.CounselingVeryInterested,
			MeetingParticipationDesire: &yes, PreferredMeetingType: "ONLINE", PreferredMeetingTime: "WEEKDAY_EVENING",
			SupportNeeds:     "counseling and childcare support",
			AdditionalNotes:  "Prefers online meetings because of a young child.",
			PrivacyAgreement: &yes,
		}},
		// left unanswered on meeting participation so it stays incomplete
		{who.park, model.SurveyRequest{
			BirthDate: str("1988-11-08"), Gender: "MALE",
			RelationshipToDeceased: model.RelationshipSibling,
			DeceasedName:           "Park Jr.", DeceasedAge: num(25), DeathDate: str("2024-02-14"),
			LivingAlone: &yes, FamilySupportLevel: "LOW",
			GriefStage: model.GriefAnger, CounselingExperience: &no,
			PrivacyAgreement: &yes,
		}},
	}

	svc := service.NewSurveyService(db)
	for _, s := range surveys {
		sv, err := svc.Submit(ctx, s.by, s.req)
		if err != nil {
			return fmt.Errorf("survey for %s: %w", s.by.Username, err)
		}
		logger.Info("seed: survey saved", "user", s.by.Username, "completed", sv.SurveyCompleted)
	}
	return nil
}
