package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"family-board/internal/dbtest"
	"family-board/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func register(t *testing.T, db *gorm.DB, username string) *model.Identity {
	t.Helper()
	u, err := NewAuthService(db).Register(context.Background(), model.RegisterRequest{
		Username: username, Password: "secret", Name: username + " name",
	})
	require.NoError(t, err)
	return model.NewIdentity(u)
}

func admin(t *testing.T, db *gorm.DB) *model.Identity {
	t.Helper()
	u, err := NewAuthService(db).EnsureAdmin(context.Background(), "admin", "admin123", "Admin", "admin@example.com")
	require.NoError(t, err)
	return model.NewIdentity(u)
}

func completeRequest() model.SurveyRequest {
	return model.SurveyRequest{
		BirthDate:                  ptr("1970-03-15"),
		RelationshipToDeceased:     model.RelationshipSpouse,
		MeetingParticipationDesire: ptr(true),
		PrivacyAgreement:           ptr(true),
	}
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	u, err := auth.Register(ctx, model.RegisterRequest{Username: "kimdev", Password: "pw", Name: "Kim"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "pw", u.Password)

	_, err = auth.Register(ctx, model.RegisterRequest{Username: "kimdev", Password: "other", Name: "Dup"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	got, err := auth.Login(ctx, "kimdev", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = auth.Login(ctx, "kimdev", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = auth.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuth_RegisterValidation(t *testing.T) {
	auth := NewAuthService(dbtest.Open(t))
	_, err := auth.Register(context.Background(), model.RegisterRequest{Username: " ", Password: "pw", Name: "n"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)
	assert.True(t, IsDomain(err))
}

func TestSession_Lifecycle(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	ident := register(t, db, "leecoding")
	sessions := NewSessionService(db, "test-secret", time.Hour)

	token, exp, err := sessions.Open(ctx, ident.UserID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	got, err := sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "leecoding", got.Username)

	require.NoError(t, sessions.Close(ctx, token))
	_, err = sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSession_RejectsForgedAndExpired(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	ident := register(t, db, "parkstudy")

	sessions := NewSessionService(db, "test-secret", time.Hour)
	token, _, err := sessions.Open(ctx, ident.UserID)
	require.NoError(t, err)

	forger := NewSessionService(db, "other-secret", time.Hour)
	_, err = forger.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = sessions.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	sessions.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err = sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestWindow(t *testing.T) {
	assert.Equal(t, 0, Window(-3, 5).Page)
	assert.Equal(t, DefaultPageSize, Window(0, 0).Size)
	assert.Equal(t, MaxPageSize, Window(0, 1000).Size)
	assert.Equal(t, 20, Window(2, 20).Size)
}

func TestBoard_CreateViewUpdateDelete(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cats := NewCategoryService(db)
	boards := NewBoardService(db)
	cat, err := cats.Create(ctx, "Free", "free talk")
	require.NoError(t, err)
	ident := register(t, db, "kimdev")

	b, err := boards.Create(ctx, ident, model.BoardRequest{Title: "hello", Content: "world", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, ident.Name, b.Author)
	require.NotNil(t, b.UserID)
	assert.Equal(t, ident.UserID, *b.UserID)
	assert.Equal(t, "Free", b.CategoryName)
	assert.False(t, b.IsAdminPost)

	for i := 0; i < 4; i++ {
		_, err = boards.View(ctx, b.ID)
		require.NoError(t, err)
	}
	viewed, err := boards.View(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, viewed.ViewCount)

	other, err := cats.Create(ctx, "Notice", "")
	require.NoError(t, err)
	upd, err := boards.Update(ctx, b.ID, model.BoardRequest{Title: "edited", Content: "body", CategoryID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, "edited", upd.Title)
	assert.Equal(t, "Notice", upd.CategoryName)

	require.NoError(t, boards.Delete(ctx, b.ID))
	_, err = boards.View(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)
	assert.ErrorIs(t, boards.Delete(ctx, b.ID), ErrBoardNotFound)
}

func TestBoard_AnonymousAndAdminPosts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cat, err := NewCategoryService(db).Create(ctx, "Free", "")
	require.NoError(t, err)
	boards := NewBoardService(db)

	_, err = boards.Create(ctx, nil, model.BoardRequest{Title: "t", Content: "c", CategoryID: cat.ID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "author", ve.Field)

	anon, err := boards.Create(ctx, nil, model.BoardRequest{Title: "t", Content: "c", Author: "guest", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)
	assert.Equal(t, "guest", anon.Author)

	post, err := boards.Create(ctx, admin(t, db), model.BoardRequest{Title: "notice", Content: "c", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.True(t, post.IsAdminPost)

	_, err = boards.Create(ctx, nil, model.BoardRequest{Title: "t", Content: "c", Author: "g", CategoryID: 999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestBoard_SearchAndListing(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cat, err := NewCategoryService(db).Create(ctx, "Study", "")
	require.NoError(t, err)
	boards := NewBoardService(db)
	for _, title := range []string{"spring intro", "Spring deep dive", "go basics"} {
		_, err := boards.Create(ctx, nil, model.BoardRequest{Title: title, Content: "c", Author: "a", CategoryID: cat.ID})
		require.NoError(t, err)
	}

	_, err = boards.Search(ctx, "  ", Window(0, 10))
	assert.Error(t, err)

	page, err := boards.Search(ctx, "spring", Window(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.Equal(t, "spring intro", page.Content[0].Title)

	page, err = boards.List(ctx, Window(0, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)

	page, err = boards.ListByCategory(ctx, cat.ID, Window(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumberOfElements)
	assert.True(t, page.Last)

	_, err = boards.ListByCategory(ctx, 999, Window(0, 10))
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategory_ListCountsBoards(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cats := NewCategoryService(db)
	a, err := cats.Create(ctx, "A", "first")
	require.NoError(t, err)
	_, err = cats.Create(ctx, "B", "")
	require.NoError(t, err)
	_, err = cats.Create(ctx, "A", "again")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	_, err = cats.Create(ctx, "", "")
	assert.Error(t, err)

	_, err = NewBoardService(db).Create(ctx, nil, model.BoardRequest{Title: "t", Content: "c", Author: "x", CategoryID: a.ID})
	require.NoError(t, err)

	list, err := cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 1, list[0].BoardCount)
	assert.EqualValues(t, 0, list[1].BoardCount)

	got, err := cats.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Description)
	_, err = cats.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSurvey_SubmitUpsertsAndStaysComplete(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	ident := register(t, db, "kimdev")
	surveys := NewSurveyService(db)

	partial := model.SurveyRequest{RelationshipToDeceased: model.RelationshipChild, PrivacyAgreement: ptr(true)}
	first, err := surveys.Submit(ctx, ident, partial)
	require.NoError(t, err)
	assert.False(t, first.SurveyCompleted)

	full, err := surveys.Submit(ctx, ident, completeRequest())
	require.NoError(t, err)
	assert.True(t, full.SurveyCompleted)
	assert.Equal(t, first.ID, full.ID)
	assert.Equal(t, "1970-03-15", *full.BirthDate)
	assert.Equal(t, ident.Name, full.UserName)

	again, err := surveys.Submit(ctx, ident, partial)
	require.NoError(t, err)
	assert.True(t, again.SurveyCompleted)
	assert.Nil(t, again.BirthDate)

	var n int64
	require.NoError(t, db.Model(&model.FamilySurvey{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	done, err := surveys.CompletionStatus(ctx, ident)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSurvey_CompletionRule(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.SurveyRequest)
		want   bool
	}{
		{"all answered", func(*model.SurveyRequest) {}, true},
		{"no birth date", func(r *model.SurveyRequest) { r.BirthDate = nil }, false},
		{"blank relationship", func(r *model.SurveyRequest) { r.RelationshipToDeceased = "  " }, false},
		{"meeting unanswered", func(r *model.SurveyRequest) { r.MeetingParticipationDesire = nil }, false},
		{"meeting declined", func(r *model.SurveyRequest) { r.MeetingParticipationDesire = ptr(false) }, true},
		{"privacy refused", func(r *model.SurveyRequest) { r.PrivacyAgreement = ptr(false) }, false},
		{"privacy missing", func(r *model.SurveyRequest) { r.PrivacyAgreement = nil }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := completeRequest()
			tc.mutate(&req)
			assert.Equal(t, tc.want, requiredAnswered(req))
		})
	}
}

func TestSurvey_BadDate(t *testing.T) {
	db := dbtest.Open(t)
	req := completeRequest()
	req.DeathDate = ptr("15/03/2020")
	_, err := NewSurveyService(db).Submit(context.Background(), register(t, db, "u"), req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "deathDate", ve.Field)
}

func TestSurvey_AdminGate(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	member := register(t, db, "kimdev")
	surveys := NewSurveyService(db)

	_, err := surveys.Completed(ctx, member)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = surveys.Statistics(ctx, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = surveys.Mine(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	mine, err := surveys.Mine(ctx, member)
	require.NoError(t, err)
	assert.Nil(t, mine)
}

func TestSurvey_AdminViews(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	boss := admin(t, db)
	surveys := NewSurveyService(db)

	a := register(t, db, "a")
	req := completeRequest()
	req.LivingAlone = ptr(true)
	req.CounselingWillingness = model.CounselingVeryInterested
	req.GriefStage = model.GriefDepression
	_, err := surveys.Submit(ctx, a, req)
	require.NoError(t, err)

	b := register(t, db, "b")
	pending, err := surveys.Submit(ctx, b, model.SurveyRequest{RelationshipToDeceased: model.RelationshipParent})
	require.NoError(t, err)

	list, err := surveys.Completed(ctx, boss)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.Incomplete(ctx, boss)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.LivingAlone(ctx, boss)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.CounselingInterested(ctx, boss)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.MeetingParticipants(ctx, boss)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.ByGriefStage(ctx, boss, model.GriefDepression)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = surveys.ByRelationship(ctx, boss, model.RelationshipParent)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	byUser, err := surveys.ByUser(ctx, boss, b.UserID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, byUser.ID)

	done, err := surveys.Complete(ctx, boss, pending.ID)
	require.NoError(t, err)
	assert.True(t, done.SurveyCompleted)

	report, err := surveys.Statistics(ctx, boss)
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.TotalSurveys)
	assert.EqualValues(t, 2, report.CompletedSurveys)
	assert.Equal(t, report.TotalSurveys, report.CompletedSurveys+report.IncompleteSurveys)

	require.NoError(t, surveys.Delete(ctx, boss, pending.ID))
	assert.ErrorIs(t, surveys.Delete(ctx, boss, pending.ID), ErrSurveyNotFound)
	_, err = surveys.Complete(ctx, boss, pending.ID)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestComputeStatistics(t *testing.T) {
	completed := []model.SurveyProjection{
		{RelationshipToDeceased: model.RelationshipSpouse, GriefStage: model.GriefAnger, FamilySupportLevel: "HIGH",
			PreferredMeetingType: "ONLINE", CounselingWillingness: model.CounselingInterested,
			MeetingParticipationDesire: ptr(true), LivingAlone: ptr(true)},
		{RelationshipToDeceased: model.RelationshipSpouse, CounselingWillingness: model.CounselingNotInterested,
			MeetingParticipationDesire: ptr(false)},
		{RelationshipToDeceased: model.RelationshipChild, GriefStage: model.GriefAnger,
			CounselingWillingness: model.CounselingVeryInterested, LivingAlone: ptr(false)},
	}
	r := ComputeStatistics(5, completed)

	assert.EqualValues(t, 5, r.TotalSurveys)
	assert.EqualValues(t, 3, r.CompletedSurveys)
	assert.EqualValues(t, 2, r.IncompleteSurveys)
	assert.Equal(t, map[string]int64{"SPOUSE": 2, "CHILD": 1}, r.RelationshipStatistics)
	assert.Equal(t, map[string]int64{"ANGER": 2}, r.GriefStageStatistics)
	assert.Equal(t, map[string]int64{"HIGH": 1}, r.FamilySupportLevelStatistics)
	assert.Equal(t, map[string]int64{"ONLINE": 1}, r.PreferredMeetingTypeStatistics)
	assert.EqualValues(t, 1, r.MeetingParticipationDesired)
	assert.EqualValues(t, 2, r.MeetingParticipationNotDesired)
	assert.EqualValues(t, 2, r.CounselingInterested)
	assert.EqualValues(t, 1, r.CounselingNotInterested)
	assert.EqualValues(t, 1, r.LivingAloneCount)
	assert.EqualValues(t, 2, r.LivingWithFamilyCount)

	var relTotal int64
	for _, v := range r.RelationshipStatistics {
		relTotal += v
	}
	assert.LessOrEqual(t, relTotal, r.CompletedSurveys)

	empty := ComputeStatistics(0, nil)
	assert.Empty(t, empty.RelationshipStatistics)
	assert.Zero(t, empty.LivingWithFamilyCount)

	blank := ComputeStatistics(2, []model.SurveyProjection{
		{RelationshipToDeceased: "   ", GriefStage: "\t", FamilySupportLevel: " ", PreferredMeetingType: "  "},
		{RelationshipToDeceased: " SPOUSE ", GriefStage: model.GriefAnger},
	})
	assert.Equal(t, map[string]int64{"SPOUSE": 1}, blank.RelationshipStatistics)
	assert.Equal(t, map[string]int64{"ANGER": 1}, blank.GriefStageStatistics)
	assert.Empty(t, blank.FamilySupportLevelStatistics)
	assert.Empty(t, blank.PreferredMeetingTypeStatistics)
	assert.EqualValues(t, 2, blank.CompletedSurveys)
}

func TestSurvey_BlankAnswersAreNotTallied(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	ident := register(t, db, "kimdev")
	boss := admin(t, db)
	surveys := NewSurveyService(db)

	_, err := surveys.Submit(ctx, ident, completeRequest())
	require.NoError(t, err)

	req := completeRequest()
	req.RelationshipToDeceased = "   "
	req.GriefStage = "  "
	req.FamilySupportLevel = " HIGH "
	again, err := surveys.Submit(ctx, ident, req)
	require.NoError(t, err)
	assert.True(t, again.SurveyCompleted)
	assert.Empty(t, again.RelationshipToDeceased)
	assert.Equal(t, "HIGH", again.FamilySupportLevel)

	report, err := surveys.Statistics(ctx, boss)
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.CompletedSurveys)
	assert.Zero(t, report.IncompleteSurveys)
	assert.Empty(t, report.RelationshipStatistics)
	assert.Empty(t, report.GriefStageStatistics)
	assert.Equal(t, map[string]int64{"HIGH": 1}, report.FamilySupportLevelStatistics)
}

func TestConcurrentDuplicatesMapToDomainErrors(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	auth := NewAuthService(db)
	cats := NewCategoryService(db)
	surveys := NewSurveyService(db)
	ident := register(t, db, "kimdev")

	const n = 8
	userErrs := make([]error, n)
	catErrs := make([]error, n)
	surveyErrs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, userErrs[i] = auth.Register(ctx, model.RegisterRequest{Username: "leecoding", Password: "pw", Name: "Lee"})
			_, catErrs[i] = cats.Create(ctx, "Free", "")
			_, surveyErrs[i] = surveys.Submit(ctx, ident, completeRequest())
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range userErrs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	}
	assert.Equal(t, 1, created)

	created = 0
	for _, err := range catErrs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateCategory)
	}
	assert.Equal(t, 1, created)

	for _, err := range surveyErrs {
		assert.NoError(t, err)
	}
	var rows int64
	require.NoError(t, db.Model(&model.FamilySurvey{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestDuplicateInsertIsTranslated(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&model.Category{Name: "Free"}).Error)
	err := db.Create(&model.Category{Name: "Free"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSurvey_Export(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	surveys := NewSurveyService(db)
	member := register(t, db, "kimdev")
	_, err := surveys.Submit(ctx, member, completeRequest())
	require.NoError(t, err)

	_, err = surveys.Export(ctx, member)
	assert.ErrorIs(t, err, ErrForbidden)

	data, err := surveys.Export(ctx, admin(t, db))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "kimdev name", rows[1][2])
	assert.Equal(t, "SPOUSE", rows[1][8])
}
