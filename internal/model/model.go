package model

import "time"

// Response is the envelope every API endpoint replies with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Identity is the caller resolved from the session cookie for a single request.
type Identity struct {
	UserID    uint
	Username  string
	Name      string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}

func NewIdentity(u *User) *Identity {
	return &Identity{
		UserID:    u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func UserResponseFrom(id *Identity) UserResponse {
	return UserResponse{
		ID:        id.UserID,
		Username:  id.Username,
		Name:      id.Name,
		Email:     id.Email,
		IsAdmin:   id.IsAdmin,
		CreatedAt: id.CreatedAt,
	}
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardCount  int64  `json:"boardCount"`
}

type BoardRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Author     string `json:"author"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

type BoardResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	UserID       *uint     `json:"userId"`
	CategoryID   uint      `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ViewCount    int       `json:"viewCount"`
	IsAdminPost  bool      `json:"isAdminPost"`
}

// Page is one 0-indexed slice of an ordered result set.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:          content,
		Number:           page,
		Size:             size,
		TotalElements:    total,
		TotalPages:       pages,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page+1 >= pages,
		Empty:            len(content) == 0,
	}
}

// SurveyRequest is a full replacement of the survey fields. Absent values
// clear whatever was stored before. Dates use YYYY-MM-DD.
type SurveyRequest struct {
	BirthDate   *string `json:"birthDate"`
	Gender      string  `json:"gender"`
	PhoneNumber string  `json:"phoneNumber"`
	Address     string  `json:"address"`

	RelationshipToDeceased  string `json:"relationshipToDeceased"`
	RelationshipDescription string `json:"relationshipDescription"`

	DeceasedName string  `json:"deceasedName"`
	DeceasedAge  *int    `json:"deceasedAge"`
	DeathDate    *string `json:"deathDate"`
	CauseOfDeath string  `json:"causeOfDeath"`

	CurrentFamilyMembers string `json:"currentFamilyMembers"`
	LivingAlone          *bool  `json:"livingAlone"`
	FamilySupportLevel   string `json:"familySupportLevel"`

	GriefStage            string `json:"griefStage"`
	CounselingExperience  *bool  `json:"counselingExperience"`
	CounselingWillingness string `json:"counselingWillingness"`

	MeetingParticipationDesire *bool  `json:"meetingParticipationDesire"`
	PreferredMeetingType       string `json:"preferredMeetingType"`
	PreferredMeetingTime       string `json:"preferredMeetingTime"`
	SupportNeeds               string `json:"supportNeeds"`

	AdditionalNotes  string `json:"additionalNotes"`
	PrivacyAgreement *bool  `json:"privacyAgreement"`
}

type SurveyResponse struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`

	BirthDate   *string `json:"birthDate"`
	Gender      string  `json:"gender"`
	PhoneNumber string  `json:"phoneNumber"`
	Address     string  `json:"address"`

	RelationshipToDeceased  string `json:"relationshipToDeceased"`
	RelationshipDescription string `json:"relationshipDescription"`

	DeceasedName string  `json:"deceasedName"`
	DeceasedAge  *int    `json:"deceasedAge"`
	DeathDate    *string `json:"deathDate"`
	CauseOfDeath string  `json:"causeOfDeath"`

	CurrentFamilyMembers string `json:"currentFamilyMembers"`
	LivingAlone          *bool  `json:"livingAlone"`
	FamilySupportLevel   string `json:"familySupportLevel"`

	GriefStage            string `json:"griefStage"`
	CounselingExperience  *bool  `json:"counselingExperience"`
	CounselingWillingness string `json:"counselingWillingness"`

	MeetingParticipationDesire *bool  `json:"meetingParticipationDesire"`
	PreferredMeetingType       string `json:"preferredMeetingType"`
	PreferredMeetingTime       string `json:"preferredMeetingTime"`
	SupportNeeds               string `json:"supportNeeds"`

	AdditionalNotes  string `json:"additionalNotes"`
	PrivacyAgreement *bool  `json:"privacyAgreement"`
	SurveyCompleted  bool   `json:"surveyCompleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SurveyProjection is the slice of a completed survey that statistics need.
type SurveyProjection struct {
	RelationshipToDeceased     string
	GriefStage                 string
	FamilySupportLevel         string
	PreferredMeetingType       string
	CounselingWillingness      string
	MeetingParticipationDesire *bool
	LivingAlone                *bool
}

type StatisticsReport struct {
	TotalSurveys      int64 `json:"totalSurveys"`
	CompletedSurveys  int64 `json:"completedSurveys"`
	IncompleteSurveys int64 `json:"incompleteSurveys"`

	RelationshipStatistics         map[string]int64 `json:"relationshipStatistics"`
	GriefStageStatistics           map[string]int64 `json:"griefStageStatistics"`
	FamilySupportLevelStatistics   map[string]int64 `json:"familySupportLevelStatistics"`
	PreferredMeetingTypeStatistics map[string]int64 `json:"preferredMeetingTypeStatistics"`

	MeetingParticipationDesired    int64 `json:"meetingParticipationDesired"`
	MeetingParticipationNotDesired int64 `json:"meetingParticipationNotDesired"`

	CounselingInterested    int64 `json:"counselingInterested"`
	CounselingNotInterested int64 `json:"counselingNotInterested"`

	LivingAloneCount      int64 `json:"livingAloneCount"`
	LivingWithFamilyCount int64 `json:"livingWithFamilyCount"`
}
