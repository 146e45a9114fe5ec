package model

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

// Board is a single forum post. UserID is nil for anonymous posts.
type Board struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Author      string    `gorm:"size:50;not null" json:"author"`
	UserID      *uint     `gorm:"index" json:"userId"`
	CategoryID  uint      `gorm:"not null;index" json:"categoryId"`
	IsAdminPost bool      `gorm:"not null;default:false" json:"isAdminPost"`
	ViewCount   int       `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FamilySurvey is the bereaved-family intake form. At most one row per user.
type FamilySurvey struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`

	BirthDate   *time.Time `gorm:"type:date"`
	Gender      string     `gorm:"size:20"`
	PhoneNumber string     `gorm:"size:30"`
	Address     string     `gorm:"size:255"`

	RelationshipToDeceased  string `gorm:"size:20;index"`
	RelationshipDescription string `gorm:"size:255"`

	DeceasedName string `gorm:"size:50"`
	DeceasedAge  *int
	DeathDate    *time.Time `gorm:"type:date"`
	CauseOfDeath string     `gorm:"size:255"`

	CurrentFamilyMembers string `gorm:"size:255"`
	LivingAlone          *bool
	FamilySupportLevel   string `gorm:"size:20"`

	GriefStage            string `gorm:"size:20"`
	CounselingExperience  *bool
	CounselingWillingness string `gorm:"size:20"`

	MeetingParticipationDesire *bool
	PreferredMeetingType       string `gorm:"size:20"`
	PreferredMeetingTime       string `gorm:"size:20"`
	SupportNeeds               string `gorm:"type:text"`

	AdditionalNotes  string `gorm:"type:text"`
	PrivacyAgreement *bool

	SurveyCompleted bool `gorm:"not null;default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Session is the server-side half of a login; the cookie only carries its ID.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (User) TableName() string         { return "users" }
func (Category) TableName() string     { return "categories" }
func (Board) TableName() string        { return "boards" }
func (FamilySurvey) TableName() string { return "family_surveys" }
func (Session) TableName() string      { return "sessions" }

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{&User{}, &Category{}, &Board{}, &FamilySurvey{}, &Session{}}
}

const (
	RelationshipSpouse  = "SPOUSE"
	RelationshipChild   = "CHILD"
	RelationshipParent  = "PARENT"
	RelationshipSibling = "SIBLING"
	RelationshipOther   = "OTHER"

	GriefDenial     = "DENIAL"
	GriefAnger      = "ANGER"
	GriefBargaining = "BARGAINING"
	GriefDepression = "DEPRESSION"
	GriefAcceptance = "ACCEPTANCE"

	CounselingVeryInterested = "VERY_INTERESTED"
	CounselingInterested     = "INTERESTED"
	CounselingNeutral        = "NEUTRAL"
	CounselingNotInterested  = "NOT_INTERESTED"
)

// CounselingInterestLevels are the willingness values that count as interest.
var CounselingInterestLevels = []string{CounselingVeryInterested, CounselingInterested}
