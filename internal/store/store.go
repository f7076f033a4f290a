// ABOUTME: Store interface and data types for convene persistence
// ABOUTME: Defines User, Event, Question structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
var ErrDuplicate = errors.New("already exists")

// Role represents the access level of a user
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSpeaker       Role = "speaker"
	RoleAttendee      Role = "attendee"
)

// ValidRoles lists all valid role values
var ValidRoles = []Role{
	RoleAdministrator,
	RoleSpeaker,
	RoleAttendee,
}

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents a registered user. PasswordHash is a bcrypt hash and must
// never be serialized into API responses.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Event represents a conference event
type Event struct {
	ID          int64
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	CreatedBy   *int64
	CoverID     *int64
	// Recommended is set by ListEvents when the viewer shares an interest
	// with the event. It is not a stored column.
	Recommended bool
}

// EventFilter narrows ListEvents results. Zero values mean "no filter".
type EventFilter struct {
	InterestID int64
	Title      string
	Location   string
	Date       string // YYYY-MM-DD, matches the event start date
	Page       int
	PageSize   int
	// ViewerID, when non-zero, computes the Recommended flag against that
	// user's interests.
	ViewerID int64
}

// Interest is a topic tag that can be attached to users and events
type Interest struct {
	ID   int64
	Name string
}

// Speaker represents a conference speaker profile
type Speaker struct {
	ID   int64
	Name string
}

// Question is an attendee question about an event
type Question struct {
	ID      int64
	EventID int64
	UserID  int64
	AskedBy string // username, populated by joins
	Text    string
	AskedOn time.Time
}

// Answer is a speaker answer to a question
type Answer struct {
	ID         int64
	QuestionID int64
	UserID     int64
	AnsweredBy string // username, populated by joins
	Text       string
	AnsweredOn time.Time
}

// QuestionWithAnswers pairs a question with its answers for the joined view
type QuestionWithAnswers struct {
	Question Question
	Answers  []Answer
}

// RatingSummary aggregates event ratings
type RatingSummary struct {
	Average float64
	Count   int64
}

// Attachment is a file stored against an event. Content is only loaded by
// GetAttachment; listing operations leave it nil.
type Attachment struct {
	ID         int64
	EventID    int64
	FileName   string
	MimeType   string
	FileSize   int64
	Content    []byte
	UploadedOn time.Time
}

// EventAttendance is a row in the attendance report
type EventAttendance struct {
	Title         string
	AttendeeCount int64
}

// MonthlySignups is a row in the platform performance report
type MonthlySignups struct {
	Month   string // YYYY-MM
	Signups int64
}

// EventContext is the denormalized event view fed to the chat assistant
type EventContext struct {
	Event     Event
	Interests []string
	Questions []QuestionWithAnswers
}

// Store defines the interface for convene persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id int64, username, email, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// Events
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id int64) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, upd *EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, int, error)
	SetEventCover(ctx context.Context, eventID, attachmentID int64) error

	// Enrollment
	Enroll(ctx context.Context, userID, eventID int64) error
	Unenroll(ctx context.Context, userID, eventID int64) error
	IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error)
	ListEnrolledEvents(ctx context.Context, userID int64) ([]*Event, error)

	// Interests
	CreateInterest(ctx context.Context, name string) (int64, error)
	UpdateInterest(ctx context.Context, id int64, name string) (*Interest, error)
	DeleteInterest(ctx context.Context, id int64) error
	ListInterests(ctx context.Context) ([]*Interest, error)
	AddUserInterest(ctx context.Context, userID, interestID int64) error
	RemoveUserInterest(ctx context.Context, userID, interestID int64) error
	ListUserInterests(ctx context.Context, userID int64) ([]int64, error)
	AddEventInterest(ctx context.Context, eventID, interestID int64) error
	RemoveEventInterest(ctx context.Context, eventID, interestID int64) error
	ListEventInterests(ctx context.Context, eventID int64) ([]*Interest, error)

	// Speakers
	CreateSpeaker(ctx context.Context, name string) (int64, error)
	DeleteSpeaker(ctx context.Context, id int64) error
	ListSpeakers(ctx context.Context) ([]*Speaker, error)

	// Q&A and ratings
	CreateQuestion(ctx context.Context, eventID, userID int64, text string) (*Question, error)
	CreateAnswer(ctx context.Context, questionID, userID int64, text string) (*Answer, error)
	ListQuestionsByEvent(ctx context.Context, eventID int64) ([]*Question, error)
	ListAnswersByQuestion(ctx context.Context, questionID int64) ([]*Answer, error)
	ListQuestionsWithAnswers(ctx context.Context, eventID int64) ([]*QuestionWithAnswers, error)
	UpsertRating(ctx context.Context, eventID, userID int64, rating int) error
	GetRatingSummary(ctx context.Context, eventID int64) (*RatingSummary, error)
	GetUserRating(ctx context.Context, eventID, userID int64) (int, error)

	// Attachments
	CreateAttachment(ctx context.Context, a *Attachment) error
	GetAttachment(ctx context.Context, id int64) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error
	ListAttachmentsByEvent(ctx context.Context, eventID int64) ([]*Attachment, error)

	// Reports
	EventAttendanceReport(ctx context.Context) ([]*EventAttendance, error)
	MonthlySignupsReport(ctx context.Context) ([]*MonthlySignups, error)

	// Chat assistant context
	FetchEventContext(ctx context.Context) ([]*EventContext, error)

	Close() error
}

// EventUpdate carries the mutable event fields for UpdateEvent. Nil fields
// keep their current value.
type EventUpdate struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
}
