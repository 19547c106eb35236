package domain

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// RawEvent is a raw PostHog interaction event with its JSON-encoded
// properties payload.
type RawEvent struct {
	DistinctID string    `bigquery:"distinct_id"`
	Event      string    `bigquery:"event"`
	Timestamp  time.Time `bigquery:"timestamp"`
	Properties string    `bigquery:"properties"`
}

// SessionMeta is the PostHog session metadata row keyed by
// (session_id, distinct_id).
type SessionMeta struct {
	SessionID        string                 `bigquery:"session_id"`
	DistinctID       string                 `bigquery:"distinct_id"`
	StartTimestamp   bigquery.NullTimestamp `bigquery:"start_timestamp"`
	EndTimestamp     bigquery.NullTimestamp `bigquery:"end_timestamp"`
	SessionDuration  bigquery.NullFloat64   `bigquery:"session_duration"`
	AutocaptureCount bigquery.NullInt64     `bigquery:"autocapture_count"`
	ScreenCount      bigquery.NullInt64     `bigquery:"screen_count"`
}

// User is a raw user record. The raw source is not unique per natural
// identity; multiple records may share a phone number.
type User struct {
	UserID               string                 `bigquery:"user_id"`
	PhoneNumber          bigquery.NullString    `bigquery:"phoneNumber"`
	FullName             bigquery.NullString    `bigquery:"fullName"`
	Username             bigquery.NullString    `bigquery:"username"`
	Email                bigquery.NullString    `bigquery:"email"`
	CreatedAt            bigquery.NullTimestamp `bigquery:"createdAt"`
	ContactAccessGranted bigquery.NullBool      `bigquery:"contactAccessGranted"`
	BusinessUser         bigquery.NullBool      `bigquery:"businessUser"`
	City                 bigquery.NullString    `bigquery:"city"`
	Country              bigquery.NullString    `bigquery:"country"`
}

// CreatedEvent is one row of the events-created source.
type CreatedEvent struct {
	UserID    string    `bigquery:"user_id"`
	CreatedAt time.Time `bigquery:"createdAt"`
}

// Invite status vocabulary. The status set is closed; unknown statuses are
// ignored rather than pivoted into dynamic columns.
const (
	InviteStatusAccepted = "accepted"
	InviteStatusInvited  = "invited"
	InviteStatusRejected = "rejected"
)

// UserInvite is one row of the user-invites source.
type UserInvite struct {
	UserID    string    `bigquery:"user_id"`
	CreatedAt time.Time `bigquery:"createdAt"`
	Status    string    `bigquery:"status"`
}

// SessionRecord is one row of the sessions_aggregated output table: a session
// with its behavioral flags joined with the resolved user identity.
type SessionRecord struct {
	SessionID            string                 `json:"session_id"`
	DistinctID           string                 `json:"distinct_id"`
	City                 bigquery.NullString    `json:"city"`
	Country              bigquery.NullString    `json:"country"`
	CreatedEvent         bool                   `json:"created_event"`
	ViewedEvent          bool                   `json:"viewed_event"`
	JoinedEvent          bool                   `json:"joined_event"`
	InvitedSomeone       bool                   `json:"invited_someone"`
	EnabledContacts      bool                   `json:"enabled_contacts"`
	Scrolled             bool                   `json:"scrolled"`
	VisitedDiscover      bool                   `json:"visited_discover"`
	ScrollEventCount     int64                  `json:"scroll_event_count"`
	StartedQuiz          bool                   `json:"started_quiz"`
	CompletedQuiz        bool                   `json:"completed_quiz"`
	StartTimestamp       bigquery.NullTimestamp `json:"start_timestamp"`
	EndTimestamp         bigquery.NullTimestamp `json:"end_timestamp"`
	AutocaptureCount     bigquery.NullInt64     `json:"autocapture_count"`
	ScreenCount          bigquery.NullInt64     `json:"screen_count"`
	SessionDuration      bigquery.NullFloat64   `json:"session_duration"`
	UserID               string                 `json:"user_id"`
	FullName             bigquery.NullString    `json:"fullName"`
	PhoneNumber          bigquery.NullString    `json:"phoneNumber"`
	Username             bigquery.NullString    `json:"username"`
	Email                bigquery.NullString    `json:"email"`
	ContactAccessGranted bool                   `json:"contactAccessGranted"`
	BusinessUser         bool                   `json:"businessUser"`
	CreatedAt            bigquery.NullTimestamp `json:"createdAt"`
	EtlLoadedAt          time.Time              `json:"etl_loaded_at"`
}

// PeopleRecord is one row of the people_aggregated output table: user-level
// aggregation over that user's sessions.
type PeopleRecord struct {
	UserID                   string                 `json:"user_id"`
	TotalSessions            int64                  `json:"total_sessions"`
	AvgSessionDuration       bigquery.NullFloat64   `json:"avg_session_duration"`
	MedianSessionDuration    bigquery.NullFloat64   `json:"median_session_duration"`
	TotalSessionDuration     bigquery.NullFloat64   `json:"total_session_duration"`
	MinSessionDuration       bigquery.NullFloat64   `json:"min_session_duration"`
	MaxSessionDuration       bigquery.NullFloat64   `json:"max_session_duration"`
	StdSessionDuration       bigquery.NullFloat64   `json:"std_session_duration"`
	CreatedEventSum          int64                  `json:"created_event_sum"`
	ViewedEventSum           int64                  `json:"viewed_event_sum"`
	JoinedEventSum           int64                  `json:"joined_event_sum"`
	InvitedSomeoneSum        int64                  `json:"invited_someone_sum"`
	EnabledContactsSum       int64                  `json:"enabled_contacts_sum"`
	ScrolledSum              int64                  `json:"scrolled_sum"`
	VisitedDiscoverSum       int64                  `json:"visited_discover_sum"`
	StartedQuizSum           int64                  `json:"started_quiz_sum"`
	CompletedQuizSum         int64                  `json:"completed_quiz_sum"`
	TotalScrolls             int64                  `json:"total_scrolls"`
	AvgScrollsPerSession     bigquery.NullFloat64   `json:"avg_scrolls_per_session"`
	MaxScrollsPerSession     bigquery.NullInt64     `json:"max_scrolls_per_session"`
	TotalAutocaptures        bigquery.NullInt64     `json:"total_autocaptures"`
	AvgAutocapturesPerSession bigquery.NullFloat64  `json:"avg_autocaptures_per_session"`
	MaxAutocapturesPerSession bigquery.NullInt64    `json:"max_autocaptures_per_session"`
	TotalScreens             bigquery.NullInt64     `json:"total_screens"`
	AvgScreensPerSession     bigquery.NullFloat64   `json:"avg_screens_per_session"`
	MaxScreensPerSession     bigquery.NullInt64     `json:"max_screens_per_session"`
	FirstSessionDate         bigquery.NullTimestamp `json:"first_session_date"`
	LastSessionDate          bigquery.NullTimestamp `json:"last_session_date"`
	FullName                 bigquery.NullString    `json:"fullName"`
	PhoneNumber              bigquery.NullString    `json:"phoneNumber"`
	Username                 bigquery.NullString    `json:"username"`
	Email                    bigquery.NullString    `json:"email"`
	ContactAccessGranted     bool                   `json:"contactAccessGranted"`
	BusinessUser             bool                   `json:"businessUser"`
	CreatedAt                bigquery.NullTimestamp `json:"createdAt"`
	City                     bigquery.NullString    `json:"city"`
	Country                  bigquery.NullString    `json:"country"`
	DaysSinceFirstSession    bigquery.NullFloat64   `json:"days_since_first_session"`
	SessionsPerDay           bigquery.NullFloat64   `json:"sessions_per_day"`
	EngagementScore          bigquery.NullFloat64   `json:"engagement_score"`
	EtlLoadedAt              time.Time              `json:"etl_loaded_at"`
}

// DailyActivityRow is one row of the user_daily_activity output table. For a
// given user, rows cover every calendar date from the user's start date
// through the run's end date; counts are zero, never null, on idle days.
type DailyActivityRow struct {
	UserID             string                 `json:"user_id"`
	Date               civil.Date             `json:"date"`
	EventCount         int64                  `json:"event_count"`
	EventsCreatedCount int64                  `json:"events_created_count"`
	Accepted           int64                  `json:"accepted"`
	Invited            int64                  `json:"invited"`
	Rejected           int64                  `json:"rejected"`
	CreatedAt          bigquery.NullTimestamp `json:"createdAt"`
	PhoneNumber        bigquery.NullString    `json:"phoneNumber"`
	FullName           bigquery.NullString    `json:"fullName"`
	Username           bigquery.NullString    `json:"username"`
	Email              bigquery.NullString    `json:"email"`
}

// Churn lifecycle states.
const (
	ChurnStateNeverActive = "never_active"
	ChurnStateActive      = "active"
	ChurnStateChurned     = "churned"
	ChurnStateReactivated = "reactivated"
)

// ChurnStateRecord is one row of the user_churn_state output table. App and
// business activity are tracked as independent dimensions.
type ChurnStateRecord struct {
	UserID                   string             `json:"user_id"`
	AppChurnState            string             `json:"app_churn_state"`
	AppChurnDate             bigquery.NullDate  `json:"app_churn_date"`
	AppTimesChurned          int64              `json:"app_times_churned"`
	DaysSinceLastAppActivity bigquery.NullInt64 `json:"days_since_last_app_activity"`
	FirstAppActiveDate       bigquery.NullDate  `json:"first_app_active_date"`
	LastAppActiveDate        bigquery.NullDate  `json:"last_app_active_date"`
	BizChurnState            string             `json:"biz_churn_state"`
	BizChurnDate             bigquery.NullDate  `json:"biz_churn_date"`
	BizTimesChurned          int64              `json:"biz_times_churned"`
	DaysSinceLastBizActivity bigquery.NullInt64 `json:"days_since_last_biz_activity"`
	FirstBizActiveDate       bigquery.NullDate  `json:"first_biz_active_date"`
	LastBizActiveDate        bigquery.NullDate  `json:"last_biz_active_date"`
	TotalEventsCreated       int64              `json:"total_events_created"`
	TotalEventsAttended      int64              `json:"total_events_attended"`
	TotalAppInteractions     int64              `json:"total_app_interactions"`
}
