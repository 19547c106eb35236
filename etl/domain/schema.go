package domain

import "cloud.google.com/go/bigquery"

// Destination table names.
const (
	TableSessionsAggregated = "sessions_aggregated"
	TablePeopleAggregated   = "people_aggregated"
	TableUserDailyActivity  = "user_daily_activity"
	TableUserChurnState     = "user_churn_state"
)

// SessionsAggregatedSchema is the schema of the sessions_aggregated table.
var SessionsAggregatedSchema = bigquery.Schema{
	{Name: "session_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "distinct_id", Type: bigquery.StringFieldType},
	{Name: "city", Type: bigquery.StringFieldType},
	{Name: "country", Type: bigquery.StringFieldType},
	{Name: "created_event", Type: bigquery.BooleanFieldType},
	{Name: "viewed_event", Type: bigquery.BooleanFieldType},
	{Name: "joined_event", Type: bigquery.BooleanFieldType},
	{Name: "invited_someone", Type: bigquery.BooleanFieldType},
	{Name: "enabled_contacts", Type: bigquery.BooleanFieldType},
	{Name: "scrolled", Type: bigquery.BooleanFieldType},
	{Name: "visited_discover", Type: bigquery.BooleanFieldType},
	{Name: "scroll_event_count", Type: bigquery.IntegerFieldType},
	{Name: "started_quiz", Type: bigquery.BooleanFieldType},
	{Name: "completed_quiz", Type: bigquery.BooleanFieldType},
	{Name: "start_timestamp", Type: bigquery.TimestampFieldType},
	{Name: "end_timestamp", Type: bigquery.TimestampFieldType},
	{Name: "autocapture_count", Type: bigquery.IntegerFieldType},
	{Name: "screen_count", Type: bigquery.IntegerFieldType},
	{Name: "session_duration", Type: bigquery.FloatFieldType},
	{Name: "user_id", Type: bigquery.StringFieldType},
	{Name: "fullName", Type: bigquery.StringFieldType},
	{Name: "phoneNumber", Type: bigquery.StringFieldType},
	{Name: "username", Type: bigquery.StringFieldType},
	{Name: "email", Type: bigquery.StringFieldType},
	{Name: "contactAccessGranted", Type: bigquery.BooleanFieldType},
	{Name: "businessUser", Type: bigquery.BooleanFieldType},
	{Name: "createdAt", Type: bigquery.TimestampFieldType},
	{Name: "etl_loaded_at", Type: bigquery.TimestampFieldType},
}

// PeopleAggregatedSchema is the schema of the people_aggregated table.
var PeopleAggregatedSchema = bigquery.Schema{
	{Name: "user_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "total_sessions", Type: bigquery.IntegerFieldType},
	{Name: "avg_session_duration", Type: bigquery.FloatFieldType},
	{Name: "median_session_duration", Type: bigquery.FloatFieldType},
	{Name: "total_session_duration", Type: bigquery.FloatFieldType},
	{Name: "min_session_duration", Type: bigquery.FloatFieldType},
	{Name: "max_session_duration", Type: bigquery.FloatFieldType},
	{Name: "std_session_duration", Type: bigquery.FloatFieldType},
	{Name: "created_event_sum", Type: bigquery.IntegerFieldType},
	{Name: "viewed_event_sum", Type: bigquery.IntegerFieldType},
	{Name: "joined_event_sum", Type: bigquery.IntegerFieldType},
	{Name: "invited_someone_sum", Type: bigquery.IntegerFieldType},
	{Name: "enabled_contacts_sum", Type: bigquery.IntegerFieldType},
	{Name: "scrolled_sum", Type: bigquery.IntegerFieldType},
	{Name: "visited_discover_sum", Type: bigquery.IntegerFieldType},
	{Name: "started_quiz_sum", Type: bigquery.IntegerFieldType},
	{Name: "completed_quiz_sum", Type: bigquery.IntegerFieldType},
	{Name: "total_scrolls", Type: bigquery.IntegerFieldType},
	{Name: "avg_scrolls_per_session", Type: bigquery.FloatFieldType},
	{Name: "max_scrolls_per_session", Type: bigquery.IntegerFieldType},
	{Name: "total_autocaptures", Type: bigquery.IntegerFieldType},
	{Name: "avg_autocaptures_per_session", Type: bigquery.FloatFieldType},
	{Name: "max_autocaptures_per_session", Type: bigquery.IntegerFieldType},
	{Name: "total_screens", Type: bigquery.IntegerFieldType},
	{Name: "avg_screens_per_session", Type: bigquery.FloatFieldType},
	{Name: "max_screens_per_session", Type: bigquery.IntegerFieldType},
	{Name: "first_session_date", Type: bigquery.TimestampFieldType},
	{Name: "last_session_date", Type: bigquery.TimestampFieldType},
	{Name: "fullName", Type: bigquery.StringFieldType},
	{Name: "phoneNumber", Type: bigquery.StringFieldType},
	{Name: "username", Type: bigquery.StringFieldType},
	{Name: "email", Type: bigquery.StringFieldType},
	{Name: "contactAccessGranted", Type: bigquery.BooleanFieldType},
	{Name: "businessUser", Type: bigquery.BooleanFieldType},
	{Name: "createdAt", Type: bigquery.TimestampFieldType},
	{Name: "city", Type: bigquery.StringFieldType},
	{Name: "country", Type: bigquery.StringFieldType},
	{Name: "days_since_first_session", Type: bigquery.FloatFieldType},
	{Name: "sessions_per_day", Type: bigquery.FloatFieldType},
	{Name: "engagement_score", Type: bigquery.FloatFieldType},
	{Name: "etl_loaded_at", Type: bigquery.TimestampFieldType},
}

// UserDailyActivitySchema is the schema of the user_daily_activity table.
var UserDailyActivitySchema = bigquery.Schema{
	{Name: "user_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "date", Type: bigquery.DateFieldType, Required: true},
	{Name: "event_count", Type: bigquery.IntegerFieldType},
	{Name: "events_created_count", Type: bigquery.IntegerFieldType},
	{Name: "accepted", Type: bigquery.IntegerFieldType},
	{Name: "invited", Type: bigquery.IntegerFieldType},
	{Name: "rejected", Type: bigquery.IntegerFieldType},
	{Name: "createdAt", Type: bigquery.TimestampFieldType},
	{Name: "phoneNumber", Type: bigquery.StringFieldType},
	{Name: "fullName", Type: bigquery.StringFieldType},
	{Name: "username", Type: bigquery.StringFieldType},
	{Name: "email", Type: bigquery.StringFieldType},
}

// UserChurnStateSchema is the schema of the user_churn_state table.
var UserChurnStateSchema = bigquery.Schema{
	{Name: "user_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "app_churn_state", Type: bigquery.StringFieldType},
	{Name: "app_churn_date", Type: bigquery.DateFieldType},
	{Name: "app_times_churned", Type: bigquery.IntegerFieldType},
	{Name: "days_since_last_app_activity", Type: bigquery.IntegerFieldType},
	{Name: "first_app_active_date", Type: bigquery.DateFieldType},
	{Name: "last_app_active_date", Type: bigquery.DateFieldType},
	{Name: "biz_churn_state", Type: bigquery.StringFieldType},
	{Name: "biz_churn_date", Type: bigquery.DateFieldType},
	{Name: "biz_times_churned", Type: bigquery.IntegerFieldType},
	{Name: "days_since_last_biz_activity", Type: bigquery.IntegerFieldType},
	{Name: "first_biz_active_date", Type: bigquery.DateFieldType},
	{Name: "last_biz_active_date", Type: bigquery.DateFieldType},
	{Name: "total_events_created", Type: bigquery.IntegerFieldType},
	{Name: "total_events_attended", Type: bigquery.IntegerFieldType},
	{Name: "total_app_interactions", Type: bigquery.IntegerFieldType},
}
