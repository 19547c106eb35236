package people

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon841/posthog-etl/etl/domain"
)

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}

	return t
}

func TestAggregateDurationStatistics(t *testing.T) {
	loadedAt := at("2026-08-01T00:00:00Z")

	sessions := []domain.SessionRecord{
		{UserID: "u1", SessionID: "s1", SessionDuration: domain.NullFloat64Of(100)},
		{UserID: "u1", SessionID: "s2", SessionDuration: domain.NullFloat64Of(200)},
		{UserID: "u1", SessionID: "s3", SessionDuration: domain.NullFloat64Of(300)},
		{UserID: "u1", SessionID: "s4"},
	}

	records := Aggregate(sessions, loadedAt)

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(4), rec.TotalSessions)
	assert.Equal(t, float64(200), rec.AvgSessionDuration.Float64)
	assert.Equal(t, float64(200), rec.MedianSessionDuration.Float64)
	assert.Equal(t, float64(600), rec.TotalSessionDuration.Float64)
	assert.Equal(t, float64(100), rec.MinSessionDuration.Float64)
	assert.Equal(t, float64(300), rec.MaxSessionDuration.Float64)
	assert.InDelta(t, 100.0, rec.StdSessionDuration.Float64, 1e-9)
	assert.Equal(t, loadedAt, rec.EtlLoadedAt)
}

func TestAggregateMedianEvenCount(t *testing.T) {
	sessions := []domain.SessionRecord{
		{UserID: "u1", SessionDuration: domain.NullFloat64Of(100)},
		{UserID: "u1", SessionDuration: domain.NullFloat64Of(400)},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)
	assert.Equal(t, float64(250), records[0].MedianSessionDuration.Float64)
}

func TestAggregateSingleSessionHasNoStdDev(t *testing.T) {
	sessions := []domain.SessionRecord{
		{UserID: "u1", SessionDuration: domain.NullFloat64Of(100)},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)
	assert.False(t, records[0].StdSessionDuration.Valid)
}

func TestAggregateNoDurations(t *testing.T) {
	sessions := []domain.SessionRecord{
		{UserID: "u1"},
		{UserID: "u1"},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	assert.False(t, rec.AvgSessionDuration.Valid)
	assert.False(t, rec.MinSessionDuration.Valid)
	require.True(t, rec.TotalSessionDuration.Valid)
	assert.Equal(t, float64(0), rec.TotalSessionDuration.Float64)
}

func TestAggregateFlagSumsAndEngagement(t *testing.T) {
	sessions := []domain.SessionRecord{
		{UserID: "u1", CreatedEvent: true, ViewedEvent: true, Scrolled: true},
		{UserID: "u1", JoinedEvent: true},
		{UserID: "u1", EnabledContacts: true, VisitedDiscover: true, StartedQuiz: true, CompletedQuiz: true, InvitedSomeone: true},
		{UserID: "u1"},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(1), rec.CreatedEventSum)
	assert.Equal(t, int64(1), rec.ViewedEventSum)
	assert.Equal(t, int64(1), rec.JoinedEventSum)
	assert.Equal(t, int64(1), rec.InvitedSomeoneSum)
	assert.Equal(t, int64(1), rec.EnabledContactsSum)
	assert.Equal(t, int64(1), rec.ScrolledSum)
	assert.Equal(t, int64(1), rec.VisitedDiscoverSum)
	assert.Equal(t, int64(1), rec.StartedQuizSum)
	assert.Equal(t, int64(1), rec.CompletedQuizSum)

	// created + viewed + joined + scrolled over four sessions.
	assert.Equal(t, float64(1), rec.EngagementScore.Float64)
}

func TestAggregateActivityCounters(t *testing.T) {
	sessions := []domain.SessionRecord{
		{
			UserID:           "u1",
			ScrollEventCount: 4,
			AutocaptureCount: domain.NullInt64Of(10),
			ScreenCount:      domain.NullInt64Of(3),
		},
		{
			UserID:           "u1",
			ScrollEventCount: 8,
			AutocaptureCount: domain.NullInt64Of(20),
		},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(12), rec.TotalScrolls)
	assert.Equal(t, float64(6), rec.AvgScrollsPerSession.Float64)
	assert.Equal(t, int64(8), rec.MaxScrollsPerSession.Int64)

	assert.Equal(t, int64(30), rec.TotalAutocaptures.Int64)
	assert.Equal(t, float64(15), rec.AvgAutocapturesPerSession.Float64)
	assert.Equal(t, int64(20), rec.MaxAutocapturesPerSession.Int64)

	// Screen count was present on one session only.
	assert.Equal(t, int64(3), rec.TotalScreens.Int64)
	assert.Equal(t, float64(3), rec.AvgScreensPerSession.Float64)
	assert.Equal(t, int64(3), rec.MaxScreensPerSession.Int64)
}

func TestAggregateTenure(t *testing.T) {
	sessions := []domain.SessionRecord{
		{UserID: "u1", StartTimestamp: domain.NullTimestampOf(at("2026-07-01T00:00:00Z"))},
		{UserID: "u1", StartTimestamp: domain.NullTimestampOf(at("2026-07-03T00:00:00Z"))},
		{UserID: "u1", StartTimestamp: domain.NullTimestampOf(at("2026-07-02T00:00:00Z"))},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, at("2026-07-01T00:00:00Z"), rec.FirstSessionDate.Timestamp)
	assert.Equal(t, at("2026-07-03T00:00:00Z"), rec.LastSessionDate.Timestamp)
	assert.Equal(t, float64(2), rec.DaysSinceFirstSession.Float64)
	assert.Equal(t, float64(1), rec.SessionsPerDay.Float64)
}

func TestAggregateProfileFirstNonNull(t *testing.T) {
	// The first session carries no geo fields; later sessions fill them in,
	// and the earliest non-null value wins.
	sessions := []domain.SessionRecord{
		{UserID: "u1", Username: domain.NullStringOf("ann")},
		{UserID: "u1", City: domain.NullStringOf("Lisbon"), FullName: domain.NullStringOf("Ann A")},
		{UserID: "u1", City: domain.NullStringOf("Porto"), Country: domain.NullStringOf("Portugal")},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "ann", rec.Username.StringVal)
	assert.Equal(t, "Lisbon", rec.City.StringVal)
	assert.Equal(t, "Ann A", rec.FullName.StringVal)
	assert.Equal(t, "Portugal", rec.Country.StringVal)
	assert.False(t, rec.Email.Valid)
}

func TestAggregateProfileAndOrdering(t *testing.T) {
	sessions := []domain.SessionRecord{
		{
			UserID:      "u2",
			Username:    domain.NullStringOf("second"),
			PhoneNumber: domain.NullStringOf("+2"),
		},
		{
			UserID:      "u1",
			Username:    domain.NullStringOf("first"),
			PhoneNumber: domain.NullStringOf("+1"),
		},
	}

	records := Aggregate(sessions, time.Now().UTC())

	require.Len(t, records, 2)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "first", records[0].Username.StringVal)
	assert.Equal(t, "u2", records[1].UserID)
	assert.Equal(t, "second", records[1].Username.StringVal)
}
