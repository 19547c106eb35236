package sessions

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/etl/identity"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)

	return parsed
}

func mobileEvent(distinctID, event, sessionID string) domain.RawEvent {
	return domain.RawEvent{
		DistinctID: distinctID,
		Event:      event,
		Properties: fmt.Sprintf(`{"$session_id":%q,"$lib":"posthog-react-native"}`, sessionID),
	}
}

func TestAggregateSingleSession(t *testing.T) {
	loadedAt := ts(t, "2026-08-01T12:00:00Z")

	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	events := []domain.RawEvent{
		mobileEvent("A", "view_event", "s1"),
	}

	meta := []domain.SessionMeta{
		{
			SessionID:       "s1",
			DistinctID:      "A",
			StartTimestamp:  domain.NullTimestampOf(ts(t, "2026-07-01T10:00:00Z")),
			EndTimestamp:    domain.NullTimestampOf(ts(t, "2026-07-01T10:05:00Z")),
			SessionDuration: domain.NullFloat64Of(300),
		},
	}

	records := Aggregate(events, meta, nil, resolver, loadedAt)

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, "A", rec.DistinctID)
	assert.Equal(t, "u1", rec.UserID)
	assert.True(t, rec.ViewedEvent)
	assert.False(t, rec.JoinedEvent)
	assert.False(t, rec.CreatedEvent)
	assert.Equal(t, float64(300), rec.SessionDuration.Float64)
	assert.Equal(t, loadedAt, rec.EtlLoadedAt)
}

func TestAggregateGeoFromLaterEvent(t *testing.T) {
	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	// The opening event has no geo properties; the session picks them up
	// from the first event that carries them.
	events := []domain.RawEvent{
		mobileEvent("A", "view_event", "s1"),
		{
			DistinctID: "A",
			Event:      "scroll",
			Properties: `{"$session_id":"s1","$lib":"posthog-react-native","$geoip_city_name":"Berlin","$geoip_country_name":"Germany"}`,
		},
		{
			DistinctID: "A",
			Event:      "scroll",
			Properties: `{"$session_id":"s1","$lib":"posthog-react-native","$geoip_city_name":"Hamburg"}`,
		},
	}

	records := Aggregate(events, nil, nil, resolver, time.Now().UTC())

	require.Len(t, records, 1)

	rec := records[0]
	require.True(t, rec.City.Valid)
	assert.Equal(t, "Berlin", rec.City.StringVal)
	require.True(t, rec.Country.Valid)
	assert.Equal(t, "Germany", rec.Country.StringVal)
}

func TestAggregateBehavioralFlags(t *testing.T) {
	tests := []struct {
		name   string
		events []domain.RawEvent
		check  func(t *testing.T, rec domain.SessionRecord)
	}{
		{
			name: "join and invite",
			events: []domain.RawEvent{
				mobileEvent("A", "join_event", "s1"),
				mobileEvent("A", "send_invite_to_event", "s1"),
			},
			check: func(t *testing.T, rec domain.SessionRecord) {
				assert.True(t, rec.JoinedEvent)
				assert.True(t, rec.InvitedSomeone)
				assert.False(t, rec.ViewedEvent)
			},
		},
		{
			name: "enabled contacts matches case insensitively",
			events: []domain.RawEvent{
				mobileEvent("A", "Enable_Contact_Sync", "s1"),
			},
			check: func(t *testing.T, rec domain.SessionRecord) {
				assert.True(t, rec.EnabledContacts)
			},
		},
		{
			name: "contact event without enable does not count",
			events: []domain.RawEvent{
				mobileEvent("A", "contact_support", "s1"),
			},
			check: func(t *testing.T, rec domain.SessionRecord) {
				assert.False(t, rec.EnabledContacts)
			},
		},
		{
			name: "quiz flags",
			events: []domain.RawEvent{
				mobileEvent("A", "start_quiz", "s1"),
				mobileEvent("A", "finish_quiz", "s1"),
			},
			check: func(t *testing.T, rec domain.SessionRecord) {
				assert.True(t, rec.StartedQuiz)
				assert.True(t, rec.CompletedQuiz)
			},
		},
	}

	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Aggregate(tt.events, nil, nil, resolver, time.Now().UTC())

			require.Len(t, records, 1)
			tt.check(t, records[0])
		})
	}
}

func TestAggregateTouchCoordinatesCountAsScrolls(t *testing.T) {
	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	events := []domain.RawEvent{
		{
			DistinctID: "A",
			Event:      "$autocapture",
			Properties: `{"$session_id":"s1","$lib":"posthog-react-native","$touch_x":10.5,"$touch_y":20.5}`,
		},
		{
			DistinctID: "A",
			Event:      "$autocapture",
			Properties: `{"$session_id":"s1","$lib":"posthog-react-native","$touch_x":11.0}`,
		},
	}

	records := Aggregate(events, nil, nil, resolver, time.Now().UTC())

	require.Len(t, records, 1)
	assert.True(t, records[0].Scrolled)
	assert.Equal(t, int64(3), records[0].ScrollEventCount)
}

func TestAggregateFilters(t *testing.T) {
	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
		{UserID: "u2", PhoneNumber: domain.NullStringOf("+11111111111")},
	})

	events := []domain.RawEvent{
		// Web events never form sessions.
		{
			DistinctID: "A",
			Event:      "view_event",
			Properties: `{"$session_id":"s1","$lib":"web"}`,
		},
		// Events without a session id are dropped.
		{
			DistinctID: "A",
			Event:      "view_event",
			Properties: `{"$lib":"posthog-react-native"}`,
		},
		// Malformed payloads are dropped, not fatal.
		{
			DistinctID: "A",
			Event:      "view_event",
			Properties: `{not json`,
		},
		// Excluded actors are dropped.
		mobileEvent("+11111111111", "view_event", "s2"),
		// Unresolvable actors are dropped after grouping.
		mobileEvent("unknown-device", "view_event", "s3"),
	}

	records := Aggregate(events, nil, nil, resolver, time.Now().UTC())

	assert.Empty(t, records)
}

func TestAggregateCreatedDuringSessionWindow(t *testing.T) {
	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	meta := []domain.SessionMeta{
		{
			SessionID:      "s1",
			DistinctID:     "A",
			StartTimestamp: domain.NullTimestampOf(ts(t, "2026-07-01T10:00:00Z")),
			EndTimestamp:   domain.NullTimestampOf(ts(t, "2026-07-01T11:00:00Z")),
		},
	}

	tests := []struct {
		name      string
		createdAt string
		want      bool
	}{
		{"inside the window", "2026-07-01T10:30:00Z", true},
		{"exactly at session start", "2026-07-01T10:00:00Z", true},
		{"exactly at session end", "2026-07-01T11:00:00Z", true},
		{"before the window", "2026-07-01T09:59:59Z", false},
		{"after the window", "2026-07-01T11:00:01Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := []domain.CreatedEvent{
				{UserID: "u1", CreatedAt: ts(t, tt.createdAt)},
			}

			records := Aggregate([]domain.RawEvent{mobileEvent("A", "view_event", "s1")}, meta, created, resolver, time.Now().UTC())

			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].CreatedEvent)
		})
	}
}

func TestAggregateOrderedBySessionID(t *testing.T) {
	resolver := identity.NewResolver([]domain.User{
		{UserID: "u1", PhoneNumber: domain.NullStringOf("A")},
	})

	events := []domain.RawEvent{
		mobileEvent("A", "view_event", "s3"),
		mobileEvent("A", "view_event", "s1"),
		mobileEvent("A", "view_event", "s2"),
	}

	records := Aggregate(events, nil, nil, resolver, time.Now().UTC())

	require.Len(t, records, 3)
	assert.Equal(t, "s1", records[0].SessionID)
	assert.Equal(t, "s2", records[1].SessionID)
	assert.Equal(t, "s3", records[2].SessionID)
}
