// Package sessions aggregates raw interaction events into one row per
// session with behavioral flags and resolved user identity.
package sessions

import (
	"encoding/json"
	"sort"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/etl/identity"
	"github.com/brandon841/posthog-etl/slice"
)

const (
	// mobileLib is the originating library tag of mobile client events.
	// Sessions are only derived from mobile traffic.
	mobileLib = "posthog-react-native"

	discoverScreen = "Discover"
)

// inviteEvents is the vocabulary of invite-related event names.
var inviteEvents = []string{
	"invite_friends",
	"send_invite_to_event",
	"invite_friends_for_report",
}

// Facts is the per-session evidence the behavioral flags are derived from.
type Facts struct {
	EventNames  []string
	ScreenNames []string
	TouchCount  int64
}

// flagRules maps each behavioral flag to its predicate over the session
// facts. New flags are additive entries here, not new code paths.
var flagRules = map[string]func(Facts) bool{
	"viewed_event": func(f Facts) bool {
		return slice.Contains(f.EventNames, "view_event")
	},
	"joined_event": func(f Facts) bool {
		return slice.Contains(f.EventNames, "join_event")
	},
	"invited_someone": func(f Facts) bool {
		return slice.ContainsAny(f.EventNames, inviteEvents)
	},
	"enabled_contacts": func(f Facts) bool {
		return slice.ContainsFold(f.EventNames, "contact", "enable")
	},
	"scrolled": func(f Facts) bool {
		return f.TouchCount > 0
	},
	"visited_discover": func(f Facts) bool {
		return slice.Contains(f.ScreenNames, discoverScreen)
	},
	"started_quiz": func(f Facts) bool {
		return slice.Contains(f.EventNames, "start_quiz")
	},
	"completed_quiz": func(f Facts) bool {
		return slice.Contains(f.EventNames, "finish_quiz")
	},
}

// eventProperties is the subset of the PostHog property payload the
// aggregation needs.
type eventProperties struct {
	SessionID  *string  `json:"$session_id"`
	Lib        *string  `json:"$lib"`
	ScreenName *string  `json:"$screen_name"`
	City       *string  `json:"$geoip_city_name"`
	Country    *string  `json:"$geoip_country_name"`
	TouchX     *float64 `json:"$touch_x"`
	TouchY     *float64 `json:"$touch_y"`
}

// extractedEvent is one interaction event with its parsed properties.
type extractedEvent struct {
	eventName  string
	sessionID  string
	distinctID string
	screenName *string
	city       *string
	country    *string
	touchX     *float64
	touchY     *float64
}

// extractEvents parses each event's property payload and retains only mobile
// client events from non-excluded actors with a session id. A row whose
// payload cannot be parsed is dropped, not fatal.
func extractEvents(events []domain.RawEvent, excluded map[string]bool) []extractedEvent {
	extracted := make([]extractedEvent, 0, len(events))

	for _, ev := range events {
		var props eventProperties
		if err := json.Unmarshal([]byte(ev.Properties), &props); err != nil {
			continue
		}

		if props.Lib == nil || *props.Lib != mobileLib {
			continue
		}

		if excluded[ev.DistinctID] {
			continue
		}

		if props.SessionID == nil {
			continue
		}

		extracted = append(extracted, extractedEvent{
			eventName:  ev.Event,
			sessionID:  *props.SessionID,
			distinctID: ev.DistinctID,
			screenName: props.ScreenName,
			city:       props.City,
			country:    props.Country,
			touchX:     props.TouchX,
			touchY:     props.TouchY,
		})
	}

	return extracted
}

// sessionGroup accumulates the events of one session.
type sessionGroup struct {
	distinctID string
	city       *string
	country    *string
	facts      Facts
}

// Aggregate groups raw interaction events by session, derives the behavioral
// flags, joins session metadata, resolves user identity and computes the
// created_event window test. Sessions with no resolvable identity are
// dropped. The output is ordered by session id.
func Aggregate(
	events []domain.RawEvent,
	meta []domain.SessionMeta,
	createdEvents []domain.CreatedEvent,
	resolver *identity.Resolver,
	loadedAt time.Time,
) []domain.SessionRecord {
	excluded := domain.ExcludedSet()

	extracted := extractEvents(events, excluded)

	groups := make(map[string]*sessionGroup)

	for _, ev := range extracted {
		g, ok := groups[ev.sessionID]
		if !ok {
			g = &sessionGroup{distinctID: ev.distinctID}
			groups[ev.sessionID] = g
		}

		// Geo fields keep the first value any event in the session carries.
		if g.city == nil {
			g.city = ev.city
		}

		if g.country == nil {
			g.country = ev.country
		}

		g.facts.EventNames = append(g.facts.EventNames, ev.eventName)

		if ev.screenName != nil {
			g.facts.ScreenNames = append(g.facts.ScreenNames, *ev.screenName)
		}

		if ev.touchX != nil {
			g.facts.TouchCount++
		}

		if ev.touchY != nil {
			g.facts.TouchCount++
		}
	}

	// Session metadata join keyed on (session_id, distinct_id); excluded
	// actors are filtered from the metadata side too.
	type metaKey struct {
		sessionID  string
		distinctID string
	}

	metaIndex := make(map[metaKey]*domain.SessionMeta, len(meta))

	for i := range meta {
		m := &meta[i]
		if excluded[m.DistinctID] {
			continue
		}

		metaIndex[metaKey{m.SessionID, m.DistinctID}] = m
	}

	createdIndex := make(map[string][]time.Time, len(createdEvents))
	for _, ce := range createdEvents {
		createdIndex[ce.UserID] = append(createdIndex[ce.UserID], ce.CreatedAt)
	}

	sessionIDs := make([]string, 0, len(groups))
	for id := range groups {
		sessionIDs = append(sessionIDs, id)
	}

	sort.Strings(sessionIDs)

	records := make([]domain.SessionRecord, 0, len(groups))

	for _, sessionID := range sessionIDs {
		g := groups[sessionID]

		user, ok := resolver.Resolve(g.distinctID)
		if !ok {
			continue
		}

		record := domain.SessionRecord{
			SessionID:            sessionID,
			DistinctID:           g.distinctID,
			City:                 nullString(g.city),
			Country:              nullString(g.country),
			ScrollEventCount:     g.facts.TouchCount,
			UserID:               user.UserID,
			FullName:             user.FullName,
			PhoneNumber:          user.PhoneNumber,
			Username:             user.Username,
			Email:                user.Email,
			ContactAccessGranted: user.ContactAccessGranted.Valid && user.ContactAccessGranted.Bool,
			BusinessUser:         user.BusinessUser.Valid && user.BusinessUser.Bool,
			CreatedAt:            user.CreatedAt,
			EtlLoadedAt:          loadedAt,
		}

		flags := make(map[string]bool, len(flagRules))
		for name, test := range flagRules {
			flags[name] = test(g.facts)
		}

		record.ViewedEvent = flags["viewed_event"]
		record.JoinedEvent = flags["joined_event"]
		record.InvitedSomeone = flags["invited_someone"]
		record.EnabledContacts = flags["enabled_contacts"]
		record.Scrolled = flags["scrolled"]
		record.VisitedDiscover = flags["visited_discover"]
		record.StartedQuiz = flags["started_quiz"]
		record.CompletedQuiz = flags["completed_quiz"]

		if m, ok := metaIndex[metaKey{sessionID, g.distinctID}]; ok {
			record.StartTimestamp = m.StartTimestamp
			record.EndTimestamp = m.EndTimestamp
			record.SessionDuration = m.SessionDuration
			record.AutocaptureCount = m.AutocaptureCount
			record.ScreenCount = m.ScreenCount
		}

		record.CreatedEvent = createdDuringSession(createdIndex[user.UserID], record)

		records = append(records, record)
	}

	return records
}

func nullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}

	return domain.NullStringOf(*s)
}

// createdDuringSession reports whether the user created at least one event
// within the session's time range. Sessions without timestamps are false,
// never null.
func createdDuringSession(creations []time.Time, record domain.SessionRecord) bool {
	if !record.StartTimestamp.Valid || !record.EndTimestamp.Valid {
		return false
	}

	start := record.StartTimestamp.Timestamp
	end := record.EndTimestamp.Timestamp

	for _, at := range creations {
		if !at.Before(start) && !at.After(end) {
			return true
		}
	}

	return false
}
