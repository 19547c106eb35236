// Package dailyactivity builds the dense per-user per-day activity grid.
//
// Activity from the interaction-event, events-created and invite sources is
// bucketed by (user, UTC calendar day), merged, collapsed onto canonical user
// ids and expanded into one contiguous daily sequence per user from the
// user's start date through the run's end date. Days with no activity carry
// zero counts, never null.
package dailyactivity

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/etl/identity"
	"github.com/brandon841/posthog-etl/times"
)

type gridKey struct {
	userID string
	date   civil.Date
}

// metrics is the per-(user, day) activity counters.
type metrics struct {
	eventCount         int64
	eventsCreatedCount int64
	accepted           int64
	invited            int64
	rejected           int64
}

func (m *metrics) add(o *metrics) {
	m.eventCount += o.eventCount
	m.eventsCreatedCount += o.eventsCreatedCount
	m.accepted += o.accepted
	m.invited += o.invited
	m.rejected += o.rejected
}

// Build constructs the user_daily_activity rows for the given end date.
func Build(
	events []domain.RawEvent,
	createdEvents []domain.CreatedEvent,
	invites []domain.UserInvite,
	resolver *identity.Resolver,
	endDate civil.Date,
) []domain.DailyActivityRow {
	excluded := domain.ExcludedSet()

	merged := make(map[gridKey]*metrics)

	bump := func(userID string, date civil.Date) *metrics {
		key := gridKey{userID, date}

		m, ok := merged[key]
		if !ok {
			m = &metrics{}
			merged[key] = m
		}

		return m
	}

	// Interaction events are counted per (distinct_id, day) and mapped to a
	// user id phone-first, then by direct id. Unresolved rows are dropped.
	type distinctDay struct {
		distinctID string
		date       civil.Date
	}

	eventCounts := make(map[distinctDay]int64)
	for _, ev := range events {
		eventCounts[distinctDay{ev.DistinctID, times.DayOfUTC(ev.Timestamp)}]++
	}

	for key, count := range eventCounts {
		user, ok := resolver.Resolve(key.distinctID)
		if !ok {
			continue
		}

		bump(user.UserID, key.date).eventCount += count
	}

	// The events-created and invite sources already carry a user id.
	for _, ce := range createdEvents {
		bump(ce.UserID, times.DayOfUTC(ce.CreatedAt)).eventsCreatedCount++
	}

	// Invites pivot by status into a closed set of count columns; statuses
	// outside the vocabulary are ignored.
	for _, inv := range invites {
		m := bump(inv.UserID, times.DayOfUTC(inv.CreatedAt))

		switch inv.Status {
		case domain.InviteStatusAccepted:
			m.accepted++
		case domain.InviteStatusInvited:
			m.invited++
		case domain.InviteStatusRejected:
			m.rejected++
		}
	}

	// Exclusion is applied once on the fully merged set: a row is dropped
	// when its user maps to a canonical record with an excluded phone number.
	for key := range merged {
		if user, ok := resolver.LookupByID(resolver.CanonicalID(key.userID)); ok {
			if user.PhoneNumber.Valid && excluded[user.PhoneNumber.StringVal] {
				delete(merged, key)
			}
		}
	}

	// Collapse duplicate user ids onto their canonical id and re-aggregate.
	// This must happen before grid expansion so duplicate identities cannot
	// double-count through separate date ranges.
	collapsed := make(map[gridKey]*metrics, len(merged))

	for key, m := range merged {
		ckey := gridKey{resolver.CanonicalID(key.userID), key.date}

		if existing, ok := collapsed[ckey]; ok {
			existing.add(m)
		} else {
			copied := *m
			collapsed[ckey] = &copied
		}
	}

	// Each user's grid starts at the account creation date when known, else
	// at the first observed activity date.
	firstActivity := make(map[string]civil.Date)

	for key := range collapsed {
		if first, ok := firstActivity[key.userID]; !ok || key.date.Before(first) {
			firstActivity[key.userID] = key.date
		}
	}

	userIDs := make([]string, 0, len(firstActivity))
	for userID := range firstActivity {
		userIDs = append(userIDs, userID)
	}

	sort.Strings(userIDs)

	var rows []domain.DailyActivityRow

	for _, userID := range userIDs {
		user, _ := resolver.LookupByID(userID)

		start := firstActivity[userID]
		if user != nil && user.CreatedAt.Valid {
			start = times.DayOfUTC(user.CreatedAt.Timestamp)
		}

		for date := start; !date.After(endDate); date = date.AddDays(1) {
			row := domain.DailyActivityRow{
				UserID: userID,
				Date:   date,
			}

			if m, ok := collapsed[gridKey{userID, date}]; ok {
				row.EventCount = m.eventCount
				row.EventsCreatedCount = m.eventsCreatedCount
				row.Accepted = m.accepted
				row.Invited = m.invited
				row.Rejected = m.rejected
			}

			if user != nil {
				row.CreatedAt = user.CreatedAt
				row.PhoneNumber = user.PhoneNumber
				row.FullName = user.FullName
				row.Username = user.Username
				row.Email = user.Email
			}

			rows = append(rows, row)
		}
	}

	return rows
}
