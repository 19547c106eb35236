// Package people rolls the per-session records up to one row per user.
package people

import (
	"math"
	"sort"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/times"
)

// durationStats holds the duration distribution of one user's sessions,
// computed over the sessions that have a duration at all.
type durationStats struct {
	values []float64
}

func (s *durationStats) add(d bigquery.NullFloat64) {
	if d.Valid {
		s.values = append(s.values, d.Float64)
	}
}

func (s *durationStats) summarize() (avg, median, total, min, max, std bigquery.NullFloat64) {
	// Sessions with no duration still count toward total_sessions but
	// contribute nothing here; a user with none keeps null statistics,
	// except the total which is zero.
	total = domain.NullFloat64Of(0)

	if len(s.values) == 0 {
		return
	}

	sorted := make([]float64, len(s.values))
	copy(sorted, s.values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	mean := sum / float64(len(sorted))

	avg = domain.NullFloat64Of(mean)
	total = domain.NullFloat64Of(sum)
	min = domain.NullFloat64Of(sorted[0])
	max = domain.NullFloat64Of(sorted[len(sorted)-1])

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = domain.NullFloat64Of(sorted[mid])
	} else {
		median = domain.NullFloat64Of((sorted[mid-1] + sorted[mid]) / 2)
	}

	// Sample standard deviation; undefined for a single session.
	if len(sorted) > 1 {
		var ss float64
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}

		std = domain.NullFloat64Of(math.Sqrt(ss / float64(len(sorted)-1)))
	}

	return
}

// countStats aggregates a nullable per-session counter.
type countStats struct {
	sum   int64
	max   int64
	valid int64
}

func (s *countStats) add(c bigquery.NullInt64) {
	if !c.Valid {
		return
	}

	s.sum += c.Int64
	if s.valid == 0 || c.Int64 > s.max {
		s.max = c.Int64
	}

	s.valid++
}

func (s *countStats) summarize() (total, max bigquery.NullInt64, avg bigquery.NullFloat64) {
	total = domain.NullInt64Of(s.sum)

	if s.valid == 0 {
		return
	}

	max = domain.NullInt64Of(s.max)
	avg = domain.NullFloat64Of(float64(s.sum) / float64(s.valid))

	return
}

// profileFields collects per-user profile columns, taking the first non-null
// value each field shows across the user's sessions.
type profileFields struct {
	fullName             bigquery.NullString
	phoneNumber          bigquery.NullString
	username             bigquery.NullString
	email                bigquery.NullString
	city                 bigquery.NullString
	country              bigquery.NullString
	createdAt            bigquery.NullTimestamp
	contactAccessGranted bool
	businessUser         bool
}

func (p *profileFields) seedFlags(s domain.SessionRecord) {
	p.contactAccessGranted = s.ContactAccessGranted
	p.businessUser = s.BusinessUser
}

func (p *profileFields) fill(s domain.SessionRecord) {
	fillString(&p.fullName, s.FullName)
	fillString(&p.phoneNumber, s.PhoneNumber)
	fillString(&p.username, s.Username)
	fillString(&p.email, s.Email)
	fillString(&p.city, s.City)
	fillString(&p.country, s.Country)

	if !p.createdAt.Valid && s.CreatedAt.Valid {
		p.createdAt = s.CreatedAt
	}
}

func fillString(dst *bigquery.NullString, src bigquery.NullString) {
	if !dst.Valid && src.Valid {
		*dst = src
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

// Aggregate builds the people_aggregated rows from the session records.
// Session records already carry resolved user identities, so the grouping key
// is the canonical user id.
func Aggregate(sessions []domain.SessionRecord, loadedAt time.Time) []domain.PeopleRecord {
	type userAgg struct {
		profile profileFields

		sessions  int64
		durations durationStats

		createdEventSum    int64
		viewedEventSum     int64
		joinedEventSum     int64
		invitedSomeoneSum  int64
		enabledContactsSum int64
		scrolledSum        int64
		visitedDiscoverSum int64
		startedQuizSum     int64
		completedQuizSum   int64

		totalScrolls int64
		maxScrolls   int64

		autocaptures countStats
		screens      countStats

		firstSession bigquery.NullTimestamp
		lastSession  bigquery.NullTimestamp
	}

	users := make(map[string]*userAgg)

	for _, s := range sessions {
		u, ok := users[s.UserID]
		if !ok {
			u = &userAgg{}
			u.profile.seedFlags(s)
			users[s.UserID] = u
		}

		u.profile.fill(s)

		u.sessions++
		u.durations.add(s.SessionDuration)

		u.createdEventSum += boolToInt(s.CreatedEvent)
		u.viewedEventSum += boolToInt(s.ViewedEvent)
		u.joinedEventSum += boolToInt(s.JoinedEvent)
		u.invitedSomeoneSum += boolToInt(s.InvitedSomeone)
		u.enabledContactsSum += boolToInt(s.EnabledContacts)
		u.scrolledSum += boolToInt(s.Scrolled)
		u.visitedDiscoverSum += boolToInt(s.VisitedDiscover)
		u.startedQuizSum += boolToInt(s.StartedQuiz)
		u.completedQuizSum += boolToInt(s.CompletedQuiz)

		u.totalScrolls += s.ScrollEventCount
		if s.ScrollEventCount > u.maxScrolls {
			u.maxScrolls = s.ScrollEventCount
		}

		u.autocaptures.add(s.AutocaptureCount)
		u.screens.add(s.ScreenCount)

		if s.StartTimestamp.Valid {
			if !u.firstSession.Valid || s.StartTimestamp.Timestamp.Before(u.firstSession.Timestamp) {
				u.firstSession = s.StartTimestamp
			}

			if !u.lastSession.Valid || s.StartTimestamp.Timestamp.After(u.lastSession.Timestamp) {
				u.lastSession = s.StartTimestamp
			}
		}
	}

	userIDs := make([]string, 0, len(users))
	for userID := range users {
		userIDs = append(userIDs, userID)
	}

	sort.Strings(userIDs)

	records := make([]domain.PeopleRecord, 0, len(userIDs))

	for _, userID := range userIDs {
		u := users[userID]

		rec := domain.PeopleRecord{
			UserID:        userID,
			TotalSessions: u.sessions,

			CreatedEventSum:    u.createdEventSum,
			ViewedEventSum:     u.viewedEventSum,
			JoinedEventSum:     u.joinedEventSum,
			InvitedSomeoneSum:  u.invitedSomeoneSum,
			EnabledContactsSum: u.enabledContactsSum,
			ScrolledSum:        u.scrolledSum,
			VisitedDiscoverSum: u.visitedDiscoverSum,
			StartedQuizSum:     u.startedQuizSum,
			CompletedQuizSum:   u.completedQuizSum,

			TotalScrolls:         u.totalScrolls,
			AvgScrollsPerSession: domain.NullFloat64Of(float64(u.totalScrolls) / float64(u.sessions)),
			MaxScrollsPerSession: domain.NullInt64Of(u.maxScrolls),

			FirstSessionDate: u.firstSession,
			LastSessionDate:  u.lastSession,

			FullName:             u.profile.fullName,
			PhoneNumber:          u.profile.phoneNumber,
			Username:             u.profile.username,
			Email:                u.profile.email,
			ContactAccessGranted: u.profile.contactAccessGranted,
			BusinessUser:         u.profile.businessUser,
			CreatedAt:            u.profile.createdAt,
			City:                 u.profile.city,
			Country:              u.profile.country,

			EtlLoadedAt: loadedAt,
		}

		rec.AvgSessionDuration,
			rec.MedianSessionDuration,
			rec.TotalSessionDuration,
			rec.MinSessionDuration,
			rec.MaxSessionDuration,
			rec.StdSessionDuration = u.durations.summarize()

		rec.TotalAutocaptures, rec.MaxAutocapturesPerSession, rec.AvgAutocapturesPerSession = u.autocaptures.summarize()
		rec.TotalScreens, rec.MaxScreensPerSession, rec.AvgScreensPerSession = u.screens.summarize()

		// Tenure spans first through last session; sessions per day adds one
		// day so a single-session user divides by one rather than zero.
		if u.firstSession.Valid && u.lastSession.Valid {
			days := float64(u.lastSession.Timestamp.Sub(u.firstSession.Timestamp)) / float64(times.DayDuration)

			rec.DaysSinceFirstSession = domain.NullFloat64Of(days)
			rec.SessionsPerDay = domain.NullFloat64Of(float64(u.sessions) / (days + 1))
		}

		// Share of sessions carrying core engagement activity.
		rec.EngagementScore = domain.NullFloat64Of(
			float64(u.createdEventSum+u.viewedEventSum+u.joinedEventSum+u.scrolledSum) / float64(u.sessions))

		records = append(records, rec)
	}

	return records
}
