// Package churn derives per-user lifecycle state from the daily activity grid.
package churn

import (
	"sort"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/times"
)

// DefaultInactivityThresholdDays is the gap, in days, beyond which a user is
// considered churned on a dimension.
const DefaultInactivityThresholdDays = 14

// Params controls a churn evaluation run.
type Params struct {
	InactivityThresholdDays int
	EvaluationDate          civil.Date
}

// dimension is one independent activity track (app usage or business usage)
// reduced from a user's grid rows.
type dimension struct {
	activeDates []civil.Date
}

func (d *dimension) state(p Params) (state string, churnDate bigquery.NullDate, timesChurned int64, daysSinceLast bigquery.NullInt64, first, last bigquery.NullDate) {
	if len(d.activeDates) == 0 {
		return domain.ChurnStateNeverActive, bigquery.NullDate{}, 0, bigquery.NullInt64{}, bigquery.NullDate{}, bigquery.NullDate{}
	}

	firstDate := d.activeDates[0]
	lastDate := d.activeDates[len(d.activeDates)-1]

	// Every gap between consecutive active dates that exceeds the threshold
	// counts as one completed churn cycle.
	var cycles int64
	for i := 1; i < len(d.activeDates); i++ {
		if times.DaysBetween(d.activeDates[i-1], d.activeDates[i]) > p.InactivityThresholdDays {
			cycles++
		}
	}

	sinceLast := int64(times.DaysBetween(lastDate, p.EvaluationDate))

	switch {
	case sinceLast > int64(p.InactivityThresholdDays):
		state = domain.ChurnStateChurned
		churnDate = domain.NullDateOf(lastDate.AddDays(p.InactivityThresholdDays))
	case cycles > 0:
		state = domain.ChurnStateReactivated
	default:
		state = domain.ChurnStateActive
	}

	return state,
		churnDate,
		cycles,
		domain.NullInt64Of(sinceLast),
		domain.NullDateOf(firstDate),
		domain.NullDateOf(lastDate)
}

// Build reduces the activity grid into one churn state record per user.
func Build(grid []domain.DailyActivityRow, p Params) []domain.ChurnStateRecord {
	if p.InactivityThresholdDays <= 0 {
		p.InactivityThresholdDays = DefaultInactivityThresholdDays
	}

	type userTotals struct {
		app dimension
		biz dimension

		eventsCreated   int64
		eventsAttended  int64
		appInteractions int64
	}

	users := make(map[string]*userTotals)

	for _, row := range grid {
		u, ok := users[row.UserID]
		if !ok {
			u = &userTotals{}
			users[row.UserID] = u
		}

		// App activity is any interaction event; business activity is any
		// event created or invite movement.
		if row.EventCount > 0 {
			u.app.activeDates = append(u.app.activeDates, row.Date)
		}

		if row.EventsCreatedCount+row.Accepted+row.Invited+row.Rejected > 0 {
			u.biz.activeDates = append(u.biz.activeDates, row.Date)
		}

		u.eventsCreated += row.EventsCreatedCount
		u.eventsAttended += row.Accepted
		u.appInteractions += row.EventCount
	}

	userIDs := make([]string, 0, len(users))
	for userID := range users {
		userIDs = append(userIDs, userID)
	}

	sort.Strings(userIDs)

	records := make([]domain.ChurnStateRecord, 0, len(userIDs))

	for _, userID := range userIDs {
		u := users[userID]

		// Users whose grid rows never show activity on either dimension carry
		// no lifecycle signal and are left out of the output.
		if len(u.app.activeDates) == 0 && len(u.biz.activeDates) == 0 {
			continue
		}

		// Gap detection requires the active dates in ascending order
		// regardless of input row order.
		sort.Slice(u.app.activeDates, func(i, j int) bool { return u.app.activeDates[i].Before(u.app.activeDates[j]) })
		sort.Slice(u.biz.activeDates, func(i, j int) bool { return u.biz.activeDates[i].Before(u.biz.activeDates[j]) })

		rec := domain.ChurnStateRecord{
			UserID:               userID,
			TotalEventsCreated:   u.eventsCreated,
			TotalEventsAttended:  u.eventsAttended,
			TotalAppInteractions: u.appInteractions,
		}

		rec.AppChurnState, rec.AppChurnDate, rec.AppTimesChurned, rec.DaysSinceLastAppActivity, rec.FirstAppActiveDate, rec.LastAppActiveDate = u.app.state(p)
		rec.BizChurnState, rec.BizChurnDate, rec.BizTimesChurned, rec.DaysSinceLastBizActivity, rec.FirstBizActiveDate, rec.LastBizActiveDate = u.biz.state(p)

		records = append(records, rec)
	}

	return records
}
