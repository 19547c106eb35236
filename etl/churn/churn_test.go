package churn

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon841/posthog-etl/etl/domain"
)

func day(value string) civil.Date {
	d, err := civil.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return d
}

func appRow(userID string, date civil.Date, events int64) domain.DailyActivityRow {
	return domain.DailyActivityRow{UserID: userID, Date: date, EventCount: events}
}

func TestBuildLifecycleStates(t *testing.T) {
	base := day("2026-07-01")

	tests := []struct {
		name       string
		activeDays []int
		evalOffset int
		wantState  string
		wantCycles int64
	}{
		{
			name:       "recent activity is active",
			activeDays: []int{0, 5, 10},
			evalOffset: 12,
			wantState:  domain.ChurnStateActive,
			wantCycles: 0,
		},
		{
			name:       "long silence is churned",
			activeDays: []int{0},
			evalOffset: 20,
			wantState:  domain.ChurnStateChurned,
			wantCycles: 0,
		},
		{
			name:       "gap then return is reactivated",
			activeDays: []int{0, 49},
			evalOffset: 50,
			wantState:  domain.ChurnStateReactivated,
			wantCycles: 1,
		},
		{
			name:       "mid gap counts one cycle even when churned again",
			activeDays: []int{0, 1, 39},
			evalOffset: 60,
			wantState:  domain.ChurnStateChurned,
			wantCycles: 1,
		},
		{
			name:       "activity on the threshold boundary stays active",
			activeDays: []int{0},
			evalOffset: 14,
			wantState:  domain.ChurnStateActive,
			wantCycles: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var grid []domain.DailyActivityRow
			for _, offset := range tt.activeDays {
				grid = append(grid, appRow("u1", base.AddDays(offset), 1))
			}

			records := Build(grid, Params{
				InactivityThresholdDays: 14,
				EvaluationDate:          base.AddDays(tt.evalOffset),
			})

			require.Len(t, records, 1)

			rec := records[0]
			assert.Equal(t, tt.wantState, rec.AppChurnState)
			assert.Equal(t, tt.wantCycles, rec.AppTimesChurned)
		})
	}
}

func TestBuildChurnDate(t *testing.T) {
	grid := []domain.DailyActivityRow{
		appRow("u1", day("2026-07-01"), 1),
	}

	records := Build(grid, Params{
		InactivityThresholdDays: 14,
		EvaluationDate:          day("2026-08-01"),
	})

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.ChurnStateChurned, rec.AppChurnState)
	require.True(t, rec.AppChurnDate.Valid)
	assert.Equal(t, day("2026-07-15"), rec.AppChurnDate.Date)
	require.True(t, rec.DaysSinceLastAppActivity.Valid)
	assert.Equal(t, int64(31), rec.DaysSinceLastAppActivity.Int64)
}

func TestBuildDimensionsAreIndependent(t *testing.T) {
	grid := []domain.DailyActivityRow{
		{UserID: "u1", Date: day("2026-07-01"), EventCount: 3},
		{UserID: "u1", Date: day("2026-07-28"), EventCount: 1, EventsCreatedCount: 2},
		{UserID: "u1", Date: day("2026-07-29"), Accepted: 1},
	}

	records := Build(grid, Params{
		InactivityThresholdDays: 14,
		EvaluationDate:          day("2026-07-30"),
	})

	require.Len(t, records, 1)

	rec := records[0]

	// App went quiet for 27 days mid range, then returned.
	assert.Equal(t, domain.ChurnStateReactivated, rec.AppChurnState)
	assert.Equal(t, int64(1), rec.AppTimesChurned)
	assert.Equal(t, day("2026-07-01"), rec.FirstAppActiveDate.Date)
	assert.Equal(t, day("2026-07-28"), rec.LastAppActiveDate.Date)

	// Business activity only ever happened at the end.
	assert.Equal(t, domain.ChurnStateActive, rec.BizChurnState)
	assert.Equal(t, int64(0), rec.BizTimesChurned)
	assert.Equal(t, day("2026-07-28"), rec.FirstBizActiveDate.Date)
	assert.Equal(t, day("2026-07-29"), rec.LastBizActiveDate.Date)

	assert.Equal(t, int64(2), rec.TotalEventsCreated)
	assert.Equal(t, int64(1), rec.TotalEventsAttended)
	assert.Equal(t, int64(4), rec.TotalAppInteractions)
}

func TestBuildOmitsFullyInactiveUsers(t *testing.T) {
	// A user with grid rows but zero counts everywhere produces no record.
	grid := []domain.DailyActivityRow{
		{UserID: "u1", Date: day("2026-07-01")},
		{UserID: "u1", Date: day("2026-07-02")},
	}

	records := Build(grid, Params{
		InactivityThresholdDays: 14,
		EvaluationDate:          day("2026-07-03"),
	})

	assert.Empty(t, records)
}

func TestBuildNeverActiveDimension(t *testing.T) {
	// Business activity only, so the app dimension reports never_active.
	grid := []domain.DailyActivityRow{
		{UserID: "u1", Date: day("2026-07-01"), EventsCreatedCount: 1},
	}

	records := Build(grid, Params{
		InactivityThresholdDays: 14,
		EvaluationDate:          day("2026-07-03"),
	})

	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.ChurnStateNeverActive, rec.AppChurnState)
	assert.Equal(t, int64(0), rec.AppTimesChurned)
	assert.False(t, rec.AppChurnDate.Valid)
	assert.False(t, rec.DaysSinceLastAppActivity.Valid)
	assert.False(t, rec.FirstAppActiveDate.Valid)
	assert.Equal(t, domain.ChurnStateActive, rec.BizChurnState)
}

func TestBuildDefaultThreshold(t *testing.T) {
	grid := []domain.DailyActivityRow{
		appRow("u1", day("2026-07-01"), 1),
	}

	records := Build(grid, Params{EvaluationDate: day("2026-07-10")})

	require.Len(t, records, 1)
	assert.Equal(t, domain.ChurnStateActive, records[0].AppChurnState)
}

func TestBuildSortedByUserID(t *testing.T) {
	grid := []domain.DailyActivityRow{
		appRow("u2", day("2026-07-01"), 1),
		appRow("u1", day("2026-07-01"), 1),
	}

	records := Build(grid, Params{
		InactivityThresholdDays: 14,
		EvaluationDate:          day("2026-07-02"),
	})

	require.Len(t, records, 2)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "u2", records[1].UserID)
}
