package times

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestDayOfUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	tests := []struct {
		name string
		in   time.Time
		want civil.Date
	}{
		{
			name: "midday utc",
			in:   time.Date(2026, time.March, 4, 12, 30, 0, 0, time.UTC),
			want: civil.Date{Year: 2026, Month: time.March, Day: 4},
		},
		{
			name: "offset zone rolls back to utc day",
			in:   time.Date(2026, time.March, 5, 2, 0, 0, 0, loc),
			want: civil.Date{Year: 2026, Month: time.March, Day: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOfUTC(tt.in))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := civil.Date{Year: 2026, Month: time.January, Day: 1}
	end := civil.Date{Year: 2026, Month: time.January, Day: 15}

	assert.Equal(t, 14, DaysBetween(start, end))
	assert.Equal(t, -14, DaysBetween(end, start))
	assert.Equal(t, 0, DaysBetween(start, start))
}
