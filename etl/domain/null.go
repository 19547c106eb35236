package domain

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// Nullable column constructors. Zero values of the bigquery null types are
// the corresponding SQL NULLs.

func NullStringOf(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: true}
}

func NullInt64Of(i int64) bigquery.NullInt64 {
	return bigquery.NullInt64{Int64: i, Valid: true}
}

func NullFloat64Of(f float64) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: f, Valid: true}
}

func NullTimestampOf(t time.Time) bigquery.NullTimestamp {
	return bigquery.NullTimestamp{Timestamp: t, Valid: true}
}

func NullDateOf(d civil.Date) bigquery.NullDate {
	return bigquery.NullDate{Date: d, Valid: true}
}
