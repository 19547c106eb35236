package bqutils

import (
	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// LoadRows drains a row iterator into a slice of typed rows.
func LoadRows[T any](iter *bigquery.RowIterator) ([]T, error) {
	var rows []T

	for {
		var row T

		err := iter.Next(&row)
		if err == iterator.Done {
			break
		}

		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}
