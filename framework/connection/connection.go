package connection

import (
	"context"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/brandon841/posthog-etl/logger"
)

const (
	// CtxBigqueryKey is how bigquery connections are stored/retrieved.
	CtxBigqueryKey = "app-bigquery"

	// CtxCloudStorageKey is how cloud storage connections are stored/retrieved.
	CtxCloudStorageKey = "app-cloud-storage"
)

type Connection struct {
	*BigQueryClient
	*CloudStorageClient
}

// NewConnection initializes the warehouse and storage clients necessary for
// running the pipeline.
func NewConnection(ctx context.Context, log *logger.Logging) (*Connection, error) {
	bq, err := NewBigQuery(ctx, log)
	if err != nil {
		return nil, err
	}

	gcs, err := NewCloudStorage(ctx, log)
	if err != nil {
		return nil, err
	}

	return &Connection{
		bq,
		gcs,
	}, nil
}

type BigQueryFromContextFun = func(ctx context.Context) *bigquery.Client

type CloudStorageFromContextFun = func(ctx context.Context) *storage.Client

// Bigquery returns a bigquery connection that was stored in context.
// it returns by default the shared bigquery connection, if there was not on context.
func (c *Connection) Bigquery(ctx context.Context) *bigquery.Client {
	if bq, ok := ctx.Value(CtxBigqueryKey).(*bigquery.Client); ok {
		return bq
	}

	return c.bq
}

// CloudStorage returns a cloud storage connection that was stored in context.
// it returns by default the shared storage connection, if there was not on context.
func (c *Connection) CloudStorage(ctx context.Context) *storage.Client {
	if gcs, ok := ctx.Value(CtxCloudStorageKey).(*storage.Client); ok {
		return gcs
	}

	return c.gcs
}
