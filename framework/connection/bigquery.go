package connection

import (
	"context"
	"errors"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/brandon841/posthog-etl/common"
	"github.com/brandon841/posthog-etl/logger"
	"github.com/brandon841/posthog-etl/secretmanager"
)

var (
	ErrBigqueryInitialization = errors.New("bigquery initialization error")
)

type BigQueryClient struct {
	bq *bigquery.Client
}

// NewBigQuery initializes the bigquery client. The service account key is
// fetched from Secret Manager when configured; otherwise application default
// credentials are used.
func NewBigQuery(ctx context.Context, log *logger.Logging) (*BigQueryClient, error) {
	l := log.Logger(ctx)

	opts := []option.ClientOption{option.WithScopes(bigquery.Scope)}

	key, err := secretmanager.AccessSecretLatestVersion(ctx, secretmanager.SecretBigQueryKey)
	if err != nil {
		l.Warningf("bigquery key secret unavailable, falling back to default credentials: %s", err)
	} else if len(key) > 0 {
		opts = append(opts, option.WithCredentialsJSON(key))
	}

	bq, err := bigquery.NewClient(ctx, common.ProjectID, opts...)
	if err != nil {
		l.Errorf("%s: %s", ErrBigqueryInitialization, err)
		return nil, ErrBigqueryInitialization
	}

	return &BigQueryClient{
		bq: bq,
	}, nil
}
