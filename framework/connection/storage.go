package connection

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"

	"github.com/brandon841/posthog-etl/logger"
)

var (
	ErrCloudStorageInitialization = errors.New("cloud storage initialization error")
)

type CloudStorageClient struct {
	gcs *storage.Client
}

// NewCloudStorage initializes the storage client used for staging load jobs.
func NewCloudStorage(ctx context.Context, log *logger.Logging) (*CloudStorageClient, error) {
	l := log.Logger(ctx)

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		l.Errorf("%s: %s", ErrCloudStorageInitialization, err)
		return nil, ErrCloudStorageInitialization
	}

	return &CloudStorageClient{
		gcs: gcs,
	}, nil
}
