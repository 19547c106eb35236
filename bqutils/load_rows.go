package bqutils

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/brandon841/posthog-etl/common"
)

type BigQueryTableLoaderRequest struct {
	DestinationProjectID string
	DestinationDatasetID string
	DestinationTableName string
	ObjectDir            string
	ConfigJobID          string
	WriteDisposition     bigquery.TableWriteDisposition
}

type BigQueryTableLoaderParams struct {
	Client  *bigquery.Client
	Storage *storage.Client
	Schema  *bigquery.Schema
	Rows    []interface{}
	Data    *BigQueryTableLoaderRequest
}

// BigQueryTableLoader stages the given rows as gzipped JSON on cloud storage
// and runs a load job into the destination table with an explicit schema.
func BigQueryTableLoader(ctx context.Context, loadAttributes BigQueryTableLoaderParams) error {
	data := loadAttributes.Data
	bq := loadAttributes.Client
	gcs := loadAttributes.Storage

	nl := []byte("\n")
	now := time.Now().UTC()
	bucketID := fmt.Sprintf("%s-etl-load-jobs", common.ProjectID)
	objectName := fmt.Sprintf("%s/%s.gzip", data.ObjectDir, now.Format(time.RFC3339Nano))
	obj := gcs.Bucket(bucketID).Object(objectName)
	objWriter := obj.NewWriter(ctx)
	gzipWriter := gzip.NewWriter(objWriter)

	for _, row := range loadAttributes.Rows {
		jsonData, err := json.Marshal(row)
		if err != nil {
			return err
		}

		jsonData = append(jsonData, nl...)
		if _, err := gzipWriter.Write(jsonData); err != nil {
			return err
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return err
	}

	if err := objWriter.Close(); err != nil {
		return err
	}

	if _, err := obj.Update(ctx, storage.ObjectAttrsToUpdate{
		ContentType:     "application/json",
		ContentEncoding: "gzip",
	}); err != nil {
		return err
	}

	gcsRef := bigquery.NewGCSReference(fmt.Sprintf("gs://%s/%s", bucketID, objectName))
	gcsRef.SkipLeadingRows = 0
	gcsRef.MaxBadRecords = 0
	gcsRef.Schema = *loadAttributes.Schema
	gcsRef.SourceFormat = bigquery.JSON
	gcsRef.AutoDetect = false
	gcsRef.IgnoreUnknownValues = true

	loader := bq.DatasetInProject(data.DestinationProjectID, data.DestinationDatasetID).Table(data.DestinationTableName).LoaderFrom(gcsRef)
	loader.WriteDisposition = data.WriteDisposition
	loader.CreateDisposition = bigquery.CreateIfNeeded

	loader.JobIDConfig = bigquery.JobIDConfig{
		JobID:          data.ConfigJobID,
		AddJobIDSuffix: true,
	}

	job, err := loader.Run(ctx)
	if err != nil {
		return err
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}

	if err := status.Err(); err != nil {
		return err
	}

	return nil
}
