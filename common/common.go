package common

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

var (
	// ProjectID is the GCP project hosting the warehouse datasets.
	ProjectID string

	// Production flag indicating if app is running the production backend.
	Production bool

	// IsLocalhost flag indicating if app is running on localhost.
	IsLocalhost bool

	// PosthogDatasetID is the dataset holding raw PostHog events and sessions.
	PosthogDatasetID string

	// FirebaseDatasetID is the dataset holding users, events and invites.
	FirebaseDatasetID string

	// AggregatedDatasetID is the destination dataset for the pipeline outputs.
	AggregatedDatasetID string
)

const (
	envProjectID           = "GOOGLE_CLOUD_PROJECT_ID"
	envPosthogDataset      = "POSTHOG_DATASET_ID"
	envFirebaseDataset     = "FIREBASE_DATASET_ID"
	envAggregatedDataset   = "POSTHOG_AGGREGATED_DATASET_ID"
	defaultPosthogDataset  = "posthog_etl"
	defaultFirebaseDataset = "firebase_etl_prod"
)

func init() {
	ProjectID = GetEnv(envProjectID, "")
	if ProjectID == "" {
		log.Fatalln("missing required environment variable", envProjectID)
	}

	PosthogDatasetID = GetEnv(envPosthogDataset, defaultPosthogDataset)
	FirebaseDatasetID = GetEnv(envFirebaseDataset, defaultFirebaseDataset)

	AggregatedDatasetID = GetEnv(envAggregatedDataset, "")
	if AggregatedDatasetID == "" {
		log.Fatalln("missing required environment variable", envAggregatedDataset)
	}

	IsLocalhost = gin.Mode() != gin.ReleaseMode
	Production = !IsLocalhost
}

// GetEnv returns the env variable value or a fallback if it is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
