package secretmanager

import (
	"context"
	"fmt"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/brandon841/posthog-etl/common"
)

type SecretName string

// List of configured secrets in Secret Manager
const (
	// SecretBigQueryKey holds the warehouse service account key JSON.
	SecretBigQueryKey SecretName = "bigquery-key"
)

const (
	latestVersion = "latest"
)

var (
	state = make(map[string][]byte)
	mutex = &sync.Mutex{}
)

// AccessSecretLatestVersion utility function to fetch the latest version of a secret payload
func AccessSecretLatestVersion(ctx context.Context, secret SecretName) ([]byte, error) {
	return AccessSecretVersion(ctx, string(secret), latestVersion)
}

// AccessSecretVersion fetch payload of a secret's version
func AccessSecretVersion(ctx context.Context, secretID, versionID string) ([]byte, error) {
	mutex.Lock()
	defer mutex.Unlock()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", common.ProjectID, secretID, versionID)
	if payload, ok := state[name]; ok {
		return payload, nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, err
	}

	state[name] = result.Payload.Data

	return result.Payload.Data, nil
}
