package pipeline

import "context"

//go:generate mockery --name Pipeline --output ./mocks
type Pipeline interface {
	Run(ctx context.Context, params RunParams) (*RunSummary, error)
}
