package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brandon841/posthog-etl/etl/pipeline"
)

type Pipeline struct {
	mock.Mock
}

func (m *Pipeline) Run(ctx context.Context, params pipeline.RunParams) (*pipeline.RunSummary, error) {
	args := m.Called(ctx, params)

	var summary *pipeline.RunSummary
	if args.Get(0) != nil {
		summary = args.Get(0).(*pipeline.RunSummary)
	}

	return summary, args.Error(1)
}
