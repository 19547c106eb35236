package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/brandon841/posthog-etl/etl/pipeline"
	pipelineMocks "github.com/brandon841/posthog-etl/etl/pipeline/mocks"
	"github.com/brandon841/posthog-etl/logger"
)

func getContext(body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodPost, "http://example.com/run", bytes.NewReader(body))

	return ctx, recorder
}

func completedSummary() *pipeline.RunSummary {
	return &pipeline.RunSummary{
		Sessions:      pipeline.StageResult{Status: pipeline.StatusCompleted, Records: 10},
		People:        pipeline.StageResult{Status: pipeline.StatusCompleted, Records: 4},
		DailyActivity: pipeline.StageResult{Status: pipeline.StatusCompleted, Records: 40},
		ChurnState:    pipeline.StageResult{Status: pipeline.StatusCompleted, Records: 4},
	}
}

func TestEtl_Run(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		on         func(service *pipelineMocks.Pipeline)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "empty body runs incremental defaults",
			on: func(service *pipelineMocks.Pipeline) {
				service.
					On("Run", mock.Anything, pipeline.RunParams{}).
					Return(completedSummary(), nil).
					Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "body parameters are passed through",
			body: []byte(`{"full_load":true,"limit":100,"threshold_days":30,"end_date":"2026-07-01"}`),
			on: func(service *pipelineMocks.Pipeline) {
				service.
					On("Run", mock.Anything, pipeline.RunParams{
						FullLoad:                true,
						Limit:                   100,
						InactivityThresholdDays: 30,
						EvaluationDate:          "2026-07-01",
					}).
					Return(completedSummary(), nil).
					Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "malformed body",
			body:    []byte(`{not json`),
			wantErr: true,
		},
		{
			name: "failed stages report the summary with an error status",
			on: func(service *pipelineMocks.Pipeline) {
				summary := completedSummary()
				summary.Sessions = pipeline.StageResult{Status: pipeline.StatusFailed, Error: "load job failed"}

				service.
					On("Run", mock.Anything, pipeline.RunParams{}).
					Return(summary, errors.New("pipeline finished with failed stages")).
					Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "run aborted before producing a summary",
			on: func(service *pipelineMocks.Pipeline) {
				service.
					On("Run", mock.Anything, pipeline.RunParams{}).
					Return(nil, errors.New("ensuring destination dataset: permission denied")).
					Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &pipelineMocks.Pipeline{}
			if tt.on != nil {
				tt.on(service)
			}

			h := &Etl{
				loggerProvider: logger.FromContext,
				service:        service,
			}

			ctx, recorder := getContext(tt.body)

			err := h.Run(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, recorder.Code)
			}

			service.AssertExpectations(t)
		})
	}
}

func TestEtl_Health(t *testing.T) {
	ctx, recorder := getContext(nil)

	h := &Etl{loggerProvider: logger.FromContext}

	assert.NoError(t, h.Health(ctx))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
