package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon841/posthog-etl/etl/dal"
	"github.com/brandon841/posthog-etl/etl/pipeline"
	"github.com/brandon841/posthog-etl/framework/connection"
	"github.com/brandon841/posthog-etl/framework/web"
	"github.com/brandon841/posthog-etl/logger"
)

type Etl struct {
	loggerProvider logger.Provider
	conn           *connection.Connection
	service        pipeline.Pipeline
}

func NewEtl(loggerProvider logger.Provider, conn *connection.Connection) *Etl {
	return &Etl{
		loggerProvider,
		conn,
		pipeline.NewService(loggerProvider, dal.NewBigQuery(conn)),
	}
}

type runRequest struct {
	FullLoad      bool   `json:"full_load"`
	Limit         int    `json:"limit"`
	ThresholdDays int    `json:"threshold_days"`
	EndDate       string `json:"end_date"`
}

// Run triggers a pipeline run. The body is optional; an empty body runs an
// incremental load with default settings.
func (h *Etl) Run(ctx *gin.Context) error {
	var req runRequest

	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return web.NewRequestError(err, http.StatusBadRequest)
		}
	}

	summary, err := h.service.Run(ctx, pipeline.RunParams{
		FullLoad:                req.FullLoad,
		Limit:                   req.Limit,
		InactivityThresholdDays: req.ThresholdDays,
		EvaluationDate:          req.EndDate,
	})
	if err != nil {
		if summary == nil {
			return web.NewRequestError(err, http.StatusInternalServerError)
		}

		// The run produced a summary; report it alongside the failure so the
		// caller can see which stages went wrong.
		return web.Respond(ctx, summary, http.StatusInternalServerError)
	}

	return web.Respond(ctx, summary, http.StatusOK)
}

// Health is the liveness probe.
func (h *Etl) Health(ctx *gin.Context) error {
	return web.Respond(ctx, gin.H{"status": "ok"}, http.StatusOK)
}
