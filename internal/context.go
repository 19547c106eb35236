package internal

import (
	"time"

	"github.com/gin-gonic/gin"
)

// CtxDataKey is the gin context key under which per-request data is stored.
const CtxDataKey = "app-context"

// Data carries request-scoped state shared between the middleware chain and
// the request logger: the trace id tying log entries to a pipeline run, the
// response status and the request start time.
type Data struct {
	TraceID    string
	StatusCode int
	Now        time.Time
}

// ContextWithData attaches request data to a gin.Context.
func ContextWithData(ctx *gin.Context, data *Data) {
	ctx.Set(CtxDataKey, data)
}

// DataFromContext returns the request data attached by ContextWithData.
func DataFromContext(ctx *gin.Context) (*Data, bool) {
	v, ok := ctx.Value(CtxDataKey).(*Data)
	return v, ok
}
