package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

// AttachRequestContext gives every request an SSE buffer. Messages queued by
// services are emitted once the handler succeeds and dropped otherwise.
func AttachRequestContext(emitter services.SSEEmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithSSEData(c.Request.Context())
		ssd := ctxutil.GetSSEData(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		msgs := ssd.Drain()
		if emitter == nil || len(msgs) == 0 || c.Writer.Status() >= 400 {
			return
		}
		for _, msg := range msgs {
			emitter.Emit(c.Request.Context(), msg)
		}
	}
}
