package services

import (
	"context"

	"github.com/yungbote/studyplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
	"github.com/yungbote/studyplanner-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// BusEmitter publishes on the realtime bus. Every API instance forwards the
// bus into its own hub, so clients connected anywhere receive the message.
type BusEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Bus == nil {
		return
	}
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("Failed to publish realtime message", "error", err, "event", msg.Event)
	}
}

// queueSSE appends msg to the request's SSE buffer. Outside a request, for
// example in a sweep, it falls back to the emitter.
func queueSSE(ctx context.Context, emitter SSEEmitter, msg realtime.SSEMessage) {
	if ssd := ctxutil.GetSSEData(ctx); ssd != nil {
		ssd.AppendMessage(msg)
		return
	}
	if emitter != nil {
		emitter.Emit(ctx, msg)
	}
}
