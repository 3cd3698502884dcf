package ctxutil

import (
	"context"
	"sync"

	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type sseDataKey struct{}

// SSEData collects realtime messages produced while serving one request.
// They are flushed after the handler returns.
type SSEData struct {
	mu       sync.Mutex
	Messages []realtime.SSEMessage
}

func WithSSEData(ctx context.Context) context.Context {
	return context.WithValue(ctx, sseDataKey{}, &SSEData{Messages: make([]realtime.SSEMessage, 0)})
}

func GetSSEData(ctx context.Context) *SSEData {
	if ctx == nil {
		return nil
	}
	ssd, ok := ctx.Value(sseDataKey{}).(*SSEData)
	if !ok {
		return nil
	}
	return ssd
}

func (d *SSEData) AppendMessage(msg realtime.SSEMessage) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.Messages = append(d.Messages, msg)
	d.mu.Unlock()
}

// Drain returns the collected messages and clears the buffer.
func (d *SSEData) Drain() []realtime.SSEMessage {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.Messages
	d.Messages = make([]realtime.SSEMessage, 0)
	return out
}
