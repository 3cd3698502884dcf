package bus

import (
	"context"
	"testing"

	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

func TestLocalBusForwards(t *testing.T) {
	b := NewLocalBus()
	var got []realtime.SSEMessage
	if err := b.StartForwarder(context.Background(), func(m realtime.SSEMessage) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.StartForwarder(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}

	msg := realtime.SSEMessage{Channel: "u1", Event: realtime.SSEEventCourseCreated}
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].Event != realtime.SSEEventCourseCreated {
		t.Fatalf("forwarded: %+v", got)
	}

	_ = b.Close()
	_ = b.Publish(context.Background(), msg)
	if len(got) != 1 {
		t.Fatalf("closed bus should not forward")
	}
}
