package workers

import (
	"care-thread/contract"
	"care-thread/domain/event"
	"care-thread/mocks"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sentEvent() event.AuditEvent {
	return event.AuditEvent{ID: uuid.New(), UserID: "u2", Action: event.MessageSent, Thread: "t1", At: time.Now().UTC()}
}

func TestEventFanout_Fanout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	sessionSink := mocks.NewMockEventSink(ctrl)
	evt := sentEvent()

	fanout := NewEventFanout(log, mockRegistry, 10, time.Second, permanentSink)

	// Given two sessions follow the thread
	mockRegistry.EXPECT().GetSinksForThread(evt.Thread).Return([]contract.EventSink{sessionSink, sessionSink}).Times(1)
	// Then the permanent sink gets it first, then each session
	gomock.InOrder(
		permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1),
		sessionSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(2),
	)

	// When the event is fanned out
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_Failing_Sink_Does_Not_Stop_Delivery(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	broken := mocks.NewMockEventSink(ctrl)
	healthy := mocks.NewMockEventSink(ctrl)
	evt := sentEvent()

	fanout := NewEventFanout(log, mockRegistry, 10, time.Second, broken, healthy)

	mockRegistry.EXPECT().GetSinksForThread(gomock.Any()).Return(nil).Times(1)
	broken.EXPECT().Consume(gomock.Any(), evt).Return(fmt.Errorf("disk full")).Times(1)
	healthy.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slow := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	fanout := NewEventFanout(log, mockRegistry, 10, sinkTimeout)

	mockRegistry.EXPECT().GetSinksForThread(gomock.Any()).Return([]contract.EventSink{slow}).Times(1)
	slow.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done() // Waiting for timeout to trigger cancellation
			return ctx.Err()
		}).Times(1)

	start := time.Now()
	fanout.Fanout(context.Background(), sentEvent())

	req.Less(time.Since(start), time.Second)
}

func TestEventFanout_Run_Delivers_Recorded_Events(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, mockRegistry, 10, time.Second, permanentSink)

	var delivered atomic.Int32
	done := make(chan struct{})
	mockRegistry.EXPECT().GetSinksForThread(gomock.Any()).Return(nil).Times(3)
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			if delivered.Add(1) == 3 {
				close(done)
			}
			return nil
		}).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = fanout.Run(ctx)
		close(stopped)
	}()

	// When three events are recorded
	for i := 0; i < 3; i++ {
		req.NoError(fanout.Record(ctx, sentEvent()))
	}

	// Then all of them are delivered
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("events were not delivered")
	}
	cancel()
	<-stopped
}

func TestEventFanout_Run_Drains_Queue_On_Cancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, mockRegistry, 10, time.Second, permanentSink)

	// Given five events queued while nothing runs
	for i := 0; i < 5; i++ {
		req.NoError(fanout.Record(context.Background(), sentEvent()))
	}

	// Then each one reaches the sink with a live context
	mockRegistry.EXPECT().GetSinksForThread(gomock.Any()).Return(nil).Times(5)
	permanentSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			return ctx.Err()
		}).Times(5)

	// When Run starts on an already canceled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(fanout.Run(ctx))

	// And the queue is empty afterwards
	req.Empty(fanout.events)
}

func TestEventFanout_Record_Respects_Context_When_Full(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	fanout := NewEventFanout(slog.Default(), mocks.NewMockIRegistry(ctrl), 1, time.Second)

	// Given the buffer is full and nobody drains it
	req.NoError(fanout.Record(context.Background(), sentEvent()))

	// When recording with a short deadline
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := fanout.Record(ctx, sentEvent())

	// Then the caller gets its context error back
	req.ErrorIs(err, context.DeadlineExceeded)
}
