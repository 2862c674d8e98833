package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()

	bus.Publish(NewStageStartedEvent("sess-1", "individual-thought", 1))

	for _, ch := range []<-chan Event{ch1, ch2} {
		e := drain(t, ch)
		assert.Equal(t, TypeStageStarted, e.EventType())
		assert.Equal(t, "sess-1", e.SessionID())
	}
}

func TestSubscribeFiltersByType(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	ch := bus.Subscribe(TypeVotesTallied)

	bus.Publish(NewStageStartedEvent("sess-1", "output-generation", 1))
	bus.Publish(NewVotesTalliedEvent("sess-1", map[string]string{"eiro-001": "kanshi-001"}, []string{"kanshi-001"}))

	e := drain(t, ch)
	require.Equal(t, TypeVotesTallied, e.EventType())

	tallied, ok := e.(VotesTalliedEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"kanshi-001"}, tallied.Winners)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event %s", extra.EventType())
	default:
	}
}

func TestFullBufferDropsOldest(t *testing.T) {
	bus := New(1)
	defer bus.Close()

	ch := bus.Subscribe()

	bus.Publish(NewStageStartedEvent("sess-1", "individual-thought", 1))
	bus.Publish(NewStageStartedEvent("sess-1", "mutual-reflection", 1))

	e := drain(t, ch)
	started, ok := e.(StageStartedEvent)
	require.True(t, ok)
	assert.Equal(t, "mutual-reflection", started.Stage)
	assert.EqualValues(t, 1, bus.DroppedCount())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(NewStageStartedEvent("sess-1", "individual-thought", 1))
}

func TestPublishAfterClose(t *testing.T) {
	bus := New(8)
	ch := bus.Subscribe()
	bus.Close()

	_, open := <-ch
	assert.False(t, open)

	bus.Publish(NewStageStartedEvent("sess-1", "individual-thought", 1))
	bus.PublishPriority(NewSessionCompletedEvent("sess-1", "eiro-001", ""))
}

func TestPriorityDelivery(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	ch := bus.SubscribePriority()
	bus.PublishPriority(NewSessionCompletedEvent("sess-1", "eiro-001", "out-1"))

	e := drain(t, ch)
	completed, ok := e.(SessionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "eiro-001", completed.Finalizer)
	assert.Equal(t, "out-1", completed.OutputID)
}
