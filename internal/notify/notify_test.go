package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"casefinder/internal/domain"
	"casefinder/internal/eventbus"
)

func TestBusNotifierPublishesNotificationEvent(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()

	got := make(chan domain.Notification, 1)
	bus.Subscribe(eventbus.EventNotificationRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.NotificationRequestedEvent); ok {
			got <- ev.Notification
		}
	})

	want := domain.Notification{Title: "Success!", Message: "10010010 - Case was found!", Severity: domain.SeveritySuccess}
	NewBusNotifier(bus).Notify(want)

	select {
	case n := <-got:
		require.Equal(t, want, n)
	case <-time.After(time.Second):
		t.Fatal("notification was not published")
	}
}

func TestWriterNotifierPrintsMessage(t *testing.T) {
	var buf bytes.Buffer
	NewWriterNotifier(&buf).Notify(domain.Notification{
		Title:    "Error!",
		Message:  "not found - Case was not found!",
		Severity: domain.SeverityError,
	})

	out := buf.String()
	require.Contains(t, out, "Error!")
	require.Contains(t, out, "not found - Case was not found!")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	require.False(t, ok)

	r.Notify(domain.Notification{Title: "a"})
	r.Notify(domain.Notification{Title: "b"})

	last, ok := r.Last()
	require.True(t, ok)
	require.Equal(t, "b", last.Title)
	require.Len(t, r.Notifications(), 2)
}

func TestFuncAdapter(t *testing.T) {
	var got string
	var n Notifier = Func(func(n domain.Notification) { got = n.Message })
	n.Notify(domain.Notification{Message: "hello"})
	require.Equal(t, "hello", got)
}
