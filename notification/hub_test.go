package notification

import "testing"

func TestPublishReachesSubscriber(t *testing.T) {
	ch := Subscribe("sess-1")
	defer Unsubscribe("sess-1", ch)

	Publish("sess-1", Progress{SessionId: "sess-1", Processed: 50, Pending: 100})
	got := <-ch
	if got.Processed != 50 || got.Pending != 100 {
		t.Fatalf("unexpected progress %+v", got)
	}
}

func TestPublishWithoutSubscriberDoesNotBlock(t *testing.T) {
	Publish("nobody-listening", Progress{Processed: 1})
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	ch := Subscribe("sess-2")
	defer Unsubscribe("sess-2", ch)

	for i := range 20 {
		Publish("sess-2", Progress{Processed: i})
	}
	// Buffer holds 8; the rest were dropped rather than blocking.
	if n := len(ch); n != 8 {
		t.Fatalf("expected full buffer of 8, got %d", n)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	ch := Subscribe("sess-3")
	Unsubscribe("sess-3", ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	// Publishing after unsubscribe is a no-op.
	Publish("sess-3", Progress{Processed: 1})
}
