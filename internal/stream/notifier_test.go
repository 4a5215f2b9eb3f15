package stream

import (
	"testing"
	"time"
)

func TestNotifier_WakesSubscriber(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	n.Notify()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("subscriber was not woken")
	}
}

func TestNotifier_CoalescesSignals(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	// Several mutations while the subscriber is busy collapse into a
	// single pending wakeup.
	n.Notify()
	n.Notify()
	n.Notify()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected one pending signal")
	}

	select {
	case <-ch:
		t.Fatal("signals were queued instead of coalesced")
	default:
	}
}

func TestNotifier_FansOut(t *testing.T) {
	n := NewNotifier()
	ch1, cancel1 := n.Subscribe()
	defer cancel1()
	ch2, cancel2 := n.Subscribe()
	defer cancel2()

	n.Notify()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d was not woken", i)
		}
	}
}

func TestNotifier_CancelStopsDelivery(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()

	cancel()
	// Cancel is idempotent.
	cancel()

	n.Notify()

	select {
	case <-ch:
		t.Fatal("cancelled subscriber still received a signal")
	default:
	}
}

func TestNotifier_NotifyNeverBlocks(t *testing.T) {
	n := NewNotifier()
	_, cancel := n.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// A subscriber that never drains must not stall publishers.
		for i := 0; i < 100; i++ {
			n.Notify()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow subscriber")
	}
}
