package watch

import "testing"

func TestCellGetReturnsInitialValue(t *testing.T) {
	cell := NewCell(42)
	if got := cell.Get(); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCellSetNotifiesSubscriber(t *testing.T) {
	cell := NewCell("")
	sub := cell.Watch()
	defer sub.Close()

	cell.Set("hello")

	select {
	case got := <-sub.C():
		if got != "hello" {
			t.Fatalf("expected hello, got %q", got)
		}
	default:
		t.Fatal("expected a buffered notification")
	}
}

func TestCellConflatesToLatest(t *testing.T) {
	cell := NewCell(0)
	sub := cell.Watch()
	defer sub.Close()

	cell.Set(1)
	cell.Set(2)
	cell.Set(3)

	select {
	case got := <-sub.C():
		if got != 3 {
			t.Fatalf("expected latest value 3, got %d", got)
		}
	default:
		t.Fatal("expected a buffered notification")
	}
	if got := cell.Get(); got != 3 {
		t.Fatalf("expected current value 3, got %d", got)
	}
}

func TestCellNoReplayBeforeWatch(t *testing.T) {
	cell := NewCell(0)
	cell.Set(1)

	sub := cell.Watch()
	defer sub.Close()

	select {
	case got := <-sub.C():
		t.Fatalf("expected no replay, got %d", got)
	default:
	}
}

func TestSubCloseStopsDelivery(t *testing.T) {
	cell := NewCell(0)
	sub := cell.Watch()
	sub.Close()
	sub.Close() // idempotent

	cell.Set(5)

	select {
	case got := <-sub.C():
		t.Fatalf("expected no delivery after close, got %d", got)
	default:
	}
}

func TestCellIndependentSubscribers(t *testing.T) {
	cell := NewCell(0)
	first := cell.Watch()
	second := cell.Watch()
	defer first.Close()
	defer second.Close()

	cell.Set(7)

	for _, sub := range []*Sub[int]{first, second} {
		select {
		case got := <-sub.C():
			if got != 7 {
				t.Fatalf("expected 7, got %d", got)
			}
		default:
			t.Fatal("expected each subscriber to be notified")
		}
	}
}
