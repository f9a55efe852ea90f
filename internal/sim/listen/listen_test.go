package listen

import (
	"runtime"
	"testing"
)

func TestNotifier_DeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier[int]()
	var got []string
	n.Listen(Func[int](func(int) { got = append(got, "a") }))
	n.Listen(Func[int](func(int) { got = append(got, "b") }))
	n.Notify(1)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("delivery order got=%v", got)
	}
}

func TestGate_CloseStopsOnlyItsListener(t *testing.T) {
	n := NewNotifier[int]()
	s1 := NewSink[int]()
	s2 := NewSink[int]()
	gate, l := Gated(s1.Listener())
	n.Listen(l)
	n.Listen(s2.Listener())

	n.Notify(1)
	gate.Close()
	n.Notify(2)

	if s1.Len() != 1 {
		t.Fatalf("gated sink got=%d messages want=1", s1.Len())
	}
	if s2.Len() != 2 {
		t.Fatalf("ungated sink got=%d messages want=2", s2.Len())
	}
	if c := n.Count(); c != 1 {
		t.Fatalf("live listeners=%d want=1", c)
	}
}

func TestForwarder_ChainsNotifiers(t *testing.T) {
	upstream := NewNotifier[string]()
	downstream := NewNotifier[string]()
	sink := NewSink[string]()
	downstream.Listen(sink.Listener())
	upstream.Listen(Forwarder(downstream))

	upstream.Notify("hello")
	msg, ok := sink.Next()
	if !ok || msg != "hello" {
		t.Fatalf("forwarded msg=%q ok=%v", msg, ok)
	}
	if _, ok := sink.Next(); ok {
		t.Fatalf("expected exactly one message")
	}
}

func TestFilter_DropsAndMaps(t *testing.T) {
	n := NewNotifier[int]()
	sink := NewSink[string]()
	n.Listen(Filter(sink.Listener(), func(v int) (string, bool) {
		if v%2 != 0 {
			return "", false
		}
		return "even", true
	}))
	for i := 0; i < 4; i++ {
		n.Notify(i)
	}
	if got := sink.Drain(); len(got) != 2 {
		t.Fatalf("filtered messages got=%v want 2", got)
	}
}

func TestNotifier_ListenDuringNotifyDoesNotSeeCurrentMessage(t *testing.T) {
	n := NewNotifier[int]()
	late := NewSink[int]()
	n.Listen(Func[int](func(int) { n.Listen(late.Listener()) }))
	n.Notify(1)
	if late.Len() != 0 {
		t.Fatalf("late listener saw the in-flight message")
	}
	n.Notify(2)
	if late.Len() != 1 {
		t.Fatalf("late listener got=%d want=1", late.Len())
	}
}

func TestNotifier_IgnoresDeadListener(t *testing.T) {
	n := NewNotifier[int]()
	gate, l := Gated[int](Func[int](func(int) {}))
	gate.Close()
	n.Listen(l)
	if c := n.Count(); c != 0 {
		t.Fatalf("dead listener registered, count=%d", c)
	}
}

// listenThroughDroppedGate subscribes a counting listener and discards its gate.
func listenThroughDroppedGate(n *Notifier[int], hits *int) {
	_, l := Gated[int](Func[int](func(int) { *hits++ }))
	n.Listen(l)
}

// forwardToDroppedNotifier forwards n into a notifier nothing else holds.
func forwardToDroppedNotifier(n *Notifier[int], hits *int) {
	down := NewNotifier[int]()
	down.Listen(Func[int](func(int) { *hits++ }))
	n.Listen(Forwarder(down))
}

func TestGate_CollectedGateStopsListener(t *testing.T) {
	n := NewNotifier[int]()
	hits := 0
	listenThroughDroppedGate(n, &hits)
	runtime.GC()
	runtime.GC()

	n.Notify(1)
	if hits != 0 {
		t.Fatalf("hits=%d want=0 after gate was collected", hits)
	}
	if c := n.Count(); c != 0 {
		t.Fatalf("live listeners=%d want=0", c)
	}
}

func TestForwarder_CollectedTargetIsDead(t *testing.T) {
	n := NewNotifier[int]()
	hits := 0
	forwardToDroppedNotifier(n, &hits)
	runtime.GC()
	runtime.GC()

	n.Notify(1)
	if hits != 0 {
		t.Fatalf("hits=%d want=0 after target was collected", hits)
	}
	if c := n.Count(); c != 0 {
		t.Fatalf("live listeners=%d want=0", c)
	}
}

func TestGate_ZeroValueIsClosed(t *testing.T) {
	var g Gate
	g.Close()
	if !g.Closed() {
		t.Fatalf("zero gate not closed")
	}
}

func TestNotifier_ForwardingLoopDeliversOnce(t *testing.T) {
	a := NewNotifier[int]()
	b := NewNotifier[int]()
	a.Listen(Forwarder(b))
	b.Listen(Forwarder(a))
	var fromA, fromB int
	a.Listen(Func[int](func(int) { fromA++ }))
	b.Listen(Func[int](func(int) { fromB++ }))

	a.Notify(1)
	if fromA != 1 || fromB != 1 {
		t.Fatalf("fromA=%d fromB=%d want=1,1", fromA, fromB)
	}
	// The guard is released after delivery.
	b.Notify(2)
	if fromA != 2 || fromB != 2 {
		t.Fatalf("fromA=%d fromB=%d want=2,2", fromA, fromB)
	}
}
