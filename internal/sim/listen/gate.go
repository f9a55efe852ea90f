package listen

import "weak"

// Gate is a revocable subscription handle held by the subscriber's owner.
// Closing it, or letting it become unreachable, kills the listener it guards
// without touching any other listener on the same notifier.
type Gate struct {
	// closed is shared with the listener. Holding a pointer also keeps the
	// Gate out of the tiny allocator, where a dead Gate could share a block
	// with live objects and never be collected.
	closed *bool
}

// Close is idempotent and safe on a nil Gate.
func (g *Gate) Close() {
	if g != nil && g.closed != nil {
		*g.closed = true
	}
}

func (g *Gate) Closed() bool { return g == nil || g.closed == nil || *g.closed }

// Gated wraps l so that it dies when the returned Gate is closed or collected.
func Gated[M any](l Listener[M]) (*Gate, Listener[M]) {
	g := &Gate{closed: new(bool)}
	return g, gatedListener[M]{gate: weak.Make(g), closed: g.closed, inner: l}
}

type gatedListener[M any] struct {
	gate   weak.Pointer[Gate]
	closed *bool
	inner  Listener[M]
}

func (l gatedListener[M]) Receive(msg M) {
	if l.Alive() {
		l.inner.Receive(msg)
	}
}

func (l gatedListener[M]) Alive() bool {
	return !*l.closed && l.gate.Value() != nil && l.inner.Alive()
}
