// Package listen is the publish/subscribe graph used to learn when block
// evaluations or space contents may have changed.
//
// Listeners are held by a Notifier only for as long as they report themselves
// alive, so subscribing never keeps the subscriber's owner around. Revocation is
// explicit: a Gate closes the listeners created with it.
package listen

import (
	"weak"

	"github.com/elliotchance/orderedmap/v2"
)

// Listener receives messages from a Notifier.
//
// Receive must not block or fail; it is called synchronously from Notify.
// Once Alive returns false it must keep returning false, and the listener may be
// dropped by its notifier at any time afterwards.
type Listener[M any] interface {
	Receive(msg M)
	Alive() bool
}

// Notifier broadcasts messages to its listeners in subscription order.
type Notifier[M any] struct {
	listeners *orderedmap.OrderedMap[uint64, Listener[M]]
	nextID    uint64
	// delivering is set while Notify runs.
	delivering bool
}

func NewNotifier[M any]() *Notifier[M] {
	return &Notifier[M]{listeners: orderedmap.NewOrderedMap[uint64, Listener[M]]()}
}

func (n *Notifier[M]) Listen(l Listener[M]) {
	if l == nil || !l.Alive() {
		return
	}
	n.nextID++
	n.listeners.Set(n.nextID, l)
}

// Notify delivers msg to every live listener and forgets dead ones.
// Listeners added during delivery do not see msg. A Notify that reaches n again
// from inside its own delivery (a forwarding loop) is dropped.
func (n *Notifier[M]) Notify(msg M) {
	if n.delivering {
		return
	}
	n.delivering = true
	defer func() { n.delivering = false }()

	type entry struct {
		id uint64
		l  Listener[M]
	}
	batch := make([]entry, 0, n.listeners.Len())
	for el := n.listeners.Front(); el != nil; el = el.Next() {
		batch = append(batch, entry{id: el.Key, l: el.Value})
	}
	for _, e := range batch {
		if !e.l.Alive() {
			n.listeners.Delete(e.id)
			continue
		}
		e.l.Receive(msg)
	}
}

// Count returns the number of listeners that are still alive, pruning the rest.
func (n *Notifier[M]) Count() int {
	var dead []uint64
	for el := n.listeners.Front(); el != nil; el = el.Next() {
		if !el.Value.Alive() {
			dead = append(dead, el.Key)
		}
	}
	for _, id := range dead {
		n.listeners.Delete(id)
	}
	return n.listeners.Len()
}

// Forwarder returns a listener that re-emits into target. It holds target only
// weakly: once the target notifier is unreachable the forwarder is dead.
func Forwarder[M any](target *Notifier[M]) Listener[M] {
	return forwarder[M]{target: weak.Make(target)}
}

type forwarder[M any] struct {
	target weak.Pointer[Notifier[M]]
}

func (f forwarder[M]) Receive(msg M) {
	if n := f.target.Value(); n != nil {
		n.Notify(msg)
	}
}

func (f forwarder[M]) Alive() bool { return f.target.Value() != nil }

// Filter maps messages for l; fn returning false drops the message.
func Filter[M, N any](l Listener[N], fn func(M) (N, bool)) Listener[M] {
	return filtered[M, N]{inner: l, fn: fn}
}

type filtered[M, N any] struct {
	inner Listener[N]
	fn    func(M) (N, bool)
}

func (f filtered[M, N]) Receive(msg M) {
	if out, ok := f.fn(msg); ok {
		f.inner.Receive(out)
	}
}

func (f filtered[M, N]) Alive() bool { return f.inner.Alive() }

// Func adapts a function to a Listener that is always alive. Pair it with a
// Gate when the subscription must end.
type Func[M any] func(M)

func (f Func[M]) Receive(msg M) { f(msg) }
func (f Func[M]) Alive() bool   { return true }
