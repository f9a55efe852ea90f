package listen

import "weak"

// Sink collects messages for inspection, mostly in tests.
type Sink[M any] struct {
	queue []M
}

func NewSink[M any]() *Sink[M] { return &Sink[M]{} }

// Listener returns a listener that appends to s while s is reachable.
func (s *Sink[M]) Listener() Listener[M] {
	return sinkListener[M]{sink: weak.Make(s)}
}

// Next pops the oldest collected message.
func (s *Sink[M]) Next() (M, bool) {
	var zero M
	if len(s.queue) == 0 {
		return zero, false
	}
	m := s.queue[0]
	s.queue = s.queue[1:]
	return m, true
}

func (s *Sink[M]) Len() int { return len(s.queue) }

// Drain returns and clears everything collected so far.
func (s *Sink[M]) Drain() []M {
	out := s.queue
	s.queue = nil
	return out
}

type sinkListener[M any] struct {
	sink weak.Pointer[Sink[M]]
}

func (l sinkListener[M]) Receive(msg M) {
	if s := l.sink.Value(); s != nil {
		s.queue = append(s.queue, msg)
	}
}

func (l sinkListener[M]) Alive() bool { return l.sink.Value() != nil }
