package world

import (
	"sync/atomic"

	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/universe"
)

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg WorldConfig
	u   *Universe

	tick atomic.Uint64

	inbox         chan Edit
	observerJoin  chan ObserverJoinRequest
	observerSub   chan ObserverSubscribeRequest
	observerLeave chan string
	bootstrapReq  chan bootstrapReq
	snapshotReq   chan snapshotReq
	stop          chan struct{}

	observers map[string]*observerClient

	// Optional logger (may be nil). Implemented in internal/persistence/log.
	stepLogger StepLogger

	// Optional snapshot sink (may be nil). Snapshot writing should be off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

type StepLogger interface {
	WriteStep(entry StepLogEntry) error
}

// StepLogEntry is the per-tick record used for replay verification.
type StepLogEntry struct {
	Tick   uint64            `json:"tick"`
	Edits  []Edit            `json:"edits,omitempty"`
	Light  LightUpdateInfo   `json:"light"`
	Spaces map[string]string `json:"spaces"`
	Digest string            `json:"digest"`
}

// New wraps u; the world takes ownership of it.
func New(cfg WorldConfig, u *Universe) *World {
	cfg.applyDefaults()
	if u == nil {
		u = NewUniverse()
	}
	w := &World{
		cfg:           cfg,
		u:             u,
		inbox:         make(chan Edit, 1024),
		observerJoin:  make(chan ObserverJoinRequest, 16),
		observerSub:   make(chan ObserverSubscribeRequest, 16),
		observerLeave: make(chan string, 16),
		bootstrapReq:  make(chan bootstrapReq, 16),
		snapshotReq:   make(chan snapshotReq, 1),
		stop:          make(chan struct{}),
		observers:     map[string]*observerClient{},
	}
	w.applyBatchSize()
	return w
}

func (w *World) applyBatchSize() {
	for _, name := range w.u.Spaces.Names() {
		ref, _ := w.u.Spaces.Get(name)
		_ = ref.Write(func(s *Space) error {
			s.SetLightBatchSize(w.cfg.LightBatchSize)
			return nil
		})
	}
}

func (w *World) SetStepLogger(l StepLogger)                    { w.stepLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

// Inbox accepts edits for the next tick.
func (w *World) Inbox() chan<- Edit { return w.inbox }

func (w *World) ObserverJoin() chan<- ObserverJoinRequest           { return w.observerJoin }
func (w *World) ObserverSubscribe() chan<- ObserverSubscribeRequest { return w.observerSub }
func (w *World) ObserverLeave() chan<- string                       { return w.observerLeave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// Universe must only be used from the world loop goroutine, or while the
// loop is not running.
func (w *World) Universe() *Universe { return w.u }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.TickRateHz
}

func nameLabel(n universe.Name) string {
	if n.IsAnonymous() {
		return n.String()
	}
	return n.Specific
}
