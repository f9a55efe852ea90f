package world

import (
	"voxelcore.dev/internal/sim/listen"
	"voxelcore.dev/internal/sim/universe"
)

// BlockDef is a shared, mutable block definition, referenced by Indirect.
//
// Whatever its current block depends on is forwarded to the def's own
// notifier, so listeners of an Indirect hear about changes at any depth.
type BlockDef struct {
	block    Block
	notifier *listen.Notifier[BlockChange]
	// gate guards the forwarding subscription to block.
	gate *listen.Gate
}

func NewBlockDef(b Block) *BlockDef {
	d := &BlockDef{
		block:    b,
		notifier: listen.NewNotifier[BlockChange](),
	}
	d.resubscribe()
	return d
}

func (d *BlockDef) Block() Block { return d.block }

func (d *BlockDef) Listen(l listen.Listener[BlockChange]) { d.notifier.Listen(l) }

// Modify begins a mutation. Nothing is visible until Commit.
func (d *BlockDef) Modify() *BlockDefMut {
	return &BlockDefMut{def: d, block: d.block}
}

func (d *BlockDef) resubscribe() {
	d.gate.Close()
	gate, fwd := listen.Gated(listen.Forwarder(d.notifier))
	d.gate = gate
	if err := Listen(d.block, fwd); err != nil {
		logger().Printf("[blockdef] listen to new block failed: block=%v err=%v", d.block, err)
	}
}

// BlockDefMut is the scoped handle through which a BlockDef changes.
type BlockDefMut struct {
	def   *BlockDef
	block Block
	done  bool
}

func (m *BlockDefMut) Block() Block { return m.block }

func (m *BlockDefMut) Set(b Block) { m.block = b }

// Commit installs the new block, moves the forwarding subscription to it and
// notifies listeners once. Later calls do nothing.
func (m *BlockDefMut) Commit() {
	if m.done {
		return
	}
	m.done = true
	d := m.def
	d.block = m.block
	d.resubscribe()
	d.notifier.Notify(BlockChange{})
}

// checkIndirectCycle fails with ErrCycle when b leads back to def through
// Indirect blocks. Definitions that cannot be read end the walk.
func checkIndirectCycle(b Block, def universe.URef[BlockDef]) error {
	seen := map[universe.URef[BlockDef]]bool{}
	for {
		ind, ok := b.(Indirect)
		if !ok || seen[ind.Def] {
			return nil
		}
		if ind.Def == def {
			return &universe.RefError{Name: def.Name(), Err: universe.ErrCycle}
		}
		seen[ind.Def] = true
		if err := ind.Def.Read(func(d *BlockDef) error {
			b = d.block
			return nil
		}); err != nil {
			return nil
		}
	}
}
