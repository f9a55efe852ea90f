package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/universe"
)

func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	w.digestBlockDefs(h, &tmp)
	w.digestSpaces(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

// StateDigest hashes everything that affects future ticks.
func (w *World) StateDigest() string { return w.stateDigest(w.tick.Load()) }

func (w *World) digestBlockDefs(h hashWriter, tmp *[8]byte) {
	names := w.u.Blocks.Names()
	digestWriteU64(h, tmp, uint64(len(names)))
	for _, n := range names {
		ref, _ := w.u.Blocks.Get(n)
		digestWriteName(h, tmp, n)
		_ = ref.Read(func(d *BlockDef) error {
			digestWriteBlock(h, tmp, blockToV1(d.block))
			return nil
		})
	}
}

func (w *World) digestSpaces(h hashWriter, tmp *[8]byte) {
	names := w.u.Spaces.Names()
	digestWriteU64(h, tmp, uint64(len(names)))
	for _, n := range names {
		ref, _ := w.u.Spaces.Get(n)
		digestWriteName(h, tmp, n)
		err := ref.Read(func(s *Space) error {
			sv := s.exportV1()
			for _, v := range sv.Lower {
				digestWriteI64(h, tmp, int64(v))
			}
			for _, v := range sv.Size {
				digestWriteI64(h, tmp, int64(v))
			}
			digestWriteU64(h, tmp, uint64(len(sv.Palette)))
			for _, b := range sv.Palette {
				digestWriteBlock(h, tmp, b)
			}
			digestWriteString(h, tmp, sv.Contents)
			h.Write(sv.Light)
			digestWriteU64(h, tmp, uint64(len(sv.LightQueue)))
			for _, r := range sv.LightQueue {
				h.Write([]byte{r.Priority})
				for _, v := range r.Cube {
					digestWriteI64(h, tmp, int64(v))
				}
			}
			return nil
		})
		if err != nil {
			digestWriteString(h, tmp, err.Error())
		}
	}
}

// spaceLightDigest is the named space's LightDigest, if it can be borrowed.
func (w *World) spaceLightDigest(n universe.Name) (string, bool) {
	ref, ok := w.u.Spaces.Get(n)
	if !ok {
		return "", false
	}
	var d string
	if err := ref.Read(func(s *Space) error {
		d = s.LightDigest()
		return nil
	}); err != nil {
		return "", false
	}
	return d, true
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF32(h hashWriter, tmp *[8]byte, v float32) {
	digestWriteU64(h, tmp, uint64(math.Float32bits(v)))
}

func digestWriteString(h hashWriter, tmp *[8]byte, s string) {
	digestWriteU64(h, tmp, uint64(len(s)))
	h.Write([]byte(s))
}

func digestWriteName(h hashWriter, tmp *[8]byte, n universe.Name) {
	digestWriteString(h, tmp, n.Specific)
	digestWriteU64(h, tmp, n.Anon)
}

func digestWriteBlock(h hashWriter, tmp *[8]byte, b snapshot.BlockV1) {
	digestWriteString(h, tmp, b.Kind)
	a := b.Attributes
	digestWriteString(h, tmp, a.DisplayName)
	h.Write([]byte{boolByte(a.Selectable), boolByte(a.Solid)})
	for _, v := range a.LightEmission {
		digestWriteF32(h, tmp, v)
	}
	for _, v := range b.Color {
		digestWriteF32(h, tmp, v)
	}
	for _, v := range b.Offset {
		digestWriteI64(h, tmp, int64(v))
	}
	h.Write([]byte{b.Resolution})
	digestWriteName(h, tmp, nameFromV1(b.Space))
	digestWriteName(h, tmp, nameFromV1(b.Def))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}
