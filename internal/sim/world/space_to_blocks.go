package world

import "voxelcore.dev/internal/sim/universe"

// SpaceToBlocks returns a space with one Recur block per resolution-sized
// region of the referenced space, so that together they reproduce it at
// 1/resolution scale.
func SpaceToBlocks(resolution Resolution, attributes BlockAttributes, ref universe.URef[Space]) (*Space, error) {
	resolution = max(resolution, 1)
	var src Grid
	if err := ref.Read(func(s *Space) error {
		src = s.Grid()
		return nil
	}); err != nil {
		return nil, err
	}

	r := int(resolution)
	dst := NewSpace(src.Divide(r))
	err := dst.Fill(dst.Grid(), func(c Vec3i) (Block, bool) {
		return Recur{
			Attributes: attributes,
			Offset:     c.Scale(r),
			Resolution: resolution,
			Space:      ref,
		}, true
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
