// Package scene builds the starting universe described by tuning.yaml.
package scene

import (
	"fmt"

	"voxelcore.dev/internal/sim/blockgen"
	"voxelcore.dev/internal/sim/catalogs"
	"voxelcore.dev/internal/sim/tuning"
	"voxelcore.dev/internal/sim/world"
)

// BlockSpec converts a catalog entry into an edit-style block description.
func BlockSpec(d catalogs.BlockDef) world.BlockSpec {
	return world.BlockSpec{
		Color:         d.Color,
		LightEmission: d.LightEmission,
		DisplayName:   d.DisplayName,
		Solid:         d.Solid,
		Selectable:    d.Selectable,
	}
}

// InstallCatalog adds one BlockDef per catalog entry, named by its id, in
// palette order.
func InstallCatalog(u *world.Universe, cats *catalogs.Catalogs) error {
	if cats == nil {
		return nil
	}
	for _, id := range cats.Blocks.Palette {
		b, err := BlockSpec(cats.Blocks.Defs[id]).Resolve(u)
		if err != nil {
			return fmt.Errorf("catalog block %s: %w", id, err)
		}
		if _, err := u.InsertBlockDef(id, b); err != nil {
			return fmt.Errorf("catalog block %s: %w", id, err)
		}
	}
	return nil
}

// landscapeRoles fixes the install order of landscape definitions.
var landscapeRoles = []string{"grass", "dirt", "stone", "trunk", "leaves"}

// InstallLandscape adds the landscape blocks as BlockDefs named by role.
// A positive resolution makes grass recursive.
func InstallLandscape(u *world.Universe, resolution int) error {
	lb := blockgen.DefaultLandscapeBlocks()
	if resolution > 0 {
		var err error
		lb, err = blockgen.NewLandscapeBlocks(blockgen.BlockGen{Universe: u, Resolution: world.Resolution(resolution)})
		if err != nil {
			return err
		}
	}
	named := lb.Named()
	for _, role := range landscapeRoles {
		if _, err := u.InsertBlockDef(role, named[role]); err != nil {
			return fmt.Errorf("landscape %s: %w", role, err)
		}
	}
	return nil
}

// Build creates a universe with the catalog, the landscape blocks and the
// scene's space.
func Build(s tuning.Scene, cats *catalogs.Catalogs) (*world.Universe, error) {
	u := world.NewUniverse()
	if err := InstallCatalog(u, cats); err != nil {
		return nil, err
	}
	if err := InstallLandscape(u, s.LandscapeResolution); err != nil {
		return nil, err
	}

	space := world.EmptyPositive(s.Size[0], s.Size[1], s.Size[2])
	if s.FloorBlock != "" {
		floor, err := world.BlockSpec{Ref: s.FloorBlock}.Resolve(u)
		if err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
		g := world.NewGrid(world.Vec3i{}, world.V3(s.Size[0], 1, s.Size[2]))
		if err := space.FillUniform(g, floor); err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
	}
	for i, p := range s.Placements {
		b, err := world.BlockSpec{Ref: p.Block}.Resolve(u)
		if err != nil {
			return nil, fmt.Errorf("placements[%d]: %w", i, err)
		}
		if err := space.Set(world.Vec3iFromArray(p.Cube), b); err != nil {
			return nil, fmt.Errorf("placements[%d]: %w", i, err)
		}
	}
	if _, err := u.InsertSpace(s.Space, space); err != nil {
		return nil, err
	}
	return u, nil
}
