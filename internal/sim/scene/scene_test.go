package scene

import (
	"testing"

	"voxelcore.dev/internal/sim/catalogs"
	"voxelcore.dev/internal/sim/tuning"
	"voxelcore.dev/internal/sim/world"
)

func TestBuild_RepoConfig(t *testing.T) {
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	tu, err := tuning.Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("tuning: %v", err)
	}
	u, err := Build(tu.Scene, cats)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := u.BlockDef("LAMP"); !ok {
		t.Fatalf("catalog not installed")
	}
	if _, ok := u.BlockDef("grass"); !ok {
		t.Fatalf("landscape not installed")
	}

	err = u.WithSpace(tu.Scene.Space, func(s *world.Space) error {
		floor := s.GetEvaluated(world.V3(0, 0, 0))
		if !floor.Opaque || floor.Voxels == nil {
			t.Fatalf("floor=%+v want opaque recursive grass", floor)
		}
		p := tu.Scene.Placements[0]
		if _, ok := s.Get(world.Vec3iFromArray(p.Cube)).(world.Indirect); !ok {
			t.Fatalf("placement not set")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("space: %v", err)
	}

	// Opaque floor and lamp cubes move away from the initial light.
	var lit bool
	for i := 0; i < 30 && !lit; i++ {
		info := u.Step().Total()
		lit = info.Light.MaxUpdateDifference > 0
	}
	if !lit {
		t.Fatalf("no light changes")
	}
}

func TestBuild_UnknownBlock(t *testing.T) {
	s := tuning.Defaults().Scene
	s.Placements = []tuning.Placement{{Block: "NOPE", Cube: [3]int{1, 1, 1}}}
	if _, err := Build(s, nil); err == nil {
		t.Fatalf("expected error for unknown block")
	}
}

func TestInstallLandscape_Flat(t *testing.T) {
	u := world.NewUniverse()
	if err := InstallLandscape(u, 0); err != nil {
		t.Fatalf("install: %v", err)
	}
	ref, _ := u.BlockDef("grass")
	ev, err := world.Evaluate(world.Indirect{Def: ref})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.Voxels != nil {
		t.Fatalf("flat landscape grass should be an atom")
	}
	if u.Spaces.Len() != 0 {
		t.Fatalf("spaces=%d want=0", u.Spaces.Len())
	}
}
