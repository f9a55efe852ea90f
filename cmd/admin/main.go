package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		case "edit":
			editCmd(os.Args[2:])
			return
		case "slice":
			sliceCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// sliceCmd prints the light of one horizontal layer of a space from a snapshot.
func sliceCmd(args []string) {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (used to find the latest snapshot)")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	space := fs.String("space", "main", "space name")
	y := fs.Int("y", 1, "layer")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*snapPath)
	if path == "" && strings.TrimSpace(*worldID) != "" {
		path = latestSnapshot(filepath.Join(*dataDir, "worlds", *worldID))
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no snapshot found; provide -snapshot or -world")
		os.Exit(2)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	u, err := world.UniverseFromSnapshot(snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}
	if err := u.WithSpace(*space, func(s *world.Space) error {
		fmt.Printf("snapshot=%s tick=%d space=%s y=%d\n", filepath.Base(path), snap.Header.Tick, *space, *y)
		return renderSlice(os.Stdout, s, *y)
	}); err != nil {
		fmt.Fprintln(os.Stderr, "slice:", err)
		os.Exit(1)
	}
}

// lightRamp maps the brightest channel, in units of world.LightUnit/4, to a glyph.
const lightRamp = " .:-=+*#%@"

// renderSlice writes one row per z, one glyph per x. Opaque cubes print as '|'.
func renderSlice(w io.Writer, s *world.Space, y int) error {
	g := s.Grid()
	if y < g.Lower.Y || y >= g.Upper().Y {
		return fmt.Errorf("y=%d outside %d..%d", y, g.Lower.Y, g.Upper().Y-1)
	}
	var sb strings.Builder
	for z := g.Lower.Z; z < g.Upper().Z; z++ {
		for x := g.Lower.X; x < g.Upper().X; x++ {
			c := world.V3(x, y, z)
			if s.GetEvaluated(c).Opaque {
				sb.WriteByte('|')
				continue
			}
			l := s.GetLighting(c)
			v := int(max(l.R, l.G, l.B)) * 4 / world.LightUnit
			sb.WriteByte(lightRamp[min(v, len(lightRamp)-1)])
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}
