package world

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sort"

	"voxelcore.dev/internal/observerproto"
	"voxelcore.dev/internal/sim/universe"
)

// ObserverJoinRequest registers a read-only observer session that receives:
// - per-tick global state (TickOut)
// - packed light of an optional window (DataOut)
//
// All observer state is maintained by the world loop goroutine.
type ObserverJoinRequest struct {
	SessionID string
	TickOut   chan []byte
	DataOut   chan []byte

	Window LightWindow
}

// ObserverSubscribeRequest updates an existing observer session subscription settings.
type ObserverSubscribeRequest struct {
	SessionID string
	Window    LightWindow
}

// LightWindow selects cubes of one space. An empty Space means none.
type LightWindow struct {
	Space string
	Grid  Grid
}

type observerClient struct {
	id      string
	tickOut chan []byte
	dataOut chan []byte

	window LightWindow
	// lastData is the last window sent; unchanged light is not resent.
	lastData string
}

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	if req.SessionID == "" || req.TickOut == nil {
		return
	}
	w.observers[req.SessionID] = &observerClient{
		id:      req.SessionID,
		tickOut: req.TickOut,
		dataOut: req.DataOut,
		window:  req.Window,
	}
}

func (w *World) handleObserverSubscribe(req ObserverSubscribeRequest) {
	c := w.observers[req.SessionID]
	if c == nil {
		return
	}
	c.window = req.Window
	c.lastData = ""
}

func (w *World) handleObserverLeave(id string) {
	delete(w.observers, id)
}

func (w *World) broadcastObservers(nowTick uint64, entry StepLogEntry, info UniverseStepInfo, results []error) {
	if len(w.observers) == 0 {
		return
	}
	msg := observerproto.TickMsg{
		Type:            observerproto.TypeTick,
		ProtocolVersion: observerproto.Version,
		Tick:            nowTick,
		Digest:          entry.Digest,
	}
	names := make([]universe.Name, 0, len(info.Spaces))
	for n := range info.Spaces {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	for _, n := range names {
		si := info.Spaces[n]
		st := observerproto.SpaceState{
			Name:              nameLabel(n),
			LightDigest:       entry.Spaces[nameLabel(n)],
			LightUpdates:      si.Light.UpdateCount,
			LightQueued:       si.Light.QueueCount,
			MaxLightDiff:      int(si.Light.MaxUpdateDifference),
			BlocksReevaluated: si.BlocksReevaluated,
		}
		if ref, ok := w.u.Spaces.Get(n); ok {
			_ = ref.Read(func(s *Space) error {
				st.DistinctBlocks = s.DistinctBlocks()
				return nil
			})
		}
		msg.Spaces = append(msg.Spaces, st)
	}
	for i, e := range entry.Edits {
		ei := observerproto.EditInfo{Type: e.Type, Space: e.Space, Def: e.Def}
		if i < len(results) && results[i] != nil {
			ei.Error = results[i].Error()
		}
		msg.Edits = append(msg.Edits, ei)
	}
	b, err := json.Marshal(msg)
	if err != nil {
		logger().Printf("[observer] marshal tick: %v", err)
		return
	}

	ids := make([]string, 0, len(w.observers))
	for id := range w.observers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := w.observers[id]
		sendLatest(c.tickOut, b)
		w.sendObserverLight(nowTick, c)
	}
}

func (w *World) sendObserverLight(nowTick uint64, c *observerClient) {
	if c.dataOut == nil || c.window.Space == "" || c.window.Grid.Volume() == 0 {
		return
	}
	ref, ok := w.u.Space(c.window.Space)
	if !ok {
		return
	}
	var light GridArray[PackedLight]
	if err := ref.Read(func(s *Space) error {
		light = Extract(s, c.window.Grid, func(v CubeView) PackedLight { return v.Light })
		return nil
	}); err != nil {
		return
	}
	raw := make([]byte, 0, 3*c.window.Grid.Volume())
	for _, l := range light.Values() {
		raw = append(raw, l.R, l.G, l.B)
	}
	data := base64.StdEncoding.EncodeToString(raw)
	if data == c.lastData {
		return
	}
	c.lastData = data
	b, err := json.Marshal(observerproto.LightMsg{
		Type:            observerproto.TypeLight,
		ProtocolVersion: observerproto.Version,
		Tick:            nowTick,
		Space:           c.window.Space,
		Lower:           c.window.Grid.Lower.ToArray(),
		Size:            c.window.Grid.Size.ToArray(),
		Data:            data,
	})
	if err != nil {
		return
	}
	sendLatest(c.dataOut, b)
}

type bootstrapReq struct {
	resp chan observerproto.BootstrapResponse
}

// Bootstrap asks the running world loop for a description of the world.
func (w *World) Bootstrap(ctx context.Context) (observerproto.BootstrapResponse, error) {
	resp := make(chan observerproto.BootstrapResponse, 1)
	select {
	case w.bootstrapReq <- bootstrapReq{resp: resp}:
	case <-ctx.Done():
		return observerproto.BootstrapResponse{}, ctx.Err()
	}
	select {
	case r := <-resp:
		return r, nil
	case <-ctx.Done():
		return observerproto.BootstrapResponse{}, ctx.Err()
	}
}

func (w *World) bootstrap() observerproto.BootstrapResponse {
	out := observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		WorldID:         w.cfg.ID,
		Tick:            w.tick.Load(),
		WorldParams: observerproto.WorldParams{
			TickRateHz:     w.cfg.TickRateHz,
			LightBatchSize: w.cfg.LightBatchSize,
			LightUnit:      LightUnit,
		},
	}
	for _, n := range w.u.Blocks.Names() {
		out.BlockDefs = append(out.BlockDefs, nameLabel(n))
	}
	for _, n := range w.u.Spaces.Names() {
		ref, _ := w.u.Spaces.Get(n)
		_ = ref.Read(func(s *Space) error {
			g := s.Grid()
			out.Spaces = append(out.Spaces, observerproto.SpaceInfo{Name: nameLabel(n), Lower: g.Lower.ToArray(), Size: g.Size.ToArray()})
			return nil
		})
	}
	return out
}
