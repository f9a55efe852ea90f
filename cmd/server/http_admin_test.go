package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/world"
)

func newTestServer(t *testing.T, run bool) (*world.World, *httptest.Server, chan snapshot.SnapshotV1) {
	t.Helper()
	u := world.NewUniverse()
	if _, err := u.InsertSpace("main", world.EmptyPositive(3, 3, 3)); err != nil {
		t.Fatalf("space: %v", err)
	}
	w := world.New(world.WorldConfig{ID: "t1", TickRateHz: 50}, u)
	sink := make(chan snapshot.SnapshotV1, 1)
	w.SetSnapshotSink(sink)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	if run {
		go func() {
			defer close(done)
			_ = w.Run(ctx)
		}()
	} else {
		close(done)
	}
	ts := httptest.NewServer(newMux(w, nil, true, nil))
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return w, ts, sink
}

func TestMux_Healthz(t *testing.T) {
	_, ts, _ := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(b) != "ok" {
		t.Fatalf("status=%d body=%q", resp.StatusCode, b)
	}
}

func TestMux_MetricsReportsTick(t *testing.T) {
	w, ts, _ := newTestServer(t, false)
	w.StepOnce(nil)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `voxelcore_world_tick{world="t1"} 1`) {
		t.Fatalf("metrics=%s", b)
	}
}

func TestMux_EditsApplyOnNextTick(t *testing.T) {
	w, ts, sink := newTestServer(t, true)
	body := `[{"type":"SET_BLOCK","space":"main","cube":[1,1,1],"block":{"color":[1,0,0,1]}}]`
	resp, err := http.Post(ts.URL+"/admin/v1/edits", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Accepted int `json:"accepted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || out.Accepted != 1 {
		t.Fatalf("status=%d accepted=%d", resp.StatusCode, out.Accepted)
	}

	waitTick(t, w, w.CurrentTick()+2)
	if _, err := w.RequestSnapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap := <-sink
	if n := len(snap.Spaces[0].Palette); n != 2 {
		t.Fatalf("palette=%d want=2", n)
	}
}

func TestMux_EditsRejectsBadJSON(t *testing.T) {
	_, ts, _ := newTestServer(t, false)
	resp, err := http.Post(ts.URL+"/admin/v1/edits", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestMux_SnapshotRequest(t *testing.T) {
	w, ts, sink := newTestServer(t, true)
	waitTick(t, w, 1)
	resp, err := http.Post(ts.URL+"/admin/v1/snapshot", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	snap := <-sink
	if snap.Header.WorldID != "t1" || len(snap.Spaces) != 1 {
		t.Fatalf("snapshot=%+v", snap.Header)
	}
}

func TestLatestSnapshot(t *testing.T) {
	dir := t.TempDir()
	for _, tick := range []uint64{3, 12, 7} {
		path := filepath.Join(dir, "snapshots", strconv.FormatUint(tick, 10)+".snap.zst")
		if err := snapshot.WriteSnapshot(path, snapshot.SnapshotV1{Header: snapshot.Header{Version: snapshot.Version, Tick: tick}}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got := latestSnapshot(dir); filepath.Base(got) != "12.snap.zst" {
		t.Fatalf("latest=%s", got)
	}
	if got := latestSnapshot(t.TempDir()); got != "" {
		t.Fatalf("empty dir latest=%q", got)
	}
}

func waitTick(t *testing.T, w *world.World, tick uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for w.CurrentTick() < tick {
		if time.Now().After(deadline) {
			t.Fatalf("tick=%d never reached %d", w.CurrentTick(), tick)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
