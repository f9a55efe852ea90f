package observer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"voxelcore.dev/internal/observerproto"
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/world"
)

func startWorld(t *testing.T) (*world.World, *httptest.Server) {
	t.Helper()
	u := world.NewUniverse()
	lamp := world.Builder().Color(color.White).LightEmission(color.NewRGB(1, 1, 1)).Build()
	if _, err := u.InsertBlockDef("lamp", lamp); err != nil {
		t.Fatalf("lamp: %v", err)
	}
	if _, err := u.InsertSpace("main", world.EmptyPositive(4, 4, 4)); err != nil {
		t.Fatalf("space: %v", err)
	}
	w := world.New(world.WorldConfig{ID: "obs", TickRateHz: 50}, u)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	srv := NewServer(w, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/v1/observer/bootstrap", srv.BootstrapHandler())
	mux.HandleFunc("/v1/observer", srv.WSHandler())
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return w, ts
}

func TestBootstrapHandler(t *testing.T) {
	_, ts := startWorld(t)

	resp, err := http.Get(ts.URL + "/admin/v1/observer/bootstrap")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var b observerproto.BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.WorldID != "obs" || b.WorldParams.TickRateHz != 50 || b.WorldParams.LightUnit != world.LightUnit {
		t.Fatalf("bootstrap=%+v", b)
	}
	if len(b.BlockDefs) != 1 || b.BlockDefs[0] != "lamp" {
		t.Fatalf("block_defs=%v", b.BlockDefs)
	}
	if len(b.Spaces) != 1 || b.Spaces[0].Name != "main" || b.Spaces[0].Size != [3]int{4, 4, 4} {
		t.Fatalf("spaces=%+v", b.Spaces)
	}
}

func TestBootstrapHandler_RejectsPost(t *testing.T) {
	_, ts := startWorld(t)
	resp, err := http.Post(ts.URL+"/admin/v1/observer/bootstrap", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestWSHandler_StreamsTicksAndLight(t *testing.T) {
	w, ts := startWorld(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/observer"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := observerproto.SubscribeMsg{
		Type:            observerproto.TypeSubscribe,
		ProtocolVersion: observerproto.Version,
		Space:           "main",
		WindowLower:     [3]int{0, 0, 0},
		WindowSize:      [3]int{2, 1, 1},
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	w.Inbox() <- world.Edit{Type: world.EditSetBlock, Space: "main", Cube: [3]int{3, 3, 3}, Block: world.BlockSpec{Ref: "lamp"}}

	var sawTick, sawLight bool
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for !(sawTick && sawLight) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v (tick=%v light=%v)", err, sawTick, sawLight)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		switch head.Type {
		case observerproto.TypeTick:
			var tm observerproto.TickMsg
			if err := json.Unmarshal(msg, &tm); err != nil {
				t.Fatalf("tick: %v", err)
			}
			if tm.Digest == "" || len(tm.Spaces) != 1 || tm.Spaces[0].Name != "main" {
				t.Fatalf("tick msg=%+v", tm)
			}
			sawTick = true
		case observerproto.TypeLight:
			var lm observerproto.LightMsg
			if err := json.Unmarshal(msg, &lm); err != nil {
				t.Fatalf("light: %v", err)
			}
			raw, err := base64.StdEncoding.DecodeString(lm.Data)
			if err != nil {
				t.Fatalf("light data: %v", err)
			}
			if lm.Space != "main" || len(raw) != 6 {
				t.Fatalf("light msg space=%s bytes=%d", lm.Space, len(raw))
			}
			sawLight = true
		}
	}
}

func TestWSHandler_RejectsBadHandshake(t *testing.T) {
	_, ts := startWorld(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/observer"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(map[string]string{"type": "HELLO"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("err=%v want policy violation close", err)
	}
}

func TestNormalizeSubscribe(t *testing.T) {
	sub := observerproto.SubscribeMsg{Space: "main", WindowSize: [3]int{100, -1, 8}}
	normalizeSubscribe(&sub)
	if sub.WindowSize != [3]int{32, 0, 8} {
		t.Fatalf("size=%v", sub.WindowSize)
	}
	sub = observerproto.SubscribeMsg{WindowLower: [3]int{1, 2, 3}, WindowSize: [3]int{4, 4, 4}}
	normalizeSubscribe(&sub)
	if sub.WindowSize != ([3]int{}) || sub.WindowLower != ([3]int{}) {
		t.Fatalf("no space should clear window: %+v", sub)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:1234": true,
		"[::1]:80":       true,
		"10.0.0.2:9000":  false,
		"garbage":        false,
	} {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("%s got=%v want=%v", addr, got, want)
		}
	}
}
