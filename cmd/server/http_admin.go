package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"voxelcore.dev/internal/sim/world"
	"voxelcore.dev/internal/transport/observer"
)

const maxEditBody = 1 << 20

func newMux(w *world.World, idx runtimeIndex, enableAdmin bool, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		id := w.ID()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP voxelcore_world_tick Next tick to simulate.\n")
		fmt.Fprintf(rw, "# TYPE voxelcore_world_tick gauge\n")
		fmt.Fprintf(rw, "voxelcore_world_tick{world=%q} %d\n", id, w.CurrentTick())

		if idx == nil {
			return
		}
		st := idx.Stats()
		fmt.Fprintf(rw, "# HELP voxelcore_index_queue_depth Index writer backlog.\n")
		fmt.Fprintf(rw, "# TYPE voxelcore_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "voxelcore_index_queue_depth{world=%q} %d\n", id, st.QueueDepth)
		fmt.Fprintf(rw, "# HELP voxelcore_index_dropped_total Index writes dropped because the queue was full.\n")
		fmt.Fprintf(rw, "# TYPE voxelcore_index_dropped_total counter\n")
		fmt.Fprintf(rw, "voxelcore_index_dropped_total{world=%q,kind=%q} %d\n", id, "step", st.DropStepTotal)
		fmt.Fprintf(rw, "voxelcore_index_dropped_total{world=%q,kind=%q} %d\n", id, "snapshot", st.DropSnapshotTotal)
	})

	if !enableAdmin {
		if logger != nil {
			logger.Printf("admin endpoints disabled (VC_ENABLE_ADMIN_HTTP=false)")
		}
		return mux
	}

	// Local-only admin endpoints.
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(struct {
			WorldID    string `json:"world_id"`
			Tick       uint64 `json:"tick"`
			TickRateHz int    `json:"tick_rate_hz"`
		}{
			WorldID:    w.ID(),
			Tick:       w.CurrentTick(),
			TickRateHz: w.TickRateHz(),
		})
	})
	mux.HandleFunc("/admin/v1/snapshot", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		tick, err := w.RequestSnapshot(ctx)
		rw.Header().Set("Content-Type", "application/json")
		if err != nil {
			rw.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(rw).Encode(map[string]any{"ok": false, "tick": tick, "error": err.Error()})
			return
		}
		_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true, "tick": tick})
	})
	mux.HandleFunc("/admin/v1/edits", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		var edits []world.Edit
		if err := json.NewDecoder(io.LimitReader(r.Body, maxEditBody)).Decode(&edits); err != nil {
			http.Error(rw, "bad edits: "+err.Error(), http.StatusBadRequest)
			return
		}
		accepted := 0
		for _, e := range edits {
			select {
			case w.Inbox() <- e:
				accepted++
			default:
			}
		}
		rw.Header().Set("Content-Type", "application/json")
		if accepted < len(edits) {
			rw.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(rw).Encode(map[string]any{"accepted": accepted, "tick": w.CurrentTick()})
	})

	obsSrv := observer.NewServer(w, logger)
	mux.HandleFunc("/admin/v1/observer/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/admin/v1/observer/ws", obsSrv.WSHandler())
	return mux
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
