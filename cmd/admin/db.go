package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type dbQueryOpts struct {
	Limit int
	Space string
	Since uint64
}

var errUnknownQuery = errors.New("unknown query")

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	space := fs.String("space", "", "space filter (steps, edits)")
	since := fs.Uint64("since", 0, "only ticks >= since")
	_ = fs.Parse(args)

	q := "snapshots"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	err = queryDB(db, q, dbQueryOpts{Limit: *limit, Space: strings.TrimSpace(*space), Since: *since}, os.Stdout)
	if errors.Is(err, errUnknownQuery) {
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data] [-world WORLD|-db PATH] [-limit N] [-space S] [-since T] snapshots|steps|edits|catalogs")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, q+":", err)
		os.Exit(1)
	}
}

// queryDB prints one JSON line per row of the named query, newest first.
func queryDB(db *sql.DB, q string, o dbQueryOpts, out io.Writer) error {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	switch q {
	case "snapshots":
		rows, err := db.Query(`SELECT tick,path,world_id,block_defs,spaces,light_queue FROM snapshots WHERE tick>=? ORDER BY tick DESC LIMIT ?`, int64(o.Since), o.Limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick       int64  `json:"tick"`
				Path       string `json:"path"`
				WorldID    string `json:"world_id"`
				BlockDefs  int    `json:"block_defs"`
				Spaces     int    `json:"spaces"`
				LightQueue int    `json:"light_queue"`
			}
			if err := rows.Scan(&r.Tick, &r.Path, &r.WorldID, &r.BlockDefs, &r.Spaces, &r.LightQueue); err != nil {
				return err
			}
			_ = enc.Encode(r)
		}
		return rows.Err()

	case "steps":
		query := `SELECT tick,digest,edits,light_updates,light_queued,max_diff,'' FROM steps WHERE tick>=? ORDER BY tick DESC LIMIT ?`
		args := []any{int64(o.Since), o.Limit}
		if o.Space != "" {
			query = `SELECT s.tick,s.digest,s.edits,s.light_updates,s.light_queued,s.max_diff,p.light_digest FROM steps s JOIN space_steps p ON p.tick=s.tick WHERE s.tick>=? AND p.space=? ORDER BY s.tick DESC LIMIT ?`
			args = []any{int64(o.Since), o.Space, o.Limit}
		}
		rows, err := db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick         int64  `json:"tick"`
				Digest       string `json:"digest"`
				Edits        int    `json:"edits"`
				LightUpdates int    `json:"light_updates"`
				LightQueued  int    `json:"light_queued"`
				MaxDiff      int    `json:"max_diff"`
				LightDigest  string `json:"light_digest,omitempty"`
			}
			if err := rows.Scan(&r.Tick, &r.Digest, &r.Edits, &r.LightUpdates, &r.LightQueued, &r.MaxDiff, &r.LightDigest); err != nil {
				return err
			}
			_ = enc.Encode(r)
		}
		return rows.Err()

	case "edits":
		query := `SELECT tick,seq,edit_json FROM edits WHERE tick>=? ORDER BY tick DESC, seq DESC LIMIT ?`
		args := []any{int64(o.Since), o.Limit}
		if o.Space != "" {
			query = `SELECT tick,seq,edit_json FROM edits WHERE tick>=? AND space=? ORDER BY tick DESC, seq DESC LIMIT ?`
			args = []any{int64(o.Since), o.Space, o.Limit}
		}
		rows, err := db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick int64           `json:"tick"`
				Seq  int             `json:"seq"`
				Edit json.RawMessage `json:"edit"`
			}
			var raw string
			if err := rows.Scan(&r.Tick, &r.Seq, &raw); err != nil {
				return err
			}
			r.Edit = json.RawMessage(raw)
			_ = enc.Encode(r)
		}
		return rows.Err()

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				return err
			}
			_ = enc.Encode(r)
		}
		return rows.Err()

	default:
		return errUnknownQuery
	}
}
