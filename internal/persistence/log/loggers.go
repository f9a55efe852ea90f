package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelcore.dev/internal/sim/world"
)

// hourLayout names one file per UTC hour; names sort in write order.
const hourLayout = "2006-01-02-15"

// StepLogger appends step entries as JSON lines to zstd files under
// StepDir(worldDir), starting a new file every hour. A file is a complete
// zstd stream only once it has been rotated away from or closed.
type StepLogger struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	hour string
	f    *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	enc  *json.Encoder
}

func NewStepLogger(worldDir string) *StepLogger {
	return &StepLogger{dir: StepDir(worldDir), now: time.Now}
}

func (l *StepLogger) WriteStep(e world.StepLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hour := l.now().UTC().Format(hourLayout); hour != l.hour {
		if err := l.openLocked(hour); err != nil {
			return err
		}
	}
	if err := l.enc.Encode(e); err != nil {
		return err
	}
	return l.bw.Flush()
}

func (l *StepLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *StepLogger) openLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.dir, stepPrefix+"-"+hour+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f, l.zw, l.hour = f, zw, hour
	l.bw = bufio.NewWriterSize(zw, 64*1024)
	l.enc = json.NewEncoder(l.bw)
	return nil
}

func (l *StepLogger) closeLocked() error {
	if l.f == nil {
		return nil
	}
	err := l.bw.Flush()
	if cerr := l.zw.Close(); err == nil {
		err = cerr
	}
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f, l.zw, l.bw, l.enc, l.hour = nil, nil, nil, nil, ""
	return err
}
