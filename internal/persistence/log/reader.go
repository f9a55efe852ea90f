package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelcore.dev/internal/sim/world"
)

const stepPrefix = "steps"

// ErrStopReading may be returned from a ReadSteps callback to end iteration early.
var ErrStopReading = errors.New("stop reading")

// StepDir is where NewStepLogger puts its files for worldDir.
func StepDir(worldDir string) string { return filepath.Join(worldDir, stepPrefix) }

// ListStepFiles returns the step log files in dir, oldest first.
func ListStepFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, stepPrefix+"-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ReadSteps decodes every entry in the step log files under dir and hands them to fn in order.
func ReadSteps(dir string, fn func(world.StepLogEntry) error) error {
	files, err := ListStepFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := readStepFile(path, fn); err != nil {
			if errors.Is(err, ErrStopReading) {
				return nil
			}
			return err
		}
	}
	return nil
}

func readStepFile(path string, fn func(world.StepLogEntry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var entry world.StepLogEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return sc.Err()
}
