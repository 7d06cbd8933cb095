// Package trace records a simulation run to disk and reads it back.
//
// A trace directory holds a manifest, the input edges as snappy framed JSON
// lines and periodic variable snapshots as length prefixed records in a zstd
// stream. The input log alone is enough to replay a run.
package trace

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/AnatoleLucet/railsig/host"
)

const (
	ManifestFile = "manifest.json"
	InputsFile   = "inputs.jsonl.sz"
	FramesFile   = "frames.bin.zst"

	manifestVersion = 1
	frameHeaderSize = 8 + 8 + 4
)

var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Event is one input edge.
type Event struct {
	Name    string `json:"name"`
	Pressed bool   `json:"pressed"`
	Cockpit int    `json:"cockpit"`
}

// Input is an edge together with the tick that applied it.
type Input struct {
	Tick    uint64  `json:"tick"`
	Elapsed float64 `json:"elapsed"`
	Event
}

// Frame is a snapshot of the host variables after a tick.
type Frame struct {
	Tick     uint64
	Elapsed  float64
	Snapshot host.Snapshot
}

// Manifest describes the layout of a trace directory.
type Manifest struct {
	Version    int    `json:"version"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	FrameEvery uint64 `json:"frame_every"`
	InputsPath string `json:"inputs_path"`
	FramesPath string `json:"frames_path"`
}

// Recorder streams inputs and frames into a new trace directory.
// It is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex
	// frames are only kept on ticks that are a multiple of it
	frameEvery uint64

	dir       string
	inputFile *os.File
	inputs    *snappy.Writer
	frameFile *os.File
	frames    *zstd.Encoder
	closed    bool
}

// NewRecorder creates <root>/<name>-<timestamp> and opens its streams.
// frameEvery 0 keeps every frame. A nil clock uses time.Now.
func NewRecorder(root, name string, frameEvery uint64, clock func() time.Time) (*Recorder, Manifest, error) {
	if root == "" {
		return nil, Manifest{}, errors.New("trace: root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	if frameEvery == 0 {
		frameEvery = 1
	}

	cleaned := nameCleaner.ReplaceAllString(name, "")
	if cleaned == "" {
		cleaned = "run"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, fmt.Errorf("trace: create directory: %w", err)
	}

	manifest := Manifest{
		Version:    manifestVersion,
		Name:       cleaned,
		CreatedAt:  created.Format(time.RFC3339Nano),
		FrameEvery: frameEvery,
		InputsPath: InputsFile,
		FramesPath: FramesFile,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("trace: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return nil, Manifest{}, fmt.Errorf("trace: write manifest: %w", err)
	}

	inputFile, err := os.Create(filepath.Join(dir, InputsFile))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("trace: create inputs: %w", err)
	}
	frameFile, err := os.Create(filepath.Join(dir, FramesFile))
	if err != nil {
		inputFile.Close()
		return nil, Manifest{}, fmt.Errorf("trace: create frames: %w", err)
	}
	frames, err := zstd.NewWriter(frameFile)
	if err != nil {
		inputFile.Close()
		frameFile.Close()
		return nil, Manifest{}, fmt.Errorf("trace: open frame encoder: %w", err)
	}

	r := &Recorder{
		frameEvery: frameEvery,
		dir:        dir,
		inputFile:  inputFile,
		inputs:     snappy.NewBufferedWriter(inputFile),
		frameFile:  frameFile,
		frames:     frames,
	}
	return r, manifest, nil
}

// Directory is the trace directory the recorder writes to.
func (r *Recorder) Directory() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// RecordInput appends one edge to the input log.
func (r *Recorder) RecordInput(tick uint64, elapsed float64, ev Event) error {
	line, err := json.Marshal(Input{Tick: tick, Elapsed: elapsed, Event: ev})
	if err != nil {
		return fmt.Errorf("trace: encode input: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return os.ErrClosed
	}
	if _, err := r.inputs.Write(line); err != nil {
		return fmt.Errorf("trace: write input: %w", err)
	}
	return nil
}

// RecordFrame appends a snapshot if tick falls on the frame cadence.
func (r *Recorder) RecordFrame(tick uint64, elapsed float64, snap host.Snapshot) error {
	if tick%r.frameEvery != 0 {
		return nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("trace: encode frame: %w", err)
	}

	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint64(header[0:8], tick)
	binary.LittleEndian.PutUint64(header[8:16], math.Float64bits(elapsed))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return os.ErrClosed
	}
	if _, err := r.frames.Write(header); err != nil {
		return fmt.Errorf("trace: write frame: %w", err)
	}
	if _, err := r.frames.Write(payload); err != nil {
		return fmt.Errorf("trace: write frame: %w", err)
	}
	return nil
}

// Flush pushes buffered inputs to disk.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return os.ErrClosed
	}
	if err := r.inputs.Flush(); err != nil {
		return fmt.Errorf("trace: flush inputs: %w", err)
	}
	return nil
}

// Close flushes and closes every stream and reports the first failure.
// Closing twice is a no-op.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("trace: close: %w", err)
		}
	}
	keep(r.inputs.Close())
	keep(r.inputFile.Close())
	keep(r.frames.Close())
	keep(r.frameFile.Close())
	return firstErr
}

// ReadManifest loads the manifest of a trace directory.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("trace: read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("trace: decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return Manifest{}, fmt.Errorf("trace: unsupported manifest version %d", m.Version)
	}
	return m, nil
}

// ReadInputs returns the recorded edges of a trace directory in order.
func ReadInputs(dir string) ([]Input, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, m.InputsPath))
	if err != nil {
		return nil, fmt.Errorf("trace: open inputs: %w", err)
	}
	defer f.Close()

	var inputs []Input
	scanner := bufio.NewScanner(snappy.NewReader(f))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var in Input
		if err := json.Unmarshal(line, &in); err != nil {
			return nil, fmt.Errorf("trace: decode input %d: %w", len(inputs), err)
		}
		inputs = append(inputs, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: read inputs: %w", err)
	}
	return inputs, nil
}

// ReadFrames returns the recorded snapshots of a trace directory in order.
func ReadFrames(dir string) ([]Frame, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, m.FramesPath))
	if err != nil {
		return nil, fmt.Errorf("trace: open frames: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("trace: open frame decoder: %w", err)
	}
	defer dec.Close()

	var frames []Frame
	header := make([]byte, frameHeaderSize)
	for {
		if _, err := io.ReadFull(dec, header); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return nil, fmt.Errorf("trace: read frame header: %w", err)
		}

		payload := make([]byte, binary.LittleEndian.Uint32(header[16:20]))
		if _, err := io.ReadFull(dec, payload); err != nil {
			return nil, fmt.Errorf("trace: read frame payload: %w", err)
		}

		fr := Frame{
			Tick:    binary.LittleEndian.Uint64(header[0:8]),
			Elapsed: math.Float64frombits(binary.LittleEndian.Uint64(header[8:16])),
		}
		if err := json.Unmarshal(payload, &fr.Snapshot); err != nil {
			return nil, fmt.Errorf("trace: decode frame %d: %w", fr.Tick, err)
		}
		frames = append(frames, fr)
	}
}
