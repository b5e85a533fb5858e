package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// maxReplayGap caps the pause reproduced between two recorded events,
// so a session with long idle stretches still replays comfortably.
const maxReplayGap = 5 * time.Second

// Replayer reads a recorded NDJSON event log and paces it out using
// the timestamp deltas between events, scaled by a speed factor.
type Replayer struct {
	f       *os.File
	scanner *bufio.Scanner
	speed   float64
	lastTS  int64
}

// OpenReplay opens an event log for replay. speed scales the pacing:
// 2 plays twice as fast, values below 1 are treated as 1.
func OpenReplay(path string, speed float64) (*Replayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	if speed < 1 {
		speed = 1
	}
	return &Replayer{f: f, scanner: scanner, speed: speed}, nil
}

// Close releases the underlying file.
func (r *Replayer) Close() error {
	return r.f.Close()
}

// Next returns the next event and how long to wait before delivering
// it. Lines that do not parse are skipped; io.EOF signals the end of
// the log.
func (r *Replayer) Next() (Event, time.Duration, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}

		delay := r.delayFor(ev.TS)
		if ev.TS != 0 {
			r.lastTS = ev.TS
		}
		return ev, delay, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, 0, fmt.Errorf("read replay line: %w", err)
	}
	return Event{}, 0, io.EOF
}

func (r *Replayer) delayFor(ts int64) time.Duration {
	if r.lastTS == 0 || ts == 0 || ts <= r.lastTS {
		return 0
	}
	gap := time.Duration(ts-r.lastTS) * time.Millisecond
	if gap > maxReplayGap {
		gap = maxReplayGap
	}
	return time.Duration(float64(gap) / r.speed)
}
