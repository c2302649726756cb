// Package location provides location sources for the client session.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/ports"
)

// ErrAlreadyStarted is returned by Start on a running source.
var ErrAlreadyStarted = errors.New("location source already started")

// ReplaySource emits a recorded track, one point per tick. After the last
// point it keeps the final position and stops ticking.
type ReplaySource struct {
	track    []kernel.GeoPoint
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReplaySource(track []kernel.GeoPoint, interval time.Duration) *ReplaySource {
	return &ReplaySource{
		track:    track,
		interval: interval,
		now:      time.Now,
	}
}

// Start emits the first point immediately and the rest every interval.
func (s *ReplaySource) Start(ctx context.Context, sink func(ports.LocationFix)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, sink, s.done)
	return nil
}

func (s *ReplaySource) run(ctx context.Context, sink func(ports.LocationFix), done chan struct{}) {
	defer close(done)

	if len(s.track) == 0 {
		sink(ports.LocationFix{At: s.now(), Err: errors.New("empty track")})
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; {
		sink(ports.LocationFix{Point: s.track[i], At: s.now()})
		i++
		if i == len(s.track) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the replay and waits for the emitting goroutine. Safe to call
// more than once.
func (s *ReplaySource) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

type trackPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LoadTrack reads a JSON array of {"lat","lon"} objects.
func LoadTrack(r io.Reader) ([]kernel.GeoPoint, error) {
	var raw []trackPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode track: %w", err)
	}

	track := make([]kernel.GeoPoint, 0, len(raw))
	for i, p := range raw {
		point, err := kernel.NewGeoPoint(p.Lat, p.Lon)
		if err != nil {
			return nil, fmt.Errorf("track point %d: %w", i, err)
		}
		track = append(track, point)
	}
	return track, nil
}
