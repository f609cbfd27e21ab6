package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
)

// AllRuns is the stream topic that receives the updates of every run.
const AllRuns = ""

// Status is the JSON view of the latest frame.
type Status struct {
	RunID             string    `json:"run_id"`
	Step              int       `json:"step"`
	Time              float64   `json:"time"`
	SaproliteFraction float64   `json:"saprolite_fraction"`
	Rows              int       `json:"rows"`
	Cols              int       `json:"cols"`
	Finished          bool      `json:"finished"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Live is a plotter that keeps the latest frame for the HTTP view.
type Live struct {
	mu       sync.RWMutex
	frame    *domain.Frame
	finished bool
	updated  time.Time

	streams *StreamManager
	logger  *slog.Logger
}

// NewLive creates an empty live view.
func NewLive(logger *slog.Logger) *Live {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Live{
		streams: NewStreamManager(logger),
		logger:  logger,
	}
}

// Update stores a copy of frame and notifies subscribers.
func (l *Live) Update(ctx context.Context, frame *domain.Frame) error {
	l.mu.Lock()
	l.frame = frame.Clone()
	l.finished = false
	l.updated = time.Now()
	status := l.statusLocked()
	l.mu.Unlock()

	l.publish("step", status)
	return nil
}

// Finalize marks the run as finished. The last frame stays available.
func (l *Live) Finalize(ctx context.Context) error {
	l.mu.Lock()
	l.finished = true
	status := l.statusLocked()
	hasFrame := l.frame != nil
	l.mu.Unlock()

	if hasFrame {
		l.publish("finish", status)
	}
	return nil
}

// Frame returns a copy of the latest frame, or nil before the first update.
func (l *Live) Frame() *domain.Frame {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.frame == nil {
		return nil
	}
	return l.frame.Clone()
}

// Status reports the latest frame. ok is false before the first update.
func (l *Live) Status() (status Status, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.frame == nil {
		return Status{}, false
	}
	return l.statusLocked(), true
}

// Streams exposes the SSE fan-out.
func (l *Live) Streams() *StreamManager {
	return l.streams
}

func (l *Live) statusLocked() Status {
	if l.frame == nil {
		return Status{Finished: l.finished}
	}
	return Status{
		RunID:             l.frame.RunID,
		Step:              l.frame.Step,
		Time:              l.frame.Time,
		SaproliteFraction: l.frame.SaproliteFraction(),
		Rows:              l.frame.Rows,
		Cols:              l.frame.Cols,
		Finished:          l.finished,
		UpdatedAt:         l.updated,
	}
}

func (l *Live) publish(event string, status Status) {
	data, err := json.Marshal(status)
	if err != nil {
		l.logger.Error("encode status event", "error", err)
		return
	}
	msg := "event: " + event + "\ndata: " + string(data)
	l.streams.Broadcast(AllRuns, msg)
	if status.RunID != AllRuns {
		l.streams.Broadcast(status.RunID, msg)
	}
}
