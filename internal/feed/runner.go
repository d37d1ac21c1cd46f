package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/spacehole-rogue/orbitminer/internal/game"
	"golang.org/x/time/rate"
)

// RunnerConfig sets the tick and broadcast rates.
type RunnerConfig struct {
	Tick       time.Duration
	SnapshotHz float64
}

// Runner owns the controller on behalf of the network layer. Every access to
// the controller goes through its mutex.
type Runner struct {
	mu   sync.Mutex
	ctrl *game.Controller

	hub      *Hub
	tick     time.Duration
	throttle *rate.Limiter
	log      *slog.Logger
}

// NewRunner wraps ctrl. hub may be nil when nothing is listening.
func NewRunner(ctrl *game.Controller, hub *Hub, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second / 60
	}
	if cfg.SnapshotHz <= 0 {
		cfg.SnapshotHz = 10
	}
	return &Runner{
		ctrl:     ctrl,
		hub:      hub,
		tick:     cfg.Tick,
		throttle: rate.NewLimiter(rate.Limit(cfg.SnapshotHz), 1),
		log:      logger.With("component", "runner"),
	}
}

// SetHub attaches the hub after construction; the hub's handler usually
// points back at the runner.
func (r *Runner) SetHub(h *Hub) { r.hub = h }

// Run ticks the simulation until ctx is canceled, then closes the session.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	r.log.Info("Simulation running", "tick", r.tick, "snapshot_hz", float64(r.throttle.Limit()))

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.ctrl.Close()
			r.mu.Unlock()
			r.log.Info("Simulation stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.Step(r.tick)
			if r.hub != nil && r.throttle.Allow() {
				r.Publish(ctx)
			}
		}
	}
}

// Step advances the simulation by one tick.
func (r *Runner) Step(dt time.Duration) {
	r.mu.Lock()
	r.ctrl.Update(dt)
	r.mu.Unlock()
}

// Snapshot copies the current state.
func (r *Runner) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Snapshot()
}

// Publish broadcasts one snapshot to every client.
func (r *Runner) Publish(ctx context.Context) bool {
	if r.hub == nil {
		return false
	}
	snap := r.Snapshot()
	return r.hub.BroadcastJSON(ctx, Envelope{Type: TypeSnapshot, Payload: snap, Sender: snap.Session})
}

// Execute applies one command under the lock.
func (r *Runner) Execute(cmd Command) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Apply(r.ctrl, cmd)
}

// Handle is the hub Handler: decode, execute, encode.
func (r *Runner) Handle(clientID string, raw []byte) []byte {
	logger := r.log.With("client", clientID)

	cmd, err := DecodeCommand(raw)
	if err != nil {
		logger.Debug("Rejected frame", "error", err)
		return encodeError(err)
	}
	res, err := r.Execute(cmd)
	if err != nil {
		logger.Debug("Command failed", "command", cmd.Type, "error", err)
		return encodeError(err)
	}
	logger.Debug("Command applied", "command", cmd.Type, "ok", res.OK)

	b, err := json.Marshal(res)
	if err != nil {
		return encodeError(err)
	}
	return b
}

// Welcome is the first frame a client receives: the session id and a snapshot.
func (r *Runner) Welcome() []byte {
	snap := r.Snapshot()
	b, err := json.Marshal(Envelope{Type: TypeWelcome, Payload: snap, Sender: snap.Session})
	if err != nil {
		return nil
	}
	return b
}
