package farmsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
	"github.com/osse101/TerminalFarm_Go/internal/metrics"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
)

// StateClient is the game server as seen by the synchronizer
type StateClient interface {
	GetState(ctx context.Context) (*domain.ClientGameState, error)
	PerformAction(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) (*domain.ActionResponse, error)
}

// UpdateFunc is called with a private copy of every applied snapshot
type UpdateFunc func(state *domain.ClientGameState)

// Synchronizer mirrors the server's game state and runs the request/reconcile
// protocol for player actions.
//
// The cache is replaced wholesale on each accepted fetch and is never mutated
// optimistically. Fetches are numbered; a response is applied only if no newer
// response has been applied already, so a slow reply cannot overwrite a fresher
// snapshot. No lock is held across a network call.
type Synchronizer struct {
	client   StateClient
	notifier notify.Notifier
	clock    clockwork.Clock
	interval time.Duration
	validate *validator.Validate

	seq atomic.Uint64

	mu         sync.Mutex
	state      *domain.ClientGameState
	lastSync   time.Time
	appliedSeq uint64
	selection  Selection
	phase      Phase
	onUpdate   []UpdateFunc

	runMu    sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// Option customises a Synchronizer
type Option func(*Synchronizer)

// WithClock replaces the clock driving the passive refresh
func WithClock(clock clockwork.Clock) Option {
	return func(s *Synchronizer) { s.clock = clock }
}

// WithInterval sets the passive refresh period
func WithInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithNotifier sets the channel for user-visible messages
func WithNotifier(n notify.Notifier) Option {
	return func(s *Synchronizer) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithOnUpdate registers a callback for applied snapshots
func WithOnUpdate(fn UpdateFunc) Option {
	return func(s *Synchronizer) { s.onUpdate = append(s.onUpdate, fn) }
}

// New creates a Synchronizer with an empty cache and an idle plant intent
func New(client StateClient, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		client:   client,
		notifier: notify.Discard{},
		clock:    clockwork.NewRealClock(),
		interval: DefaultRefreshInterval,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.PlantPhase.Set(float64(PhaseIdle))
	return s
}

// State returns a copy of the cached snapshot, or nil before the first successful fetch
func (s *Synchronizer) State() *domain.ClientGameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastSync returns when the cache was last replaced
func (s *Synchronizer) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Selection returns a copy of the pending plant intent
func (s *Synchronizer) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.clone()
}

// Phase returns the plant intent phase
func (s *Synchronizer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Interval returns the passive refresh period
func (s *Synchronizer) Interval() time.Duration {
	return s.interval
}

// FetchState reads the authoritative state and, unless a newer response has
// already been applied, replaces the cache with it. On failure the cache is
// left as it was and a message is published, unless ctx was cancelled. The returned state is the
// caller's own copy of whatever the cache holds afterwards.
func (s *Synchronizer) FetchState(ctx context.Context) (*domain.ClientGameState, error) {
	seq := s.seq.Add(1)
	log := logger.FromContext(ctx)

	state, err := s.client.GetState(ctx)
	if err == nil && state == nil {
		err = fmt.Errorf("%w: empty state response", domain.ErrTransport)
	}
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			log.Debug(logMsgFetchCancelled, "error", err, "seq", seq)
			return nil, err
		}
		log.Warn(logMsgFetchFailed, "error", err, "seq", seq)
		s.notifier.Notify(notify.LevelError, MsgFetchFailed)
		return nil, err
	}

	s.mu.Lock()
	if seq <= s.appliedSeq {
		current := s.state.Clone()
		applied := s.appliedSeq
		s.mu.Unlock()

		metrics.StaleResponses.Inc()
		log.Debug(logMsgStaleDiscarded, "seq", seq, "applied_seq", applied)
		return current, nil
	}

	s.appliedSeq = seq
	s.state = state
	s.lastSync = s.clock.Now()
	hooks := s.onUpdate
	out := state.Clone()
	synced := s.lastSync
	s.mu.Unlock()

	metrics.LastSync.Set(float64(synced.Unix()))
	log.Debug(logMsgFetchApplied, "seq", seq, "day", out.Day, "plots", len(out.Plots))

	for _, fn := range hooks {
		fn(out.Clone())
	}
	return out, nil
}

// PerformAction sends one action through the generic envelope. The server is
// the only judge of legality: a rejection is surfaced verbatim and leaves the
// cache untouched; a success triggers a full FetchState. Transport failures are
// logged and reported with a one-line message. Nothing here is retried.
func (s *Synchronizer) PerformAction(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) error {
	ctx, _ = logger.EnsureRequestID(ctx)
	log := logger.FromContext(ctx)

	resp, err := s.client.PerformAction(ctx, kind, params)
	if err != nil {
		var rej *domain.RejectionError
		if errors.As(err, &rej) {
			metrics.ActionsTotal.WithLabelValues(actionLabel(kind), metrics.OutcomeRejected).Inc()
			log.Info(logMsgActionRejected, "action", kind, "reason", rej.Message)
			s.notifier.Notify(notify.LevelWarn, rej.Message)
			return err
		}

		metrics.ActionsTotal.WithLabelValues(actionLabel(kind), metrics.OutcomeTransport).Inc()
		log.Warn(logMsgActionFailed, "action", kind, "error", err)
		s.notifier.Notify(notify.LevelError, failureMessage(kind))
		return err
	}

	metrics.ActionsTotal.WithLabelValues(actionLabel(kind), metrics.OutcomeSuccess).Inc()
	log.Info(logMsgActionSucceeded, "action", kind)
	if resp != nil && resp.Message != "" {
		s.notifier.Notify(notify.LevelInfo, resp.Message)
	}

	// Resync failures are reported by FetchState itself; the action did succeed.
	_, _ = s.FetchState(ctx)
	return nil
}

// Plant validates the parameter shape and performs a plant action
func (s *Synchronizer) Plant(ctx context.Context, params domain.PlantParams) error {
	if err := s.validate.Struct(params); err != nil {
		metrics.ActionsTotal.WithLabelValues(string(domain.ActionPlant), metrics.OutcomeInvalid).Inc()
		s.notifier.Notify(notify.LevelWarn, failureMessage(domain.ActionPlant))
		return fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	return s.PerformAction(ctx, domain.ActionPlant, params.Params())
}

// SelectPlot records the plot half of the plant intent. If a crop is already
// chosen, both halves are consumed and a single plant action is submitted.
func (s *Synchronizer) SelectPlot(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.phase == PhaseSubmitting {
		s.mu.Unlock()
		s.notifier.Notify(notify.LevelWarn, MsgPlantInFlight)
		return domain.ErrPlantInFlight
	}
	if index < 0 || (s.state != nil && index >= len(s.state.Plots)) {
		s.mu.Unlock()
		s.notifier.Notify(notify.LevelWarn, MsgInvalidPlot)
		return fmt.Errorf("%w: plot %d", domain.ErrInvalidSelection, index)
	}

	s.selection.Plot = &index
	params, ready := s.consumeLocked()
	s.mu.Unlock()

	if !ready {
		s.notifier.Notify(notify.LevelInfo, fmt.Sprintf(MsgPlotSelected, index+1))
		return nil
	}
	return s.submit(ctx, params)
}

// SelectCrop records the crop half of the plant intent. Names are resolved
// against the cached catalog case-insensitively when a snapshot exists.
// If a plot is already chosen, both halves are consumed and a single plant
// action is submitted.
func (s *Synchronizer) SelectCrop(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if s.phase == PhaseSubmitting {
		s.mu.Unlock()
		s.notifier.Notify(notify.LevelWarn, MsgPlantInFlight)
		return domain.ErrPlantInFlight
	}
	if name == "" {
		s.mu.Unlock()
		s.notifier.Notify(notify.LevelWarn, MsgEmptyCropName)
		return fmt.Errorf("%w: empty crop name", domain.ErrInvalidSelection)
	}
	if s.state != nil {
		crop, ok := s.state.FindCropFold(name)
		if !ok {
			names := s.state.CropNames()
			s.mu.Unlock()
			s.notifier.Notify(notify.LevelWarn, unknownCropMessage(name, names))
			return fmt.Errorf("%w: unknown crop %q", domain.ErrInvalidSelection, name)
		}
		name = crop.Name
	}

	s.selection.Crop = &name
	params, ready := s.consumeLocked()
	s.mu.Unlock()

	if !ready {
		s.notifier.Notify(notify.LevelInfo, fmt.Sprintf(MsgCropSelected, name))
		return nil
	}
	return s.submit(ctx, params)
}

// ClearSelection drops a half-built plant intent. It has no effect while submitting.
func (s *Synchronizer) ClearSelection() {
	s.mu.Lock()
	if s.phase == PhaseSubmitting {
		s.mu.Unlock()
		return
	}
	s.selection = Selection{}
	s.setPhaseLocked(PhaseIdle)
	s.mu.Unlock()
	s.notifier.Notify(notify.LevelInfo, MsgSelectionCleared)
}

// consumeLocked takes both halves of the selection when present, clearing
// them and entering PhaseSubmitting. Caller holds s.mu.
func (s *Synchronizer) consumeLocked() (domain.PlantParams, bool) {
	if s.selection.Plot == nil || s.selection.Crop == nil {
		s.setPhaseLocked(s.selection.phase())
		return domain.PlantParams{}, false
	}
	params := domain.PlantParams{
		PlotIndex: *s.selection.Plot,
		CropName:  *s.selection.Crop,
	}
	s.selection = Selection{}
	s.setPhaseLocked(PhaseSubmitting)
	return params, true
}

// submit performs the consumed plant intent and always returns to PhaseIdle
func (s *Synchronizer) submit(ctx context.Context, params domain.PlantParams) error {
	defer func() {
		s.mu.Lock()
		s.setPhaseLocked(PhaseIdle)
		s.mu.Unlock()
	}()

	logger.FromContext(ctx).Debug(logMsgPlantSubmitted, "plot_index", params.PlotIndex, "crop", params.CropName)
	return s.Plant(ctx, params)
}

func (s *Synchronizer) setPhaseLocked(p Phase) {
	s.phase = p
	metrics.PlantPhase.Set(float64(p))
}

func actionLabel(kind domain.ActionKind) string {
	if kind.IsKnown() {
		return string(kind)
	}
	return metrics.ActionOther
}

func failureMessage(kind domain.ActionKind) string {
	if msg, ok := actionFailureMessages[string(kind)]; ok {
		return msg
	}
	return fmt.Sprintf("Failed to %s!", strings.ReplaceAll(string(kind), "_", " "))
}

func unknownCropMessage(name string, candidates []string) string {
	if hint, ok := Suggest(name, candidates); ok {
		return fmt.Sprintf(MsgUnknownCropHint, name, hint)
	}
	return fmt.Sprintf(MsgUnknownCrop, name)
}
