package farmsync

import (
	"context"

	"github.com/osse101/TerminalFarm_Go/internal/logger"
)

// Run calls FetchState every interval until ctx is cancelled or Stop is
// called. It blocks; failures are reported by FetchState and never end the loop.
func (s *Synchronizer) Run(ctx context.Context) {
	s.run(ctx, s.shutdownChan())
}

func (s *Synchronizer) run(ctx context.Context, shutdown <-chan struct{}) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	log := logger.FromContext(ctx)
	log.Info(logMsgRefresherStart, "interval", s.interval)
	defer log.Info(logMsgRefresherStop)

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			return
		case <-ticker.Chan():
			_, _ = s.FetchState(ctx)
		}
	}
}

// Start runs the passive refresh in the background
func (s *Synchronizer) Start(ctx context.Context) {
	shutdown := s.shutdownChan()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, shutdown)
	}()
}

// Stop ends every running refresh loop and waits for them to return.
// The synchronizer can be started again afterwards.
func (s *Synchronizer) Stop() {
	s.runMu.Lock()
	if s.shutdown != nil {
		close(s.shutdown)
		s.shutdown = nil
	}
	s.runMu.Unlock()
	s.wg.Wait()
}

func (s *Synchronizer) shutdownChan() chan struct{} {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.shutdown == nil {
		s.shutdown = make(chan struct{})
	}
	return s.shutdown
}
