package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

// PhaseSimulator advances the user-visible progress phases on a timer while
// the real generation call is in flight. It is presentation only: it never
// gates or delays the real call, and it stops at the next phase boundary
// once its context is cancelled. The final phase has no dwell and is held
// until cancellation.
type PhaseSimulator struct {
	sessions repositories.SessionRepository
	dwell    func(valueobjects.Phase) time.Duration
}

func NewPhaseSimulator(sessions repositories.SessionRepository) *PhaseSimulator {
	return &PhaseSimulator{
		sessions: sessions,
		dwell:    valueobjects.Phase.Dwell,
	}
}

// newPhaseSimulatorWithDwell lets tests run the phase schedule at speed.
func newPhaseSimulatorWithDwell(sessions repositories.SessionRepository, dwell func(valueobjects.Phase) time.Duration) *PhaseSimulator {
	return &PhaseSimulator{
		sessions: sessions,
		dwell:    dwell,
	}
}

// Run walks the phase sequence for one generation. It returns when the
// context is cancelled or (for safety) after the last dwell elapses.
func (s *PhaseSimulator) Run(ctx context.Context, id entities.GenerationRequestID) {
	for _, phase := range valueobjects.Phases() {
		if ctx.Err() != nil {
			return
		}

		if err := s.sessions.UpdatePhase(ctx, id, phase); err != nil {
			slog.Warn("failed to record phase", "requestID", id, "phase", phase.String(), "error", err)
		}
		slog.Debug("phase advanced", "requestID", id, "phase", phase.String())

		dwell := s.dwell(phase)
		if dwell <= 0 {
			// Held until the orchestrator cancels us.
			<-ctx.Done()
			return
		}

		timer := time.NewTimer(dwell)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
