package repositories

import (
	"context"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

type SessionState string

const (
	SessionRunning  SessionState = "running"
	SessionComplete SessionState = "complete"
	SessionFailed   SessionState = "failed"
)

// SessionSnapshot is the observable state of one generation: the simulated
// phase while running, then the result or the classified failure. Phase
// transitions are monotonic; the terminal states can follow any phase.
type SessionSnapshot struct {
	State        SessionState
	Phase        valueobjects.Phase
	Result       *entities.GenerationResult
	ErrorCode    entities.ErrorCode
	ErrorMessage string
}

// SessionRepository tracks in-flight and finished generations for the
// current session only. Nothing outlives the process.
type SessionRepository interface {
	Save(ctx context.Context, request *entities.GenerationRequest) error
	UpdatePhase(ctx context.Context, id entities.GenerationRequestID, phase valueobjects.Phase) error
	Complete(ctx context.Context, result *entities.GenerationResult) error
	Fail(ctx context.Context, id entities.GenerationRequestID, cause error) error
	Snapshot(ctx context.Context, id entities.GenerationRequestID) (*SessionSnapshot, error)
}
