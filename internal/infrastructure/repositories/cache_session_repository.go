package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	domainrepos "github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

// CacheSessionRepository keeps session state in an expiring in-memory cache.
// Results live only for the current session; the TTL cleans up abandoned
// generations.
type CacheSessionRepository struct {
	sessions *cache.Cache
}

func NewCacheSessionRepository(ttl, cleanupInterval time.Duration) domainrepos.SessionRepository {
	return &CacheSessionRepository{
		sessions: cache.New(ttl, cleanupInterval),
	}
}

func (r *CacheSessionRepository) Save(ctx context.Context, request *entities.GenerationRequest) error {
	r.sessions.Set(string(request.ID()), &domainrepos.SessionSnapshot{
		State: domainrepos.SessionRunning,
		Phase: valueobjects.PhaseAnalyzing,
	}, cache.DefaultExpiration)
	return nil
}

func (r *CacheSessionRepository) UpdatePhase(ctx context.Context, id entities.GenerationRequestID, phase valueobjects.Phase) error {
	snapshot, err := r.snapshot(id)
	if err != nil {
		return err
	}
	if snapshot.State != domainrepos.SessionRunning {
		// The generation resolved while the simulator was winding down;
		// never regress a terminal state.
		return nil
	}

	updated := *snapshot
	updated.Phase = phase
	r.sessions.Set(string(id), &updated, cache.DefaultExpiration)
	return nil
}

func (r *CacheSessionRepository) Complete(ctx context.Context, result *entities.GenerationResult) error {
	snapshot, err := r.snapshot(result.RequestID())
	if err != nil {
		return err
	}

	updated := *snapshot
	updated.State = domainrepos.SessionComplete
	updated.Result = result
	r.sessions.Set(string(result.RequestID()), &updated, cache.DefaultExpiration)
	return nil
}

func (r *CacheSessionRepository) Fail(ctx context.Context, id entities.GenerationRequestID, cause error) error {
	snapshot, err := r.snapshot(id)
	if err != nil {
		return err
	}

	updated := *snapshot
	updated.State = domainrepos.SessionFailed
	updated.ErrorCode = entities.CodeOf(cause)
	updated.ErrorMessage = cause.Error()
	r.sessions.Set(string(id), &updated, cache.DefaultExpiration)
	return nil
}

func (r *CacheSessionRepository) Snapshot(ctx context.Context, id entities.GenerationRequestID) (*domainrepos.SessionSnapshot, error) {
	snapshot, err := r.snapshot(id)
	if err != nil {
		return nil, err
	}

	copied := *snapshot
	return &copied, nil
}

func (r *CacheSessionRepository) snapshot(id entities.GenerationRequestID) (*domainrepos.SessionSnapshot, error) {
	value, ok := r.sessions.Get(string(id))
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return value.(*domainrepos.SessionSnapshot), nil
}
