package repositories

import (
	"context"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
)

// TryOnAIService is the single transport call to the generative model: send
// the multi-part payload, get back the scanned reply. It always runs to
// completion or failure; nothing in this system interrupts it mid-flight.
type TryOnAIService interface {
	Generate(ctx context.Context, request *entities.GenerationRequest) (*entities.ModelReply, error)
}
