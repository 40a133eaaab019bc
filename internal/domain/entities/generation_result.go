package entities

import (
	"fmt"
	"time"

	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

type GenerationResultID string

// GenerationResult is a successful try-on: the composited image plus its
// analysis report. Only ever constructed from a real provider response;
// immutable once built.
type GenerationResult struct {
	id        GenerationResultID
	requestID GenerationRequestID
	image     *valueobjects.ImageData
	analysis  *AnalysisReport
	createdAt time.Time
}

func NewGenerationResult(
	requestID GenerationRequestID,
	image *valueobjects.ImageData,
	analysis *AnalysisReport,
) *GenerationResult {
	id := GenerationResultID(fmt.Sprintf("result_%d", time.Now().UnixNano()))

	return &GenerationResult{
		id:        id,
		requestID: requestID,
		image:     image,
		analysis:  analysis,
		createdAt: time.Now(),
	}
}

func (r *GenerationResult) ID() GenerationResultID {
	return r.id
}

func (r *GenerationResult) RequestID() GenerationRequestID {
	return r.requestID
}

func (r *GenerationResult) Image() *valueobjects.ImageData {
	return r.image
}

func (r *GenerationResult) Analysis() *AnalysisReport {
	return r.analysis
}

func (r *GenerationResult) CreatedAt() time.Time {
	return r.createdAt
}
