package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
	"github.com/jianancybercoder/nextDoppl/internal/domain/services"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

// PhaseRunner is the progress simulation the use case drives alongside the
// real call. Implemented by services.PhaseSimulator.
type PhaseRunner interface {
	Run(ctx context.Context, id entities.GenerationRequestID)
}

// TryOnUseCase orchestrates one generation: the phase simulation and the
// real provider call run concurrently, the simulator on a child context the
// use case cancels the moment the real call resolves. The simulator can
// never delay or abort the real call.
type TryOnUseCase struct {
	sessions      repositories.SessionRepository
	domainService *services.TryOnDomainService
	phases        PhaseRunner
}

func NewTryOnUseCase(
	sessions repositories.SessionRepository,
	domainService *services.TryOnDomainService,
	phases PhaseRunner,
) *TryOnUseCase {
	return &TryOnUseCase{
		sessions:      sessions,
		domainService: domainService,
		phases:        phases,
	}
}

type ImagePayload struct {
	Data     []byte
	MimeType string
}

type TryOnInput struct {
	SubjectImage ImagePayload
	GarmentImage ImagePayload
	Parameters   *TryOnParametersInput
	Credential   string
}

type TryOnParametersInput struct {
	Model       string
	Instruction string
}

type TryOnOutput struct {
	RequestID entities.GenerationRequestID
	Image     ImageOutput
	Analysis  *entities.AnalysisReport
}

type ImageOutput struct {
	Data     []byte
	MimeType string
}

// Prepare validates the uploads, builds the request entity and registers the
// session so its progress can be observed.
func (uc *TryOnUseCase) Prepare(ctx context.Context, input TryOnInput) (*entities.GenerationRequest, error) {
	subjectImage, err := valueobjects.NewImageData(input.SubjectImage.Data, input.SubjectImage.MimeType)
	if err != nil {
		return nil, entities.NewGenerationError(entities.ErrCodeFileRead, "invalid subject image", err)
	}

	garmentImage, err := valueobjects.NewImageData(input.GarmentImage.Data, input.GarmentImage.MimeType)
	if err != nil {
		return nil, entities.NewGenerationError(entities.ErrCodeFileRead, "invalid garment image", err)
	}

	parameters := valueobjects.DefaultGenerationParameters()
	if input.Parameters != nil {
		parameters = valueobjects.NewGenerationParameters(input.Parameters.Model, input.Parameters.Instruction)
	}

	request, err := entities.NewGenerationRequest(subjectImage, garmentImage, parameters, input.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := uc.sessions.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	return request, nil
}

// Run executes a prepared generation to its terminal state. The phase
// simulator runs on a child context owned here; the real call runs on the
// caller's context and is joined before any outcome is reported.
func (uc *TryOnUseCase) Run(ctx context.Context, request *entities.GenerationRequest) (*TryOnOutput, error) {
	simCtx, cancelSim := context.WithCancel(ctx)
	defer cancelSim()

	var result *entities.GenerationResult

	g := new(errgroup.Group)
	g.Go(func() error {
		uc.phases.Run(simCtx, request.ID())
		return nil
	})
	g.Go(func() error {
		// Stop the simulation as soon as the real call resolves, success
		// or failure.
		defer cancelSim()

		r, err := uc.domainService.ProcessTryOn(ctx, request)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	if err := g.Wait(); err != nil {
		if failErr := uc.sessions.Fail(ctx, request.ID(), err); failErr != nil {
			slog.Warn("failed to record failure", "requestID", request.ID(), "error", failErr)
		}
		return nil, err
	}

	if err := uc.sessions.Complete(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	return &TryOnOutput{
		RequestID: request.ID(),
		Image: ImageOutput{
			Data:     result.Image().Data(),
			MimeType: result.Image().MimeType(),
		},
		Analysis: result.Analysis(),
	}, nil
}

// Execute is the synchronous path: Prepare then Run.
func (uc *TryOnUseCase) Execute(ctx context.Context, input TryOnInput) (*TryOnOutput, error) {
	request, err := uc.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	return uc.Run(ctx, request)
}

// Snapshot exposes the observable session state for progress polling.
func (uc *TryOnUseCase) Snapshot(ctx context.Context, id entities.GenerationRequestID) (*repositories.SessionSnapshot, error) {
	return uc.sessions.Snapshot(ctx, id)
}
