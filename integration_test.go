package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	appservices "github.com/jianancybercoder/nextDoppl/internal/application/services"
	"github.com/jianancybercoder/nextDoppl/internal/application/usecases"
	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	domainrepos "github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
	domainservices "github.com/jianancybercoder/nextDoppl/internal/domain/services"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
	"github.com/jianancybercoder/nextDoppl/internal/infrastructure/repositories"
)

// transportStub stands in for the Gemini call: one image part and one text
// part carrying the fenced analysis block, like a healthy provider reply.
type transportStub struct {
	delay time.Duration
	err   error
}

func (s *transportStub) Generate(ctx context.Context, request *entities.GenerationRequest) (*entities.ModelReply, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	imageData, err := valueobjects.NewImageData(buf.Bytes(), "image/png")
	if err != nil {
		return nil, err
	}

	reply := entities.NewModelReply()
	reply.AppendText("Here is your try-on result.\n")
	reply.SetImageData(imageData)
	reply.AppendText("```json\n{" +
		`"comfort": "Relaxed fit",` +
		`"weight": "Light",` +
		`"touch": "Smooth",` +
		`"breathability": "Airy",` +
		`"scores": {"comfort": 8, "heaviness": 2, "softness": 7, "breathability": 9, "elasticity": 5}` +
		"}\n```")
	return reply, nil
}

func buildStack(ai domainrepos.TryOnAIService) (*usecases.TryOnUseCase, domainrepos.SessionRepository) {
	sessions := repositories.NewCacheSessionRepository(time.Minute, time.Minute)
	useCase := usecases.NewTryOnUseCase(
		sessions,
		domainservices.NewTryOnDomainService(ai),
		appservices.NewPhaseSimulator(sessions),
	)
	return useCase, sessions
}

func testUploads(t *testing.T) usecases.TryOnInput {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	return usecases.TryOnInput{
		SubjectImage: usecases.ImagePayload{Data: buf.Bytes(), MimeType: "image/png"},
		GarmentImage: usecases.ImagePayload{Data: buf.Bytes(), MimeType: "image/png"},
		Credential:   "AIzaIntegrationKey",
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	useCase, sessions := buildStack(&transportStub{delay: 20 * time.Millisecond})

	output, err := useCase.Execute(context.Background(), testUploads(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(output.Image.Data) == 0 {
		t.Error("Expected non-empty image artifact")
	}
	if output.Analysis.Scores().Comfort != 8 {
		t.Errorf("Expected comfort score 8, got %d", output.Analysis.Scores().Comfort)
	}
	if output.Analysis.Breathability() != "Airy" {
		t.Errorf("Expected breathability narrative, got %q", output.Analysis.Breathability())
	}

	snapshot, err := sessions.Snapshot(context.Background(), output.RequestID)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.State != domainrepos.SessionComplete {
		t.Errorf("Expected session complete, got %s", snapshot.State)
	}
}

func TestGenerateEndToEnd_ProviderFailure(t *testing.T) {
	providerErr := &providerError{"Error 429, Message: rate limit exceeded"}
	useCase, sessions := buildStack(&transportStub{err: providerErr})

	request, err := useCase.Prepare(context.Background(), testUploads(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	_, err = useCase.Run(context.Background(), request)
	if entities.CodeOf(err) != entities.ErrCodeRateLimited {
		t.Fatalf("Expected rate_limited, got %v", err)
	}

	snapshot, err := sessions.Snapshot(context.Background(), request.ID())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.State != domainrepos.SessionFailed {
		t.Errorf("Expected session failed, got %s", snapshot.State)
	}
}

type providerError struct{ msg string }

func (e *providerError) Error() string { return e.msg }
