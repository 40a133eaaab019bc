package external

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

// tryOnSystemPrompt pins down the two outputs the interpreter relies on:
// the composited image and the trailing fenced JSON block with exact keys.
const tryOnSystemPrompt = `You are a virtual try-on engine. You receive a subject photo and a garment photo and must produce exactly two outputs:
1. A photorealistic composite image of the subject wearing the garment, preserving the subject's pose, body shape and the scene lighting.
2. After the image, a fenced JSON code block describing how the garment would feel to wear, with exactly these keys:
{"comfort": "<one sentence>", "weight": "<one sentence>", "touch": "<one sentence>", "breathability": "<one sentence>", "scores": {"comfort": <1-10>, "heaviness": <1-10>, "softness": <1-10>, "breathability": <1-10>, "elasticity": <1-10>}}
Scores are integers from 1 to 10. Do not add keys. Do not omit the JSON block.`

const (
	subjectLabel = "This is the subject photo: the person who will wear the garment."
	garmentLabel = "This is the garment photo: the item to dress the subject in."

	defaultInstruction = "Dress the subject in the garment naturally. Remember to end with the fenced JSON analysis block."
	jsonReminder       = "Remember to end with the fenced JSON analysis block."

	// Used when the provider returns inline image data without a mime type.
	fallbackImageMime = "image/png"
)

// GeminiTryOnService sends the one real request to the Gemini API and scans
// the reply parts. Order and multiplicity of parts are not fixed by the
// provider: the first inline image wins, all text concatenates.
type GeminiTryOnService struct {
	clientPool repositories.GenAIClientPool
}

func NewGeminiTryOnService(clientPool repositories.GenAIClientPool) repositories.TryOnAIService {
	return &GeminiTryOnService{
		clientPool: clientPool,
	}
}

func (s *GeminiTryOnService) Generate(ctx context.Context, request *entities.GenerationRequest) (*entities.ModelReply, error) {
	slog.Info("Generate",
		"requestID", request.ID(),
		"model", request.Parameters().Model(),
		"hasInstruction", request.Parameters().HasInstruction())

	client, err := s.clientPool.GetClient(ctx, request.Credential())
	if err != nil {
		return nil, fmt.Errorf("failed to get GenAI client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(tryOnSystemPrompt),
		{
			InlineData: &genai.Blob{
				MIMEType: request.SubjectImage().MimeType(),
				Data:     request.SubjectImage().Data(),
			},
		},
		genai.NewPartFromText(subjectLabel),
		{
			InlineData: &genai.Blob{
				MIMEType: request.GarmentImage().MimeType(),
				Data:     request.GarmentImage().Data(),
			},
		},
		genai.NewPartFromText(garmentLabel),
		genai.NewPartFromText(userInstruction(request.Parameters())),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	response, err := client.Models.GenerateContent(
		ctx,
		request.Parameters().Model(),
		contents,
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	reply := entities.NewModelReply()

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		slog.Warn("empty response from Gemini API", "requestID", request.ID())
		return reply, nil
	}

	responseParts := response.Candidates[0].Content.Parts
	slog.Info("Gemini API response", "requestID", request.ID(), "partsCount", len(responseParts))

	for i, part := range responseParts {
		if part.Text != "" {
			reply.AppendText(part.Text)
			continue
		}
		if part.InlineData == nil || reply.HasImage() {
			continue
		}

		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			mimeType = fallbackImageMime
		}

		imageData, err := valueobjects.NewImageData(part.InlineData.Data, mimeType)
		if err != nil {
			slog.Warn("failed to decode image part", "index", i, "error", err)
			continue
		}
		reply.SetImageData(imageData)
	}

	return reply, nil
}

func userInstruction(parameters *valueobjects.GenerationParameters) string {
	if !parameters.HasInstruction() {
		return defaultInstruction
	}
	return parameters.Instruction() + "\n" + jsonReminder
}
