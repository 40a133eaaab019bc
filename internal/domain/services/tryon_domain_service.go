package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
)

// CredentialPrefix is the shape every Gemini API key starts with. Checked
// before any network attempt.
const CredentialPrefix = "AIza"

// TryOnDomainService interprets one generation: it validates the request and
// credential, issues the single real provider call, classifies failures and
// turns the reply into a GenerationResult.
type TryOnDomainService struct {
	aiService repositories.TryOnAIService
	parser    *AnalysisParser
}

func NewTryOnDomainService(aiService repositories.TryOnAIService) *TryOnDomainService {
	return &TryOnDomainService{
		aiService: aiService,
		parser:    NewAnalysisParser(),
	}
}

func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.GenerationRequest) (*entities.GenerationResult, error) {
	if err := s.validateRequest(request); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}

	if err := ValidateCredential(request.Credential()); err != nil {
		return nil, err
	}

	if err := request.PrepareImages(); err != nil {
		return nil, entities.NewGenerationError(entities.ErrCodeFileRead,
			"could not prepare the uploaded images", err)
	}

	reply, err := s.aiService.Generate(ctx, request)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	// The cascade runs whenever there is text, even when no image arrived.
	report := s.parser.Parse(reply.RawText())

	if !reply.HasImage() {
		slog.Warn("model returned no image",
			"requestID", request.ID(), "textLength", len(reply.RawText()))
		return nil, entities.NewGenerationError(entities.ErrCodeNoImageProduced,
			"the model returned no image; try another photo or model", nil)
	}

	return entities.NewGenerationResult(request.ID(), reply.ImageData(), report), nil
}

func (s *TryOnDomainService) validateRequest(request *entities.GenerationRequest) error {
	if request.SubjectImage() == nil {
		return fmt.Errorf("subject image is required")
	}

	if request.GarmentImage() == nil {
		return fmt.Errorf("garment image is required")
	}

	if request.Parameters() == nil {
		return fmt.Errorf("parameters are required")
	}

	return nil
}

// ValidateCredential rejects empty or malformed API keys before any network
// attempt is made.
func ValidateCredential(credential string) error {
	key := strings.TrimSpace(credential)
	if key == "" {
		return entities.NewGenerationError(entities.ErrCodeInvalidCredential,
			"API key is empty", nil)
	}
	if !strings.HasPrefix(key, CredentialPrefix) {
		return entities.NewGenerationError(entities.ErrCodeInvalidCredential,
			"API key does not look like a Gemini key", nil)
	}
	return nil
}

// classifyProviderError maps a transport failure onto the error taxonomy by
// inspecting the message, since the SDK surfaces HTTP status only as text.
// Unrecognized failures pass through with their message verbatim.
func classifyProviderError(err error) error {
	var genErr *entities.GenerationError
	if errors.As(err, &genErr) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "403") || strings.Contains(msg, "permission_denied"):
		return entities.NewGenerationError(entities.ErrCodeAuthorizationDenied,
			"the provider rejected the API key", err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "resource_exhausted"):
		return entities.NewGenerationError(entities.ErrCodeRateLimited,
			"the provider is throttling requests; wait a moment and try again", err)
	case strings.Contains(msg, "400") || strings.Contains(msg, "invalid_argument"):
		return entities.NewGenerationError(entities.ErrCodeInvalidRequest,
			"the provider rejected the request; check image size and format", err)
	}

	return entities.NewGenerationError(entities.ErrCodeProvider, err.Error(), err)
}
