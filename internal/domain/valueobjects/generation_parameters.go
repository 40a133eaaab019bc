package valueobjects

// DefaultModel is the multimodal image model used when the caller does not
// name one.
const DefaultModel = "gemini-2.5-flash-image-preview"

// GenerationParameters are the per-request knobs of a try-on generation:
// which model to call and the optional free-text styling instruction.
type GenerationParameters struct {
	model       string
	instruction string
}

func NewGenerationParameters(model, instruction string) *GenerationParameters {
	if model == "" {
		model = DefaultModel
	}

	return &GenerationParameters{
		model:       model,
		instruction: instruction,
	}
}

func DefaultGenerationParameters() *GenerationParameters {
	return NewGenerationParameters("", "")
}

func (p *GenerationParameters) Model() string {
	return p.model
}

func (p *GenerationParameters) Instruction() string {
	return p.instruction
}

func (p *GenerationParameters) HasInstruction() bool {
	return p.instruction != ""
}
