package entities

// ParseFailedPlaceholder fills narrative fields the cascade could not
// recover. The report is always fully populated; consumers never see an
// empty field.
const ParseFailedPlaceholder = "parsing failed"

// DefaultScore fills score fields absent from the model reply.
const DefaultScore = 5

// AnalysisScores are the five 1-10 sensory ratings. The range is semantic,
// not enforced: whatever the model said is carried verbatim.
type AnalysisScores struct {
	Comfort       int
	Heaviness     int
	Softness      int
	Breathability int
	Elasticity    int
}

func DefaultAnalysisScores() AnalysisScores {
	return AnalysisScores{
		Comfort:       DefaultScore,
		Heaviness:     DefaultScore,
		Softness:      DefaultScore,
		Breathability: DefaultScore,
		Elasticity:    DefaultScore,
	}
}

// AnalysisReport is the structured sensory analysis extracted from the text
// portion of a model reply.
type AnalysisReport struct {
	comfort       string
	weight        string
	touch         string
	breathability string
	scores        AnalysisScores
	rawText       string
}

// NewAnalysisReport returns a report at its default state: placeholder
// narratives, score 5 everywhere, raw text carried verbatim.
func NewAnalysisReport(rawText string) *AnalysisReport {
	return &AnalysisReport{
		comfort:       ParseFailedPlaceholder,
		weight:        ParseFailedPlaceholder,
		touch:         ParseFailedPlaceholder,
		breathability: ParseFailedPlaceholder,
		scores:        DefaultAnalysisScores(),
		rawText:       rawText,
	}
}

func (r *AnalysisReport) Comfort() string {
	return r.comfort
}

func (r *AnalysisReport) SetComfort(comfort string) {
	r.comfort = comfort
}

func (r *AnalysisReport) Weight() string {
	return r.weight
}

func (r *AnalysisReport) SetWeight(weight string) {
	r.weight = weight
}

func (r *AnalysisReport) Touch() string {
	return r.touch
}

func (r *AnalysisReport) SetTouch(touch string) {
	r.touch = touch
}

func (r *AnalysisReport) Breathability() string {
	return r.breathability
}

func (r *AnalysisReport) SetBreathability(breathability string) {
	r.breathability = breathability
}

func (r *AnalysisReport) Scores() AnalysisScores {
	return r.scores
}

func (r *AnalysisReport) SetScores(scores AnalysisScores) {
	r.scores = scores
}

func (r *AnalysisReport) RawText() string {
	return r.rawText
}
