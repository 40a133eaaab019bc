package entities

import "github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"

// ModelReply is the raw outcome of one provider call: the first inline image
// part (if any) and every text part concatenated in arrival order. The
// provider fixes neither order nor multiplicity of either kind.
type ModelReply struct {
	rawText   string
	imageData *valueobjects.ImageData
}

func NewModelReply() *ModelReply {
	return &ModelReply{}
}

func (r *ModelReply) RawText() string {
	return r.rawText
}

func (r *ModelReply) AppendText(text string) {
	r.rawText += text
}

func (r *ModelReply) ImageData() *valueobjects.ImageData {
	return r.imageData
}

func (r *ModelReply) SetImageData(imageData *valueobjects.ImageData) {
	if r.imageData == nil {
		r.imageData = imageData
	}
}

func (r *ModelReply) HasImage() bool {
	return r.imageData != nil
}
