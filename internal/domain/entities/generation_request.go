package entities

import (
	"fmt"
	"time"

	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

// MaxImageDimension bounds the images sent to the provider. Larger uploads
// are downscaled in PrepareImages to stay under the request size limit.
const MaxImageDimension = 1536

type GenerationRequestID string

// GenerationRequest is one try-on invocation: the subject photo, the garment
// photo, the generation parameters and the caller's credential. Never
// persisted beyond the in-memory session.
type GenerationRequest struct {
	id           GenerationRequestID
	subjectImage *valueobjects.ImageData
	garmentImage *valueobjects.ImageData
	parameters   *valueobjects.GenerationParameters
	credential   string
	createdAt    time.Time
}

func NewGenerationRequest(
	subjectImage *valueobjects.ImageData,
	garmentImage *valueobjects.ImageData,
	parameters *valueobjects.GenerationParameters,
	credential string,
) (*GenerationRequest, error) {
	if subjectImage == nil {
		return nil, fmt.Errorf("subject image is required")
	}

	if garmentImage == nil {
		return nil, fmt.Errorf("garment image is required")
	}

	if parameters == nil {
		parameters = valueobjects.DefaultGenerationParameters()
	}

	id := GenerationRequestID(fmt.Sprintf("req_%d", time.Now().UnixNano()))

	return &GenerationRequest{
		id:           id,
		subjectImage: subjectImage,
		garmentImage: garmentImage,
		parameters:   parameters,
		credential:   credential,
		createdAt:    time.Now(),
	}, nil
}

func (r *GenerationRequest) ID() GenerationRequestID {
	return r.id
}

func (r *GenerationRequest) SubjectImage() *valueobjects.ImageData {
	return r.subjectImage
}

func (r *GenerationRequest) GarmentImage() *valueobjects.ImageData {
	return r.garmentImage
}

func (r *GenerationRequest) Parameters() *valueobjects.GenerationParameters {
	return r.parameters
}

func (r *GenerationRequest) Credential() string {
	return r.credential
}

func (r *GenerationRequest) CreatedAt() time.Time {
	return r.createdAt
}

// PrepareImages normalizes both images to bounded JPEG before the provider
// call.
func (r *GenerationRequest) PrepareImages() error {
	var err error

	r.subjectImage, err = r.subjectImage.FitWithin(MaxImageDimension)
	if err != nil {
		return fmt.Errorf("failed to prepare subject image: %w", err)
	}

	r.garmentImage, err = r.garmentImage.FitWithin(MaxImageDimension)
	if err != nil {
		return fmt.Errorf("failed to prepare garment image: %w", err)
	}

	return nil
}
