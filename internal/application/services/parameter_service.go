package services

import (
	"net/http"

	"github.com/jianancybercoder/nextDoppl/internal/application/usecases"
)

// ParameterService extracts the optional generation knobs from an HTTP
// request, with defaults for anything the form omits.
type ParameterService struct{}

func NewParameterService() *ParameterService {
	return &ParameterService{}
}

func (s *ParameterService) ParseFromRequest(r *http.Request) *usecases.TryOnParametersInput {
	return &usecases.TryOnParametersInput{
		Model:       s.getString(r, "model", ""),
		Instruction: s.getString(r, "instruction", ""),
	}
}

func (s *ParameterService) getString(r *http.Request, key, defaultValue string) string {
	value := r.FormValue(key)
	if value == "" {
		return defaultValue
	}
	return value
}
