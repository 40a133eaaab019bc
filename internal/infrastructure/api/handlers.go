package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jianancybercoder/nextDoppl/internal/application/services"
	"github.com/jianancybercoder/nextDoppl/internal/application/usecases"
	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	domainrepos "github.com/jianancybercoder/nextDoppl/internal/domain/repositories"
)

const maxUploadBytes = 32 << 20

type TryOnHandler struct {
	useCase          *usecases.TryOnUseCase
	parameterService *services.ParameterService
	defaultAPIKey    string
}

func NewTryOnHandler(useCase *usecases.TryOnUseCase, parameterService *services.ParameterService, defaultAPIKey string) *TryOnHandler {
	return &TryOnHandler{
		useCase:          useCase,
		parameterService: parameterService,
		defaultAPIKey:    defaultAPIKey,
	}
}

type imageResponse struct {
	Data string `json:"data"`
	Type string `json:"type"`
}

type scoresResponse struct {
	Comfort       int `json:"comfort"`
	Heaviness     int `json:"heaviness"`
	Softness      int `json:"softness"`
	Breathability int `json:"breathability"`
	Elasticity    int `json:"elasticity"`
}

type analysisResponse struct {
	Comfort       string         `json:"comfort"`
	Weight        string         `json:"weight"`
	Touch         string         `json:"touch"`
	Breathability string         `json:"breathability"`
	Scores        scoresResponse `json:"scores"`
	RawText       string         `json:"raw_text"`
}

type tryOnResponse struct {
	Success   bool             `json:"success"`
	RequestID string           `json:"request_id"`
	Image     imageResponse    `json:"image"`
	Analysis  analysisResponse `json:"analysis"`
}

type phaseResponse struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

type statusResponse struct {
	State  string         `json:"state"`
	Phase  *phaseResponse `json:"phase,omitempty"`
	Result *tryOnResponse `json:"result,omitempty"`
	Error  *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleTryOn runs a generation synchronously and returns the composited
// image plus the analysis report.
func (h *TryOnHandler) HandleTryOn(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	output, err := h.useCase.Execute(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, outputResponse(output))
}

// HandleTryOnAsync accepts the same input, answers 202 with the request id
// immediately and finishes the generation detached. Progress is observable
// via HandleStatus.
func (h *TryOnHandler) HandleTryOnAsync(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	request, err := h.useCase.Prepare(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Detach from the HTTP request: the client polls for the outcome and
	// the real call must run to completion regardless.
	runCtx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.useCase.Run(runCtx, request); err != nil {
			slog.Info("generation failed", "requestID", request.ID(), "code", entities.CodeOf(err))
		}
	}()

	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"success":    true,
		"request_id": string(request.ID()),
	})
}

// HandleStatus reports the session snapshot: the simulated phase while
// running, then the result or the classified error.
func (h *TryOnHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id := entities.GenerationRequestID(mux.Vars(r)["id"])

	snapshot, err := h.useCase.Snapshot(r.Context(), id)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, statusResponse{
			State: "unknown",
			Error: &errorResponse{Code: "not_found", Message: "unknown request id"},
		})
		return
	}

	response := statusResponse{State: string(snapshot.State)}
	switch snapshot.State {
	case domainrepos.SessionRunning:
		response.Phase = &phaseResponse{
			Name:   snapshot.Phase.String(),
			Label:  snapshot.Phase.Label(),
			Detail: snapshot.Phase.Detail(),
		}
	case domainrepos.SessionComplete:
		result := tryOnResponse{
			Success:   true,
			RequestID: string(snapshot.Result.RequestID()),
			Image: imageResponse{
				Data: snapshot.Result.Image().ToBase64(),
				Type: snapshot.Result.Image().MimeType(),
			},
			Analysis: analysisJSON(snapshot.Result.Analysis()),
		}
		response.Result = &result
	case domainrepos.SessionFailed:
		response.Error = &errorResponse{
			Code:    string(snapshot.ErrorCode),
			Message: snapshot.ErrorMessage,
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *TryOnHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TryOnHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, indexHTML)
}

func (h *TryOnHandler) parseInput(r *http.Request) (usecases.TryOnInput, error) {
	var input usecases.TryOnInput

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return input, entities.NewGenerationError(entities.ErrCodeFileRead,
			"could not read the uploaded form", err)
	}

	subject, err := h.readUpload(r, "subject_image")
	if err != nil {
		return input, err
	}

	garment, err := h.readUpload(r, "garment_image")
	if err != nil {
		return input, err
	}

	input.SubjectImage = subject
	input.GarmentImage = garment
	input.Parameters = h.parameterService.ParseFromRequest(r)
	input.Credential = h.credential(r)
	return input, nil
}

func (h *TryOnHandler) readUpload(r *http.Request, field string) (usecases.ImagePayload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return usecases.ImagePayload{}, entities.NewGenerationError(entities.ErrCodeFileRead,
			"missing upload: "+field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return usecases.ImagePayload{}, entities.NewGenerationError(entities.ErrCodeFileRead,
			"could not read upload: "+field, err)
	}

	return usecases.ImagePayload{
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

func (h *TryOnHandler) credential(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if key := r.FormValue("api_key"); key != "" {
		return key
	}
	return h.defaultAPIKey
}

func (h *TryOnHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func (h *TryOnHandler) writeError(w http.ResponseWriter, err error) {
	code := entities.ErrCodeProvider
	message := err.Error()

	var genErr *entities.GenerationError
	if errors.As(err, &genErr) {
		code = genErr.Code
		message = genErr.Message
	}

	h.writeJSON(w, statusForCode(code), map[string]any{
		"success": false,
		"error":   errorResponse{Code: string(code), Message: message},
	})
}

func statusForCode(code entities.ErrorCode) int {
	switch code {
	case entities.ErrCodeInvalidCredential:
		return http.StatusUnauthorized
	case entities.ErrCodeAuthorizationDenied:
		return http.StatusForbidden
	case entities.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case entities.ErrCodeInvalidRequest, entities.ErrCodeFileRead:
		return http.StatusBadRequest
	case entities.ErrCodeNoImageProduced:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func outputResponse(output *usecases.TryOnOutput) tryOnResponse {
	return tryOnResponse{
		Success:   true,
		RequestID: string(output.RequestID),
		Image: imageResponse{
			Data: base64.StdEncoding.EncodeToString(output.Image.Data),
			Type: output.Image.MimeType,
		},
		Analysis: analysisJSON(output.Analysis),
	}
}

func analysisJSON(report *entities.AnalysisReport) analysisResponse {
	scores := report.Scores()
	return analysisResponse{
		Comfort:       report.Comfort(),
		Weight:        report.Weight(),
		Touch:         report.Touch(),
		Breathability: report.Breathability(),
		Scores: scoresResponse{
			Comfort:       scores.Comfort,
			Heaviness:     scores.Heaviness,
			Softness:      scores.Softness,
			Breathability: scores.Breathability,
			Elasticity:    scores.Elasticity,
		},
		RawText: report.RawText(),
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>nextDoppl - Virtual Try-On</title></head>
<body>
<h1>nextDoppl</h1>
<p>Upload a subject photo and a garment photo to see the fit and a sensory analysis.</p>
<form action="/tryon" method="post" enctype="multipart/form-data">
  <p><label>Subject photo: <input type="file" name="subject_image" required></label></p>
  <p><label>Garment photo: <input type="file" name="garment_image" required></label></p>
  <p><label>Instruction (optional): <input type="text" name="instruction" size="60"></label></p>
  <p><label>Model (optional): <input type="text" name="model" size="40"></label></p>
  <p><label>API key: <input type="password" name="api_key"></label></p>
  <p><button type="submit">Try it on</button></p>
</form>
</body>
</html>
`
