package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	appservices "github.com/jianancybercoder/nextDoppl/internal/application/services"
	"github.com/jianancybercoder/nextDoppl/internal/application/usecases"
	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	domainservices "github.com/jianancybercoder/nextDoppl/internal/domain/services"
	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
	"github.com/jianancybercoder/nextDoppl/internal/infrastructure/repositories"
)

type stubAIService struct {
	reply *entities.ModelReply
	err   error
	delay time.Duration
}

func (s *stubAIService) Generate(ctx context.Context, request *entities.GenerationRequest) (*entities.ModelReply, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.reply, s.err
}

func newTestRouter(t *testing.T, ai *stubAIService) *mux.Router {
	t.Helper()

	sessions := repositories.NewCacheSessionRepository(time.Minute, time.Minute)
	useCase := usecases.NewTryOnUseCase(
		sessions,
		domainservices.NewTryOnDomainService(ai),
		appservices.NewPhaseSimulator(sessions),
	)
	handler := NewTryOnHandler(useCase, appservices.NewParameterService(), "")

	r := mux.NewRouter()
	r.HandleFunc("/", handler.HandleIndex).Methods("GET")
	r.HandleFunc("/tryon", handler.HandleTryOn).Methods("POST")
	r.HandleFunc("/tryon/async", handler.HandleTryOnAsync).Methods("POST")
	r.HandleFunc("/tryon/{id}", handler.HandleStatus).Methods("GET")
	r.HandleFunc("/healthz", handler.HandleHealth).Methods("GET")
	return r
}

func testReply(t *testing.T) *entities.ModelReply {
	t.Helper()

	reply := entities.NewModelReply()
	reply.SetImageData(testPNGImage(t))
	reply.AppendText("```json\n{\"comfort\": \"Cozy\", \"scores\": {\"comfort\": 8}}\n```")
	return reply
}

func testPNGImage(t *testing.T) *valueobjects.ImageData {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	imageData, err := valueobjects.NewImageData(buf.Bytes(), "")
	if err != nil {
		t.Fatalf("Failed to create image data: %v", err)
	}
	return imageData
}

func multipartBody(t *testing.T, apiKey string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range []string{"subject_image", "garment_image"} {
		part, err := writer.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(testPNGImage(t).Data()); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if apiKey != "" {
		writer.WriteField("api_key", apiKey)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandleTryOn(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		router := newTestRouter(t, &stubAIService{reply: testReply(t)})

		body, contentType := multipartBody(t, "AIzaTestKey")
		req := httptest.NewRequest("POST", "/tryon", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response tryOnResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Success {
			t.Error("Expected success")
		}
		if response.Image.Data == "" {
			t.Error("Expected image data")
		}
		if response.Analysis.Scores.Comfort != 8 {
			t.Errorf("Expected comfort score 8, got %d", response.Analysis.Scores.Comfort)
		}
		if response.Analysis.Weight != entities.ParseFailedPlaceholder {
			t.Errorf("Expected weight placeholder, got %q", response.Analysis.Weight)
		}
	})

	t.Run("invalid api key is rejected with 401", func(t *testing.T) {
		router := newTestRouter(t, &stubAIService{reply: testReply(t)})

		body, contentType := multipartBody(t, "sk-test")
		req := httptest.NewRequest("POST", "/tryon", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing upload is a 400", func(t *testing.T) {
		router := newTestRouter(t, &stubAIService{reply: testReply(t)})

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("api_key", "AIzaTestKey")
		writer.Close()

		req := httptest.NewRequest("POST", "/tryon", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("header key takes precedence over the form", func(t *testing.T) {
		router := newTestRouter(t, &stubAIService{reply: testReply(t)})

		body, contentType := multipartBody(t, "sk-test")
		req := httptest.NewRequest("POST", "/tryon", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-API-Key", "AIzaHeaderKey")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestHandleTryOnAsync(t *testing.T) {
	router := newTestRouter(t, &stubAIService{reply: testReply(t), delay: 30 * time.Millisecond})

	body, contentType := multipartBody(t, "AIzaTestKey")
	req := httptest.NewRequest("POST", "/tryon/async", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if accepted.RequestID == "" {
		t.Fatal("Expected a request id")
	}

	// Poll until the detached generation completes.
	deadline := time.Now().Add(2 * time.Second)
	for {
		statusReq := httptest.NewRequest("GET", "/tryon/"+accepted.RequestID, nil)
		statusRec := httptest.NewRecorder()
		router.ServeHTTP(statusRec, statusReq)

		if statusRec.Code != http.StatusOK {
			t.Fatalf("Expected 200 from status, got %d", statusRec.Code)
		}

		var status statusResponse
		if err := json.Unmarshal(statusRec.Body.Bytes(), &status); err != nil {
			t.Fatalf("Failed to decode status: %v", err)
		}

		if status.State == "complete" {
			if status.Result == nil || status.Result.Image.Data == "" {
				t.Fatal("Expected a result with image data")
			}
			if status.Result.Analysis.Scores.Comfort != 8 {
				t.Errorf("Expected comfort score 8, got %d", status.Result.Analysis.Scores.Comfort)
			}
			return
		}
		if status.State == "failed" {
			t.Fatalf("Generation failed: %+v", status.Error)
		}
		if status.State == "running" && status.Phase == nil {
			t.Error("Expected a phase while running")
		}

		if time.Now().After(deadline) {
			t.Fatal("Generation did not complete in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandleStatus_Unknown(t *testing.T) {
	router := newTestRouter(t, &stubAIService{})

	req := httptest.NewRequest("GET", "/tryon/req_missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(NewRateLimitMiddleware(1, 1))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/healthz", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/healthz", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected second request limited, got %d", second.Code)
	}
}
