package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/engine"
)

type (
	HealthOutput struct {
		Body struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}
	}

	DoctorOutput struct {
		Body engine.Diagnostics
	}

	BackendsOutput struct {
		Body struct {
			TTS []adapter.Descriptor `json:"tts"`
		}
	}
)

// HealthHandler serves liveness and diagnostics routes.
type HealthHandler struct {
	engine *engine.Engine
}

// NewHealthHandler creates a HealthHandler and registers its routes.
func NewHealthHandler(api huma.API, eng *engine.Engine) *HealthHandler {
	h := &HealthHandler{engine: eng}

	huma.Register(api, huma.Operation{
		OperationID:   "health",
		Method:        http.MethodGet,
		Path:          "/health",
		Summary:       "Liveness probe",
		Tags:          []string{"system"},
		DefaultStatus: http.StatusOK,
	}, h.handleHealth)

	huma.Register(api, huma.Operation{
		OperationID:   "doctor",
		Method:        http.MethodGet,
		Path:          "/doctor",
		Summary:       "Engine health and adapter availability",
		Tags:          []string{"system"},
		DefaultStatus: http.StatusOK,
	}, h.handleDoctor)

	huma.Register(api, huma.Operation{
		OperationID:   "list-backends",
		Method:        http.MethodGet,
		Path:          "/v1/backends",
		Summary:       "List registered TTS backends",
		Tags:          []string{"system"},
		DefaultStatus: http.StatusOK,
	}, h.handleBackends)

	return h
}

func (h *HealthHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Version = engine.Version

	return out, nil
}

func (h *HealthHandler) handleDoctor(_ context.Context, _ *struct{}) (*DoctorOutput, error) {
	diag, err := h.engine.Doctor()
	if err != nil {
		return nil, apiError(err)
	}

	return &DoctorOutput{Body: *diag}, nil
}

func (h *HealthHandler) handleBackends(_ context.Context, _ *struct{}) (*BackendsOutput, error) {
	out := &BackendsOutput{}
	out.Body.TTS = h.engine.Registry().List()

	return out, nil
}
