package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/voxengine/voxengine/internal/queue"
	"github.com/voxengine/voxengine/internal/service"
)

type (
	RenderSceneInput struct {
		Body struct {
			ProjectPath string            `json:"project_path"`
			SceneID     string            `json:"scene_id"`
			VoiceMap    map[string]string `json:"voice_map,omitempty"`
			Backend     string            `json:"backend,omitempty"`
		}
	}

	RenderSceneOutput struct {
		Body struct {
			JobID string `json:"job_id"`
		}
	}

	JobStatusInput struct {
		ID string `path:"id" doc:"Job identity returned by an async route"`
	}

	JobStatusOutput struct {
		Body queue.Job
	}
)

// RenderHandler serves scene rendering and job polling.
type RenderHandler struct {
	queue  *queue.Queue
	render *service.RenderService
}

// NewRenderHandler creates a RenderHandler and registers its routes.
func NewRenderHandler(api huma.API, q *queue.Queue, render *service.RenderService) *RenderHandler {
	h := &RenderHandler{queue: q, render: render}

	huma.Register(api, huma.Operation{
		OperationID:   "render-scene",
		Method:        http.MethodPost,
		Path:          "/v1/render/scene",
		Summary:       "Render a scripted scene as a background job",
		Tags:          []string{"render"},
		DefaultStatus: http.StatusAccepted,
	}, h.handleRenderScene)

	huma.Register(api, huma.Operation{
		OperationID:   "job-status",
		Method:        http.MethodGet,
		Path:          "/v1/render/jobs/{id}",
		Summary:       "Poll a background job",
		Tags:          []string{"render"},
		DefaultStatus: http.StatusOK,
	}, h.handleJobStatus)

	return h
}

func (h *RenderHandler) handleRenderScene(_ context.Context, input *RenderSceneInput) (*RenderSceneOutput, error) {
	jobID, err := h.render.RenderSceneAsync(
		input.Body.ProjectPath,
		input.Body.SceneID,
		input.Body.VoiceMap,
		input.Body.Backend,
	)
	if err != nil {
		return nil, apiError(err)
	}

	out := &RenderSceneOutput{}
	out.Body.JobID = jobID

	return out, nil
}

func (h *RenderHandler) handleJobStatus(_ context.Context, input *JobStatusInput) (*JobStatusOutput, error) {
	job, err := h.queue.Get(input.ID)
	if err != nil {
		return nil, apiError(err)
	}

	return &JobStatusOutput{Body: job}, nil
}
