package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"

	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/service"
)

type (
	SpeakRequestDTO struct {
		Text      string `json:"text"`
		Backend   string `json:"backend,omitempty"`
		ModelPath string `json:"model_path,omitempty"`
		Voice     string `json:"voice,omitempty"`
		Profile   string `json:"profile,omitempty"`
		OutFormat string `json:"out_format,omitempty"`
	}

	SpeakResponseDTO struct {
		engine.Result
		DownloadURL string `json:"download_url"`
	}
)

type (
	SpeakInput struct {
		Body SpeakRequestDTO
	}

	SpeakOutput struct {
		Body SpeakResponseDTO
	}

	SpeakAsyncOutput struct {
		Body struct {
			JobID string `json:"job_id"`
		}
	}

	FileInput struct {
		Path string `query:"path" doc:"Path of a generated audio file"`
	}
)

// TTSHandler serves the speech routes.
type TTSHandler struct {
	engine *engine.Engine
	speak  *service.SpeakService
}

// NewTTSHandler creates a TTSHandler and registers its routes. The speak
// route is mounted at both its legacy and versioned paths.
func NewTTSHandler(api huma.API, eng *engine.Engine, speak *service.SpeakService) *TTSHandler {
	h := &TTSHandler{engine: eng, speak: speak}

	huma.Register(api, huma.Operation{
		OperationID:   "tts-speak",
		Method:        http.MethodPost,
		Path:          "/tts/speak",
		Summary:       "Synthesize speech to a file",
		Tags:          []string{"tts"},
		DefaultStatus: http.StatusOK,
	}, h.handleSpeak)

	huma.Register(api, huma.Operation{
		OperationID:   "tts-speak-v1",
		Method:        http.MethodPost,
		Path:          "/v1/tts/speak",
		Summary:       "Synthesize speech to a file",
		Tags:          []string{"tts"},
		DefaultStatus: http.StatusOK,
	}, h.handleSpeak)

	huma.Register(api, huma.Operation{
		OperationID:   "tts-speak-async",
		Method:        http.MethodPost,
		Path:          "/v1/tts/speak_async",
		Summary:       "Queue speech synthesis as a background job",
		Tags:          []string{"tts"},
		DefaultStatus: http.StatusAccepted,
	}, h.handleSpeakAsync)

	huma.Register(api, huma.Operation{
		OperationID: "tts-file",
		Method:      http.MethodGet,
		Path:        "/tts/file",
		Summary:     "Download a generated audio file",
		Tags:        []string{"tts"},
	}, h.handleFile)

	return h
}

func (h *TTSHandler) handleSpeak(ctx context.Context, input *SpeakInput) (*SpeakOutput, error) {
	result, err := h.engine.Synthesize(ctx, requestFromDTO(input.Body))
	if err != nil {
		return nil, apiError(err)
	}

	return &SpeakOutput{
		Body: SpeakResponseDTO{
			Result:      *result,
			DownloadURL: fmt.Sprintf("/tts/file?path=%s", result.AudioPath),
		},
	}, nil
}

func (h *TTSHandler) handleSpeakAsync(_ context.Context, input *SpeakInput) (*SpeakAsyncOutput, error) {
	jobID, err := h.speak.SpeakAsync(requestFromDTO(input.Body))
	if err != nil {
		return nil, apiError(err)
	}

	out := &SpeakAsyncOutput{}
	out.Body.JobID = jobID

	return out, nil
}

// handleFile streams the file at the caller-supplied path, the same path a
// speak response reported in download_url. The path is not confined to the
// cache directory; the server binds to loopback and trusts its local caller.
func (h *TTSHandler) handleFile(_ context.Context, input *FileInput) (*huma.StreamResponse, error) {
	f, err := os.Open(input.Path)
	if err != nil {
		return nil, huma.Error404NotFound("audio file not found")
	}

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			defer f.Close()
			ctx.SetHeader("Content-Type", "audio/wav")
			ctx.SetHeader("Content-Disposition", `attachment; filename="speech.wav"`)
			if _, err := io.Copy(ctx.BodyWriter(), f); err != nil {
				// Connection gone; nothing left to report to the client.
				return
			}
		},
	}, nil
}

func requestFromDTO(dto SpeakRequestDTO) engine.SpeakRequest {
	return engine.SpeakRequest{
		Text:      dto.Text,
		Backend:   dto.Backend,
		ModelPath: dto.ModelPath,
		Voice:     dto.Voice,
		Profile:   dto.Profile,
		Format:    dto.OutFormat,
	}
}
