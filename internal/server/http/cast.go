package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/voxengine/voxengine/internal/project"
)

type (
	CastRegisterInput struct {
		Body struct {
			ProjectPath      string            `json:"project_path"`
			ActorName        string            `json:"actor_name"`
			ReferenceWAVPath string            `json:"reference_wav_path"`
			Consent          map[string]string `json:"consent,omitempty"`
		}
	}

	CastRegisterOutput struct {
		Body struct {
			VoiceID string `json:"voice_id"`
		}
	}

	ValidateProjectInput struct {
		Body struct {
			ProjectPath string `json:"project_path"`
		}
	}

	ValidateProjectOutput struct {
		Body struct {
			OK          bool   `json:"ok"`
			ProjectPath string `json:"project_path"`
		}
	}
)

// CastHandler serves cast registration and project validation.
type CastHandler struct {
	cast *project.CastManager
}

// NewCastHandler creates a CastHandler and registers its routes.
func NewCastHandler(api huma.API, cast *project.CastManager) *CastHandler {
	h := &CastHandler{cast: cast}

	huma.Register(api, huma.Operation{
		OperationID:   "cast-register",
		Method:        http.MethodPost,
		Path:          "/cast/register",
		Summary:       "Register a cast voice for a project",
		Tags:          []string{"cast"},
		DefaultStatus: http.StatusOK,
	}, h.handleRegister)

	huma.Register(api, huma.Operation{
		OperationID:   "validate-project",
		Method:        http.MethodPost,
		Path:          "/projects/validate",
		Summary:       "Validate a project's on-disk layout",
		Tags:          []string{"projects"},
		DefaultStatus: http.StatusOK,
	}, h.handleValidate)

	return h
}

func (h *CastHandler) handleRegister(_ context.Context, input *CastRegisterInput) (*CastRegisterOutput, error) {
	voiceID, err := h.cast.Register(
		input.Body.ProjectPath,
		input.Body.ActorName,
		input.Body.ReferenceWAVPath,
		input.Body.Consent,
	)
	if err != nil {
		return nil, apiError(err)
	}

	out := &CastRegisterOutput{}
	out.Body.VoiceID = voiceID

	return out, nil
}

func (h *CastHandler) handleValidate(_ context.Context, input *ValidateProjectInput) (*ValidateProjectOutput, error) {
	if err := project.Validate(input.Body.ProjectPath); err != nil {
		return nil, apiError(err)
	}

	out := &ValidateProjectOutput{}
	out.Body.OK = true
	out.Body.ProjectPath = input.Body.ProjectPath

	return out, nil
}
