// Package http exposes the engine over a JSON API: health, diagnostics,
// synchronous and asynchronous speech, cast registration, and render jobs.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/project"
	"github.com/voxengine/voxengine/internal/queue"
	"github.com/voxengine/voxengine/internal/service"
	"github.com/voxengine/voxengine/internal/voxerr"
)

// Deps are the services the API serves. Everything is injected; the server
// holds no ambient state.
type Deps struct {
	Engine *engine.Engine
	Queue  *queue.Queue
	Speak  *service.SpeakService
	Render *service.RenderService
	Cast   *project.CastManager
}

// NewServer builds the HTTP server bound to host:port.
func NewServer(host string, port int, deps Deps) *http.Server {
	mux := http.NewServeMux()

	cfg := huma.DefaultConfig("VoxEngine", engine.Version)
	cfg.Info.Description = "Offline-first studio backend for local TTS with cast libraries."
	api := humago.New(mux, cfg)

	RegisterRoutes(api, deps)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RegisterRoutes attaches every route to the API. Split out so tests can
// register against a humatest API.
func RegisterRoutes(api huma.API, deps Deps) {
	NewHealthHandler(api, deps.Engine)
	NewTTSHandler(api, deps.Engine, deps.Speak)
	NewCastHandler(api, deps.Cast)
	NewRenderHandler(api, deps.Queue, deps.Render)
}

// apiError maps the taxonomy onto HTTP statuses: InvalidInput and
// PolicyDenied → 400, MissingDependency → 503, everything else → 500.
func apiError(err error) error {
	if errors.Is(err, queue.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var ve *voxerr.Error
	if errors.As(err, &ve) {
		switch ve.Kind {
		case voxerr.KindInvalidInput, voxerr.KindPolicyDenied:
			return huma.Error400BadRequest(ve.Error())
		case voxerr.KindMissingDependency:
			return huma.Error503ServiceUnavailable(ve.Error())
		}
	}

	return huma.Error500InternalServerError(err.Error())
}
