package envvar

const (
	// VoxEngineEnv is the environment variable used to determine the environment
	VoxEngineEnv = "VOXENGINE_ENV"

	// VoxEngineCacheDir overrides the cache directory for audio and metadata
	VoxEngineCacheDir = "VOXENGINE_CACHE_DIR"

	// VoxEngineModelsDir overrides the voice models directory
	VoxEngineModelsDir = "VOXENGINE_MODELS_DIR"

	// VoxEngineLogLevel controls log verbosity (debug, info, warn, error)
	VoxEngineLogLevel = "VOXENGINE_LOG_LEVEL"
)
