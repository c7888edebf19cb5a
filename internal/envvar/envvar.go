package envvar

const (
	// VoskcoreEnv is the environment variable used to determine the environment
	VoskcoreEnv = "VOSKCORE_ENV"

	// VoskcoreGRPCPort is the environment variable used to determine the gRPC port
	VoskcoreGRPCPort = "VOSKCORE_GRPC_PORT"

	// VoskcoreBundleRoot overrides the read-only bundled resource root
	VoskcoreBundleRoot = "VOSKCORE_BUNDLE_ROOT"

	// VoskcoreModelsPath overrides the writable directory models are unpacked into
	VoskcoreModelsPath = "VOSKCORE_MODELS_PATH"
)
