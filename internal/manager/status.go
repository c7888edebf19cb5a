package manager

// Status is the current loading status of the managed model.
type Status string

const (
	// StatusUnloaded indicates that no model is loaded.
	StatusUnloaded Status = "unloaded"

	// StatusLoading indicates that a model is being loaded.
	StatusLoading Status = "loading"

	// StatusLoaded indicates that a model is loaded.
	StatusLoaded Status = "loaded"

	// StatusFailed indicates that the last load failed.
	StatusFailed Status = "failed"

	// StatusUnloading indicates that the model is being released.
	StatusUnloading Status = "unloading"
)
