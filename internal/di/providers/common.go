package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// maintenanceInterval spaces WAL checkpoints and cache garbage collection.
	maintenanceInterval = time.Hour
)
