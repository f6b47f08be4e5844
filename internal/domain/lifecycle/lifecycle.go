// Package lifecycle holds shared constants for component start-up and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start-up and shutdown of infrastructure
// components (HTTP server drain, database ping, etc.).
const DefaultTimeout = 10 * time.Second
