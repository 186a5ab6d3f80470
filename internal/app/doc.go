// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the dataset loader, services, handlers and the chi router.
//
// Middleware order on every request:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer →
//	SecurityHeaders → CORS → RateLimiter
//
// API routes add panic-to-problem recovery and a request timeout; the
// dashboard routes also compress responses and check request bodies.
//
// Run serves until the context is cancelled or SIGINT/SIGTERM arrives, then
// shuts the server and telemetry providers down.
package app
