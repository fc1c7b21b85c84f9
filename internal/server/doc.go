// Package server provides HTTP routing, middleware, and the dashboard API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # API Handlers
//
// Four handlers cover the dashboard surface:
//   - [ProjectHandler] : project listing, source sync, summaries, extraction start, job history
//   - [JobHandler] : job status lookups
//   - [ConnectionHandler] : connection CRUD and credential testing
//   - [StatusHandler] : health checks and aggregate statistics
//
// Extraction starts return 202 Accepted with the queued job; clients follow
// up via GET /api/jobs/{id}. A second start for a pair with an active job
// returns 409 Conflict.
//
// # Error Mapping
//
// Domain errors from the shared package map onto status codes in one place
// (writeError): conflicts to 409, missing records to 404, bad input to 400,
// upstream failures to 502/504. Handlers return domain errors and never set
// status codes for failures themselves.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
