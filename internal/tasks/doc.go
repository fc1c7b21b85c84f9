// Package tasks orchestrates artifact extraction jobs with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines the extraction surface:
//
//  1. [Engine.Start] : Asynchronous single-artifact extraction
//     - Claims the (project, artifact type) slot or fails with a conflict
//     - Processes on a background goroutine detached from the caller
//     - Settles the job and folds the outcome into the project summary
//
//  2. [Engine.Run] : Synchronous single-artifact extraction
//     - Same semantics as Start but blocks until the job settles
//
//  3. [Engine.ExtractBatch] : Concurrent multi-artifact extraction
//     - Worker pool with rate limiting over the artifact type list
//     - Pairs already holding an active job are skipped, not failed
//     - Returns per-artifact outcomes plus aggregate counts
//
// # Job Lifecycle
//
// Every extraction is one [models.ExtractionJob] row moving queued →
// in_progress → {completed, failed}. At most one non-terminal job exists per
// (project, artifact type) pair; the database enforces this, so a second
// start while one is active fails with [shared.ErrJobConflict]. Jobs are
// never deleted and double as the project's extraction history.
//
// A per-fetch timeout bounds every upstream read. A fetch that exceeds it
// settles the job as failed with a timeout message rather than leaving it
// in_progress forever.
//
// # Summary Aggregation
//
// The [Aggregator] folds each terminal job into the owning project:
// completed jobs store the count and a bounded item preview, failed jobs
// overwrite the previous summary with the error state. Folds replace the
// summary for that artifact type wholesale and never touch other types.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, artifact type, job id, step
// counters, and messages for display. Updates use select with default to
// prevent blocking.
package tasks
